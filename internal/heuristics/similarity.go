package heuristics

import "strings"

// Address Similarity
//
// Poisoning attackers grind vanity addresses whose first and last hex
// characters match the victim's, because wallet UIs truncate the middle
// of an address. Two measures are combined:
//
//  1. Prefix/suffix run length — how many leading and trailing hex
//     characters match, each capped at SimilarityWindow. This is the
//     signal poisoning kits optimize for.
//  2. Levenshtein distance over the full 40-char hex body, normalized
//     to a 0-1 ratio. Catches lookalikes that differ mid-string.

// SimilarityWindow is the number of leading/trailing characters
// compared for the prefix/suffix measure.
const SimilarityWindow = 5

// AddressSimilarity holds both similarity measures for a pair of addresses.
type AddressSimilarity struct {
	PrefixMatch int     `json:"prefixMatch"` // matching leading chars, capped at SimilarityWindow
	SuffixMatch int     `json:"suffixMatch"` // matching trailing chars, capped at SimilarityWindow
	Levenshtein int     `json:"levenshtein"` // edit distance over the hex bodies
	Ratio       float64 `json:"ratio"`       // 1 - levenshtein/maxLen, 0.0-1.0
}

// Score is the combined prefix+suffix run length (0 to 2*SimilarityWindow).
func (s AddressSimilarity) Score() int {
	return s.PrefixMatch + s.SuffixMatch
}

// CompareAddresses computes the similarity between two hex addresses.
// Comparison is case-insensitive and ignores the 0x prefix.
func CompareAddresses(a, b string) AddressSimilarity {
	a = stripHexPrefix(a)
	b = stripHexPrefix(b)

	sim := AddressSimilarity{}

	limit := min(len(a), len(b))
	for i := 0; i < min(SimilarityWindow, limit); i++ {
		if a[i] != b[i] {
			break
		}
		sim.PrefixMatch++
	}
	for i := 1; i <= min(SimilarityWindow, limit); i++ {
		if a[len(a)-i] != b[len(b)-i] {
			break
		}
		sim.SuffixMatch++
	}

	sim.Levenshtein = levenshtein(a, b)
	if maxLen := max(len(a), len(b)); maxLen > 0 {
		sim.Ratio = 1.0 - float64(sim.Levenshtein)/float64(maxLen)
	}
	return sim
}

func stripHexPrefix(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

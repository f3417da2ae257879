package heuristics

import "testing"

func TestCompareAddresses_PoisoningPair(t *testing.T) {
	// A ground vanity address: first 5 and last 5 hex chars match, middle differs
	victim := "0x7a16f111111111111111111111111111111f5428"
	lookalike := "0x7a16f222222222222222222222222222222f5428"

	sim := CompareAddresses(victim, lookalike)

	if sim.PrefixMatch != SimilarityWindow {
		t.Errorf("Expected PrefixMatch=%d, got %d", SimilarityWindow, sim.PrefixMatch)
	}
	if sim.SuffixMatch != SimilarityWindow {
		t.Errorf("Expected SuffixMatch=%d, got %d", SimilarityWindow, sim.SuffixMatch)
	}
	if sim.Score() != 2*SimilarityWindow {
		t.Errorf("Expected Score=%d, got %d", 2*SimilarityWindow, sim.Score())
	}
}

func TestCompareAddresses_Unrelated(t *testing.T) {
	a := "0xa000000000000000000000000000000000000001"
	b := "0xbffffffffffffffffffffffffffffffffffffff2"

	sim := CompareAddresses(a, b)

	if sim.PrefixMatch != 0 {
		t.Errorf("Expected PrefixMatch=0 for unrelated addresses, got %d", sim.PrefixMatch)
	}
	if sim.SuffixMatch != 0 {
		t.Errorf("Expected SuffixMatch=0 for unrelated addresses, got %d", sim.SuffixMatch)
	}
	if sim.Ratio > 0.5 {
		t.Errorf("Expected low Levenshtein ratio for unrelated addresses, got %f", sim.Ratio)
	}
}

func TestCompareAddresses_CaseAndPrefixInsensitive(t *testing.T) {
	a := "0xABCDEF0000000000000000000000000000123456"
	b := "abcdef0000000000000000000000000000123456"

	sim := CompareAddresses(a, b)

	if sim.Levenshtein != 0 {
		t.Errorf("Expected identical addresses after normalization, got distance %d", sim.Levenshtein)
	}
	if sim.Ratio != 1.0 {
		t.Errorf("Expected Ratio=1.0 for identical addresses, got %f", sim.Ratio)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"deadbeef", "deadbeef", 0},
		{"deadbeef", "deadb33f", 2},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q): expected %d, got %d", tc.a, tc.b, tc.want, got)
		}
	}
}

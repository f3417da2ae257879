package heuristics

import (
	"sort"
	"time"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Transaction Pattern Scorer
//
// Composites the individual detector signals into a single 0-100 risk
// verdict for an address. Fixed-threshold weights:
//
//   rapid transaction bursts       +20
//   net outflow (sent >> received) +15
//   mixer usage                    +40
//   poisoning activity             +25
//
// Risk levels:
//   MINIMAL  (0-24)
//   LOW      (25-49)
//   MEDIUM   (50-74)
//   HIGH     (75-100)
//
// Invariant: the score always lands in [0,100] and the level is a pure
// function of the score.

// Risk level thresholds.
const (
	RiskScoreHigh   = 75
	RiskScoreMedium = 50
	RiskScoreLow    = 25
)

// rapidWindow is the max gap between two transactions for them to
// count as a rapid pair (automated behavior).
const rapidWindow = 60 * time.Second

// PatternResult is the composite risk verdict for an address.
type PatternResult struct {
	Address            string    `json:"address"`
	TotalTransactions  int       `json:"totalTransactions"`
	TotalEtherSent     float64   `json:"totalEtherSent"`
	TotalEtherReceived float64   `json:"totalEtherReceived"`
	RapidTransactions  int       `json:"rapidTransactions"`
	RiskScore          int       `json:"riskScore"` // 0-100
	RiskLevel          string    `json:"riskLevel"` // MINIMAL/LOW/MEDIUM/HIGH
	RiskFactors        []string  `json:"riskFactors"`
	AnalyzedAt         time.Time `json:"analyzedAt"`
}

// AnalyzeTransactionPattern scores an address from its transfer history
// plus the already-computed mixer and poisoning results. All three
// inputs derive from the same fetched history, so the scorer itself
// never touches the network.
func AnalyzeTransactionPattern(address string, transfers []models.Transfer, mixer MixerResult, poisoning PoisoningResult) PatternResult {
	address = models.NormalizeAddress(address)

	result := PatternResult{
		Address:     address,
		RiskFactors: []string{},
		AnalyzedAt:  time.Now().UTC(),
	}

	if len(transfers) == 0 {
		result.RiskLevel = riskLevelForScore(0)
		return result
	}

	result.TotalTransactions = len(transfers)
	for _, tr := range transfers {
		switch {
		case tr.From == address:
			result.TotalEtherSent += tr.ValueEther()
		case tr.To == address:
			result.TotalEtherReceived += tr.ValueEther()
		}
	}

	result.RapidTransactions = countRapidTransactions(transfers)

	score := 0
	if result.RapidTransactions > 10 {
		score += 20
		result.RiskFactors = append(result.RiskFactors, "High frequency of rapid transactions")
	}
	if result.TotalEtherSent > result.TotalEtherReceived*1.5 {
		score += 15
		result.RiskFactors = append(result.RiskFactors, "Significantly more value sent than received")
	}
	if mixer.MixerDetected {
		score += 40
		result.RiskFactors = append(result.RiskFactors, "Mixer usage detected")
	}
	if poisoning.TotalSuspicious > 0 {
		score += 25
		result.RiskFactors = append(result.RiskFactors, "Potential address poisoning activity")
	}

	result.RiskScore = clampScore(score)
	result.RiskLevel = riskLevelForScore(result.RiskScore)
	return result
}

// countRapidTransactions counts consecutive transaction pairs spaced
// less than rapidWindow apart.
func countRapidTransactions(transfers []models.Transfer) int {
	timestamps := make([]int64, 0, len(transfers))
	for _, tr := range transfers {
		if tr.TimeStamp > 0 {
			timestamps = append(timestamps, tr.TimeStamp)
		}
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	rapid := 0
	for i := 1; i < len(timestamps); i++ {
		if time.Duration(timestamps[i]-timestamps[i-1])*time.Second < rapidWindow {
			rapid++
		}
	}
	return rapid
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func riskLevelForScore(score int) string {
	switch {
	case score >= RiskScoreHigh:
		return "HIGH"
	case score >= RiskScoreMedium:
		return "MEDIUM"
	case score >= RiskScoreLow:
		return "LOW"
	default:
		return "MINIMAL"
	}
}

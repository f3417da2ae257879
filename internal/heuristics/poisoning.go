package heuristics

import (
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Address Poisoning Detector
//
// A poisoning attacker sends dust from a vanity address that mimics a
// counterparty the victim recently transacted with, hoping the victim
// later copies the lookalike from their transaction history.
//
// Indicators required for a flag:
//   1. The sender's address resembles the victim's (prefix/suffix or
//      high Levenshtein ratio)
//   2. Transfers are dust (average below DustThresholdEther)
//   3. The sender hit the victim more than once
//
// References:
//   - SlowMist, "Address Poisoning Attack Analysis" (2023)
//   - Metamask advisory on zero-value transfer poisoning

// DustThresholdEther is the average transfer value below which incoming
// transfers are considered dust.
const DustThresholdEther = 0.0001

// minPoisoningScore is the minimum combined prefix+suffix run length
// before a sender is treated as a lookalike. A single matching leading
// character is expected noise on a hex alphabet.
const minPoisoningScore = 2

// minPoisoningRatio flags full-body lookalikes that the windowed
// prefix/suffix measure misses.
const minPoisoningRatio = 0.8

// SuspiciousSender is one flagged lookalike address.
type SuspiciousSender struct {
	Address          string            `json:"address"`
	Similarity       AddressSimilarity `json:"similarity"`
	TransactionCount int               `json:"transactionCount"`
	AverageValue     float64           `json:"averageValue"` // ether
	RiskLevel        string            `json:"riskLevel"`
	Pattern          string            `json:"pattern"`
}

// PoisoningResult is the outcome of a poisoning scan on a victim address.
type PoisoningResult struct {
	VictimAddress       string             `json:"victimAddress"`
	SuspiciousAddresses []SuspiciousSender `json:"suspiciousAddresses"`
	TotalSuspicious     int                `json:"totalSuspicious"`
	RiskAssessment      string             `json:"riskAssessment"` // HIGH when any sender is flagged
}

// DetectAddressPoisoning scans the victim's incoming transfers for
// dust-sending lookalike addresses.
func DetectAddressPoisoning(victim string, transfers []models.Transfer) PoisoningResult {
	victim = models.NormalizeAddress(victim)

	// Group incoming transfers by sender.
	incoming := make(map[string][]models.Transfer)
	for _, tr := range transfers {
		if tr.To == victim && tr.From != "" && tr.From != victim {
			incoming[tr.From] = append(incoming[tr.From], tr)
		}
	}

	result := PoisoningResult{
		VictimAddress:       victim,
		SuspiciousAddresses: []SuspiciousSender{},
		RiskAssessment:      "LOW",
	}

	for sender, txs := range incoming {
		sim := CompareAddresses(victim, sender)
		if sim.Score() < minPoisoningScore && sim.Ratio < minPoisoningRatio {
			continue
		}

		var totalEther float64
		for _, tx := range txs {
			totalEther += tx.ValueEther()
		}
		avg := totalEther / float64(len(txs))

		if avg < DustThresholdEther && len(txs) > 1 {
			result.SuspiciousAddresses = append(result.SuspiciousAddresses, SuspiciousSender{
				Address:          sender,
				Similarity:       sim,
				TransactionCount: len(txs),
				AverageValue:     avg,
				RiskLevel:        "HIGH",
				Pattern:          "Address Poisoning",
			})
		}
	}

	result.TotalSuspicious = len(result.SuspiciousAddresses)
	if result.TotalSuspicious > 0 {
		result.RiskAssessment = "HIGH"
	}
	return result
}

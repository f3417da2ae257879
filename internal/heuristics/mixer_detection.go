package heuristics

import (
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Mixer Interaction Detector
//
// Checks an address's transfer history (normal plus internal) against
// the known mixer pool contracts. A deposit into a mixer is usually
// where deterministic tracing ends, so any interaction is treated as a
// high-risk signal.

// MixerInteraction is a single transfer touching a known mixer contract.
type MixerInteraction struct {
	Hash         string  `json:"hash"`
	MixerAddress string  `json:"mixerAddress"`
	MixerName    string  `json:"mixerName"`
	Direction    string  `json:"direction"` // "deposit" or "withdrawal"
	ValueEther   float64 `json:"valueEther"`
	TimeStamp    int64   `json:"timeStamp"`
	BlockNumber  int64   `json:"blockNumber"`
}

// MixerResult is the outcome of a mixer scan.
type MixerResult struct {
	Address           string             `json:"address"`
	MixerDetected     bool               `json:"mixerDetected"`
	TotalInteractions int                `json:"totalInteractions"`
	Interactions      []MixerInteraction `json:"interactions"`
	RiskLevel         string             `json:"riskLevel"` // HIGH when any interaction found
}

// DetectMixerUsage scans transfers for interactions with known mixer
// contracts. Pass the merged normal + internal transfer lists: Tornado
// withdrawals arrive as internal transactions from the pool contract.
func DetectMixerUsage(address string, transfers []models.Transfer) MixerResult {
	address = models.NormalizeAddress(address)

	result := MixerResult{
		Address:      address,
		Interactions: []MixerInteraction{},
		RiskLevel:    "LOW",
	}

	for _, tr := range transfers {
		var mixerAddr, mixerName, direction string
		if name, ok := KnownMixer(tr.To); ok {
			mixerAddr, mixerName, direction = tr.To, name, "deposit"
		} else if name, ok := KnownMixer(tr.From); ok {
			mixerAddr, mixerName, direction = tr.From, name, "withdrawal"
		} else {
			continue
		}

		result.Interactions = append(result.Interactions, MixerInteraction{
			Hash:         tr.Hash,
			MixerAddress: mixerAddr,
			MixerName:    mixerName,
			Direction:    direction,
			ValueEther:   tr.ValueEther(),
			TimeStamp:    tr.TimeStamp,
			BlockNumber:  tr.BlockNumber,
		})
	}

	result.TotalInteractions = len(result.Interactions)
	if result.TotalInteractions > 0 {
		result.MixerDetected = true
		result.RiskLevel = "HIGH"
	}
	return result
}

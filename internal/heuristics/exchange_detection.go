package heuristics

import (
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Exchange Exit Detector
//
// Identifies the critical cash-out moment: when stolen funds reach a
// cryptocurrency exchange deposit address. This is where law
// enforcement can subpoena KYC records to identify the perpetrator,
// and where a freeze request can still save the funds.

// ExchangeInteraction is one outgoing transfer into a known exchange wallet.
type ExchangeInteraction struct {
	Hash            string  `json:"hash"`
	Exchange        string  `json:"exchange"`
	ExchangeAddress string  `json:"exchangeAddress"`
	ValueEther      float64 `json:"valueEther"`
	TimeStamp       int64   `json:"timeStamp"`
	BlockNumber     int64   `json:"blockNumber"`
	Status          string  `json:"status"`
}

// ExchangeResult is the outcome of an exchange-exit scan.
type ExchangeResult struct {
	Address           string                `json:"address"`
	ExchangeDetected  bool                  `json:"exchangeDetected"`
	TotalInteractions int                   `json:"totalInteractions"`
	Interactions      []ExchangeInteraction `json:"interactions"`
	RecoveryPotential string                `json:"recoveryPotential"` // HIGH when deposits found
}

// DetectExchangeInteraction scans outgoing transfers from an address
// for deposits into known exchange wallets.
func DetectExchangeInteraction(address string, transfers []models.Transfer) ExchangeResult {
	address = models.NormalizeAddress(address)

	result := ExchangeResult{
		Address:           address,
		Interactions:      []ExchangeInteraction{},
		RecoveryPotential: "MEDIUM",
	}

	for _, tr := range transfers {
		if tr.From != address {
			continue
		}
		name, ok := KnownExchange(tr.To)
		if !ok {
			continue
		}
		result.Interactions = append(result.Interactions, ExchangeInteraction{
			Hash:            tr.Hash,
			Exchange:        name,
			ExchangeAddress: tr.To,
			ValueEther:      tr.ValueEther(),
			TimeStamp:       tr.TimeStamp,
			BlockNumber:     tr.BlockNumber,
			Status:          "Funds may be recoverable - contact exchange immediately",
		})
	}

	result.TotalInteractions = len(result.Interactions)
	if result.TotalInteractions > 0 {
		result.ExchangeDetected = true
		result.RecoveryPotential = "HIGH"
	}
	return result
}

package heuristics

import (
	"math/big"
	"testing"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// wei converts an ether amount to wei for test fixtures.
func wei(ether float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(ether), big.NewFloat(1e18))
	out, _ := f.Int(nil)
	return out
}

const poisonVictim = "0x7a16f111111111111111111111111111111f5428"
const poisonLookalike = "0x7a16f222222222222222222222222222222f5428"

func TestDetectAddressPoisoning_DustLookalike(t *testing.T) {
	// Lookalike sender hits the victim twice with sub-dust transfers
	transfers := []models.Transfer{
		{Hash: "0x01", From: poisonLookalike, To: poisonVictim, Value: wei(0.00000001), TimeStamp: 1700000000},
		{Hash: "0x02", From: poisonLookalike, To: poisonVictim, Value: wei(0.00000001), TimeStamp: 1700003600},
	}

	result := DetectAddressPoisoning(poisonVictim, transfers)

	if result.TotalSuspicious != 1 {
		t.Fatalf("Expected 1 suspicious sender, got %d", result.TotalSuspicious)
	}
	if result.RiskAssessment != "HIGH" {
		t.Errorf("Expected RiskAssessment=HIGH, got %s", result.RiskAssessment)
	}
	flagged := result.SuspiciousAddresses[0]
	if flagged.Address != poisonLookalike {
		t.Errorf("Expected flagged address %s, got %s", poisonLookalike, flagged.Address)
	}
	if flagged.Pattern != "Address Poisoning" {
		t.Errorf("Expected pattern 'Address Poisoning', got %s", flagged.Pattern)
	}
	if flagged.TransactionCount != 2 {
		t.Errorf("Expected 2 transactions from lookalike, got %d", flagged.TransactionCount)
	}
}

func TestDetectAddressPoisoning_LegitCounterparty(t *testing.T) {
	// Unrelated address sending real value is not poisoning
	counterparty := "0xb00000000000000000000000000000000000cafe"
	transfers := []models.Transfer{
		{Hash: "0x01", From: counterparty, To: poisonVictim, Value: wei(1.5), TimeStamp: 1700000000},
		{Hash: "0x02", From: counterparty, To: poisonVictim, Value: wei(2.0), TimeStamp: 1700003600},
	}

	result := DetectAddressPoisoning(poisonVictim, transfers)

	if result.TotalSuspicious != 0 {
		t.Errorf("Expected no suspicious senders, got %d", result.TotalSuspicious)
	}
	if result.RiskAssessment != "LOW" {
		t.Errorf("Expected RiskAssessment=LOW, got %s", result.RiskAssessment)
	}
}

func TestDetectAddressPoisoning_SingleDustIgnored(t *testing.T) {
	// One dust transfer alone does not establish the repeat pattern
	transfers := []models.Transfer{
		{Hash: "0x01", From: poisonLookalike, To: poisonVictim, Value: wei(0.00000001), TimeStamp: 1700000000},
	}

	result := DetectAddressPoisoning(poisonVictim, transfers)

	if result.TotalSuspicious != 0 {
		t.Errorf("Expected single dust transfer to be ignored, got %d suspicious", result.TotalSuspicious)
	}
}

func TestDetectAddressPoisoning_OutgoingIgnored(t *testing.T) {
	// Victim's own outgoing transfers never count as poisoning
	transfers := []models.Transfer{
		{Hash: "0x01", From: poisonVictim, To: poisonLookalike, Value: wei(0.00000001), TimeStamp: 1700000000},
		{Hash: "0x02", From: poisonVictim, To: poisonLookalike, Value: wei(0.00000001), TimeStamp: 1700000100},
	}

	result := DetectAddressPoisoning(poisonVictim, transfers)

	if result.TotalSuspicious != 0 {
		t.Errorf("Expected outgoing transfers to be ignored, got %d suspicious", result.TotalSuspicious)
	}
}

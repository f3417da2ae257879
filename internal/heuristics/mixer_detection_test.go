package heuristics

import (
	"testing"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

const tornado01ETH = "0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc"
const binanceHot = "0x28c6c06298d514db089934071355e5743bf21d60"

func TestDetectMixerUsage_Deposit(t *testing.T) {
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	transfers := []models.Transfer{
		{Hash: "0x01", From: addr, To: tornado01ETH, Value: wei(0.1), TimeStamp: 1700000000},
	}

	result := DetectMixerUsage(addr, transfers)

	if !result.MixerDetected {
		t.Fatal("Expected mixer deposit to be detected")
	}
	if result.RiskLevel != "HIGH" {
		t.Errorf("Expected RiskLevel=HIGH, got %s", result.RiskLevel)
	}
	ix := result.Interactions[0]
	if ix.Direction != "deposit" {
		t.Errorf("Expected direction=deposit, got %s", ix.Direction)
	}
	if ix.MixerName != "Tornado Cash 0.1 ETH" {
		t.Errorf("Expected pool label 'Tornado Cash 0.1 ETH', got %s", ix.MixerName)
	}
}

func TestDetectMixerUsage_Withdrawal(t *testing.T) {
	// Tornado withdrawals arrive as internal transactions from the pool
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	transfers := []models.Transfer{
		{Hash: "0x02", From: tornado01ETH, To: addr, Value: wei(0.1), TimeStamp: 1700000000, Internal: true},
	}

	result := DetectMixerUsage(addr, transfers)

	if !result.MixerDetected {
		t.Fatal("Expected mixer withdrawal to be detected")
	}
	if result.Interactions[0].Direction != "withdrawal" {
		t.Errorf("Expected direction=withdrawal, got %s", result.Interactions[0].Direction)
	}
}

func TestDetectMixerUsage_CleanHistory(t *testing.T) {
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	transfers := []models.Transfer{
		{Hash: "0x01", From: addr, To: "0xb0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0", Value: wei(1.0), TimeStamp: 1700000000},
	}

	result := DetectMixerUsage(addr, transfers)

	if result.MixerDetected {
		t.Error("Expected no mixer detection on a clean history")
	}
	if result.RiskLevel != "LOW" {
		t.Errorf("Expected RiskLevel=LOW, got %s", result.RiskLevel)
	}
}

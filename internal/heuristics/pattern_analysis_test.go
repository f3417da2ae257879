package heuristics

import (
	"testing"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

func TestAnalyzeTransactionPattern_Clean(t *testing.T) {
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	// Balanced activity, hours apart
	transfers := []models.Transfer{
		{Hash: "0x01", From: "0xb0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0", To: addr, Value: wei(2.0), TimeStamp: 1700000000},
		{Hash: "0x02", From: addr, To: "0xc0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0", Value: wei(1.0), TimeStamp: 1700007200},
	}

	result := AnalyzeTransactionPattern(addr, transfers, MixerResult{}, PoisoningResult{})

	if result.RiskScore != 0 {
		t.Errorf("Expected RiskScore=0 for clean activity, got %d", result.RiskScore)
	}
	if result.RiskLevel != "MINIMAL" {
		t.Errorf("Expected RiskLevel=MINIMAL, got %s", result.RiskLevel)
	}
	if result.TotalEtherReceived != 2.0 {
		t.Errorf("Expected TotalEtherReceived=2.0, got %f", result.TotalEtherReceived)
	}
	if result.TotalEtherSent != 1.0 {
		t.Errorf("Expected TotalEtherSent=1.0, got %f", result.TotalEtherSent)
	}
}

func TestAnalyzeTransactionPattern_MixerPlusPoisoning(t *testing.T) {
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	transfers := []models.Transfer{
		{Hash: "0x01", From: "0xb0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0", To: addr, Value: wei(10.0), TimeStamp: 1700000000},
		{Hash: "0x02", From: addr, To: tornado01ETH, Value: wei(0.1), TimeStamp: 1700007200},
	}
	mixer := MixerResult{MixerDetected: true, TotalInteractions: 1}
	poisoning := PoisoningResult{TotalSuspicious: 1}

	result := AnalyzeTransactionPattern(addr, transfers, mixer, poisoning)

	// 40 (mixer) + 25 (poisoning) = 65
	if result.RiskScore != 65 {
		t.Errorf("Expected RiskScore=65, got %d", result.RiskScore)
	}
	if result.RiskLevel != "MEDIUM" {
		t.Errorf("Expected RiskLevel=MEDIUM, got %s", result.RiskLevel)
	}
	if len(result.RiskFactors) != 2 {
		t.Errorf("Expected 2 risk factors, got %d: %v", len(result.RiskFactors), result.RiskFactors)
	}
}

func TestAnalyzeTransactionPattern_AllSignalsClamped(t *testing.T) {
	addr := "0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0"
	// 12 outgoing transfers 10s apart: triggers both the rapid burst
	// signal (11 rapid pairs) and the net outflow signal
	var transfers []models.Transfer
	for i := 0; i < 12; i++ {
		transfers = append(transfers, models.Transfer{
			Hash:      "0x0f",
			From:      addr,
			To:        "0xb0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0",
			Value:     wei(1.0),
			TimeStamp: 1700000000 + int64(i*10),
		})
	}
	mixer := MixerResult{MixerDetected: true}
	poisoning := PoisoningResult{TotalSuspicious: 2}

	result := AnalyzeTransactionPattern(addr, transfers, mixer, poisoning)

	// 20 + 15 + 40 + 25 = 100, clamp holds the ceiling
	if result.RiskScore != 100 {
		t.Errorf("Expected RiskScore=100, got %d", result.RiskScore)
	}
	if result.RiskLevel != "HIGH" {
		t.Errorf("Expected RiskLevel=HIGH, got %s", result.RiskLevel)
	}
	if result.RapidTransactions != 11 {
		t.Errorf("Expected 11 rapid pairs, got %d", result.RapidTransactions)
	}
}

func TestAnalyzeTransactionPattern_EmptyHistory(t *testing.T) {
	result := AnalyzeTransactionPattern("0xa0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0", nil, MixerResult{}, PoisoningResult{})

	if result.RiskScore != 0 {
		t.Errorf("Expected RiskScore=0 for empty history, got %d", result.RiskScore)
	}
	if result.RiskLevel != "MINIMAL" {
		t.Errorf("Expected RiskLevel=MINIMAL, got %s", result.RiskLevel)
	}
	if result.TotalTransactions != 0 {
		t.Errorf("Expected TotalTransactions=0, got %d", result.TotalTransactions)
	}
}

func TestRiskLevelForScore_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "MINIMAL"},
		{24, "MINIMAL"},
		{25, "LOW"},
		{49, "LOW"},
		{50, "MEDIUM"},
		{74, "MEDIUM"},
		{75, "HIGH"},
		{100, "HIGH"},
	}
	for _, tc := range cases {
		if got := riskLevelForScore(tc.score); got != tc.want {
			t.Errorf("riskLevelForScore(%d): expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

package recovery

import (
	"strings"
	"testing"
)

func TestWhitehatMessage(t *testing.T) {
	incident := Incident{AmountUSD: 1500000}

	msg := WhitehatMessage(incident, 15)

	if !strings.Contains(msg, "WHITEHAT BOUNTY OFFER") {
		t.Error("Expected the bounty offer section")
	}
	// x/text comma grouping: 1,500,000.00 total, 15% = 225,000.00 bounty
	if !strings.Contains(msg, "1,500,000.00") {
		t.Error("Expected the stolen amount with comma grouping")
	}
	if !strings.Contains(msg, "225,000.00") {
		t.Error("Expected the bounty amount with comma grouping")
	}
	if !strings.Contains(msg, "Return 85%") {
		t.Errorf("Expected an 85%% return share, message:\n%s", msg)
	}
}

func TestWhitehatMessage_InvalidBountyDefaults(t *testing.T) {
	incident := Incident{AmountUSD: 1000}

	for _, pct := range []int{0, -5, 100, 250} {
		msg := WhitehatMessage(incident, pct)
		if !strings.Contains(msg, "Keep 10%") {
			t.Errorf("Expected bounty %d to default to 10%%", pct)
		}
	}
}

func TestLawEnforcementPackage(t *testing.T) {
	incident := Incident{
		IncidentDate:     "2025-11-02",
		VictimAddress:    "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		AttackerAddress:  "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		AmountUSD:        50000,
		TokenType:        "ETH",
		TheftTime:        "2025-11-02T14:30:00Z",
		MixerDepositTime: "2025-11-02T09:00:00Z",
		MixerDetected:    true,
	}

	pkg := LawEnforcementPackage(incident, map[string]int{"nodes": 4}, nil)

	if !strings.HasPrefix(pkg.PackageID, "INC-") {
		t.Errorf("Expected INC- prefixed package ID, got %s", pkg.PackageID)
	}
	if pkg.VictimInformation.AmountStolen != 50000 {
		t.Errorf("Expected stolen amount 50000, got %f", pkg.VictimInformation.AmountStolen)
	}

	// Timeline sorts chronologically: mixer deposit timestamp precedes theft
	if len(pkg.IncidentTimeline) != 2 {
		t.Fatalf("Expected 2 timeline entries, got %d", len(pkg.IncidentTimeline))
	}
	if pkg.IncidentTimeline[0].Event != "Mixer deposit" {
		t.Errorf("Expected chronological ordering, first event was %s", pkg.IncidentTimeline[0].Event)
	}

	// Mixer incidents carry two extra investigative actions
	sawMixerAction := false
	for _, action := range pkg.RecommendedActions {
		if strings.Contains(action, "mixer outputs") {
			sawMixerAction = true
		}
	}
	if !sawMixerAction {
		t.Error("Expected mixer-specific recommended actions")
	}
}

func TestExchangeReport(t *testing.T) {
	incident := Incident{
		IncidentDate:    "2025-11-02",
		VictimAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		AttackerAddress: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		AmountUSD:       42000,
		TokenType:       "USDT",
		TheftTxHash:     "0xfeed",
	}

	report := ExchangeReport(incident, "Binance")

	if !strings.Contains(report, "To: Binance Security/Fraud Team") {
		t.Error("Expected the report addressed to the exchange")
	}
	if !strings.Contains(report, "0xfeed") {
		t.Error("Expected the theft transaction hash")
	}
	if !strings.Contains(report, "Police Report Filed: Pending") {
		t.Error("Expected missing case numbers to render as Pending")
	}
}

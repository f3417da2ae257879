package heuristics

import "testing"

func TestEmitFromAnalysis_CleanAddressSkipped(t *testing.T) {
	am := NewAlertManager(nil)

	am.EmitFromAnalysis(PatternResult{Address: theftAddr, RiskScore: 10, RiskLevel: "MINIMAL"}, nil)

	if alerts := am.GetRecentAlerts(10); len(alerts) != 0 {
		t.Errorf("Expected no alert for a clean address, got %d", len(alerts))
	}
}

func TestEmitFromAnalysis_HighRisk(t *testing.T) {
	am := NewAlertManager(nil)

	am.EmitFromAnalysis(PatternResult{
		Address:     theftAddr,
		RiskScore:   80,
		RiskLevel:   "HIGH",
		RiskFactors: []string{"Mixer usage detected"},
	}, nil)

	alerts := am.GetRecentAlerts(10)
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != "critical" {
		t.Errorf("Expected severity critical for score 80, got %s", alerts[0].Severity)
	}
	if alerts[0].AlertType != "risk_assessment" {
		t.Errorf("Expected alertType risk_assessment, got %s", alerts[0].AlertType)
	}
	if alerts[0].ID == "" {
		t.Error("Expected alert to receive a generated ID")
	}
}

func TestEmitFromAnalysis_CompoundAlert(t *testing.T) {
	am := NewAlertManager(nil)
	hits := []WatchlistHit{{Address: theftAddr, Category: "theft", AlertLevel: "critical"}}

	am.EmitFromAnalysis(PatternResult{Address: theftAddr, RiskScore: 80, RiskLevel: "HIGH"}, hits)

	alerts := am.GetRecentAlerts(1)
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].AlertType != "compound" {
		t.Errorf("Expected compound alert for watchlisted high-risk address, got %s", alerts[0].AlertType)
	}
}

func TestEmitFromAnalysis_HitEscalatesSeverity(t *testing.T) {
	am := NewAlertManager(nil)
	// Medium score, but the watchlist entry demands critical
	hits := []WatchlistHit{{Address: theftAddr, Category: "theft", AlertLevel: "critical"}}

	am.EmitFromAnalysis(PatternResult{Address: theftAddr, RiskScore: 30, RiskLevel: "LOW"}, hits)

	alerts := am.GetRecentAlerts(1)
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != "critical" {
		t.Errorf("Expected watchlist alert level to escalate severity to critical, got %s", alerts[0].Severity)
	}
	if alerts[0].AlertType != "watchlist_hit" {
		t.Errorf("Expected alertType watchlist_hit, got %s", alerts[0].AlertType)
	}
}

func TestEmitFromAnalysis_HighestHitLevelWins(t *testing.T) {
	am := NewAlertManager(nil)
	// The critical theft entry comes second; it must still win over
	// the low-level entry listed before it.
	hits := []WatchlistHit{
		{Address: poisonLookalike, Category: "suspect", AlertLevel: "low"},
		{Address: theftAddr, Category: "theft", AlertLevel: "critical"},
	}

	am.EmitFromAnalysis(PatternResult{Address: theftAddr, RiskScore: 30, RiskLevel: "LOW"}, hits)

	alerts := am.GetRecentAlerts(1)
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != "critical" {
		t.Errorf("Expected the highest hit level to set severity, got %s", alerts[0].Severity)
	}
}

func TestGetRecentAlerts_NewestFirst(t *testing.T) {
	am := NewAlertManager(nil)
	am.EmitAlert(Alert{Severity: "low", AlertType: "risk_assessment", Title: "first"})
	am.EmitAlert(Alert{Severity: "medium", AlertType: "risk_assessment", Title: "second"})
	am.EmitAlert(Alert{Severity: "high", AlertType: "risk_assessment", Title: "third"})

	alerts := am.GetRecentAlerts(2)
	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Title != "third" || alerts[1].Title != "second" {
		t.Errorf("Expected newest-first ordering, got %s, %s", alerts[0].Title, alerts[1].Title)
	}
}

func TestGetAlertsBySeverity(t *testing.T) {
	am := NewAlertManager(nil)
	am.EmitAlert(Alert{Severity: "info", Title: "a"})
	am.EmitAlert(Alert{Severity: "medium", Title: "b"})
	am.EmitAlert(Alert{Severity: "critical", Title: "c"})

	filtered := am.GetAlertsBySeverity("medium")
	if len(filtered) != 2 {
		t.Errorf("Expected 2 alerts at medium or above, got %d", len(filtered))
	}
}

func TestSeverityMeetsThreshold(t *testing.T) {
	cases := []struct {
		severity, minimum string
		want              bool
	}{
		{"critical", "medium", true},
		{"medium", "medium", true},
		{"low", "medium", false},
		{"info", "critical", false},
	}
	for _, tc := range cases {
		if got := severityMeetsThreshold(tc.severity, tc.minimum); got != tc.want {
			t.Errorf("severityMeetsThreshold(%s, %s): expected %v, got %v", tc.severity, tc.minimum, tc.want, got)
		}
	}
}

func TestAlertBroadcastCallback(t *testing.T) {
	var received []Alert
	am := NewAlertManager(func(a Alert) { received = append(received, a) })

	am.EmitAlert(Alert{Severity: "high", Title: "callback test"})

	if len(received) != 1 {
		t.Fatalf("Expected broadcast callback to fire once, got %d", len(received))
	}
	if received[0].Title != "callback test" {
		t.Errorf("Expected the emitted alert in the callback, got %s", received[0].Title)
	}
}

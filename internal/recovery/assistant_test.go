package recovery

import (
	"strings"
	"testing"
)

func TestEstimateProbability_BestCase(t *testing.T) {
	// Fast report, funds at an exchange, freezable token, large amount
	incident := Incident{
		TimeElapsedHours: 0.5,
		ExchangeDetected: true,
		TokenType:        "USDT",
		AmountUSD:        250000,
	}

	prob := EstimateProbability(incident)

	// 30 + 40 + 20 + 10 = 100
	if prob.Score != 100 {
		t.Errorf("Expected score 100, got %d", prob.Score)
	}
	if prob.Category != "HIGH" {
		t.Errorf("Expected category HIGH, got %s", prob.Category)
	}
}

func TestEstimateProbability_MixerFloorsAtZero(t *testing.T) {
	// Late report into a mixer: 5 - 30 clamps to 0
	incident := Incident{
		TimeElapsedHours: 72,
		MixerDetected:    true,
	}

	prob := EstimateProbability(incident)

	if prob.Score != 0 {
		t.Errorf("Expected score clamped to 0, got %d", prob.Score)
	}
	if prob.Category != "VERY LOW" {
		t.Errorf("Expected category VERY LOW, got %s", prob.Category)
	}
}

func TestEstimateProbability_Within24Hours(t *testing.T) {
	incident := Incident{TimeElapsedHours: 6, ExchangeDetected: true}

	prob := EstimateProbability(incident)

	// 20 + 40 = 60
	if prob.Score != 60 {
		t.Errorf("Expected score 60, got %d", prob.Score)
	}
	if prob.Category != "MEDIUM" {
		t.Errorf("Expected category MEDIUM, got %s", prob.Category)
	}
}

func TestEstimateTimeline(t *testing.T) {
	exchange := EstimateTimeline(Incident{ExchangeDetected: true})
	if exchange.BestCase != "1-2 weeks" {
		t.Errorf("Expected exchange best case 1-2 weeks, got %s", exchange.BestCase)
	}

	mixer := EstimateTimeline(Incident{MixerDetected: true})
	if mixer.WorstCase != "May not recover" {
		t.Errorf("Expected mixer worst case 'May not recover', got %s", mixer.WorstCase)
	}

	// Exchange branch wins when both are detected
	both := EstimateTimeline(Incident{ExchangeDetected: true, MixerDetected: true})
	if both.BestCase != exchange.BestCase {
		t.Errorf("Expected the exchange timeline to take precedence, got %+v", both)
	}
}

func TestInvolvesFreezableToken(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"USDT", true},
		{"usdc", true},
		{"BUSD", true},
		{"ETH", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := InvolvesFreezableToken(Incident{TokenType: tc.token}); got != tc.want {
			t.Errorf("InvolvesFreezableToken(%q): expected %v, got %v", tc.token, tc.want, got)
		}
	}
}

func TestGeneratePlan(t *testing.T) {
	incident := Incident{
		TimeElapsedHours: 2,
		ExchangeDetected: true,
		TokenType:        "USDC",
		AmountUSD:        50000,
	}

	plan := GeneratePlan(incident)

	if !strings.HasPrefix(plan.IncidentID, "INC-") {
		t.Errorf("Expected INC- prefixed incident ID, got %s", plan.IncidentID)
	}
	if len(plan.ImmediateActions) == 0 {
		t.Fatal("Expected immediate actions")
	}
	if len(plan.ShortTermActions) == 0 || len(plan.LongTermActions) == 0 {
		t.Error("Expected short and long term actions")
	}

	// A freezable token must surface the issuer freeze action first
	sawFreeze := false
	for _, action := range plan.ImmediateActions {
		if strings.Contains(action.Action, "Token Issuer") {
			sawFreeze = true
			if action.Priority != "CRITICAL" {
				t.Errorf("Expected issuer freeze to be CRITICAL, got %s", action.Priority)
			}
		}
	}
	if !sawFreeze {
		t.Error("Expected a token issuer freeze action for USDC")
	}
}

func TestPreventionRecommendations(t *testing.T) {
	categories := PreventionRecommendations()

	if len(categories) != 4 {
		t.Fatalf("Expected 4 prevention categories, got %d", len(categories))
	}
	for _, cat := range categories {
		if cat.Category == "" || len(cat.Recommendations) == 0 {
			t.Errorf("Expected populated category, got %+v", cat)
		}
	}
}

package heuristics

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Alert & Webhook System
//
// Structured alert emission for incident response operations. Alerts are:
//   1. Broadcast via WebSocket to connected dashboards
//   2. Pushed to registered webhook endpoints (Slack, Discord, SIEM)
//   3. Stored in memory for recent alert history
//
// Webhook payloads follow a common JSON format compatible with
// Slack incoming webhooks, Discord webhooks, and PagerDuty Events API.

// Alert represents a structured security alert
type Alert struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Severity    string         `json:"severity"`  // info/low/medium/high/critical
	AlertType   string         `json:"alertType"` // watchlist_hit/mixer_detected/high_risk/compound
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Address     string         `json:"address,omitempty"`
	Hash        string         `json:"hash,omitempty"`
	ValueEther  float64        `json:"valueEther,omitempty"`
	Assessment  *PatternResult `json:"assessment,omitempty"`
	Hits        []WatchlistHit `json:"hits,omitempty"`
}

// WebhookEndpoint is a registered webhook receiver
type WebhookEndpoint struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Enabled     bool              `json:"enabled"`
	Headers     map[string]string `json:"headers,omitempty"`
	MinSeverity string            `json:"minSeverity"` // Only send alerts >= this severity
}

// AlertManager handles alert emission and webhook delivery
type AlertManager struct {
	mu            sync.RWMutex
	webhooks      []WebhookEndpoint
	recentAlerts  []Alert
	maxHistory    int
	httpClient    *http.Client
	alertCallback func(Alert) // WebSocket broadcast callback
}

// NewAlertManager creates a new alert system
func NewAlertManager(broadcastFn func(Alert)) *AlertManager {
	return &AlertManager{
		webhooks:      make([]WebhookEndpoint, 0),
		recentAlerts:  make([]Alert, 0),
		maxHistory:    1000,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		alertCallback: broadcastFn,
	}
}

// RegisterWebhook adds a webhook endpoint
func (am *AlertManager) RegisterWebhook(name, url, minSeverity string, headers map[string]string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.webhooks = append(am.webhooks, WebhookEndpoint{
		Name:        name,
		URL:         url,
		Enabled:     true,
		Headers:     headers,
		MinSeverity: minSeverity,
	})

	log.Printf("[AlertManager] Registered webhook: %s → %s (min: %s)", name, url, minSeverity)
}

// RemoveWebhook removes a webhook by name
func (am *AlertManager) RemoveWebhook(name string) {
	am.mu.Lock()
	defer am.mu.Unlock()

	for i, wh := range am.webhooks {
		if wh.Name == name {
			am.webhooks = append(am.webhooks[:i], am.webhooks[i+1:]...)
			return
		}
	}
}

// EmitAlert processes and distributes an alert
func (am *AlertManager) EmitAlert(alert Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	// Store in history
	am.mu.Lock()
	am.recentAlerts = append(am.recentAlerts, alert)
	if len(am.recentAlerts) > am.maxHistory {
		am.recentAlerts = am.recentAlerts[len(am.recentAlerts)-am.maxHistory:]
	}
	webhooks := make([]WebhookEndpoint, len(am.webhooks))
	copy(webhooks, am.webhooks)
	am.mu.Unlock()

	// Broadcast via WebSocket callback
	if am.alertCallback != nil {
		am.alertCallback(alert)
	}

	// Send to webhooks (async, non-blocking)
	for _, wh := range webhooks {
		if !wh.Enabled {
			continue
		}
		if !severityMeetsThreshold(alert.Severity, wh.MinSeverity) {
			continue
		}
		go am.sendWebhook(wh, alert)
	}

	log.Printf("[Alert] [%s] %s: %s (addr: %s)", alert.Severity, alert.AlertType, alert.Title, alert.Address)
}

// EmitFromAnalysis creates and emits an alert from an address risk
// assessment plus any watchlist hits seen on the same address.
func (am *AlertManager) EmitFromAnalysis(result PatternResult, hits []WatchlistHit) {
	severity := severityForRisk(result.RiskScore)
	if severity == "info" && len(hits) == 0 {
		return // Don't alert on clean addresses
	}

	alertType := "risk_assessment"
	title := "Risk assessment: " + result.RiskLevel

	if len(hits) > 0 {
		alertType = "watchlist_hit"
		title = "Watchlist hit detected"
		for _, hit := range hits {
			if severityMeetsThreshold(hit.AlertLevel, severity) {
				severity = hit.AlertLevel
			}
		}
	}
	if result.RiskScore >= RiskScoreHigh && len(hits) > 0 {
		alertType = "compound"
		title = "Watchlisted address showing high-risk activity"
	}

	alert := Alert{
		Severity:    severity,
		AlertType:   alertType,
		Title:       title,
		Description: buildDescription(result, hits),
		Address:     result.Address,
		ValueEther:  result.TotalEtherSent,
		Assessment:  &result,
		Hits:        hits,
	}

	am.EmitAlert(alert)
}

// GetRecentAlerts returns the most recent alerts, newest first
func (am *AlertManager) GetRecentAlerts(limit int) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	if limit <= 0 || limit > len(am.recentAlerts) {
		limit = len(am.recentAlerts)
	}

	start := len(am.recentAlerts) - limit
	result := make([]Alert, limit)
	for i := 0; i < limit; i++ {
		result[i] = am.recentAlerts[start+limit-1-i]
	}
	return result
}

// GetAlertsBySeverity returns alerts matching a minimum severity
func (am *AlertManager) GetAlertsBySeverity(minSeverity string) []Alert {
	am.mu.RLock()
	defer am.mu.RUnlock()

	var filtered []Alert
	for _, alert := range am.recentAlerts {
		if severityMeetsThreshold(alert.Severity, minSeverity) {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}

// sendWebhook delivers an alert to a webhook endpoint
func (am *AlertManager) sendWebhook(wh WebhookEndpoint, alert Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("[Webhook] Failed to marshal alert: %v", err)
		return
	}

	req, err := http.NewRequest("POST", wh.URL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("[Webhook] Failed to create request for %s: %v", wh.Name, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	for key, val := range wh.Headers {
		req.Header.Set(key, val)
	}

	resp, err := am.httpClient.Do(req)
	if err != nil {
		log.Printf("[Webhook] Failed to send to %s: %v", wh.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[Webhook] %s returned status %d", wh.Name, resp.StatusCode)
	}
}

// severityMeetsThreshold checks if a severity level meets the minimum
func severityMeetsThreshold(severity, minimum string) bool {
	levels := map[string]int{
		"info": 0, "low": 1, "medium": 2, "high": 3, "critical": 4,
	}
	return levels[severity] >= levels[minimum]
}

// severityForRisk maps a 0-100 risk score onto an alert severity
func severityForRisk(score int) string {
	switch {
	case score >= RiskScoreHigh:
		return "critical"
	case score >= RiskScoreMedium:
		return "high"
	case score >= RiskScoreLow:
		return "medium"
	default:
		return "info"
	}
}

// buildDescription creates a human-readable alert description
func buildDescription(result PatternResult, hits []WatchlistHit) string {
	desc := ""
	if len(hits) > 0 {
		desc += "Activity involves a watchlisted address. "
	}
	if len(result.RiskFactors) > 0 {
		desc += "Signals: "
		for i, s := range result.RiskFactors {
			if i > 0 {
				desc += ", "
			}
			desc += s
		}
	}
	return desc
}

package recovery

import (
	"strings"
	"time"
)

// Recovery Assistance System
//
// Turns an incident report into an actionable recovery plan for theft
// victims: prioritized action lists bucketed by urgency, a recovery
// probability estimate, and a realistic timeline. The action content
// encodes standard incident response playbooks (issuer freezes,
// exchange escalation, IC3 filing, whitehat negotiation).

// Incident describes a theft as reported by the victim or derived
// from on-chain analysis.
type Incident struct {
	IncidentDate      string  `json:"incidentDate,omitempty"`
	VictimAddress     string  `json:"victimAddress,omitempty"`
	AttackerAddress   string  `json:"attackerAddress,omitempty"`
	TheftTxHash       string  `json:"theftTxHash,omitempty"`
	ExchangeDepositTx string  `json:"exchangeDepositTx,omitempty"`
	AmountUSD         float64 `json:"amountUsd"`
	TokenType         string  `json:"tokenType,omitempty"`
	TimeElapsedHours  float64 `json:"timeElapsedHours"`
	ExchangeDetected  bool    `json:"exchangeDetected"`
	MixerDetected     bool    `json:"mixerDetected"`

	// Optional timeline markers supplied by the victim.
	TestTransactionTime string `json:"testTransactionTime,omitempty"`
	TheftTime           string `json:"theftTime,omitempty"`
	ConversionTime      string `json:"conversionTime,omitempty"`
	MixerDepositTime    string `json:"mixerDepositTime,omitempty"`

	// Case references, filled in as the victim reports.
	PoliceReportNumber string `json:"policeReportNumber,omitempty"`
	IC3ComplaintNumber string `json:"ic3ComplaintNumber,omitempty"`
}

// Action is a single step in the recovery plan.
type Action struct {
	Priority    string   `json:"priority"` // CRITICAL/HIGH/MEDIUM/LOW
	Action      string   `json:"action"`
	Description string   `json:"description"`
	Steps       []string `json:"steps,omitempty"`
	Contacts    []string `json:"contacts,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Timeline    string   `json:"timeline,omitempty"`
	Status      string   `json:"status"`
}

// Probability is the estimated chance of recovering the funds.
type Probability struct {
	Score       int      `json:"probabilityScore"` // 0-100
	Category    string   `json:"category"`         // HIGH/MEDIUM/LOW/VERY LOW
	Description string   `json:"description"`
	Factors     []string `json:"factors"`
}

// Timeline gives best/typical/worst case recovery durations.
type Timeline struct {
	BestCase    string `json:"bestCase"`
	TypicalCase string `json:"typicalCase"`
	WorstCase   string `json:"worstCase"`
	Note        string `json:"note"`
}

// Plan is the complete recovery plan for an incident.
type Plan struct {
	IncidentID       string      `json:"incidentId"`
	GeneratedAt      time.Time   `json:"generatedAt"`
	Incident         Incident    `json:"incidentSummary"`
	ImmediateActions []Action    `json:"immediateActions"`
	ShortTermActions []Action    `json:"shortTermActions"`
	LongTermActions  []Action    `json:"longTermActions"`
	Probability      Probability `json:"recoveryProbability"`
	Timeline         Timeline    `json:"estimatedTimeline"`
}

// GeneratePlan builds the full recovery plan for an incident.
func GeneratePlan(incident Incident) Plan {
	return Plan{
		IncidentID:       newIncidentID(),
		GeneratedAt:      time.Now().UTC(),
		Incident:         incident,
		ImmediateActions: immediateActions(incident),
		ShortTermActions: shortTermActions(),
		LongTermActions:  longTermActions(),
		Probability:      EstimateProbability(incident),
		Timeline:         EstimateTimeline(incident),
	}
}

func newIncidentID() string {
	return "INC-" + time.Now().Format("20060102150405")
}

// freezableTokens are stablecoins whose issuers can freeze balances.
var freezableTokens = map[string]bool{
	"USDT": true,
	"USDC": true,
	"BUSD": true,
}

// InvolvesFreezableToken reports whether the stolen asset can be
// frozen by its issuer.
func InvolvesFreezableToken(incident Incident) bool {
	return freezableTokens[strings.ToUpper(incident.TokenType)]
}

// immediateActions are the first-hour steps.
func immediateActions(incident Incident) []Action {
	var actions []Action

	if InvolvesFreezableToken(incident) {
		actions = append(actions, Action{
			Priority:    "CRITICAL",
			Action:      "Contact Token Issuer",
			Description: "If stolen funds include USDT or USDC, contact Tether/Circle immediately to request freeze",
			Contacts: []string{
				"Tether: https://tether.to/en/contact-us/",
				"Circle: https://www.circle.com/en/legal/law-enforcement",
			},
			Deadline: "Within 1 hour",
			Status:   "PENDING",
		})
	}

	actions = append(actions, Action{
		Priority:    "CRITICAL",
		Action:      "Document All Evidence",
		Description: "Take screenshots of wallet, transactions, and any communications",
		Steps: []string{
			"Screenshot your wallet showing the transaction",
			"Save transaction hashes",
			"Record exact time of theft",
			"Save any phishing emails/messages",
			"Document your actions leading to the theft",
		},
		Deadline: "Immediately",
		Status:   "PENDING",
	})

	if incident.ExchangeDetected {
		actions = append(actions, Action{
			Priority:    "CRITICAL",
			Action:      "Alert Exchanges",
			Description: "Contact exchanges where funds may have been sent",
			Steps: []string{
				"Identify which exchange received funds",
				"Contact their fraud/security team",
				"Provide transaction hash and details",
				"Request account freeze",
			},
			Deadline: "Within 2 hours",
			Status:   "PENDING",
		})
	}

	actions = append(actions, Action{
		Priority:    "HIGH",
		Action:      "Secure Your Accounts",
		Description: "Change passwords and enable 2FA on all crypto accounts",
		Steps: []string{
			"Change wallet passwords",
			"Enable 2FA on all exchanges",
			"Check for malware on your device",
			"Review recent account activity",
			"Revoke any suspicious token approvals",
		},
		Deadline: "Within 4 hours",
		Status:   "PENDING",
	})

	return actions
}

// shortTermActions cover the first 24-48 hours.
func shortTermActions() []Action {
	return []Action{
		{
			Priority:    "HIGH",
			Action:      "File Police Report",
			Description: "File official report with local law enforcement",
			Steps: []string{
				"Visit local police station",
				"Bring all documentation and evidence",
				"Get case number for reference",
				"Request copy of police report",
			},
			Deadline: "Within 24 hours",
			Status:   "PENDING",
		},
		{
			Priority:    "HIGH",
			Action:      "Report to FBI IC3",
			Description: "File complaint with FBI Internet Crime Complaint Center",
			Steps: []string{
				"Visit https://www.ic3.gov",
				"Complete online complaint form",
				"Include all transaction details",
				"Save complaint number",
			},
			Deadline: "Within 24 hours",
			Status:   "PENDING",
		},
		{
			Priority:    "MEDIUM",
			Action:      "Whitehat Negotiation",
			Description: "Send on-chain message offering bounty for return of funds",
			Steps: []string{
				"Prepare professional message",
				"Offer 10% bounty for 90% return",
				"Mention law enforcement involvement",
				"Set deadline for response",
				"Use secure communication channel",
			},
			Deadline: "Within 48 hours",
			Status:   "PENDING",
		},
		{
			Priority:    "MEDIUM",
			Action:      "Contact Recovery Services",
			Description: "Engage professional blockchain forensics firms",
			Contacts: []string{
				"Chainalysis - Enterprise blockchain analysis",
				"TRM Labs - Crypto compliance and investigations",
				"CipherBlade - Crypto investigation specialists",
				"Elliptic - Blockchain analytics",
			},
			Deadline: "Within 48 hours",
			Status:   "PENDING",
		},
	}
}

// longTermActions run over weeks to months.
func longTermActions() []Action {
	return []Action{
		{
			Priority:    "MEDIUM",
			Action:      "Continuous Monitoring",
			Description: "Monitor stolen funds for movement",
			Steps: []string{
				"Set up alerts for address activity",
				"Track funds through mixers",
				"Watch for exchange deposits",
				"Document all movements",
			},
			Timeline: "Ongoing",
			Status:   "PENDING",
		},
		{
			Priority:    "MEDIUM",
			Action:      "Consult Legal Counsel",
			Description: "Explore legal options for recovery",
			Steps: []string{
				"Consult with crypto-specialized attorney",
				"Explore civil lawsuit options",
				"Consider international legal cooperation",
				"Evaluate cost vs. potential recovery",
			},
			Timeline: "1-3 months",
			Status:   "PENDING",
		},
		{
			Priority:    "LOW",
			Action:      "Warn Community",
			Description: "Share your experience to prevent others from falling victim",
			Steps: []string{
				"Post on crypto forums (Reddit, Twitter)",
				"Report to scam databases",
				"Share attacker addresses",
				"Document attack method",
			},
			Timeline: "Ongoing",
			Status:   "PENDING",
		},
	}
}

// EstimateProbability scores the chance of recovery from incident
// characteristics. Response speed, exchange exposure, and freezable
// assets raise it; mixer usage lowers it.
func EstimateProbability(incident Incident) Probability {
	score := 0
	var factors []string

	switch {
	case incident.TimeElapsedHours < 1:
		score += 30
		factors = append(factors, "Quick response time increases chances")
	case incident.TimeElapsedHours < 24:
		score += 20
		factors = append(factors, "Response within 24 hours is positive")
	default:
		score += 5
		factors = append(factors, "Delayed response reduces chances")
	}

	if incident.ExchangeDetected {
		score += 40
		factors = append(factors, "Funds at exchange - high recovery potential")
	}
	if InvolvesFreezableToken(incident) {
		score += 20
		factors = append(factors, "Freezable stablecoin - can be frozen by issuer")
	}
	if incident.MixerDetected {
		score -= 30
		factors = append(factors, "Mixer usage significantly reduces recovery chances")
	}
	if incident.AmountUSD > 100000 {
		score += 10
		factors = append(factors, "Large amount - more resources for recovery")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	var category, description string
	switch {
	case score >= 70:
		category = "HIGH"
		description = "Good chance of recovery with proper actions"
	case score >= 40:
		category = "MEDIUM"
		description = "Moderate chance of recovery, pursue all options"
	case score >= 20:
		category = "LOW"
		description = "Difficult but not impossible, continue efforts"
	default:
		category = "VERY LOW"
		description = "Recovery unlikely but document for law enforcement"
	}

	return Probability{
		Score:       score,
		Category:    category,
		Description: description,
		Factors:     factors,
	}
}

// EstimateTimeline gives realistic durations based on where the
// funds went.
func EstimateTimeline(incident Incident) Timeline {
	switch {
	case incident.ExchangeDetected:
		return Timeline{
			BestCase:    "1-2 weeks",
			TypicalCase: "1-3 months",
			WorstCase:   "6+ months",
			Note:        "Exchange cooperation can expedite recovery",
		}
	case incident.MixerDetected:
		return Timeline{
			BestCase:    "3-6 months",
			TypicalCase: "6-12 months",
			WorstCase:   "May not recover",
			Note:        "Mixer usage significantly complicates recovery",
		}
	default:
		return Timeline{
			BestCase:    "2-4 weeks",
			TypicalCase: "2-6 months",
			WorstCase:   "12+ months",
			Note:        "Timeline depends on attacker cooperation and law enforcement",
		}
	}
}

// PreventionCategory groups prevention advice by theme.
type PreventionCategory struct {
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

// PreventionRecommendations returns advice to avoid future theft.
func PreventionRecommendations() []PreventionCategory {
	return []PreventionCategory{
		{
			Category: "Address Verification",
			Recommendations: []string{
				"Always verify the FULL address, not just first/last characters",
				"Use address book/contacts for frequent transfers",
				"Bookmark legitimate addresses in your browser",
				"Use ENS names instead of raw addresses when possible",
			},
		},
		{
			Category: "Transaction Safety",
			Recommendations: []string{
				"Always send test transaction first",
				"Wait and verify test transaction before sending large amounts",
				"Use hardware wallet for large transactions",
				"Enable transaction simulation (Tenderly, Pocket Universe)",
				"Review transaction details on hardware wallet screen",
			},
		},
		{
			Category: "Security Practices",
			Recommendations: []string{
				"Use hardware wallet for large holdings",
				"Enable 2FA on all exchanges",
				"Keep software and wallets updated",
				"Be suspicious of urgent requests",
				"Never share seed phrases or private keys",
			},
		},
		{
			Category: "Awareness",
			Recommendations: []string{
				"Learn about common scam types",
				"Be aware of address poisoning attacks",
				"Verify URLs before connecting wallet",
				"Be cautious of too-good-to-be-true offers",
				"Join crypto security communities",
			},
		},
	}
}

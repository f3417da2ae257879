package recovery

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Communication Templates
//
// Renders the documents a victim needs during recovery: the whitehat
// negotiation message sent on-chain to the attacker, the evidence
// package handed to law enforcement, and the urgent report sent to an
// exchange's fraud team.

// WhitehatMessage renders the negotiation message offering the
// attacker a bounty for returning the funds. bountyPercentage is the
// share the attacker keeps (typically 10).
func WhitehatMessage(incident Incident, bountyPercentage int) string {
	if bountyPercentage <= 0 || bountyPercentage >= 100 {
		bountyPercentage = 10
	}
	returnPercentage := 100 - bountyPercentage
	bountyAmount := incident.AmountUSD * float64(bountyPercentage) / 100
	returnAmount := incident.AmountUSD * float64(returnPercentage) / 100

	p := message.NewPrinter(language.English)
	return p.Sprintf(`TO THE ADDRESS HOLDING OUR FUNDS:

We are reaching out regarding the %.2f USD transferred to your address.

WHITEHAT BOUNTY OFFER:
- Return %d%% of funds (%.2f USD)
- Keep %d%% as whitehat bounty (%.2f USD)
- No questions asked, no legal action

CURRENT SITUATION:
- Law enforcement has been notified (Case filed)
- Multiple exchanges are monitoring these funds
- Blockchain forensics firms are tracking movements
- Every transaction is being documented

YOUR OPTIONS:
1. Accept this offer and return funds (RECOMMENDED)
2. Continue holding - face legal consequences and exchange freezes

TIME LIMIT: 72 hours from this message

CONTACT:
- Reply via on-chain message to this address
- Or contact: [Secure email/contact method]

This is your best opportunity to resolve this situation favorably.

Timestamp: %s
`, incident.AmountUSD, returnPercentage, returnAmount, bountyPercentage, bountyAmount,
		time.Now().UTC().Format(time.RFC3339))
}

// TimelineEntry is one event in the incident timeline.
type TimelineEntry struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Details   string `json:"details"`
}

// VictimInformation is the victim section of the evidence package.
type VictimInformation struct {
	IncidentDate    string  `json:"incidentDate,omitempty"`
	AmountStolen    float64 `json:"amountStolen"`
	TokenType       string  `json:"tokenType,omitempty"`
	VictimAddress   string  `json:"victimAddress,omitempty"`
	AttackerAddress string  `json:"attackerAddress,omitempty"`
}

// EvidencePackage is the complete law enforcement handoff document.
type EvidencePackage struct {
	PackageID          string            `json:"packageId"`
	Generated          time.Time         `json:"generated"`
	VictimInformation  VictimInformation `json:"victimInformation"`
	IncidentTimeline   []TimelineEntry   `json:"incidentTimeline"`
	BlockchainEvidence interface{}       `json:"blockchainEvidence,omitempty"`
	OSINTIntelligence  interface{}       `json:"osintIntelligence,omitempty"`
	RecommendedActions []string          `json:"recommendedActions"`
	SupportingDocs     []string          `json:"supportingDocuments"`
}

// LawEnforcementPackage assembles the evidence package from the
// incident plus any on-chain analysis and OSINT already collected.
func LawEnforcementPackage(incident Incident, blockchainAnalysis, osintData interface{}) EvidencePackage {
	return EvidencePackage{
		PackageID: newIncidentID(),
		Generated: time.Now().UTC(),
		VictimInformation: VictimInformation{
			IncidentDate:    incident.IncidentDate,
			AmountStolen:    incident.AmountUSD,
			TokenType:       incident.TokenType,
			VictimAddress:   incident.VictimAddress,
			AttackerAddress: incident.AttackerAddress,
		},
		IncidentTimeline:   buildIncidentTimeline(incident),
		BlockchainEvidence: blockchainAnalysis,
		OSINTIntelligence:  osintData,
		RecommendedActions: leRecommendedActions(incident),
		SupportingDocs:     []string{},
	}
}

func buildIncidentTimeline(incident Incident) []TimelineEntry {
	var timeline []TimelineEntry

	if incident.TestTransactionTime != "" {
		timeline = append(timeline, TimelineEntry{
			Timestamp: incident.TestTransactionTime,
			Event:     "Test transaction sent",
			Details:   "Victim sent small test amount",
		})
	}
	if incident.TheftTime != "" {
		timeline = append(timeline, TimelineEntry{
			Timestamp: incident.TheftTime,
			Event:     "Main theft transaction",
			Details:   fmt.Sprintf("Large amount stolen: %.2f USD", incident.AmountUSD),
		})
	}
	if incident.ConversionTime != "" {
		timeline = append(timeline, TimelineEntry{
			Timestamp: incident.ConversionTime,
			Event:     "Token conversion",
			Details:   "Attacker converted stolen tokens",
		})
	}
	if incident.MixerDepositTime != "" {
		timeline = append(timeline, TimelineEntry{
			Timestamp: incident.MixerDepositTime,
			Event:     "Mixer deposit",
			Details:   "Funds deposited into Tornado Cash or similar mixer",
		})
	}

	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Timestamp < timeline[j].Timestamp
	})
	return timeline
}

func leRecommendedActions(incident Incident) []string {
	actions := []string{
		"Issue preservation requests to identified exchanges",
		"Coordinate with blockchain forensics firms (Chainalysis, TRM Labs)",
		"Monitor known off-ramping points for stolen funds",
		"Issue subpoenas for exchange account information if funds deposited",
		"Coordinate with international law enforcement if cross-border",
	}
	if incident.MixerDetected {
		actions = append(actions,
			"Monitor mixer outputs for pattern matching",
			"Coordinate with other victims of similar attacks")
	}
	return actions
}

// ExchangeReport renders the urgent freeze request sent to an
// exchange's security team.
func ExchangeReport(incident Incident, exchangeName string) string {
	policeReport := incident.PoliceReportNumber
	if policeReport == "" {
		policeReport = "Pending"
	}
	ic3Complaint := incident.IC3ComplaintNumber
	if ic3Complaint == "" {
		ic3Complaint = "Pending"
	}

	return fmt.Sprintf(`URGENT: Stolen Cryptocurrency Report

To: %s Security/Fraud Team

INCIDENT SUMMARY:
- Date of Theft: %s
- Amount Stolen: %.2f USD
- Token Type: %s
- Victim Address: %s
- Attacker Address: %s

TRANSACTION DETAILS:
- Theft Transaction Hash: %s
- Deposit to Exchange (if applicable): %s

REQUEST:
We request immediate action to:
1. Freeze the account that received these funds
2. Preserve all account information for law enforcement
3. Prevent withdrawal of stolen funds
4. Provide account details to law enforcement

LAW ENFORCEMENT:
- Police Report Filed: %s
- FBI IC3 Complaint: %s

CONTACT INFORMATION:
- Name: [Your Name]
- Email: [Your Email]
- Phone: [Your Phone]

SUPPORTING EVIDENCE:
- Blockchain explorer links attached
- Transaction screenshots attached
- Police report attached (when available)

TIME SENSITIVITY:
This is a time-sensitive matter. The attacker may attempt to withdraw funds at any moment.

Thank you for your immediate attention to this matter.

Sincerely,
[Your Name]
%s
`, exchangeName,
		incident.IncidentDate,
		incident.AmountUSD,
		incident.TokenType,
		incident.VictimAddress,
		incident.AttackerAddress,
		incident.TheftTxHash,
		incident.ExchangeDepositTx,
		policeReport,
		ic3Complaint,
		time.Now().UTC().Format("2006-01-02"))
}

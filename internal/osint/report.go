package osint

import (
	"fmt"
	"strings"

	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// RenderReport formats a collected profile as a markdown intelligence
// report suitable for handing to investigators or victims.
func RenderReport(profile Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# OSINT Report for Address: %s\n\n", profile.Address)
	fmt.Fprintf(&b, "## Report Generated\n**Timestamp:** %s\n\n---\n\n", profile.CollectedAt.Format("2006-01-02T15:04:05Z07:00"))

	ra := profile.RiskAssessment
	fmt.Fprintf(&b, "## Risk Assessment\n**Risk Level:** %s\n**Risk Score:** %d/100\n**Recommendation:** %s\n\n", ra.RiskLevel, ra.RiskScore, ra.Recommendation)
	b.WriteString("### Risk Factors\n")
	if len(ra.RiskFactors) > 0 {
		for _, factor := range ra.RiskFactors {
			fmt.Fprintf(&b, "- %s\n", factor)
		}
	} else {
		b.WriteString("- No significant risk factors detected\n")
	}

	oc := profile.OnChain
	firstSeen, lastSeen := "N/A", "N/A"
	if oc.FirstSeen != nil {
		firstSeen = oc.FirstSeen.Format("2006-01-02 15:04:05")
	}
	if oc.LastSeen != nil {
		lastSeen = oc.LastSeen.Format("2006-01-02 15:04:05")
	}
	b.WriteString("\n---\n\n## On-Chain Intelligence\n")
	fmt.Fprintf(&b, "**Address Type:** %s\n", oc.AddressType)
	fmt.Fprintf(&b, "**First Seen:** %s\n**Last Seen:** %s\n", firstSeen, lastSeen)
	fmt.Fprintf(&b, "**Total Transactions:** %d\n**Unique Interactions:** %d\n", oc.TotalTransactions, oc.UniqueInteractions)

	b.WriteString("\n---\n\n## Public Labels\n")
	labels := profile.PublicLabels
	hasLabel := false
	if labels.ContractName != "" {
		fmt.Fprintf(&b, "**Contract Name:** %s\n", labels.ContractName)
		hasLabel = true
	}
	if labels.KnownEntity != "" {
		fmt.Fprintf(&b, "**Known Entity:** %s\n", labels.KnownEntity)
		hasLabel = true
	}
	if len(labels.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(labels.Tags, ", "))
		hasLabel = true
	}
	if !hasLabel {
		b.WriteString("No public labels found\n")
	}

	ti := profile.ThreatIntel
	flagged := "No"
	if ti.IsFlagged {
		flagged = "Yes"
	}
	b.WriteString("\n---\n\n## Threat Intelligence\n")
	fmt.Fprintf(&b, "**Flagged:** %s\n**Threat Level:** %s\n\n", flagged, ti.ThreatLevel)
	if len(ti.Reports) > 0 {
		b.WriteString("### Reports\n")
		for _, rep := range ti.Reports {
			fmt.Fprintf(&b, "- **%s:** %s (Severity: %s)\n", rep.Type, rep.Description, rep.Severity)
		}
	}

	b.WriteString("\n---\n\n## Public Mentions\n")
	fmt.Fprintf(&b, "**Total Found:** %d\n\n### Recommended Search Sources\n", profile.SocialMentions.TotalFound)
	for _, source := range profile.SocialMentions.Sources {
		fmt.Fprintf(&b, "- %s\n", source)
	}

	b.WriteString(`
---

## Disclaimer
This report is based on publicly available information and automated analysis.
It should not be considered as financial or legal advice. Always conduct your own
research and consult with professionals before making any decisions.

**Note:** OSINT data is collected from public sources only and complies with all
applicable laws and regulations.
`)

	return b.String()
}

// ExchangeContact is recovery contact guidance for an exchange.
type ExchangeContact struct {
	Name    string `json:"name"`
	Action  string `json:"action"`
	Urgency string `json:"urgency"`
}

// ServiceContact is a professional recovery or forensics firm.
type ServiceContact struct {
	Name    string `json:"name"`
	Service string `json:"service"`
	Website string `json:"website"`
}

// AgencyContact is a law enforcement reporting channel.
type AgencyContact struct {
	Agency  string `json:"agency"`
	Website string `json:"website,omitempty"`
	Note    string `json:"note"`
}

// RecoveryContacts groups everyone a victim should reach out to.
type RecoveryContacts struct {
	Exchanges        []ExchangeContact `json:"exchanges"`
	LawEnforcement   []AgencyContact   `json:"lawEnforcement"`
	RecoveryServices []ServiceContact  `json:"recoveryServices"`
}

// GetRecoveryContacts returns the recovery channels relevant to an
// address. When the address is a known exchange wallet, that exchange
// is listed as the primary contact.
func GetRecoveryContacts(address string) RecoveryContacts {
	contacts := RecoveryContacts{
		Exchanges: []ExchangeContact{},
	}

	if name, ok := heuristics.KnownExchange(models.NormalizeAddress(address)); ok {
		contacts.Exchanges = append(contacts.Exchanges, ExchangeContact{
			Name:    name,
			Action:  "Contact immediately with transaction details",
			Urgency: "HIGH",
		})
	}

	contacts.RecoveryServices = []ServiceContact{
		{Name: "Chainalysis", Service: "Blockchain forensics", Website: "https://www.chainalysis.com"},
		{Name: "TRM Labs", Service: "Crypto compliance and investigations", Website: "https://www.trmlabs.com"},
		{Name: "CipherBlade", Service: "Crypto investigation and recovery", Website: "https://cipherblade.com"},
	}

	contacts.LawEnforcement = []AgencyContact{
		{Agency: "FBI Internet Crime Complaint Center (IC3)", Website: "https://www.ic3.gov", Note: "For US-based victims"},
		{Agency: "Local Police Department", Note: "File a report with your local authorities"},
	}

	return contacts
}

package osint

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rawblock/ethtrace-engine/internal/cache"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Open Source Intelligence Collector
//
// Aggregates publicly available intelligence about an address:
//   - on-chain footprint (age, activity, counterparties, account type)
//   - public labels (verified contract names)
//   - threat intelligence (known mixer / exchange matches)
//   - pointers to public mention sources for manual follow-up
//
// Only legally obtainable public data is used. Collected profiles are
// cached because explorer lookups are rate limited.

const profileCacheTTL = time.Hour

// ChainSource is the explorer surface the collector needs.
// *explorer.Client satisfies this.
type ChainSource interface {
	TransactionHistory(ctx context.Context, address string) ([]models.Transfer, error)
	IsContract(ctx context.Context, address string) (bool, error)
	ContractName(ctx context.Context, address string) (string, error)
}

// Profile is the full OSINT picture for one address.
type Profile struct {
	Address        string             `json:"address"`
	CollectedAt    time.Time          `json:"collectedAt"`
	OnChain        OnChainIntel       `json:"onChainData"`
	PublicLabels   PublicLabels       `json:"publicLabels"`
	ThreatIntel    ThreatIntelligence `json:"threatIntelligence"`
	SocialMentions SocialMentions     `json:"socialMentions"`
	RiskAssessment RiskAssessment     `json:"riskAssessment"`
}

// OnChainIntel is the address's on-chain footprint.
type OnChainIntel struct {
	AddressType        string     `json:"addressType"` // "Smart Contract" / "EOA" / "Unknown"
	FirstSeen          *time.Time `json:"firstSeen,omitempty"`
	LastSeen           *time.Time `json:"lastSeen,omitempty"`
	TotalTransactions  int        `json:"totalTransactions"`
	UniqueInteractions int        `json:"uniqueInteractions"`
	FetchError         string     `json:"fetchError,omitempty"`
}

// PublicLabels holds publicly known names for the address.
type PublicLabels struct {
	ContractName string   `json:"contractName,omitempty"`
	KnownEntity  string   `json:"knownEntity,omitempty"`
	Tags         []string `json:"tags"`
}

// ThreatReport is a single finding from a threat source.
type ThreatReport struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // INFO/HIGH
}

// ThreatIntelligence is the address's standing against known-bad lists.
type ThreatIntelligence struct {
	IsFlagged   bool           `json:"isFlagged"`
	ThreatLevel string         `json:"threatLevel"` // UNKNOWN/HIGH
	Reports     []ThreatReport `json:"reports"`
	Sources     []string       `json:"sources"`
}

// SocialMentions points investigators at public mention sources.
type SocialMentions struct {
	TotalFound int      `json:"totalFound"`
	Sources    []string `json:"sources"`
	Note       string   `json:"note"`
}

// RiskAssessment is the OSINT-derived risk verdict.
type RiskAssessment struct {
	RiskScore      int       `json:"riskScore"` // 0-100
	RiskLevel      string    `json:"riskLevel"` // LOW/MEDIUM/HIGH/CRITICAL
	RiskFactors    []string  `json:"riskFactors"`
	Recommendation string    `json:"recommendation"`
	Timestamp      time.Time `json:"timestamp"`
}

// Collector gathers and caches OSINT profiles.
type Collector struct {
	chain ChainSource
	store cache.Cache
}

// NewCollector creates an OSINT collector backed by the given explorer
// source and cache.
func NewCollector(chain ChainSource, store cache.Cache) *Collector {
	return &Collector{chain: chain, store: store}
}

// Collect builds the full OSINT profile for an address, serving from
// cache when a fresh profile exists.
func (c *Collector) Collect(ctx context.Context, address string) Profile {
	address = models.NormalizeAddress(address)
	cacheKey := "osint:" + address

	if cached, err := c.store.Get(ctx, cacheKey); err == nil {
		var profile Profile
		if json.Unmarshal(cached, &profile) == nil {
			return profile
		}
	}

	profile := Profile{
		Address:     address,
		CollectedAt: time.Now().UTC(),
	}
	profile.OnChain = c.onChainIntel(ctx, address)
	profile.PublicLabels = c.publicLabels(ctx, address, profile.OnChain.AddressType)
	profile.ThreatIntel = threatIntelligence(address)
	profile.SocialMentions = socialMentionSources()
	profile.RiskAssessment = assessRisk(profile)

	if encoded, err := json.Marshal(profile); err == nil {
		if err := c.store.Set(ctx, cacheKey, encoded, profileCacheTTL); err != nil {
			log.Printf("[OSINT] Failed to cache profile for %s: %v", address, err)
		}
	}

	return profile
}

func (c *Collector) onChainIntel(ctx context.Context, address string) OnChainIntel {
	intel := OnChainIntel{AddressType: "Unknown"}

	if isContract, err := c.chain.IsContract(ctx, address); err == nil {
		if isContract {
			intel.AddressType = "Smart Contract"
		} else {
			intel.AddressType = "EOA (Externally Owned Account)"
		}
	}

	transfers, err := c.chain.TransactionHistory(ctx, address)
	if err != nil {
		intel.FetchError = "failed to fetch on-chain data: " + err.Error()
		return intel
	}

	intel.TotalTransactions = len(transfers)
	if len(transfers) > 0 {
		// The explorer returns history newest-first, so scan for the
		// actual oldest and newest timestamps instead of trusting order.
		oldest, newest := transfers[0].TimeStamp, transfers[0].TimeStamp
		for _, tr := range transfers[1:] {
			if tr.TimeStamp < oldest {
				oldest = tr.TimeStamp
			}
			if tr.TimeStamp > newest {
				newest = tr.TimeStamp
			}
		}
		first := time.Unix(oldest, 0).UTC()
		last := time.Unix(newest, 0).UTC()
		intel.FirstSeen = &first
		intel.LastSeen = &last

		counterparties := make(map[string]bool)
		for _, tr := range transfers {
			counterparties[tr.From] = true
			counterparties[tr.To] = true
		}
		intel.UniqueInteractions = len(counterparties)
	}

	return intel
}

func (c *Collector) publicLabels(ctx context.Context, address, addressType string) PublicLabels {
	labels := PublicLabels{Tags: []string{}}

	if name, ok := heuristics.KnownExchange(address); ok {
		labels.KnownEntity = name
		labels.Tags = append(labels.Tags, "Exchange")
	}
	if name, ok := heuristics.KnownMixer(address); ok {
		labels.KnownEntity = name
		labels.Tags = append(labels.Tags, "Mixer")
	}

	if addressType == "Smart Contract" {
		if name, err := c.chain.ContractName(ctx, address); err == nil && name != "" {
			labels.ContractName = name
			labels.Tags = append(labels.Tags, "Verified Contract")
		}
	}

	return labels
}

func threatIntelligence(address string) ThreatIntelligence {
	threat := ThreatIntelligence{
		ThreatLevel: "UNKNOWN",
		Reports:     []ThreatReport{},
		Sources:     []string{},
	}

	if name, ok := heuristics.KnownMixer(address); ok {
		threat.IsFlagged = true
		threat.ThreatLevel = "HIGH"
		threat.Reports = append(threat.Reports, ThreatReport{
			Type:        "Mixer",
			Description: "Known mixing contract: " + name,
			Severity:    "HIGH",
		})
		threat.Sources = append(threat.Sources, "Internal Database")
	}

	if name, ok := heuristics.KnownExchange(address); ok {
		threat.Reports = append(threat.Reports, ThreatReport{
			Type:        "Exchange",
			Description: "Known exchange: " + name,
			Severity:    "INFO",
		})
		threat.Sources = append(threat.Sources, "Internal Database")
	}

	return threat
}

func socialMentionSources() SocialMentions {
	return SocialMentions{
		Sources: []string{
			"Twitter/X - Search for address mentions",
			"Reddit - r/cryptocurrency, r/ethereum",
			"GitHub - Public repositories",
			"Etherscan - Comments section",
			"Crypto forums - BitcoinTalk, etc.",
		},
		Note: "Manual search recommended for comprehensive results",
	}
}

// assessRisk scores the profile. Flagged addresses +50, thin history
// +10, unverified contracts +15.
func assessRisk(profile Profile) RiskAssessment {
	score := 0
	factors := []string{}

	if profile.ThreatIntel.IsFlagged {
		score += 50
		factors = append(factors, "Address flagged in threat databases")
	}
	if profile.OnChain.TotalTransactions < 5 {
		score += 10
		factors = append(factors, "Low transaction history (potential new scam address)")
	}
	if profile.OnChain.AddressType == "Smart Contract" && profile.PublicLabels.ContractName == "" {
		score += 15
		factors = append(factors, "Unverified smart contract")
	}

	if score > 100 {
		score = 100
	}

	level := riskLevel(score)
	return RiskAssessment{
		RiskScore:      score,
		RiskLevel:      level,
		RiskFactors:    factors,
		Recommendation: recommendationFor(level),
		Timestamp:      time.Now().UTC(),
	}
}

func riskLevel(score int) string {
	switch {
	case score >= 75:
		return "CRITICAL"
	case score >= 50:
		return "HIGH"
	case score >= 25:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func recommendationFor(level string) string {
	switch level {
	case "CRITICAL":
		return "DO NOT INTERACT - High risk of scam or theft. Report to authorities."
	case "HIGH":
		return "CAUTION - Significant risk factors detected. Verify thoroughly before any interaction."
	case "MEDIUM":
		return "VERIFY - Some risk factors present. Conduct additional research before proceeding."
	default:
		return "NORMAL - Standard precautions apply. Always verify addresses before sending funds."
	}
}

package osint

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/rawblock/ethtrace-engine/internal/cache"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// fakeChainSource serves canned explorer answers.
type fakeChainSource struct {
	transfers    []models.Transfer
	isContract   bool
	contractName string
	historyCalls int
}

func (f *fakeChainSource) TransactionHistory(_ context.Context, _ string) ([]models.Transfer, error) {
	f.historyCalls++
	return f.transfers, nil
}

func (f *fakeChainSource) IsContract(_ context.Context, _ string) (bool, error) {
	return f.isContract, nil
}

func (f *fakeChainSource) ContractName(_ context.Context, _ string) (string, error) {
	return f.contractName, nil
}

const tornadoPool = "0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc"

func manyTransfers(n int) []models.Transfer {
	transfers := make([]models.Transfer, n)
	for i := range transfers {
		transfers[i] = models.Transfer{
			Hash:      "0x0a",
			From:      "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			To:        "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			Value:     big.NewInt(1e15),
			TimeStamp: 1700000000 + int64(i*3600),
		}
	}
	return transfers
}

func TestCollect_CleanEOA(t *testing.T) {
	chain := &fakeChainSource{transfers: manyTransfers(20)}
	collector := NewCollector(chain, cache.NewMemoryCache())

	profile := collector.Collect(context.Background(), "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	if profile.Address != "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("Expected normalized address, got %s", profile.Address)
	}
	if profile.OnChain.AddressType != "EOA (Externally Owned Account)" {
		t.Errorf("Expected EOA type, got %s", profile.OnChain.AddressType)
	}
	if profile.OnChain.TotalTransactions != 20 {
		t.Errorf("Expected 20 transactions, got %d", profile.OnChain.TotalTransactions)
	}
	if profile.RiskAssessment.RiskScore != 0 {
		t.Errorf("Expected risk 0 for active clean EOA, got %d", profile.RiskAssessment.RiskScore)
	}
	if profile.RiskAssessment.RiskLevel != "LOW" {
		t.Errorf("Expected LOW risk level, got %s", profile.RiskAssessment.RiskLevel)
	}
}

func TestCollect_FirstSeenBeforeLastSeen(t *testing.T) {
	// The explorer serves history newest-first; the profile must still
	// report the oldest timestamp as FirstSeen.
	chain := &fakeChainSource{transfers: []models.Transfer{
		{Hash: "0x02", From: "0xcccccccccccccccccccccccccccccccccccccccc",
			To: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Value: big.NewInt(1e15), TimeStamp: 1800000000},
		{Hash: "0x01", From: "0xcccccccccccccccccccccccccccccccccccccccc",
			To: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Value: big.NewInt(1e15), TimeStamp: 1600000000},
	}}
	collector := NewCollector(chain, cache.NewMemoryCache())

	profile := collector.Collect(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if profile.OnChain.FirstSeen == nil || profile.OnChain.LastSeen == nil {
		t.Fatal("Expected both FirstSeen and LastSeen to be set")
	}
	if profile.OnChain.FirstSeen.Unix() != 1600000000 {
		t.Errorf("Expected FirstSeen at the oldest transfer (1600000000), got %d", profile.OnChain.FirstSeen.Unix())
	}
	if profile.OnChain.LastSeen.Unix() != 1800000000 {
		t.Errorf("Expected LastSeen at the newest transfer (1800000000), got %d", profile.OnChain.LastSeen.Unix())
	}
	if profile.OnChain.FirstSeen.After(*profile.OnChain.LastSeen) {
		t.Errorf("FirstSeen %v is after LastSeen %v", profile.OnChain.FirstSeen, profile.OnChain.LastSeen)
	}
}

func TestCollect_MixerFlagged(t *testing.T) {
	chain := &fakeChainSource{transfers: manyTransfers(2), isContract: true}
	collector := NewCollector(chain, cache.NewMemoryCache())

	profile := collector.Collect(context.Background(), tornadoPool)

	if !profile.ThreatIntel.IsFlagged {
		t.Fatal("Expected a known mixer to be flagged")
	}
	if profile.ThreatIntel.ThreatLevel != "HIGH" {
		t.Errorf("Expected threat level HIGH, got %s", profile.ThreatIntel.ThreatLevel)
	}
	// flagged +50, thin history +10, unverified contract +15 = 75
	if profile.RiskAssessment.RiskScore != 75 {
		t.Errorf("Expected risk score 75, got %d", profile.RiskAssessment.RiskScore)
	}
	if profile.RiskAssessment.RiskLevel != "CRITICAL" {
		t.Errorf("Expected CRITICAL risk level, got %s", profile.RiskAssessment.RiskLevel)
	}
	hasMixerTag := false
	for _, tag := range profile.PublicLabels.Tags {
		if tag == "Mixer" {
			hasMixerTag = true
		}
	}
	if !hasMixerTag {
		t.Errorf("Expected Mixer tag, got %v", profile.PublicLabels.Tags)
	}
}

func TestCollect_VerifiedContract(t *testing.T) {
	chain := &fakeChainSource{
		transfers:    manyTransfers(50),
		isContract:   true,
		contractName: "TetherToken",
	}
	collector := NewCollector(chain, cache.NewMemoryCache())

	profile := collector.Collect(context.Background(), "0xdac17f958d2ee523a2206206994597c13d831ec7")

	if profile.PublicLabels.ContractName != "TetherToken" {
		t.Errorf("Expected contract name TetherToken, got %s", profile.PublicLabels.ContractName)
	}
	if profile.RiskAssessment.RiskScore != 0 {
		t.Errorf("Expected verified active contract to score 0, got %d", profile.RiskAssessment.RiskScore)
	}
}

func TestCollect_ServesFromCache(t *testing.T) {
	chain := &fakeChainSource{transfers: manyTransfers(10)}
	collector := NewCollector(chain, cache.NewMemoryCache())

	first := collector.Collect(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	second := collector.Collect(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if chain.historyCalls != 1 {
		t.Errorf("Expected one explorer fetch with a warm cache, got %d", chain.historyCalls)
	}
	if !first.CollectedAt.Equal(second.CollectedAt) {
		t.Error("Expected the cached profile to be returned unchanged")
	}
}

func TestRenderReport(t *testing.T) {
	chain := &fakeChainSource{transfers: manyTransfers(3)}
	collector := NewCollector(chain, cache.NewMemoryCache())
	profile := collector.Collect(context.Background(), tornadoPool)

	report := RenderReport(profile)

	if !strings.Contains(report, tornadoPool) {
		t.Error("Expected the report to include the subject address")
	}
	if !strings.Contains(report, "## Risk Assessment") {
		t.Error("Expected a risk assessment section")
	}
	if !strings.Contains(report, "public sources only") {
		t.Error("Expected the public-data disclaimer")
	}
}

func TestGetRecoveryContacts_ExchangeWallet(t *testing.T) {
	contacts := GetRecoveryContacts("0x28c6c06298d514db089934071355e5743bf21d60")

	if len(contacts.Exchanges) != 1 || contacts.Exchanges[0].Name != "Binance" {
		t.Errorf("Expected a Binance contact for a known deposit wallet, got %+v", contacts.Exchanges)
	}
	if len(contacts.LawEnforcement) == 0 {
		t.Error("Expected law enforcement contacts")
	}
	if len(contacts.RecoveryServices) == 0 {
		t.Error("Expected forensics firm contacts")
	}
	found := false
	for _, agency := range contacts.LawEnforcement {
		if strings.Contains(agency.Agency, "IC3") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the FBI IC3 contact to be listed")
	}
}

func TestGetRecoveryContacts_UnknownAddress(t *testing.T) {
	contacts := GetRecoveryContacts("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if len(contacts.Exchanges) != 0 {
		t.Errorf("Expected no exchange contact for an unknown address, got %+v", contacts.Exchanges)
	}
	if len(contacts.LawEnforcement) == 0 {
		t.Error("Expected law enforcement contacts regardless of address")
	}
}

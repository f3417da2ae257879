package monitor

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rawblock/ethtrace-engine/internal/api"
	"github.com/rawblock/ethtrace-engine/internal/db"
	"github.com/rawblock/ethtrace-engine/internal/explorer"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Watchlist Activity Poller
//
// Periodically re-fetches transfer history for every watchlisted
// address. New transfers (not seen in a previous poll) are scanned
// against the watchlist and scored; hits and high-risk movement emit
// alerts through the AlertManager and the WebSocket hub.
//
// Explorer APIs are rate limited, so each address poll is spaced out
// by the client's own throttle plus the poll interval.

type Poller struct {
	explorer  *explorer.Client
	watchlist *heuristics.AddressWatchlist
	alerts    *heuristics.AlertManager
	wsHub     *api.Hub
	dbStore   *db.PostgresStore
	interval  time.Duration
	seenTxs   map[string]bool
}

// StreamPayload is the per-transfer activity event pushed to dashboards.
type StreamPayload struct {
	Type       string                    `json:"type"`
	Address    string                    `json:"address"`
	Hash       string                    `json:"hash"`
	From       string                    `json:"from"`
	To         string                    `json:"to"`
	ValueEther float64                   `json:"valueEther"`
	TimeStamp  int64                     `json:"timeStamp"`
	Hits       []heuristics.WatchlistHit `json:"hits,omitempty"`
}

func NewPoller(explorerClient *explorer.Client, watchlist *heuristics.AddressWatchlist,
	alerts *heuristics.AlertManager, wsHub *api.Hub, dbStore *db.PostgresStore,
	interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		explorer:  explorerClient,
		watchlist: watchlist,
		alerts:    alerts,
		wsHub:     wsHub,
		dbStore:   dbStore,
		interval:  interval,
		seenTxs:   make(map[string]bool),
	}
}

func (p *Poller) Run(ctx context.Context) {
	log.Println("[Monitor] Starting watchlist activity poller...")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Reset seen set daily to bound memory; re-announcing old transfers
	// once a day is acceptable.
	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	// Prime the seen set so the first tick does not re-alert history.
	p.poll(ctx, true)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Monitor] Stopping watchlist poller...")
			return
		case <-cleanupTicker.C:
			p.seenTxs = make(map[string]bool)
			p.poll(ctx, true)
		case <-ticker.C:
			p.poll(ctx, false)
		}
	}
}

// poll fetches fresh history for every watched address. With prime set,
// transfers are recorded as seen without emitting alerts.
func (p *Poller) poll(ctx context.Context, prime bool) {
	for _, watched := range p.watchlist.ListAll() {
		if ctx.Err() != nil {
			return
		}

		transfers, err := p.explorer.TransactionHistory(ctx, watched.Address)
		if err != nil {
			log.Printf("[Monitor] Error fetching history for %s: %v",
				models.ShortAddress(watched.Address, 6), err)
			continue
		}

		var fresh []models.Transfer
		for _, tr := range transfers {
			if p.seenTxs[tr.Hash] {
				continue
			}
			p.seenTxs[tr.Hash] = true
			if !prime {
				fresh = append(fresh, tr)
			}
		}
		if len(fresh) == 0 {
			continue
		}

		log.Printf("[Monitor] %d new transfer(s) on watched address %s (%s)",
			len(fresh), models.ShortAddress(watched.Address, 6), watched.Category)

		p.processTransfers(ctx, watched.Address, transfers, fresh)
	}
}

func (p *Poller) processTransfers(ctx context.Context, address string, history, fresh []models.Transfer) {
	// Re-score the address against its full history.
	poisoning := heuristics.DetectAddressPoisoning(address, history)
	mixer := heuristics.DetectMixerUsage(address, history)
	pattern := heuristics.AnalyzeTransactionPattern(address, history, mixer, poisoning)

	if p.dbStore != nil {
		if err := p.dbStore.SaveRiskAssessment(ctx, pattern,
			mixer.MixerDetected, poisoning.TotalSuspicious > 0); err != nil {
			log.Printf("[Monitor] Failed to persist risk assessment: %v", err)
		}
	}

	var allHits []heuristics.WatchlistHit
	for _, tr := range fresh {
		hits := p.watchlist.CheckTransfer(tr)
		allHits = append(allHits, hits...)

		payload := StreamPayload{
			Type:       "watched_transfer",
			Address:    address,
			Hash:       tr.Hash,
			From:       tr.From,
			To:         tr.To,
			ValueEther: tr.ValueEther(),
			TimeStamp:  tr.TimeStamp,
			Hits:       hits,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		p.wsHub.Broadcast(data)
	}

	p.alerts.EmitFromAnalysis(pattern, allHits)
}

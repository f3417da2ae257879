package heuristics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Investigation Case Manager
//
// Manages incident response investigations. An investigator:
//   1. Creates a case with theft addresses
//   2. Runs a fund flow trace
//   3. Tags addresses (exchange, suspect, service)
//   4. Reviews timeline and exit points
//   5. Exports evidence for law enforcement
//
// This is analogous to Chainalysis Reactor cases or Elliptic
// Navigator investigations. Each case maintains a persistent
// flow graph that can be updated as new on-chain data appears.
//
// Investigation lifecycle:
//   active    → trace running, new data being added
//   paused    → temporarily halted
//   completed → all funds accounted for
//   archived  → closed and preserved for records

// Investigation represents a single incident response case.
// The mutex guards the case itself; the manager's lock only covers
// the case map, so concurrent requests on the same case go through
// this one.
type Investigation struct {
	mu sync.RWMutex

	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Status          string          `json:"status"` // "active"/"paused"/"completed"/"archived"
	TheftAddresses  []string        `json:"theftAddresses"`
	TaggedAddresses []TaggedAddress `json:"taggedAddresses"`
	FlowGraph       *FlowGraph      `json:"flowGraph,omitempty"`
	TotalStolen     float64         `json:"totalStolen"`    // Ether stolen
	TotalRecovered  float64         `json:"totalRecovered"` // Ether at identified exchange exits
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	TraceConfig     TraceConfig     `json:"traceConfig"`
}

// TaggedAddress is an address with investigator-provided metadata
type TaggedAddress struct {
	Address   string    `json:"address"`
	Label     string    `json:"label"` // "Binance Hot Wallet", "Suspect Wallet", etc.
	Role      string    `json:"role"`  // "theft"/"suspect"/"exchange"/"service"/"unknown"
	Notes     string    `json:"notes,omitempty"`
	HopNumber int       `json:"hopNumber"`
	Value     float64   `json:"value"` // Ether tracked to this address
	TaggedAt  time.Time `json:"taggedAt"`
	TaggedBy  string    `json:"taggedBy,omitempty"` // Investigator name/ID
}

// TimelineEvent represents a chronological event in the investigation
type TimelineEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"eventType"` // "theft"/"transfer"/"mixer_entry"/"exchange_deposit"/"tagged"
	Description string    `json:"description"`
	Hash        string    `json:"hash,omitempty"`
	FromAddress string    `json:"fromAddress,omitempty"`
	ToAddress   string    `json:"toAddress,omitempty"`
	ValueEther  float64   `json:"valueEther"`
	HopNumber   int       `json:"hopNumber"`
}

// InvestigationManager handles CRUD for investigations
type InvestigationManager struct {
	mu    sync.RWMutex
	cases map[string]*Investigation
}

// NewInvestigationManager creates a new case manager
func NewInvestigationManager() *InvestigationManager {
	return &InvestigationManager{
		cases: make(map[string]*Investigation),
	}
}

// CreateInvestigation starts a new incident response case
func (m *InvestigationManager) CreateInvestigation(name, description string, theftAddresses []string, totalStolen float64) *Investigation {
	now := time.Now()
	inv := &Investigation{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    description,
		Status:         "active",
		TheftAddresses: theftAddresses,
		TotalStolen:    totalStolen,
		CreatedAt:      now,
		UpdatedAt:      now,
		TraceConfig:    DefaultTraceConfig(),
	}

	m.mu.Lock()
	m.cases[inv.ID] = inv
	m.mu.Unlock()
	return inv
}

// GetInvestigation retrieves a case by ID
func (m *InvestigationManager) GetInvestigation(id string) *Investigation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cases[id]
}

// ListInvestigations returns all cases
func (m *InvestigationManager) ListInvestigations() []*Investigation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*Investigation
	for _, inv := range m.cases {
		list = append(list, inv)
	}
	return list
}

// ConfigureTrace applies positive trace setting overrides to the case.
func (inv *Investigation) ConfigureTrace(maxHops, maxBranches int, minValueEther float64) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if maxHops > 0 {
		inv.TraceConfig.MaxHops = maxHops
	}
	if maxBranches > 0 {
		inv.TraceConfig.MaxBranches = maxBranches
	}
	if minValueEther > 0 {
		inv.TraceConfig.MinValueEther = minValueEther
	}
}

// RunTrace executes the fund flow trace for a case
func (inv *Investigation) RunTrace(ctx context.Context, src TransferSource) {
	// The trace itself hits the explorer; keep it outside the lock.
	inv.mu.RLock()
	addresses := inv.TheftAddresses
	cfg := inv.TraceConfig
	inv.mu.RUnlock()

	graph := TraceFunds(ctx, src, addresses, cfg)

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.FlowGraph = &graph
	inv.computeRecoveryLocked()
	inv.UpdatedAt = time.Now()
}

// TagAddress adds a label and metadata to an address in the investigation
func (inv *Investigation) TagAddress(addr, label, role, notes, taggedBy string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	tag := TaggedAddress{
		Address:  addr,
		Label:    label,
		Role:     role,
		Notes:    notes,
		TaggedAt: time.Now(),
		TaggedBy: taggedBy,
	}

	// Find existing tag and update, or append new
	updated := false
	for i, existing := range inv.TaggedAddresses {
		if existing.Address == addr {
			inv.TaggedAddresses[i] = tag
			updated = true
			break
		}
	}
	if !updated {
		inv.TaggedAddresses = append(inv.TaggedAddresses, tag)
	}
	inv.UpdatedAt = time.Now()

	// Also update the flow graph node if it exists
	if inv.FlowGraph != nil {
		for i := range inv.FlowGraph.Nodes {
			if inv.FlowGraph.Nodes[i].Address == addr {
				inv.FlowGraph.Nodes[i].Label = label
				inv.FlowGraph.Nodes[i].Role = role
				inv.FlowGraph.Nodes[i].IsFlagged = true
				break
			}
		}
	}
}

// GetTimeline builds a chronological timeline of all events
func (inv *Investigation) GetTimeline() []TimelineEvent {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var events []TimelineEvent

	for _, addr := range inv.TheftAddresses {
		events = append(events, TimelineEvent{
			Timestamp:   inv.CreatedAt,
			EventType:   "theft",
			Description: "Funds stolen from address",
			ToAddress:   addr,
			ValueEther:  inv.TotalStolen,
			HopNumber:   0,
		})
	}

	if inv.FlowGraph != nil {
		for _, edge := range inv.FlowGraph.Edges {
			eventType := "transfer"
			desc := "Fund transfer"
			if _, isMixer := KnownMixer(edge.ToAddress); isMixer {
				eventType = "mixer_entry"
				desc = "Funds entered mixing contract"
			}

			events = append(events, TimelineEvent{
				Timestamp:   time.Unix(edge.TimeStamp, 0),
				EventType:   eventType,
				Description: desc,
				Hash:        edge.Hash,
				FromAddress: edge.FromAddress,
				ToAddress:   edge.ToAddress,
				ValueEther:  edge.ValueEther,
				HopNumber:   edge.HopNumber,
			})
		}

		for _, node := range inv.FlowGraph.Nodes {
			if node.Role != "exchange" {
				continue
			}
			// Date the deposit by the last transfer into the exchange.
			var depositedAt int64
			for _, edge := range inv.FlowGraph.Edges {
				if edge.ToAddress == node.Address && edge.TimeStamp > depositedAt {
					depositedAt = edge.TimeStamp
				}
			}
			events = append(events, TimelineEvent{
				Timestamp:   time.Unix(depositedAt, 0),
				EventType:   "exchange_deposit",
				Description: "Funds deposited to " + node.Label,
				ToAddress:   node.Address,
				ValueEther:  node.ValueReceived,
				HopNumber:   node.HopNumber,
			})
		}
	}

	for _, tag := range inv.TaggedAddresses {
		events = append(events, TimelineEvent{
			Timestamp:   tag.TaggedAt,
			EventType:   "tagged",
			Description: "Address tagged as: " + tag.Label,
			ToAddress:   tag.Address,
			HopNumber:   tag.HopNumber,
		})
	}

	return events
}

// GetExchangeExits returns all identified exchange deposit points
func (inv *Investigation) GetExchangeExits() []FlowNode {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.exchangeExits()
}

func (inv *Investigation) exchangeExits() []FlowNode {
	if inv.FlowGraph == nil {
		return nil
	}
	return inv.FlowGraph.GetExitPoints()
}

// ComputeRecovery calculates total value at identified exchange exits
func (inv *Investigation) ComputeRecovery() float64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.computeRecoveryLocked()
}

func (inv *Investigation) computeRecoveryLocked() float64 {
	total := 0.0
	for _, exit := range inv.exchangeExits() {
		total += exit.ValueReceived
	}
	inv.TotalRecovered = total
	return total
}

// SetStatus updates the investigation status
func (inv *Investigation) SetStatus(status string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.Status = status
	inv.UpdatedAt = time.Now()
}

package heuristics

import (
	"context"
	"time"

	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Fund Flow Tracer — Incident Response Core
//
// Given a theft address, walks the outgoing transfer graph hop-by-hop
// and builds a directed graph showing where the stolen funds went:
//   1. Start at the theft address
//   2. Fetch its outgoing transfers from the explorer
//   3. Record an edge per transfer, label the destination
//   4. Recurse on each destination (next hop)
//   5. Stop at mixers, exchanges, dead ends, or the hop/branch limits
//
// Tracing stops descending at known mixer contracts (deterministic
// tracing ends there) and at known exchange wallets (those are the
// recovery targets, not hops).

// TransferSource provides outgoing transfer history for an address.
// *explorer.Client satisfies this.
type TransferSource interface {
	TransactionHistory(ctx context.Context, address string) ([]models.Transfer, error)
}

// FlowGraph is the complete traced fund flow from one or more theft addresses.
type FlowGraph struct {
	SourceAddresses []string   `json:"sourceAddresses"`
	Nodes           []FlowNode `json:"nodes"`
	Edges           []FlowEdge `json:"edges"`
	TotalTracked    float64    `json:"totalTracked"` // ether
	MaxHopReached   int        `json:"maxHopReached"`
	ExchangeExits   int        `json:"exchangeExits"`
	MixersReached   int        `json:"mixersReached"`
	Truncated       bool       `json:"truncated"` // hit a hop/branch limit
	CreatedAt       time.Time  `json:"createdAt"`
}

// FlowNode is a single address in the flow graph.
type FlowNode struct {
	Address       string  `json:"address"`
	HopNumber     int     `json:"hopNumber"`
	ValueReceived float64 `json:"valueReceived"` // ether
	Role          string  `json:"role"`          // "theft"/"intermediate"/"mixer"/"exchange"
	Label         string  `json:"label,omitempty"`
	RiskScore     float64 `json:"riskScore"` // 0.0-1.0, decays with hop distance
	IsFlagged     bool    `json:"isFlagged"`
}

// FlowEdge is a single fund movement between two addresses.
type FlowEdge struct {
	FromAddress string  `json:"fromAddress"`
	ToAddress   string  `json:"toAddress"`
	Hash        string  `json:"hash"`
	ValueEther  float64 `json:"valueEther"`
	HopNumber   int     `json:"hopNumber"`
	TimeStamp   int64   `json:"timeStamp"`
}

// TraceConfig controls the tracing behavior.
type TraceConfig struct {
	MaxHops       int     `json:"maxHops"`       // maximum hop depth
	MaxBranches   int     `json:"maxBranches"`   // max outgoing edges followed per address
	MinValueEther float64 `json:"minValueEther"` // ignore dust transfers below this
}

// DefaultTraceConfig returns sensible defaults for fund tracing.
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		MaxHops:       5,
		MaxBranches:   50,
		MinValueEther: 0.0001,
	}
}

// TraceFunds builds the flow graph by breadth-limited recursion from
// the source addresses. Explorer failures at a hop terminate that
// branch but do not fail the whole trace.
func TraceFunds(ctx context.Context, src TransferSource, sources []string, cfg TraceConfig) FlowGraph {
	graph := FlowGraph{
		SourceAddresses: make([]string, 0, len(sources)),
		Nodes:           []FlowNode{},
		Edges:           []FlowEdge{},
		CreatedAt:       time.Now().UTC(),
	}

	visited := make(map[string]bool)
	for _, addr := range sources {
		addr = models.NormalizeAddress(addr)
		graph.SourceAddresses = append(graph.SourceAddresses, addr)
		graph.addNode(FlowNode{
			Address:   addr,
			HopNumber: 0,
			Role:      "theft",
			RiskScore: 1.0,
			IsFlagged: true,
		})
		graph.traceFrom(ctx, src, addr, 0, cfg, visited)
	}
	return graph
}

func (g *FlowGraph) traceFrom(ctx context.Context, src TransferSource, address string, hop int, cfg TraceConfig, visited map[string]bool) {
	if hop >= cfg.MaxHops {
		g.Truncated = true
		return
	}
	if visited[address] || ctx.Err() != nil {
		return
	}
	visited[address] = true

	transfers, err := src.TransactionHistory(ctx, address)
	if err != nil {
		return
	}

	branches := 0
	for _, tr := range transfers {
		if tr.From != address || tr.To == "" || tr.IsError {
			continue
		}
		value := tr.ValueEther()
		if value < cfg.MinValueEther {
			continue
		}
		if branches >= cfg.MaxBranches {
			g.Truncated = true
			break
		}
		branches++

		g.Edges = append(g.Edges, FlowEdge{
			FromAddress: address,
			ToAddress:   tr.To,
			Hash:        tr.Hash,
			ValueEther:  value,
			HopNumber:   hop + 1,
			TimeStamp:   tr.TimeStamp,
		})
		g.TotalTracked += value
		if hop+1 > g.MaxHopReached {
			g.MaxHopReached = hop + 1
		}

		role, label := classifyDestination(tr.To)
		node := FlowNode{
			Address:       tr.To,
			HopNumber:     hop + 1,
			ValueReceived: value,
			Role:          role,
			Label:         label,
			RiskScore:     hopRisk(hop + 1),
		}

		switch role {
		case "exchange":
			node.IsFlagged = true
			if g.addNode(node) {
				g.ExchangeExits++
			}
			// Recovery target, not a hop.
		case "mixer":
			node.IsFlagged = true
			if g.addNode(node) {
				g.MixersReached++
			}
			// Deterministic tracing ends at the pool contract.
		default:
			g.addNode(node)
			g.traceFrom(ctx, src, tr.To, hop+1, cfg, visited)
		}
	}
}

func classifyDestination(addr string) (role, label string) {
	if name, ok := KnownExchange(addr); ok {
		return "exchange", name
	}
	if name, ok := KnownMixer(addr); ok {
		return "mixer", name
	}
	return "intermediate", ""
}

// addNode inserts a node, or accumulates received value into an
// existing one. Reports whether the node was newly added.
func (g *FlowGraph) addNode(node FlowNode) bool {
	for i := range g.Nodes {
		if g.Nodes[i].Address == node.Address {
			g.Nodes[i].ValueReceived += node.ValueReceived
			return false
		}
	}
	g.Nodes = append(g.Nodes, node)
	return true
}

// MarkExchangeExit tags a node as an exchange deposit after the fact
// (investigator-supplied intelligence).
func (g *FlowGraph) MarkExchangeExit(addr, exchangeName string) {
	for i := range g.Nodes {
		if g.Nodes[i].Address == addr {
			if g.Nodes[i].Role != "exchange" {
				g.ExchangeExits++
			}
			g.Nodes[i].Role = "exchange"
			g.Nodes[i].Label = exchangeName
			g.Nodes[i].IsFlagged = true
			return
		}
	}
}

// GetExitPoints returns all nodes classified as exchange exits.
func (g *FlowGraph) GetExitPoints() []FlowNode {
	var exits []FlowNode
	for _, node := range g.Nodes {
		if node.Role == "exchange" {
			exits = append(exits, node)
		}
	}
	return exits
}

// GetHop returns all edges at a specific hop number.
func (g *FlowGraph) GetHop(hop int) []FlowEdge {
	var edges []FlowEdge
	for _, edge := range g.Edges {
		if edge.HopNumber == hop {
			edges = append(edges, edge)
		}
	}
	return edges
}

// hopRisk decays risk with distance from the theft address.
func hopRisk(hop int) float64 {
	risk := 1.0
	for i := 0; i < hop; i++ {
		risk *= 0.85
	}
	return risk
}

// Summary returns a compact overview of the trace for API responses.
func (g *FlowGraph) Summary() map[string]interface{} {
	return map[string]interface{}{
		"sourceAddresses": g.SourceAddresses,
		"totalNodes":      len(g.Nodes),
		"totalEdges":      len(g.Edges),
		"totalTracked":    g.TotalTracked,
		"maxHopReached":   g.MaxHopReached,
		"exchangeExits":   g.ExchangeExits,
		"mixersReached":   g.MixersReached,
		"truncated":       g.Truncated,
	}
}

package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Investigation API Handlers — Incident Response

// POST /api/v1/investigations
// Creates a new investigation case for fund tracing.
func (h *APIHandler) handleCreateInvestigation(c *gin.Context) {
	var req struct {
		Name           string   `json:"name" binding:"required"`
		Description    string   `json:"description"`
		TheftAddresses []string `json:"theftAddresses" binding:"required"`
		TotalStolen    float64  `json:"totalStolen"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.TheftAddresses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one theft address is required"})
		return
	}
	for i, addr := range req.TheftAddresses {
		addr = models.NormalizeAddress(addr)
		if !models.ValidAddress(addr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theft address: " + addr})
			return
		}
		req.TheftAddresses[i] = addr
	}

	inv := h.invManager.CreateInvestigation(req.Name, req.Description, req.TheftAddresses, req.TotalStolen)

	// Theft addresses go on the live watchlist immediately.
	if h.watchlist != nil {
		h.watchlist.LoadFromInvestigation(inv)
	}
	h.persistInvestigation(c.Request.Context(), inv)

	c.JSON(http.StatusCreated, gin.H{
		"status":        "created",
		"investigation": inv,
	})
}

// GET /api/v1/investigations
func (h *APIHandler) handleListInvestigations(c *gin.Context) {
	list := h.invManager.ListInvestigations()
	if list == nil {
		list = []*heuristics.Investigation{}
	}
	c.JSON(http.StatusOK, gin.H{
		"investigations": list,
		"total":          len(list),
	})
}

// GET /api/v1/investigations/:id
// Returns the full investigation details including flow graph.
func (h *APIHandler) handleGetInvestigation(c *gin.Context) {
	inv := h.invManager.GetInvestigation(c.Param("id"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// POST /api/v1/investigations/:id/trace
// Runs the fund flow trace for an investigation.
func (h *APIHandler) handleRunTrace(c *gin.Context) {
	caseID := c.Param("id")

	inv := h.invManager.GetInvestigation(caseID)
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	// Optional: accept trace config overrides
	var req struct {
		MaxHops       int     `json:"maxHops"`
		MaxBranches   int     `json:"maxBranches"`
		MinValueEther float64 `json:"minValueEther"`
	}
	if err := c.ShouldBindJSON(&req); err == nil {
		inv.ConfigureTrace(req.MaxHops, req.MaxBranches, req.MinValueEther)
	}

	inv.RunTrace(c.Request.Context(), h.explorer)
	h.persistInvestigation(c.Request.Context(), inv)

	summary := gin.H{
		"status": "trace_complete",
		"caseId": caseID,
	}
	if inv.FlowGraph != nil {
		summary["summary"] = inv.FlowGraph.Summary()
	}

	c.JSON(http.StatusOK, summary)
}

// GET /api/v1/investigations/:id/graph
// Returns the fund flow graph for visualization.
func (h *APIHandler) handleGetFlowGraph(c *gin.Context) {
	inv := h.invManager.GetInvestigation(c.Param("id"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	if inv.FlowGraph == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "No trace has been run yet. POST to /trace first.",
			"nodes":   []heuristics.FlowNode{},
			"edges":   []heuristics.FlowEdge{},
		})
		return
	}

	c.JSON(http.StatusOK, inv.FlowGraph)
}

// POST /api/v1/investigations/:id/tag
// Tags an address with investigator-provided metadata.
func (h *APIHandler) handleTagAddress(c *gin.Context) {
	caseID := c.Param("id")

	inv := h.invManager.GetInvestigation(caseID)
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	var req struct {
		Address  string `json:"address" binding:"required"`
		Label    string `json:"label" binding:"required"`
		Role     string `json:"role" binding:"required"` // theft/suspect/exchange/service/unknown
		Notes    string `json:"notes"`
		TaggedBy string `json:"taggedBy"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	address := models.NormalizeAddress(req.Address)
	inv.TagAddress(address, req.Label, req.Role, req.Notes, req.TaggedBy)

	if h.dbStore != nil {
		if err := h.dbStore.SaveInvestigationAddress(c.Request.Context(),
			caseID, address, req.Label, req.Role, req.Notes, req.TaggedBy); err != nil {
			log.Printf("Failed to persist tagged address: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "tagged",
		"address": address,
		"label":   req.Label,
		"role":    req.Role,
	})
}

// GET /api/v1/investigations/:id/timeline
// Returns a chronological timeline of all investigation events.
func (h *APIHandler) handleGetTimeline(c *gin.Context) {
	caseID := c.Param("id")

	inv := h.invManager.GetInvestigation(caseID)
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	timeline := inv.GetTimeline()
	if timeline == nil {
		timeline = []heuristics.TimelineEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"caseId": caseID,
		"events": timeline,
		"total":  len(timeline),
	})
}

// GET /api/v1/investigations/:id/exits
// Returns all identified exchange exit points where stolen funds
// were deposited — the key evidence for law enforcement subpoenas.
func (h *APIHandler) handleGetExchangeExits(c *gin.Context) {
	caseID := c.Param("id")

	inv := h.invManager.GetInvestigation(caseID)
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	exits := inv.GetExchangeExits()
	if exits == nil {
		exits = []heuristics.FlowNode{}
	}

	recoverable := inv.ComputeRecovery()

	c.JSON(http.StatusOK, gin.H{
		"caseId":           caseID,
		"exchangeExits":    exits,
		"totalExits":       len(exits),
		"totalRecoverable": recoverable,
		"totalStolen":      inv.TotalStolen,
		"recoveryRate":     safeDiv(recoverable, inv.TotalStolen),
	})
}

// PUT /api/v1/investigations/:id/status { "status": "completed" }
func (h *APIHandler) handleSetStatus(c *gin.Context) {
	inv := h.invManager.GetInvestigation(c.Param("id"))
	if inv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investigation not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	valid := map[string]bool{"active": true, "paused": true, "completed": true, "archived": true}
	if !valid[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of: active, paused, completed, archived"})
		return
	}

	inv.SetStatus(req.Status)
	h.persistInvestigation(c.Request.Context(), inv)

	c.JSON(http.StatusOK, gin.H{
		"caseId": inv.ID,
		"status": inv.Status,
	})
}

func (h *APIHandler) persistInvestigation(ctx context.Context, inv *heuristics.Investigation) {
	if h.dbStore == nil {
		return
	}
	if err := h.dbStore.SaveInvestigation(ctx, inv); err != nil {
		log.Printf("Failed to persist investigation %s: %v", inv.ID, err)
	}
}

// safeDiv divides a by b, returning 0 if b is 0
func safeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

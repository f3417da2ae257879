package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Watchlist & Alert API Handlers

// GET /api/v1/watchlist
func (h *APIHandler) handleListWatchlist(c *gin.Context) {
	entries := h.watchlist.ListAll()
	c.JSON(http.StatusOK, gin.H{
		"addresses": entries,
		"total":     len(entries),
	})
}

// POST /api/v1/watchlist
// Registers an address for continuous monitoring.
func (h *APIHandler) handleAddWatchlist(c *gin.Context) {
	var req struct {
		Address    string `json:"address" binding:"required"`
		Category   string `json:"category"`
		Label      string `json:"label"`
		CaseID     string `json:"caseId"`
		AlertLevel string `json:"alertLevel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	address := models.NormalizeAddress(req.Address)
	if !models.ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address format"})
		return
	}
	if req.Category == "" {
		req.Category = "suspect"
	}
	if req.AlertLevel == "" {
		req.AlertLevel = "medium"
	}

	h.watchlist.Add(address, req.Category, req.Label, req.CaseID, req.AlertLevel)

	if h.dbStore != nil {
		if entry, ok := h.watchlist.Get(address); ok {
			if err := h.dbStore.SaveWatchlistEntry(c.Request.Context(), entry); err != nil {
				log.Printf("Failed to persist watchlist entry: %v", err)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "watching",
		"address": address,
		"total":   h.watchlist.Size(),
	})
}

// DELETE /api/v1/watchlist/:address
func (h *APIHandler) handleRemoveWatchlist(c *gin.Context) {
	address := models.NormalizeAddress(c.Param("address"))

	if !h.watchlist.Contains(address) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not on watchlist"})
		return
	}

	h.watchlist.Remove(address)
	if h.dbStore != nil {
		if err := h.dbStore.DeleteWatchlistEntry(c.Request.Context(), address); err != nil {
			log.Printf("Failed to delete watchlist entry: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "removed",
		"address": address,
		"total":   h.watchlist.Size(),
	})
}

// GET /api/v1/alerts/recent?limit=50&minSeverity=medium
func (h *APIHandler) handleRecentAlerts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	if minSeverity := c.Query("minSeverity"); minSeverity != "" {
		alerts := h.alerts.GetAlertsBySeverity(minSeverity)
		c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
		return
	}

	alerts := h.alerts.GetRecentAlerts(limit)
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

// POST /api/v1/alerts/webhooks
// Registers a webhook receiver for alert fan-out.
func (h *APIHandler) handleRegisterWebhook(c *gin.Context) {
	var req struct {
		Name        string            `json:"name" binding:"required"`
		URL         string            `json:"url" binding:"required"`
		MinSeverity string            `json:"minSeverity"`
		Headers     map[string]string `json:"headers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.MinSeverity == "" {
		req.MinSeverity = "medium"
	}

	h.alerts.RegisterWebhook(req.Name, req.URL, req.MinSeverity, req.Headers)

	c.JSON(http.StatusCreated, gin.H{
		"status":      "registered",
		"name":        req.Name,
		"minSeverity": req.MinSeverity,
	})
}

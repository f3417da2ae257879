package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/ethtrace-engine/internal/osint"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// OSINT API Handlers

// POST /api/v1/osint { "address": "0x..." }
// Returns the full OSINT profile for an address.
func (h *APIHandler) handleOSINT(c *gin.Context) {
	address, ok := h.bindAddress(c)
	if !ok {
		return
	}

	profile := h.collector.Collect(c.Request.Context(), address)

	c.JSON(http.StatusOK, gin.H{
		"osint":            profile,
		"recoveryContacts": osint.GetRecoveryContacts(address),
	})
}

// POST /api/v1/osint/report { "address": "0x..." }
// Renders the profile as a markdown report.
func (h *APIHandler) handleOSINTReport(c *gin.Context) {
	address, ok := h.bindAddress(c)
	if !ok {
		return
	}

	profile := h.collector.Collect(c.Request.Context(), address)

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"report":  osint.RenderReport(profile),
	})
}

// bindAddress parses and validates the {address} request body shared
// by the OSINT endpoints.
func (h *APIHandler) bindAddress(c *gin.Context) (string, bool) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {address}"})
		return "", false
	}

	address := models.NormalizeAddress(req.Address)
	if !models.ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address format"})
		return "", false
	}
	return address, true
}

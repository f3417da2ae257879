package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/ethtrace-engine/internal/recovery"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

// Recovery Document API Handlers
//
// These endpoints turn incident facts into the documents a victim
// needs: the recovery plan, the whitehat negotiation message, the law
// enforcement evidence package, and the exchange freeze report.

// POST /api/v1/recovery/plan { "incident": {...} }
func (h *APIHandler) handleRecoveryPlan(c *gin.Context) {
	var req struct {
		Incident recovery.Incident `json:"incident" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {incident}"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": recovery.GeneratePlan(req.Incident)})
}

// POST /api/v1/recovery/whitehat { "incident": {...}, "bountyPercentage": 10 }
func (h *APIHandler) handleWhitehatMessage(c *gin.Context) {
	var req struct {
		Incident         recovery.Incident `json:"incident" binding:"required"`
		BountyPercentage int               `json:"bountyPercentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {incident, bountyPercentage}"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": recovery.WhitehatMessage(req.Incident, req.BountyPercentage),
	})
}

// POST /api/v1/recovery/law-enforcement { "incident": {...} }
// When the incident names a valid attacker address, the package is
// enriched with live blockchain analysis and OSINT for that address.
func (h *APIHandler) handleLEPackage(c *gin.Context) {
	var req struct {
		Incident recovery.Incident `json:"incident" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {incident}"})
		return
	}

	var blockchainEvidence, osintData interface{}
	attacker := models.NormalizeAddress(req.Incident.AttackerAddress)
	if models.ValidAddress(attacker) {
		if analysis, err := h.analyzeAddress(c, attacker); err == nil {
			blockchainEvidence = gin.H{
				"pattern":  analysis.pattern,
				"mixer":    analysis.mixer,
				"exchange": analysis.exchange,
			}
			// Keep the incident facts consistent with what the chain shows.
			if analysis.mixer.MixerDetected {
				req.Incident.MixerDetected = true
			}
		}
		osintData = h.collector.Collect(c.Request.Context(), attacker)
	}

	pkg := recovery.LawEnforcementPackage(req.Incident, blockchainEvidence, osintData)
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

// POST /api/v1/recovery/exchange-report { "incident": {...}, "exchangeName": "Binance" }
func (h *APIHandler) handleExchangeReport(c *gin.Context) {
	var req struct {
		Incident     recovery.Incident `json:"incident" binding:"required"`
		ExchangeName string            `json:"exchangeName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {incident, exchangeName}"})
		return
	}

	if req.ExchangeName == "" {
		req.ExchangeName = "Exchange"
	}

	c.JSON(http.StatusOK, gin.H{
		"report": recovery.ExchangeReport(req.Incident, req.ExchangeName),
	})
}

// GET /api/v1/prevention
func (h *APIHandler) handlePrevention(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recovery.PreventionRecommendations(),
	})
}

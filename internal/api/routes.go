package api

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/ethtrace-engine/internal/db"
	"github.com/rawblock/ethtrace-engine/internal/explorer"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/internal/osint"
	"github.com/rawblock/ethtrace-engine/pkg/models"
)

type APIHandler struct {
	dbStore    *db.PostgresStore
	explorer   *explorer.Client
	wsHub      *Hub
	collector  *osint.Collector
	invManager *heuristics.InvestigationManager
	watchlist  *heuristics.AddressWatchlist
	alerts     *heuristics.AlertManager
}

// Dependencies bundles the subsystems the API serves.
type Dependencies struct {
	DBStore    *db.PostgresStore
	Explorer   *explorer.Client
	WSHub      *Hub
	Collector  *osint.Collector
	InvManager *heuristics.InvestigationManager
	Watchlist  *heuristics.AddressWatchlist
	Alerts     *heuristics.AlertManager
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var
	// Production: ALLOWED_ORIGINS=https://rawblock.net,https://www.rawblock.net
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Check if the request origin is in the allowed list
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		dbStore:    deps.DBStore,
		explorer:   deps.Explorer,
		wsHub:      deps.WSHub,
		collector:  deps.Collector,
		invManager: deps.InvManager,
		watchlist:  deps.Watchlist,
		alerts:     deps.Alerts,
	}

	// Per-IP rate limiting across the whole API surface.
	ratePerMin := 60
	if raw := os.Getenv("RATE_LIMIT_PER_MIN"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ratePerMin = parsed
		}
	}
	limiter := NewRateLimiter(ratePerMin, ratePerMin/2)

	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		api.GET("/health", handler.handleHealth)
		api.GET("/stream", deps.WSHub.Subscribe)
		api.GET("/prevention", handler.handlePrevention)

		protected := api.Group("")
		protected.Use(AuthMiddleware())
		{
			protected.POST("/analyze", handler.handleAnalyzeAddress)
			protected.POST("/trace", handler.handleTraceFunds)
			protected.POST("/transaction", handler.handleAnalyzeTransaction)
			protected.POST("/export", handler.handleExportReport)

			protected.GET("/risk/top", handler.handleTopRiskAddresses)
			protected.GET("/risk/:address", handler.handleRiskHistory)

			protected.POST("/osint", handler.handleOSINT)
			protected.POST("/osint/report", handler.handleOSINTReport)

			protected.POST("/recovery/plan", handler.handleRecoveryPlan)
			protected.POST("/recovery/whitehat", handler.handleWhitehatMessage)
			protected.POST("/recovery/law-enforcement", handler.handleLEPackage)
			protected.POST("/recovery/exchange-report", handler.handleExchangeReport)

			protected.POST("/investigations", handler.handleCreateInvestigation)
			protected.GET("/investigations", handler.handleListInvestigations)
			protected.GET("/investigations/:id", handler.handleGetInvestigation)
			protected.POST("/investigations/:id/trace", handler.handleRunTrace)
			protected.GET("/investigations/:id/graph", handler.handleGetFlowGraph)
			protected.POST("/investigations/:id/tag", handler.handleTagAddress)
			protected.GET("/investigations/:id/timeline", handler.handleGetTimeline)
			protected.GET("/investigations/:id/exits", handler.handleGetExchangeExits)
			protected.PUT("/investigations/:id/status", handler.handleSetStatus)

			protected.GET("/watchlist", handler.handleListWatchlist)
			protected.POST("/watchlist", handler.handleAddWatchlist)
			protected.DELETE("/watchlist/:address", handler.handleRemoveWatchlist)

			protected.GET("/alerts/recent", handler.handleRecentAlerts)
			protected.POST("/alerts/webhooks", handler.handleRegisterWebhook)
		}
	}

	return r
}

// fullAnalysis runs every detector over one address.
type fullAnalysis struct {
	pattern   heuristics.PatternResult
	poisoning heuristics.PoisoningResult
	mixer     heuristics.MixerResult
	exchange  heuristics.ExchangeResult
}

func (h *APIHandler) analyzeAddress(c *gin.Context, address string) (fullAnalysis, error) {
	ctx := c.Request.Context()

	transfers, err := h.explorer.TransactionHistory(ctx, address)
	if err != nil {
		return fullAnalysis{}, fmt.Errorf("failed to fetch transaction history: %w", err)
	}

	// Internal transactions matter for mixer contracts. A fetch failure
	// here degrades the signal but does not fail the analysis.
	merged := transfers
	if internal, err := h.explorer.InternalTransactions(ctx, address); err == nil {
		merged = append(append([]models.Transfer{}, transfers...), internal...)
	} else {
		log.Printf("[API] Internal tx fetch failed for %s: %v", models.ShortAddress(address, 6), err)
	}

	result := fullAnalysis{
		poisoning: heuristics.DetectAddressPoisoning(address, transfers),
		mixer:     heuristics.DetectMixerUsage(address, merged),
		exchange:  heuristics.DetectExchangeInteraction(address, transfers),
	}
	result.pattern = heuristics.AnalyzeTransactionPattern(address, transfers, result.mixer, result.poisoning)
	return result, nil
}

// handleAnalyzeAddress runs the full detector suite over an address.
// POST /api/v1/analyze { "address": "0x..." }
func (h *APIHandler) handleAnalyzeAddress(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {address}"})
		return
	}

	address := models.NormalizeAddress(req.Address)
	if !models.ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address format"})
		return
	}

	balance, err := h.explorer.Balance(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch balance", "details": err.Error()})
		return
	}

	analysis, err := h.analyzeAddress(c, address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// Persist to DB if connected
	if h.dbStore != nil {
		if err := h.dbStore.SaveRiskAssessment(c.Request.Context(), analysis.pattern,
			analysis.mixer.MixerDetected, analysis.poisoning.TotalSuspicious > 0); err != nil {
			log.Printf("Failed to save risk assessment to DB: %v", err)
		}
	}

	// High-risk verdicts and watchlisted addresses raise alerts.
	if h.alerts != nil {
		var hits []heuristics.WatchlistHit
		if h.watchlist != nil {
			if entry, ok := h.watchlist.Get(address); ok {
				hits = append(hits, heuristics.WatchlistHit{
					Address:    entry.Address,
					Category:   entry.Category,
					Label:      entry.Label,
					CaseID:     entry.CaseID,
					AlertLevel: entry.AlertLevel,
				})
			}
		}
		h.alerts.EmitFromAnalysis(analysis.pattern, hits)
	}

	c.JSON(http.StatusOK, gin.H{
		"address":             address,
		"timestamp":           time.Now().UTC(),
		"balance":             balance,
		"transactionPattern":  analysis.pattern,
		"addressPoisoning":    analysis.poisoning,
		"mixerDetection":      analysis.mixer,
		"exchangeInteraction": analysis.exchange,
		"explorerUrl":         models.ExplorerAddressURL(address, h.explorer.Network()),
	})
}

// handleTraceFunds walks the outgoing transfer graph from an address.
// POST /api/v1/trace { "address": "0x...", "maxDepth": 5 }
func (h *APIHandler) handleTraceFunds(c *gin.Context) {
	var req struct {
		Address  string `json:"address" binding:"required"`
		MaxDepth int    `json:"maxDepth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {address, maxDepth}"})
		return
	}

	address := models.NormalizeAddress(req.Address)
	if !models.ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address format"})
		return
	}

	cfg := heuristics.DefaultTraceConfig()
	if req.MaxDepth > 0 {
		cfg.MaxHops = req.MaxDepth
	}

	graph := heuristics.TraceFunds(c.Request.Context(), h.explorer, []string{address}, cfg)

	c.JSON(http.StatusOK, gin.H{
		"trace":   graph,
		"summary": graph.Summary(),
	})
}

// handleAnalyzeTransaction returns tx details plus pattern analysis of
// both counterparties.
// POST /api/v1/transaction { "txHash": "0x..." }
func (h *APIHandler) handleAnalyzeTransaction(c *gin.Context) {
	var req struct {
		TxHash string `json:"txHash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {txHash}"})
		return
	}

	if !models.ValidTxHash(req.TxHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction hash format"})
		return
	}

	detail, err := h.explorer.TransactionByHash(c.Request.Context(), req.TxHash)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch transaction", "details": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	response := gin.H{
		"transaction": detail,
		"explorerUrl": models.ExplorerTxURL(detail.Hash, h.explorer.Network()),
	}

	if from, err := h.analyzeAddress(c, detail.From); err == nil {
		response["fromAnalysis"] = from.pattern
	}
	if detail.To != "" {
		if to, err := h.analyzeAddress(c, detail.To); err == nil {
			response["toAnalysis"] = to.pattern
		}
	}

	c.JSON(http.StatusOK, response)
}

// handleExportReport returns an arbitrary report payload as a
// downloadable JSON attachment.
// POST /api/v1/export { "reportData": {...} }
func (h *APIHandler) handleExportReport(c *gin.Context) {
	var req struct {
		ReportData map[string]interface{} `json:"reportData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {reportData}"})
		return
	}

	filename := fmt.Sprintf("ethtrace_report_%s.json", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, req.ReportData)
}

// handleHealth returns engine status and capabilities for service discovery
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "operational",
		"engine":  "RawBlock Trace Engine v1.0",
		"network": h.explorer.Network(),
		"capabilities": gin.H{
			"address_poisoning": true,
			"mixer_detection":   true,
			"exchange_exits":    true,
			"fund_tracing":      true,
			"osint":             true,
			"recovery_docs":     true,
		},
		"knownMixers":    heuristics.MixerCount(),
		"knownExchanges": heuristics.ExchangeCount(),
		"watchedCount":   h.watchlist.Size(),
		"dbConnected":    h.dbStore != nil,
	})
}

// handleRiskHistory returns the stored assessment for an address.
// GET /api/v1/risk/:address
func (h *APIHandler) handleRiskHistory(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Risk history requires a database connection"})
		return
	}

	address := models.NormalizeAddress(c.Param("address"))
	if !models.ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address format"})
		return
	}

	entry, err := h.dbStore.GetRiskAssessment(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query risk history", "details": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stored assessment for address"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// handleTopRiskAddresses lists the highest-scoring stored assessments.
// GET /api/v1/risk/top?minScore=75&limit=20
func (h *APIHandler) handleTopRiskAddresses(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Risk history requires a database connection"})
		return
	}

	minScore, err := strconv.Atoi(c.DefaultQuery("minScore", "75"))
	if err != nil || minScore < 0 || minScore > 100 {
		minScore = 75
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 20
	}

	entries, err := h.dbStore.GetHighRiskAddresses(c.Request.Context(), minScore, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query risk history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": entries,
		"total":     len(entries),
		"minScore":  minScore,
	})
}

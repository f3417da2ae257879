package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/rawblock/ethtrace-engine/internal/api"
	"github.com/rawblock/ethtrace-engine/internal/cache"
	"github.com/rawblock/ethtrace-engine/internal/db"
	"github.com/rawblock/ethtrace-engine/internal/explorer"
	"github.com/rawblock/ethtrace-engine/internal/heuristics"
	"github.com/rawblock/ethtrace-engine/internal/monitor"
	"github.com/rawblock/ethtrace-engine/internal/osint"
)

func main() {
	log.Println("Starting RawBlock Trace Engine (Microservice: eth-theft-response)...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values. Use a .env file for local
	// development: cp .env.example .env && edit .env
	// ────────────────────────────────────────────────────────────────────

	apiKey := requireEnv("EXPLORER_API_KEY")
	network := getEnvOrDefault("NETWORK", "ethereum")

	dbConn := connectDatabase()
	if dbConn != nil {
		defer dbConn.Close()
	}

	explorerClient := explorer.NewClient(explorer.Config{
		Network: network,
		APIKey:  apiKey,
	})

	// Redis-backed OSINT cache when configured; in-process otherwise.
	var store cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisCache, err := cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis, using in-process cache. Error: %v", err)
			store = cache.NewMemoryCache()
		} else {
			store = redisCache
		}
	} else {
		store = cache.NewMemoryCache()
	}
	defer store.Close()

	collector := osint.NewCollector(explorerClient, store)

	// Setup WebSocket Hub
	wsHub := api.NewHub()
	go wsHub.Run()

	// Alerts broadcast to dashboards and persist when the DB is up.
	broadcast := api.BroadcastAlert(wsHub)
	alerts := heuristics.NewAlertManager(func(alert heuristics.Alert) {
		broadcast(alert)
		if dbConn != nil {
			if err := dbConn.SaveAlert(context.Background(), alert); err != nil {
				log.Printf("Warning: Failed to persist alert: %v", err)
			}
		}
	})

	invManager := heuristics.NewInvestigationManager()
	watchlist := heuristics.NewAddressWatchlist()
	warmStartWatchlist(dbConn, watchlist)

	// Background watchlist activity monitor
	pollInterval := time.Duration(getEnvInt("MONITOR_INTERVAL_SECONDS", 60)) * time.Second
	poller := monitor.NewPoller(explorerClient, watchlist, alerts, wsHub, dbConn, pollInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	// Setup the Gin Router
	r := api.SetupRouter(api.Dependencies{
		DBStore:    dbConn,
		Explorer:   explorerClient,
		WSHub:      wsHub,
		Collector:  collector,
		InvManager: invManager,
		Watchlist:  watchlist,
		Alerts:     alerts,
	})

	port := getEnvOrDefault("PORT", "5340")

	log.Printf("Engine running on :%s (network: %s)\n", port, network)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase connects to PostgreSQL when DATABASE_URL is set.
// The engine runs without persistence if the database is unreachable.
func connectDatabase() *db.PostgresStore {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		log.Println("Warning: DATABASE_URL not set, running without persistence.")
		return nil
	}

	dbConn, err := db.Connect(dbUrl)
	if err != nil {
		log.Printf("Warning: Failed to connect to PostgreSQL, continuing without persisting trace data. Error: %v", err)
		return nil
	}
	if err := dbConn.InitSchema(); err != nil {
		log.Printf("Warning: DB schema init failed: %v", err)
	}
	return dbConn
}

// warmStartWatchlist reloads persisted watchlist entries and active
// investigation addresses so monitoring resumes across restarts.
func warmStartWatchlist(dbConn *db.PostgresStore, watchlist *heuristics.AddressWatchlist) {
	if dbConn == nil {
		return
	}
	ctx := context.Background()

	entries, err := dbConn.LoadWatchlist(ctx)
	if err != nil {
		log.Printf("Warning: Failed to load persisted watchlist: %v", err)
	} else {
		for _, entry := range entries {
			watchlist.Add(entry.Address, entry.Category, entry.Label, entry.CaseID, entry.AlertLevel)
		}
	}

	seeds, err := dbConn.LoadActiveInvestigationSeeds(ctx)
	if err != nil {
		log.Printf("Warning: Failed to load investigation seeds: %v", err)
		return
	}
	for _, seed := range seeds {
		alertLevel := "medium"
		if seed.Role == "theft" {
			alertLevel = "critical"
		}
		watchlist.Add(seed.Address, seed.Role, seed.Label, seed.CaseID, alertLevel)
	}

	if watchlist.Size() > 0 {
		log.Printf("Warm-started watchlist with %d address(es)", watchlist.Size())
	}
}

// requireEnv reads a required environment variable and exits if it is not set.
// This prevents the binary from starting with missing critical configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set. "+
			"Copy .env.example to .env and fill in your values: cp .env.example .env", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt parses an integer env var, falling back on bad input.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

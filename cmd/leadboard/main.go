package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/airtable"
	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/board"
	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/httpapi"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("LEADBOARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	token := os.Getenv("AIRTABLE_TOKEN")
	baseID := os.Getenv("AIRTABLE_BASE_ID")
	tableID := os.Getenv("AIRTABLE_TABLE_ID")
	if token == "" || baseID == "" || tableID == "" {
		log.Fatalf("AIRTABLE_TOKEN, AIRTABLE_BASE_ID and AIRTABLE_TABLE_ID are required")
	}

	client := airtable.NewClient(airtable.ClientOptions{
		BaseURL:    os.Getenv("AIRTABLE_BASE_URL"),
		Token:      token,
		BaseID:     baseID,
		TableID:    tableID,
		PageSize:   intEnv("AIRTABLE_PAGE_SIZE", 0),
		MaxRetries: intEnv("AIRTABLE_MAX_RETRIES", 0),
		UserAgent:  "pearlview-leadboard",
		HTTPClient: &http.Client{Timeout: durationEnv("LEADBOARD_HTTP_TIMEOUT", 20*time.Second)},
	})

	hub := httpapi.NewAdvisoryHub(intEnv("LEADBOARD_ADVISORY_BUFFER", 0))
	store := board.NewStore(board.StoreOptions{
		Gateway:  client,
		Notifier: hub,
	})
	defer store.Close()

	refreshSpec := "@every 5m"
	if raw, ok := os.LookupEnv("LEADBOARD_REFRESH"); ok {
		refreshSpec = raw
	}
	refresher := board.NewRefresher(store, refreshSpec, hub)
	if err := refresher.Start(); err != nil {
		log.Fatalf("failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// The first fetch is best effort: an unreachable remote store
	// serves an empty board instead of crashing the dashboard.
	if leads, err := store.LoadAll(context.Background()); err != nil {
		log.Printf("initial load failed: %v", err)
	} else {
		log.Printf("loaded %d leads", len(leads))
	}

	server := httpapi.NewServerWithConfig(store, hub, httpapi.ServerConfig{
		MaxBodyBytes: int64Env("LEADBOARD_MAX_BODY_BYTES", 0),
	})

	log.Printf("leadboard listening on %s", addr)
	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func intEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using fallback %d", name, raw, fallback)
		return fallback
	}
	return value
}

func int64Env(name string, fallback int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using fallback %d", name, raw, fallback)
		return fallback
	}
	return value
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using fallback %s", name, raw, fallback.String())
		return fallback
	}
	return value
}

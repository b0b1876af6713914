// Command api is the cricstats HTTP API server.
//
// Usage:
//
//	cricstats-api
//	API_PORT=8080 STORAGE_BACKEND=sqlite cricstats-api

// @title Cricstats API
// @version 1.0.0
// @description Serves per-player and master cricket statistics tables and runs merge-upsert aggregation.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Cricstats
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/cricstats/internal/api"
	"github.com/albapepper/cricstats/internal/cache"
	"github.com/albapepper/cricstats/internal/config"
	"github.com/albapepper/cricstats/internal/ingest"
	"github.com/albapepper/cricstats/internal/storage"

	_ "github.com/albapepper/cricstats/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	loader := storage.NewLoader(store, logger)

	appCache := cache.New(cfg.CacheEnabled, cfg.CacheTTL)
	go appCache.Run(ctx, 5*time.Minute)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "ttl", cfg.CacheTTL)

	// The API never scrapes; aggregation works on stored transformed tables.
	pipeline := ingest.New(nil, loader, logger)
	router := api.NewRouter(loader, pipeline, appCache, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Cricstats API",
			"addr", addr,
			"environment", cfg.Environment,
			"storage", cfg.StorageBackend,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

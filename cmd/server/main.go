// Package main is the entry point for the notecode snippet server.
//
// The main package stays minimal. Its job is to:
// 1. Read configuration (environment, optionally seeded from .env)
// 2. Create dependencies (logger, the snippet store)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/notecode/internal/config"
	"github.com/sakif/notecode/internal/logging"
	"github.com/sakif/notecode/internal/repository"
	"github.com/sakif/notecode/internal/repository/redis"
	"github.com/sakif/notecode/internal/repository/sqlite"
	"github.com/sakif/notecode/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// Config errors are reported before the logger exists, so they go to stderr.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := logging.New(cfg.LogLevel, cfg.DevMode, os.Stdout)

	// === 3. OPEN THE STORE ===
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("failed to open store")
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger, store)
	if err != nil {
		store.Close()
		logger.Fatal().Err(err).Msg("failed to create server")
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

// openStore connects the backend named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		s, err := redis.New(ctx, cfg.RedisURL, cfg.StoreTimeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		if cfg.DBPath != ":memory:" {
			// 0755 = owner can read/write/execute, others can read/execute.
			dir := filepath.Dir(cfg.DBPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqlite.New(cfg.DBPath, cfg.StoreTimeout)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Campanile is the campus event management backend: event search and
// discovery, registrations, ratings, personalized recommendations, and
// per-event analytics behind a JSON HTTP API.
//
// # Configuration
//
// Configuration layers, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. YAML config file (CAMPANILE_CONFIG, or config.yaml in the search paths)
//  3. CAMPANILE_-prefixed environment variables
//
// Minimal start:
//
//	CAMPANILE_AUTH_SECRET=$(openssl rand -hex 32) \
//	CAMPANILE_STORE_PATH=/data/campanile \
//	campanile-server
//
// # Supervision
//
// All long-lived work runs under a suture supervision tree: BadgerDB
// maintenance in the storage layer, the analytics refresher in the compute
// layer, and the HTTP server in the API layer. Layers restart
// independently on failure.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/campanile-app/campanile/internal/analytics"
	"github.com/campanile-app/campanile/internal/api"
	"github.com/campanile-app/campanile/internal/auth"
	"github.com/campanile-app/campanile/internal/cache"
	"github.com/campanile-app/campanile/internal/config"
	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/recommend"
	"github.com/campanile-app/campanile/internal/store"
	"github.com/campanile-app/campanile/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The default logger carries config errors; config is not available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Addr()).
		Bool("store_in_memory", cfg.Store.InMemory).
		Str("store_path", cfg.Store.Path).
		Msg("Starting Campanile")

	var st store.Store
	var badgerStore *store.BadgerStore
	if cfg.Store.InMemory {
		st = store.NewMemoryStore()
	} else {
		badgerStore, err = store.NewBadgerStore(cfg.Store)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open store")
		}
		st = badgerStore
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, cache.New(cfg.Recommend.Cache.TTL))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	aggregator := analytics.NewService(st, &cfg.Analytics)
	server := api.NewServer(cfg, st, jwtManager, engine, aggregator)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if badgerStore != nil {
		tree.AddStorageService(store.NewGCService(badgerStore, 0))
	}
	tree.AddComputeService(aggregator)
	tree.AddAPIService(server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor exited with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor exited unexpectedly")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Campanile stopped")
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/campanile-app/campanile/internal/logging"
)

// GCService periodically runs BadgerDB value log garbage collection. It
// implements suture.Service and is supervised in the storage layer.
type GCService struct {
	store    *BadgerStore
	interval time.Duration
}

// NewGCService wraps a BadgerStore's value log GC loop.
func NewGCService(store *BadgerStore, interval time.Duration) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{store: store, interval: interval}
}

// Serve runs GC on each tick until the context is canceled. Badger returns
// ErrNoRewrite when there is nothing to collect; that is not a failure.
func (g *GCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("store-gc")

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Repeat until one pass finds nothing to rewrite.
			for {
				err := g.store.db.RunValueLogGC(0.5)
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					logger.Warn().Err(err).Msg("Value log GC failed")
					break
				}
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (g *GCService) String() string {
	return "badger-gc"
}

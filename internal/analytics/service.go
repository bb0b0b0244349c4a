// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/metrics"
	"github.com/campanile-app/campanile/internal/models"
)

// SnapshotProvider supplies a consistent point-in-time view of the entity
// collections. Satisfied by the storage layer.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// Config holds analytics service configuration.
type Config struct {
	// RefreshInterval is how often aggregates are recomputed in the
	// background.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// DefaultConfig returns the default analytics configuration.
func DefaultConfig() *Config {
	return &Config{RefreshInterval: 5 * time.Minute}
}

// Service maintains the per-event analytics aggregates. It recomputes all
// aggregates from a fresh snapshot on a fixed interval and on demand after
// invalidating writes.
//
// The service implements suture.Service; the supervisor restarts it if the
// refresh loop ever fails.
type Service struct {
	provider SnapshotProvider
	cfg      *Config
	logger   zerolog.Logger

	mu         sync.RWMutex
	aggregates map[string]*models.EventAnalytics

	// nowFn is swapped in tests for deterministic ComputedAt stamps.
	nowFn func() time.Time
}

// NewService creates an analytics service backed by the given snapshot
// provider.
func NewService(provider SnapshotProvider, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		provider:   provider,
		cfg:        cfg,
		logger:     logging.WithComponent("analytics"),
		aggregates: make(map[string]*models.EventAnalytics),
		nowFn:      time.Now,
	}
}

// Serve implements suture.Service. It computes an initial set of aggregates
// and then refreshes on the configured interval until the context is
// canceled.
func (s *Service) Serve(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Initial analytics refresh failed")
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Analytics refresh failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Service) String() string {
	return "analytics-aggregator"
}

// Refresh recomputes aggregates for every event from a fresh snapshot and
// atomically replaces the published map.
func (s *Service) Refresh(ctx context.Context) error {
	start := s.nowFn()

	snap, err := s.provider.Snapshot(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]*models.EventAnalytics, len(snap.Events))
	for i := range snap.Events {
		event := &snap.Events[i]
		next[event.ID] = Aggregate(event, snap, start)
	}

	s.mu.Lock()
	s.aggregates = next
	s.mu.Unlock()

	metrics.RecordAnalyticsRefresh(s.nowFn().Sub(start))
	s.logger.Debug().
		Int("events", len(next)).
		Dur("elapsed", s.nowFn().Sub(start)).
		Msg("Recomputed event analytics")

	return nil
}

// Get returns the current aggregate for one event, or nil when the event is
// unknown or aggregates have not been computed yet.
func (s *Service) Get(eventID string) *models.EventAnalytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregates[eventID]
}

// All returns the current aggregates keyed by event id. The returned map is
// shared and must not be mutated; Refresh replaces it wholesale.
func (s *Service) All() map[string]*models.EventAnalytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregates
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package recommend scores published events for individual users and
// produces ranked, explained recommendation sets. The engine is a pure
// function of its inputs plus configuration: identical state yields
// identical output, which keeps results cacheable and testable.
package recommend

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/campanile-app/campanile/internal/cache"
	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/metrics"
	"github.com/campanile-app/campanile/internal/models"
)

// ErrUserNotFound is returned when recommendations are requested for a
// user id absent from the snapshot.
var ErrUserNotFound = errors.New("user not found")

// Engine generates event recommendations.
type Engine struct {
	cfg    *Config
	cache  *cache.Cache
	logger zerolog.Logger

	// nowFn is swapped in tests for deterministic timestamps.
	nowFn func() time.Time
}

// NewEngine creates a recommendation engine. The cache is optional; pass
// nil to disable response caching regardless of configuration.
func NewEngine(cfg *Config, c *cache.Cache) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		cache:  c,
		logger: logging.WithComponent("recommend"),
		nowFn:  time.Now,
	}, nil
}

// Recommend produces the top-k recommendations for the given user from the
// snapshot. k <= 0 selects the configured default; oversized k is clamped.
//
// Candidate events are PUBLISHED events the user has no attendance record
// for (any status, including DECLINED) and whose year/major targeting
// admits the user. Results are ordered by score descending, confidence
// descending, then event id ascending.
func (e *Engine) Recommend(ctx context.Context, userID string, snap *models.Snapshot, analytics map[string]*models.EventAnalytics, k int) (*models.UserRecommendations, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user := snap.UserByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}

	if k <= 0 {
		k = e.cfg.Limits.DefaultK
	}
	if k > e.cfg.Limits.MaxK {
		k = e.cfg.Limits.MaxK
	}

	cacheKey := ""
	if e.cacheEnabled() {
		cacheKey = cache.GenerateKey("recommend", map[string]interface{}{
			"user":  userID,
			"k":     k,
			"model": e.cfg.ModelVersion,
		})
		cached, ok := e.cache.Get(cacheKey)
		metrics.RecordCacheAccess("recommendations", ok)
		if ok {
			if recs, ok := cached.(*models.UserRecommendations); ok {
				return recs, nil
			}
		}
	}

	// Attendance index: any existing record excludes the event, including
	// DECLINED and CANCELLED ones. Re-suggesting an event the user already
	// acted on is noise.
	seen := make(map[string]struct{})
	for _, a := range snap.AttendanceForUser(userID) {
		seen[a.EventID] = struct{}{}
	}

	recs := make([]models.EventRecommendation, 0, len(snap.Events))
	for i := range snap.Events {
		event := &snap.Events[i]

		if event.Status != models.StatusPublished {
			continue
		}
		if _, ok := seen[event.ID]; ok {
			continue
		}
		if !event.OpenToYear(user.Year) || !event.OpenToMajor(user.Major) {
			continue
		}

		a := analytics[event.ID]
		s := computeSignals(user, event, a)

		recs = append(recs, models.EventRecommendation{
			EventID:    event.ID,
			Score:      s.score(e.cfg.Weights),
			Reason:     s.reason(e.cfg.Weights, user, event),
			Confidence: confidence(user, len(snap.RatingsForEvent(event.ID)), a != nil),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].EventID < recs[j].EventID
	})

	if len(recs) > k {
		recs = recs[:k]
	}

	result := &models.UserRecommendations{
		UserID:          userID,
		Recommendations: recs,
		GeneratedAt:     e.nowFn().UTC(),
		ModelVersion:    e.cfg.ModelVersion,
	}

	if cacheKey != "" {
		e.cache.SetWithTTL(cacheKey, result, e.cfg.Cache.TTL)
		metrics.SetCacheEntries("recommendations", e.cache.GetStats().TotalKeys)
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(snap.Events)).
		Int("returned", len(recs)).
		Str("model_version", e.cfg.ModelVersion).
		Msg("Generated recommendations")

	return result, nil
}

// Invalidate drops all cached recommendation responses. Called after
// writes that change scoring inputs (registrations, ratings, event edits).
func (e *Engine) Invalidate() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) cacheEnabled() bool {
	return e.cache != nil && e.cfg.Cache.Enabled
}

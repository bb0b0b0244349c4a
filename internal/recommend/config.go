// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package recommend

import (
	"fmt"
	"time"
)

// Weights controls the contribution of each scoring signal. Weights are
// normalized before use, so only their ratios matter.
type Weights struct {
	// Interest weighs the tag/category overlap between the user's declared
	// interests and the event.
	Interest float64 `koanf:"interest"`

	// Targeting weighs the department/year/major affinity between user
	// and event.
	Targeting float64 `koanf:"targeting"`

	// Rating weighs the event's average rating.
	Rating float64 `koanf:"rating"`

	// Conversion weighs the event's view-to-registration conversion rate.
	Conversion float64 `koanf:"conversion"`
}

// Limits bounds the size of recommendation responses.
type Limits struct {
	// DefaultK is the number of recommendations returned when the caller
	// does not specify one.
	DefaultK int `koanf:"default_k"`

	// MaxK caps caller-requested result sizes.
	MaxK int `koanf:"max_k"`
}

// CacheConfig controls the engine's response cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// Config holds recommendation engine configuration.
type Config struct {
	Weights Weights     `koanf:"weights"`
	Limits  Limits      `koanf:"limits"`
	Cache   CacheConfig `koanf:"cache"`

	// ModelVersion stamps every generated recommendation set. Bump it when
	// the scoring formula or weights change so consumers can distinguish
	// outputs.
	ModelVersion string `koanf:"model_version"`
}

// DefaultConfig returns the default engine configuration. The weights are
// a starting configuration, not a fixed contract; deployments tune them
// through the config file.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Interest:   0.45,
			Targeting:  0.25,
			Rating:     0.15,
			Conversion: 0.15,
		},
		Limits: Limits{
			DefaultK: 10,
			MaxK:     50,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		ModelVersion: "1.0.0",
	}
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	w := c.Weights
	if w.Interest < 0 || w.Targeting < 0 || w.Rating < 0 || w.Conversion < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if w.Interest+w.Targeting+w.Rating+w.Conversion == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	if c.Limits.DefaultK <= 0 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.ModelVersion == "" {
		return fmt.Errorf("model_version must be set")
	}
	return nil
}

// normalized returns a copy of the weights scaled to sum to 1.
func (w Weights) normalized() Weights {
	total := w.Interest + w.Targeting + w.Rating + w.Conversion
	if total == 0 {
		return w
	}
	return Weights{
		Interest:   w.Interest / total,
		Targeting:  w.Targeting / total,
		Rating:     w.Rating / total,
		Conversion: w.Conversion / total,
	}
}

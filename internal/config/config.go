// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package config loads layered configuration for Campanile: built-in
// defaults, an optional YAML file, then CAMPANILE_-prefixed environment
// variables, each layer overriding the previous.
package config

import (
	"fmt"
	"time"

	"github.com/campanile-app/campanile/internal/analytics"
	"github.com/campanile-app/campanile/internal/auth"
	"github.com/campanile-app/campanile/internal/recommend"
	"github.com/campanile-app/campanile/internal/store"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// CORSOrigins lists allowed origins; ["*"] allows any.
	CORSOrigins []string `koanf:"cors_origins"`
	// RateLimitReqs requests per RateLimitWindow per client IP. 0 disables
	// rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// APIConfig bounds list responses.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	API       APIConfig        `koanf:"api"`
	Store     store.Options    `koanf:"store"`
	Auth      auth.Config      `koanf:"auth"`
	Recommend recommend.Config `koanf:"recommend"`
	Analytics analytics.Config `koanf:"analytics"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Store: store.Options{
			Path: "/data/campanile",
		},
		Auth:      *auth.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Analytics: *analytics.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.in_memory is false")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required (set CAMPANILE_AUTH_SECRET)")
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Analytics.RefreshInterval <= 0 {
		return fmt.Errorf("analytics.refresh_interval must be positive")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

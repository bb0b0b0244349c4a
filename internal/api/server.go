// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/campanile-app/campanile/internal/analytics"
	"github.com/campanile-app/campanile/internal/auth"
	"github.com/campanile-app/campanile/internal/config"
	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/metrics"
	"github.com/campanile-app/campanile/internal/middleware"
	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/query"
	"github.com/campanile-app/campanile/internal/recommend"
	"github.com/campanile-app/campanile/internal/store"
)

// Server wires the HTTP API to the storage, recommendation, and analytics
// layers. It implements suture.Service so the root supervisor manages its
// lifecycle.
type Server struct {
	cfg       *config.Config
	store     store.Store
	jwt       *auth.JWTManager
	engine    *recommend.Engine
	analytics *analytics.Service
	logger    zerolog.Logger

	// nowFn is swapped in tests for deterministic timestamps.
	nowFn func() time.Time
}

// NewServer assembles the API server from its dependencies.
func NewServer(cfg *config.Config, st store.Store, jwt *auth.JWTManager, engine *recommend.Engine, an *analytics.Service) *Server {
	return &Server{
		cfg:       cfg,
		store:     st,
		jwt:       jwt,
		engine:    engine,
		analytics: an,
		logger:    logging.WithComponent("api"),
		nowFn:     time.Now,
	}
}

// Router builds the full route tree with the shared middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.cfg.Server.RateLimitReqs > 0 {
		r.Use(httprate.Limit(
			s.cfg.Server.RateLimitReqs,
			s.cfg.Server.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
				respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests")
			}),
		))
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Identity is asserted upstream by the campus SSO gateway; these
		// endpoints mint API tokens for asserted identities.
		r.Post("/auth/register", s.handleRegisterUser)
		r.Post("/auth/token", s.handleIssueToken)

		r.Group(func(r chi.Router) {
			r.Use(s.jwt.Middleware)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", s.handleSearchEvents)
				r.Get("/{id}", s.handleGetEvent)
				r.Get("/slug/{slug}", s.handleGetEventBySlug)
				r.Get("/{id}/comments", s.handleListComments)
				r.Get("/{id}/analytics", s.handleEventAnalytics)

				r.Post("/{id}/register", s.handleRegister)
				r.Delete("/{id}/register", s.handleCancelRegistration)
				r.Post("/{id}/ratings", s.handleRateEvent)
				r.Post("/{id}/comments", s.handleAddComment)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(models.RoleInstructor, models.RoleAdmin))
					r.Post("/", s.handleCreateEvent)
					r.Put("/{id}", s.handleUpdateEvent)
					r.Patch("/{id}/status", s.handleTransitionStatus)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Get("/{id}/recommendations", s.handleRecommendations)
				r.Get("/{id}/notifications", s.handleListNotifications)
				r.Post("/{id}/notifications/{notificationId}/read", s.handleMarkNotificationRead)
				r.Get("/{id}/preferences", s.handleGetPreferences)
				r.Put("/{id}/preferences", s.handlePutPreferences)
			})
		})
	})

	return r
}

// Serve implements suture.Service: it runs the HTTP server until the
// context is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Graceful shutdown failed")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Server) String() string {
	return "http-api"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryConfig derives the resolver pagination bounds from configuration.
func (s *Server) queryConfig() query.Config {
	return query.Config{
		DefaultLimit: s.cfg.API.DefaultPageSize,
		MaxLimit:     s.cfg.API.MaxPageSize,
	}
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package metrics defines the Prometheus instrumentation for Campanile:
// API latency and throughput, event search volume, recommendation
// generation, analytics refreshes, and cache efficiency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Event search metrics.
	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_searches_total",
			Help: "Total number of event search queries resolved",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_search_duration_seconds",
			Help:    "Duration of event search resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_search_result_size",
			Help:    "Number of events matched per search before pagination",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Recommendation engine metrics.
	RecommendationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of recommendation sets generated",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Analytics aggregation metrics.
	AnalyticsRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytics_refresh_duration_seconds",
			Help:    "Duration of full analytics recomputation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	AnalyticsLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful analytics refresh",
		},
	)

	// Registration metrics.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Total number of event registrations by resolved status",
		},
		[]string{"status"}, // CONFIRMED, PENDING, WAITLIST
	)

	// Cache metrics.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "recommendations", "analytics"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSearch records one resolved event search.
func RecordSearch(duration time.Duration, matched int) {
	SearchesTotal.Inc()
	SearchDuration.Observe(duration.Seconds())
	SearchResultSize.Observe(float64(matched))
}

// RecordRecommendation records one generated recommendation set.
func RecordRecommendation(duration time.Duration) {
	RecommendationsGenerated.Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordAnalyticsRefresh records one completed analytics recomputation.
func RecordAnalyticsRefresh(duration time.Duration) {
	AnalyticsRefreshDuration.Observe(duration.Seconds())
	AnalyticsLastRefresh.SetToCurrentTime()
}

// RecordRegistration records one registration by its resolved status.
func RecordRegistration(status string) {
	RegistrationsTotal.WithLabelValues(status).Inc()
}

// RecordCacheAccess records one cache lookup.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// SetCacheEntries gauges the current entry count for one cache type.
func SetCacheEntries(cacheType string, entries int64) {
	CacheEntries.WithLabelValues(cacheType).Set(float64(entries))
}

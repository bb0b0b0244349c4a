// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package middleware provides the HTTP middleware chain shared by all API
// routes: request IDs, request logging, and Prometheus instrumentation.
package middleware

import (
	"net/http"

	"github.com/campanile-app/campanile/internal/logging"
)

// RequestIDHeader carries the request ID to clients and accepts one from
// upstream proxies.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a unique ID, honoring an existing one from
// an upstream proxy, and makes it available to handlers and loggers through
// the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

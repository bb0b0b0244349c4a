// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// APIResponse is the standardized envelope returned by all HTTP endpoints.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {...},
//	  "timestamp": "2026-03-01T12:00:00Z"
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "endDateTime must be after startDateTime",
//	    "validationErrors": [{"field": "endDateTime", "message": "..."}]
//	  },
//	  "timestamp": "2026-03-01T12:00:00Z"
//	}
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries structured error details. ValidationErrors lists every
// per-field violation, never only the first failure.
//
// Common codes:
//   - VALIDATION_ERROR: invalid input payload or parameters
//   - REFERENCE_ERROR: an input references a nonexistent entity id
//   - RANGE_ERROR: unrecoverable pagination/limit value
//   - UNAUTHORIZED: missing or invalid credentials
//   - NOT_FOUND: resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected server fault
type APIError struct {
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

// ValidationError is a single per-field violation.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package api exposes the platform's HTTP surface: event search and CRUD,
// registration, ratings and comments, per-event analytics, personalized
// recommendations, notifications, and user preferences. Every endpoint
// responds with the standard envelope from models.APIResponse.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/store"
	"github.com/campanile-app/campanile/internal/validation"
)

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, models.APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// respondMessage writes a success envelope with a message and no data.
func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.APIResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.APIResponse{
		Success:   false,
		Error:     &models.APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

// respondValidation writes the accumulated per-field violations with 400.
func respondValidation(w http.ResponseWriter, errs []models.ValidationError) {
	writeJSON(w, http.StatusBadRequest, models.APIResponse{
		Success:   false,
		Error:     validation.ToAPIError(errs),
		Timestamp: time.Now().UTC(),
	})
}

// respondStoreError maps storage failures to API errors.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, "CONFLICT", "resource already exists")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Storage operation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields so client typos surface as errors instead of silent drops.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campanile-app/campanile/internal/auth"
	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/metrics"
	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/recommend"
	"github.com/campanile-app/campanile/internal/store"
	"github.com/campanile-app/campanile/internal/validation"
)

// tokenResponse carries an issued API token alongside the user it
// authenticates.
type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegisterUser creates a user for an identity asserted by the campus
// SSO gateway and issues the first API token.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var in validation.CreateUserInput
	if !decodeBody(w, r, &in) {
		return
	}
	if errs := validation.ValidateCreateUser(&in); len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	now := s.nowFn().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		UniversityID: in.UniversityID,
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Avatar:       in.Avatar,
		Role:         models.UserRole(in.Role),
		Department:   in.Department,
		Year:         in.Year,
		Major:        in.Major,
		Interests:    in.Interests,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		respondStoreError(w, r, err)
		return
	}

	pref := models.DefaultPreferences(user.ID)
	pref.ID = uuid.NewString()
	pref.CreatedAt = now
	pref.UpdatedAt = now
	if err := s.store.PutPreferences(r.Context(), &pref); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", user.ID).Msg("Failed to seed preferences")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token generation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("User registered")

	respond(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// issueTokenInput names the SSO-asserted identity to mint a token for.
type issueTokenInput struct {
	Username string `json:"username"`
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var in issueTokenInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Username == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username is required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), in.Username)
	if errors.Is(err, store.ErrNotFound) {
		// Indistinguishable from a bad token so usernames cannot be probed.
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown identity")
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	now := s.nowFn().UTC()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to stamp last login")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token generation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	respond(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// handleUpdateUser edits a profile. Users edit themselves; admins edit
// anyone. Identity fields stay immutable by payload construction.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	var in validation.UpdateUserInput
	if !decodeBody(w, r, &in) {
		return
	}
	if errs := validation.ValidateUpdateUser(&in); len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	updated := validation.ApplyUserUpdate(user, &in)
	updated.UpdatedAt = s.nowFn().UTC()
	if err := s.store.UpdateUser(r.Context(), &updated); err != nil {
		respondStoreError(w, r, err)
		return
	}

	// Interest edits change scoring inputs for every cached result set.
	if in.Interests != nil || in.Major != nil || in.Department != nil {
		s.engine.Invalidate()
	}

	respond(w, http.StatusOK, updated)
}

// handleRecommendations computes (or serves from cache) the personalized
// ranking for a user. The k parameter bounds the result; it defaults and
// clamps inside the engine.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "k must be a positive integer")
			return
		}
		k = n
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	start := s.nowFn()
	recs, err := s.engine.Recommend(r.Context(), userID, snap, s.analytics.All(), k)
	if err != nil {
		if errors.Is(err, recommend.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation computation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	metrics.RecordRecommendation(s.nowFn().Sub(start))

	respond(w, http.StatusOK, recs)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	notifications, err := s.store.ListNotificationsByUser(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	respond(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	if err := s.store.MarkNotificationRead(r.Context(), userID, chi.URLParam(r, "notificationId")); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "notification marked read")
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	pref, err := s.store.GetPreferences(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respond(w, http.StatusOK, pref)
}

// preferencesInput is the PUT body for preference settings. The whole
// record is replaced; ids and ownership are server-assigned.
type preferencesInput struct {
	EmailNotifications   bool   `json:"emailNotifications"`
	PushNotifications    bool   `json:"pushNotifications"`
	EventReminders       bool   `json:"eventReminders"`
	EventRecommendations bool   `json:"eventRecommendations"`
	MarketingEmails      bool   `json:"marketingEmails"`
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	Timezone             string `json:"timezone"`
	ProfileVisibility    string `json:"profileVisibility"`
	ShowEmail            bool   `json:"showEmail"`
	ShowPhone            bool   `json:"showPhone"`
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !s.selfOrAdmin(w, r, userID) {
		return
	}

	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	var in preferencesInput
	if !decodeBody(w, r, &in) {
		return
	}
	theme := models.Theme(in.Theme)
	if !theme.IsValid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "theme must be light, dark, or system")
		return
	}
	visibility := models.Visibility(in.ProfileVisibility)
	if !visibility.IsValid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "profileVisibility must be public, friends, or private")
		return
	}

	current, err := s.store.GetPreferences(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	now := s.nowFn().UTC()
	pref := models.UserPreference{
		ID:                   current.ID,
		UserID:               userID,
		EmailNotifications:   in.EmailNotifications,
		PushNotifications:    in.PushNotifications,
		EventReminders:       in.EventReminders,
		EventRecommendations: in.EventRecommendations,
		MarketingEmails:      in.MarketingEmails,
		Theme:                theme,
		Language:             in.Language,
		Timezone:             in.Timezone,
		ProfileVisibility:    visibility,
		ShowEmail:            in.ShowEmail,
		ShowPhone:            in.ShowPhone,
		CreatedAt:            current.CreatedAt,
		UpdatedAt:            now,
	}
	if pref.ID == "" {
		pref.ID = uuid.NewString()
		pref.CreatedAt = now
	}

	if err := s.store.PutPreferences(r.Context(), &pref); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respond(w, http.StatusOK, pref)
}

// selfOrAdmin enforces that the requester either owns the resource or is
// an admin, writing 403 otherwise.
func (s *Server) selfOrAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil || (claims.UserID != userID && claims.Role != models.RoleAdmin) {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		return false
	}
	return true
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campanile-app/campanile/internal/analytics"
	"github.com/campanile-app/campanile/internal/auth"
	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/metrics"
	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/query"
	"github.com/campanile-app/campanile/internal/store"
	"github.com/campanile-app/campanile/internal/validation"
)

// handleSearchEvents resolves a full event query: free-text match,
// structured filters, sort, pagination. Students only see published
// events; instructors and admins see every status unless they filter.
func (s *Server) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if claims.Role == models.RoleStudent {
		if params.Filters == nil {
			params.Filters = &models.EventFilters{}
		}
		params.Filters.Status = []models.EventStatus{models.StatusPublished}
	}

	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	start := s.nowFn()
	page, err := query.Resolve(events, params, s.queryConfig())
	if err != nil {
		if errors.Is(err, query.ErrInvalidLimit) {
			respondError(w, http.StatusBadRequest, "RANGE_ERROR", err.Error())
			return
		}
		respondStoreError(w, r, err)
		return
	}
	metrics.RecordSearch(s.nowFn().Sub(start), page.Pagination.Total)

	respond(w, http.StatusOK, page)
}

// handleGetEvent returns one event and records the view for conversion
// analytics.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	view := &models.ViewEvent{EventID: event.ID, ViewedAt: s.nowFn().UTC()}
	if claims != nil {
		view.UserID = &claims.UserID
	}
	if err := s.store.RecordView(r.Context(), view); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to record event view")
	}

	respond(w, http.StatusOK, event)
}

func (s *Server) handleGetEventBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEventBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respond(w, http.StatusOK, event)
}

// handleCreateEvent creates a new event owned by an instructor or admin.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in validation.CreateEventInput
	if !decodeBody(w, r, &in) {
		return
	}
	if errs := validation.ValidateCreateEvent(&in); len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	instructor, err := s.store.GetUser(r.Context(), in.InstructorID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnprocessableEntity, "REFERENCE_ERROR",
			fmt.Sprintf("instructorId %q does not reference an existing user", in.InstructorID))
		return
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !instructor.Role.CanOwnEvents() {
		respondError(w, http.StatusUnprocessableEntity, "REFERENCE_ERROR",
			"instructorId must reference an instructor or admin")
		return
	}

	now := s.nowFn().UTC()
	event := buildEvent(&in, now)

	// Retry once with an id-suffixed slug if the natural slug is taken.
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			event.Slug = event.Slug + "-" + event.ID[:8]
			err = s.store.CreateEvent(r.Context(), event)
		}
		if err != nil {
			respondStoreError(w, r, err)
			return
		}
	}

	s.engine.Invalidate()
	logging.Ctx(r.Context()).Info().
		Str("event_id", event.ID).
		Str("slug", event.Slug).
		Str("status", string(event.Status)).
		Msg("Event created")

	respond(w, http.StatusCreated, event)
}

// handleUpdateEvent applies a partial update. Cross-field invariants are
// validated on the merged result; terminal events are immutable.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if event.Status.IsTerminal() {
		respondError(w, http.StatusConflict, "CONFLICT",
			fmt.Sprintf("event in terminal status %s cannot be modified", event.Status))
		return
	}

	var in validation.UpdateEventInput
	if !decodeBody(w, r, &in) {
		return
	}
	if errs := validation.ValidateUpdateEvent(event, &in); len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	updated := validation.ApplyEventUpdate(event, &in)
	updated.UpdatedAt = s.nowFn().UTC()

	if err := s.store.UpdateEvent(r.Context(), &updated); err != nil {
		respondStoreError(w, r, err)
		return
	}

	s.engine.Invalidate()
	s.notifyAttendees(r, &updated, models.NotifyEventUpdate, "Event updated",
		fmt.Sprintf("%q has been updated", updated.Title))

	respond(w, http.StatusOK, updated)
}

// statusTransitionInput is the PATCH body for lifecycle transitions.
type statusTransitionInput struct {
	Status string `json:"status"`
}

// handleTransitionStatus moves an event through its lifecycle:
// DRAFT -> PUBLISHED -> {CANCELLED, COMPLETED}.
func (s *Server) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	var in statusTransitionInput
	if !decodeBody(w, r, &in) {
		return
	}
	next := models.EventStatus(in.Status)
	if !next.IsValid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("unknown status %q", in.Status))
		return
	}
	if !event.Status.CanTransitionTo(next) {
		respondError(w, http.StatusConflict, "CONFLICT",
			fmt.Sprintf("cannot transition from %s to %s", event.Status, next))
		return
	}

	now := s.nowFn().UTC()
	event.Status = next
	event.UpdatedAt = now
	if next == models.StatusPublished {
		event.PublishedAt = &now
	}

	if err := s.store.UpdateEvent(r.Context(), event); err != nil {
		respondStoreError(w, r, err)
		return
	}

	s.engine.Invalidate()
	if next == models.StatusCancelled {
		s.notifyAttendees(r, event, models.NotifyEventCancelled, "Event cancelled",
			fmt.Sprintf("%q has been cancelled", event.Title))
	}

	respond(w, http.StatusOK, event)
}

// handleRegister registers the authenticated user for an event. The
// resolved status depends on capacity and approval settings; registering
// again updates the existing record.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	event, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if event.Status != models.StatusPublished {
		respondError(w, http.StatusConflict, "CONFLICT", "event is not open for registration")
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !event.OpenToYear(user.Year) || !event.OpenToMajor(user.Major) {
		respondError(w, http.StatusForbidden, "FORBIDDEN",
			"event targeting does not admit this user")
		return
	}

	attendees, err := s.store.ListAttendeesByEvent(r.Context(), event.ID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	seatsTaken := 0
	var existing *models.EventAttendee
	for i := range attendees {
		if attendees[i].UserID == user.ID {
			existing = &attendees[i]
			continue // the registrant's own record never blocks them
		}
		if attendees[i].Status.CountsTowardCapacity() {
			seatsTaken++
		}
	}

	now := s.nowFn().UTC()
	record := models.EventAttendee{
		ID:        uuid.NewString(),
		EventID:   event.ID,
		UserID:    user.ID,
		Status:    models.ResolveRegistrationStatus(event, seatsTaken),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.TicketID = existing.TicketID
	}
	if record.Status == models.AttendeeConfirmed && record.TicketID == nil {
		ticket := uuid.NewString()
		record.TicketID = &ticket
	}

	if err := s.store.PutAttendee(r.Context(), &record); err != nil {
		respondStoreError(w, r, err)
		return
	}
	metrics.RecordRegistration(string(record.Status))
	s.refreshEventDerived(r, event.ID)
	s.engine.Invalidate()

	s.notify(r, &models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotifyNewAttendee,
		Title:     "New registration",
		Message:   fmt.Sprintf("%s registered for %q", user.Username, event.Title),
		UserID:    event.InstructorID,
		EventID:   &event.ID,
		CreatedAt: now,
	})

	respond(w, http.StatusCreated, record)
}

// handleCancelRegistration marks the authenticated user's registration as
// declined. The record is kept so the event is never re-recommended.
func (s *Server) handleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	record, err := s.store.GetAttendee(r.Context(), eventID, claims.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	record.Status = models.AttendeeDeclined
	record.UpdatedAt = s.nowFn().UTC()
	if err := s.store.PutAttendee(r.Context(), record); err != nil {
		respondStoreError(w, r, err)
		return
	}
	s.refreshEventDerived(r, eventID)
	s.engine.Invalidate()

	if event, err := s.store.GetEvent(r.Context(), eventID); err == nil {
		s.notify(r, &models.Notification{
			ID:        uuid.NewString(),
			Type:      models.NotifyAttendeeLeft,
			Title:     "Registration cancelled",
			Message:   fmt.Sprintf("%s cancelled their registration for %q", claims.Username, event.Title),
			UserID:    event.InstructorID,
			EventID:   &event.ID,
			CreatedAt: s.nowFn().UTC(),
		})
	}

	respondMessage(w, http.StatusOK, "registration cancelled")
}

// ratingInput is the POST body for event ratings.
type ratingInput struct {
	Rating int     `json:"rating"`
	Review *string `json:"review,omitempty"`
}

// handleRateEvent records the authenticated user's rating. One rating per
// user per event; rating again replaces the previous value.
func (s *Server) handleRateEvent(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	var in ratingInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Rating < models.RatingMin || in.Rating > models.RatingMax {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("rating must be between %d and %d", models.RatingMin, models.RatingMax))
		return
	}

	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	// Only users who actually registered may rate.
	record, err := s.store.GetAttendee(r.Context(), eventID, claims.UserID)
	if err != nil || record.Status == models.AttendeeDeclined {
		respondError(w, http.StatusForbidden, "FORBIDDEN",
			"only registered attendees can rate an event")
		return
	}

	now := s.nowFn().UTC()
	rating := &models.EventRating{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    claims.UserID,
		Rating:    in.Rating,
		Review:    in.Review,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutRating(r.Context(), rating); err != nil {
		respondStoreError(w, r, err)
		return
	}
	s.refreshEventDerived(r, eventID)
	s.engine.Invalidate()

	respond(w, http.StatusCreated, rating)
}

// commentInput is the POST body for event comments.
type commentInput struct {
	Content string `json:"content"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	eventID := chi.URLParam(r, "id")

	var in commentInput
	if !decodeBody(w, r, &in) {
		return
	}
	content := strings.TrimSpace(in.Content)
	if content == "" || len(content) > 2000 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"content must be between 1 and 2000 characters")
		return
	}

	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	now := s.nowFn().UTC()
	comment := &models.EventComment{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    claims.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AddComment(r.Context(), comment); err != nil {
		respondStoreError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if _, err := s.store.GetEvent(r.Context(), eventID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	comments, err := s.store.ListCommentsByEvent(r.Context(), eventID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.EventComment{}
	}
	respond(w, http.StatusOK, comments)
}

// handleEventAnalytics returns the derived aggregate for one event,
// computing it on demand when the background refresher has not run yet.
func (s *Server) handleEventAnalytics(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	event, err := s.store.GetEvent(r.Context(), eventID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	aggregate := s.analytics.Get(eventID)
	if aggregate == nil {
		snap, err := s.store.Snapshot(r.Context())
		if err != nil {
			respondStoreError(w, r, err)
			return
		}
		aggregate = analytics.Aggregate(event, snap, s.nowFn())
	}

	respond(w, http.StatusOK, aggregate)
}

// refreshEventDerived recomputes an event's attendee count and average
// rating after a registration or rating write.
func (s *Server) refreshEventDerived(r *http.Request, eventID string) {
	ctx := r.Context()

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", eventID).Msg("Derived refresh: load failed")
		return
	}
	attendees, err := s.store.ListAttendeesByEvent(ctx, eventID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", eventID).Msg("Derived refresh: attendees failed")
		return
	}
	ratings, err := s.store.ListRatingsByEvent(ctx, eventID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", eventID).Msg("Derived refresh: ratings failed")
		return
	}

	store.RecomputeEventDerived(event, attendees, ratings)
	event.UpdatedAt = s.nowFn().UTC()
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", eventID).Msg("Derived refresh: update failed")
	}
}

// notify stores a notification, logging rather than failing the request on
// error. Notifications are best-effort side effects.
func (s *Server) notify(r *http.Request, n *models.Notification) {
	if err := s.store.AddNotification(r.Context(), n); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("type", string(n.Type)).Msg("Failed to store notification")
	}
}

// notifyAttendees fans a notification out to every non-declined attendee.
func (s *Server) notifyAttendees(r *http.Request, event *models.Event, kind models.NotificationType, title, message string) {
	attendees, err := s.store.ListAttendeesByEvent(r.Context(), event.ID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to list attendees for notification")
		return
	}

	now := s.nowFn().UTC()
	for _, a := range attendees {
		if a.Status == models.AttendeeDeclined {
			continue
		}
		s.notify(r, &models.Notification{
			ID:        uuid.NewString(),
			Type:      kind,
			Title:     title,
			Message:   message,
			UserID:    a.UserID,
			EventID:   &event.ID,
			CreatedAt: now,
		})
	}
}

// buildEvent materializes a validated creation payload as a full event.
func buildEvent(in *validation.CreateEventInput, now time.Time) *models.Event {
	status := models.StatusDraft
	if in.Status != "" {
		status = models.EventStatus(in.Status)
	}

	event := &models.Event{
		ID:               uuid.NewString(),
		Title:            in.Title,
		Description:      in.Description,
		Slug:             slugify(in.Title),
		StartDateTime:    in.StartDateTime,
		EndDateTime:      in.EndDateTime,
		Timezone:         in.Timezone,
		IsAllDay:         in.IsAllDay,
		IsOnline:         in.IsOnline,
		Venue:            in.Venue,
		Building:         in.Building,
		Room:             in.Room,
		Category:         models.EventCategory(in.Category),
		Department:       in.Department,
		TargetYear:       in.TargetYear,
		TargetMajors:     in.TargetMajors,
		Tags:             in.Tags,
		MaxAttendees:     in.MaxAttendees,
		RequiresApproval: in.RequiresApproval,
		IsFree:           in.IsFree,
		TicketPrice:      in.TicketPrice,
		Currency:         in.Currency,
		CoverImage:       in.CoverImage,
		Images:           in.Images,
		Status:           status,
		InstructorID:     in.InstructorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == models.StatusPublished {
		event.PublishedAt = &now
	}
	return event
}

// slugify lowercases the title and collapses non-alphanumeric runs into
// single hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

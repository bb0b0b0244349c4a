// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/validation"
)

func TestSearchEventsStudentSeesPublishedOnly(t *testing.T) {
	a := newTestAPI(t)
	instructor, instructorToken := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, studentToken := a.seedUser(t, "s1", "student", models.RoleStudent, nil)

	a.seedEvent(t, "e1", instructor.ID, nil)
	a.seedEvent(t, "e2", instructor.ID, func(e *models.Event) {
		e.Status = models.StatusDraft
	})

	code, env := a.do(t, http.MethodGet, "/api/v1/events", studentToken, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var page models.PaginatedEvents
	decodeData(t, env, &page)
	if len(page.Data) != 1 || page.Data[0].ID != "e1" {
		t.Errorf("student sees %d events, want only e1", len(page.Data))
	}

	code, env = a.do(t, http.MethodGet, "/api/v1/events", instructorToken, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	decodeData(t, env, &page)
	if len(page.Data) != 2 {
		t.Errorf("instructor sees %d events, want 2", len(page.Data))
	}
}

func TestSearchEventsRejectsBadParams(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)

	cases := []struct {
		name  string
		query string
		code  string
	}{
		{"unknown sort key", "?sortBy=relevance", "VALIDATION_ERROR"},
		{"unknown category", "?category=BOGUS", "VALIDATION_ERROR"},
		{"zero limit", "?limit=0", "VALIDATION_ERROR"},
		{"negative limit", "?limit=-5", "VALIDATION_ERROR"},
		{"bad date", "?startDate=tomorrow", "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := a.do(t, http.MethodGet, "/api/v1/events"+tc.query, token, nil)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if env.Error == nil || env.Error.Code != tc.code {
				t.Errorf("error = %+v, want %s", env.Error, tc.code)
			}
		})
	}
}

func TestGetEventRecordsView(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	student, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	code, env := a.do(t, http.MethodGet, "/api/v1/events/e1", token, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var event models.Event
	decodeData(t, env, &event)
	if event.ID != "e1" {
		t.Errorf("event id = %s, want e1", event.ID)
	}

	views, err := a.store.ListViewsByEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("ListViewsByEvent: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if views[0].UserID == nil || *views[0].UserID != student.ID {
		t.Errorf("view user = %v, want %s", views[0].UserID, student.ID)
	}
}

func TestGetEventBySlug(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, func(e *models.Event) { e.Slug = "robotics-night" })

	code, env := a.do(t, http.MethodGet, "/api/v1/events/slug/robotics-night", token, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var event models.Event
	decodeData(t, env, &event)
	if event.ID != "e1" {
		t.Errorf("event id = %s, want e1", event.ID)
	}

	code, _ = a.do(t, http.MethodGet, "/api/v1/events/slug/missing", token, nil)
	if code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", code)
	}
}

func createEventBody(instructorID string) *validation.CreateEventInput {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return &validation.CreateEventInput{
		Title:         "Intro to Robotics",
		Description:   "Hands-on robotics workshop",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		Timezone:      "UTC",
		Category:      string(models.CategoryWorkshop),
		Department:    "Computer Science",
		Tags:          []string{"robotics"},
		IsFree:        true,
		InstructorID:  instructorID,
	}
}

func TestCreateEventRequiresInstructorRole(t *testing.T) {
	a := newTestAPI(t)
	instructor, instructorToken := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, studentToken := a.seedUser(t, "s1", "student", models.RoleStudent, nil)

	code, env := a.do(t, http.MethodPost, "/api/v1/events", studentToken, createEventBody(instructor.ID))
	if code != http.StatusForbidden {
		t.Fatalf("student status = %d, want 403", code)
	}
	if env.Error == nil || env.Error.Code != "FORBIDDEN" {
		t.Errorf("error = %+v, want FORBIDDEN", env.Error)
	}

	code, env = a.do(t, http.MethodPost, "/api/v1/events", instructorToken, createEventBody(instructor.ID))
	if code != http.StatusCreated {
		t.Fatalf("instructor status = %d, want 201 (error %+v)", code, env.Error)
	}
	var event models.Event
	decodeData(t, env, &event)
	if event.Slug != "intro-to-robotics" {
		t.Errorf("slug = %q, want intro-to-robotics", event.Slug)
	}
	if event.Status != models.StatusDraft {
		t.Errorf("status = %s, want DRAFT by default", event.Status)
	}
}

func TestCreateEventRejectsBadInstructorReference(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	student, _ := a.seedUser(t, "s1", "student", models.RoleStudent, nil)

	code, env := a.do(t, http.MethodPost, "/api/v1/events", token, createEventBody("missing"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", code)
	}
	if env.Error == nil || env.Error.Code != "REFERENCE_ERROR" {
		t.Errorf("error = %+v, want REFERENCE_ERROR", env.Error)
	}

	// Students cannot be set as an event's instructor.
	code, env = a.do(t, http.MethodPost, "/api/v1/events", token, createEventBody(student.ID))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", code)
	}
	if env.Error == nil || env.Error.Code != "REFERENCE_ERROR" {
		t.Errorf("error = %+v, want REFERENCE_ERROR", env.Error)
	}
}

func TestCreateEventAccumulatesValidationErrors(t *testing.T) {
	a := newTestAPI(t)
	instructor, token := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)

	body := createEventBody(instructor.ID)
	body.EndDateTime = body.StartDateTime.Add(-time.Hour)
	body.IsFree = false // no ticketPrice supplied

	code, env := a.do(t, http.MethodPost, "/api/v1/events", token, body)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
	if len(env.Error.ValidationErrors) < 2 {
		t.Errorf("violations = %d, want both date and price reported", len(env.Error.ValidationErrors))
	}
}

func TestUpdateEventMergesAndGuardsTerminal(t *testing.T) {
	a := newTestAPI(t)
	instructor, token := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)
	a.seedEvent(t, "e2", instructor.ID, func(e *models.Event) {
		e.Status = models.StatusCancelled
		e.Slug = "event-e2"
	})

	code, env := a.do(t, http.MethodPut, "/api/v1/events/e1", token, map[string]interface{}{
		"title": "Renamed Workshop",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %+v)", code, env.Error)
	}
	var event models.Event
	decodeData(t, env, &event)
	if event.Title != "Renamed Workshop" {
		t.Errorf("title = %q, not applied", event.Title)
	}
	if event.Department != "Computer Science" {
		t.Errorf("untouched field changed: department = %q", event.Department)
	}

	code, env = a.do(t, http.MethodPut, "/api/v1/events/e2", token, map[string]interface{}{
		"title": "Too Late",
	})
	if code != http.StatusConflict {
		t.Fatalf("terminal update status = %d, want 409", code)
	}
	if env.Error == nil || env.Error.Code != "CONFLICT" {
		t.Errorf("error = %+v, want CONFLICT", env.Error)
	}
}

func TestTransitionStatusLifecycle(t *testing.T) {
	a := newTestAPI(t)
	instructor, token := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	a.seedEvent(t, "e1", instructor.ID, func(e *models.Event) {
		e.Status = models.StatusDraft
	})

	code, env := a.do(t, http.MethodPatch, "/api/v1/events/e1/status", token, map[string]string{
		"status": "PUBLISHED",
	})
	if code != http.StatusOK {
		t.Fatalf("publish status = %d, want 200 (error %+v)", code, env.Error)
	}
	var event models.Event
	decodeData(t, env, &event)
	if event.Status != models.StatusPublished {
		t.Errorf("status = %s, want PUBLISHED", event.Status)
	}
	if event.PublishedAt == nil {
		t.Error("publishedAt must be stamped on publish")
	}

	// Lifecycle is monotonic: no way back to draft.
	code, env = a.do(t, http.MethodPatch, "/api/v1/events/e1/status", token, map[string]string{
		"status": "DRAFT",
	})
	if code != http.StatusConflict {
		t.Fatalf("demote status = %d, want 409", code)
	}

	code, _ = a.do(t, http.MethodPatch, "/api/v1/events/e1/status", token, map[string]string{
		"status": "ARCHIVED",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("unknown status = %d, want 400", code)
	}
}

func TestCancelNotifiesAttendees(t *testing.T) {
	a := newTestAPI(t)
	instructor, instructorToken := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	student, studentToken := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	if code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", studentToken, nil); code != http.StatusCreated {
		t.Fatalf("register status = %d (error %+v)", code, env.Error)
	}

	code, env := a.do(t, http.MethodPatch, "/api/v1/events/e1/status", instructorToken, map[string]string{
		"status": "CANCELLED",
	})
	if code != http.StatusOK {
		t.Fatalf("cancel status = %d (error %+v)", code, env.Error)
	}

	notifications, err := a.store.ListNotificationsByUser(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("ListNotificationsByUser: %v", err)
	}
	found := false
	for _, n := range notifications {
		if n.Type == models.NotifyEventCancelled {
			found = true
		}
	}
	if !found {
		t.Error("attendee must receive an EVENT_CANCELLED notification")
	}
}

func TestRegistrationFlow(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", token, nil)
	if code != http.StatusCreated {
		t.Fatalf("register status = %d (error %+v)", code, env.Error)
	}
	var record models.EventAttendee
	decodeData(t, env, &record)
	if record.Status != models.AttendeeConfirmed {
		t.Errorf("status = %s, want CONFIRMED for open free event", record.Status)
	}

	// Derived caches refresh on registration.
	event, err := a.store.GetEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.AttendeeCount != 1 {
		t.Errorf("attendeeCount = %d, want 1", event.AttendeeCount)
	}

	// The instructor hears about it.
	notifications, err := a.store.ListNotificationsByUser(context.Background(), instructor.ID)
	if err != nil {
		t.Fatalf("ListNotificationsByUser: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotifyNewAttendee {
		t.Errorf("instructor notifications = %+v, want one NEW_ATTENDEE", notifications)
	}

	// Cancelling keeps the record as DECLINED and frees the seat.
	code, env = a.do(t, http.MethodDelete, "/api/v1/events/e1/register", token, nil)
	if code != http.StatusOK {
		t.Fatalf("cancel status = %d (error %+v)", code, env.Error)
	}
	stored, err := a.store.GetAttendee(context.Background(), "e1", "s1")
	if err != nil {
		t.Fatalf("GetAttendee: %v", err)
	}
	if stored.Status != models.AttendeeDeclined {
		t.Errorf("status after cancel = %s, want DECLINED", stored.Status)
	}
	event, _ = a.store.GetEvent(context.Background(), "e1")
	if event.AttendeeCount != 0 {
		t.Errorf("attendeeCount after cancel = %d, want 0", event.AttendeeCount)
	}
}

func TestRegisterResolvesCapacityAndApproval(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token1 := a.seedUser(t, "s1", "alice", models.RoleStudent, nil)
	_, token2 := a.seedUser(t, "s2", "bob", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, func(e *models.Event) {
		e.MaxAttendees = intPtr(1)
	})
	a.seedEvent(t, "e2", instructor.ID, func(e *models.Event) {
		e.Slug = "event-e2"
		e.RequiresApproval = true
	})

	_, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", token1, nil)
	var first models.EventAttendee
	decodeData(t, env, &first)
	if first.Status != models.AttendeeConfirmed {
		t.Errorf("first status = %s, want CONFIRMED", first.Status)
	}

	_, env = a.do(t, http.MethodPost, "/api/v1/events/e1/register", token2, nil)
	var second models.EventAttendee
	decodeData(t, env, &second)
	if second.Status != models.AttendeeWaitlist {
		t.Errorf("second status = %s, want WAITLIST at capacity", second.Status)
	}

	_, env = a.do(t, http.MethodPost, "/api/v1/events/e2/register", token1, nil)
	var pending models.EventAttendee
	decodeData(t, env, &pending)
	if pending.Status != models.AttendeePending {
		t.Errorf("approval event status = %s, want PENDING", pending.Status)
	}
}

func TestRegisterEnforcesTargetingAndLifecycle(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil) // year 2
	a.seedEvent(t, "e1", instructor.ID, func(e *models.Event) {
		e.TargetYear = []int{4}
	})
	a.seedEvent(t, "e2", instructor.ID, func(e *models.Event) {
		e.Slug = "event-e2"
		e.Status = models.StatusDraft
	})

	code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", token, nil)
	if code != http.StatusForbidden {
		t.Fatalf("targeted event status = %d, want 403", code)
	}
	if env.Error == nil || env.Error.Code != "FORBIDDEN" {
		t.Errorf("error = %+v, want FORBIDDEN", env.Error)
	}

	code, _ = a.do(t, http.MethodPost, "/api/v1/events/e2/register", token, nil)
	if code != http.StatusConflict {
		t.Fatalf("draft event status = %d, want 409", code)
	}
}

func TestRateEventRequiresAttendance(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	code, _ := a.do(t, http.MethodPost, "/api/v1/events/e1/ratings", token, map[string]interface{}{
		"rating": 5,
	})
	if code != http.StatusForbidden {
		t.Fatalf("unregistered rating status = %d, want 403", code)
	}

	if code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", token, nil); code != http.StatusCreated {
		t.Fatalf("register status = %d (error %+v)", code, env.Error)
	}

	code, _ = a.do(t, http.MethodPost, "/api/v1/events/e1/ratings", token, map[string]interface{}{
		"rating": 6,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("out-of-range rating status = %d, want 400", code)
	}

	code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/ratings", token, map[string]interface{}{
		"rating": 4,
		"review": "solid session",
	})
	if code != http.StatusCreated {
		t.Fatalf("rating status = %d (error %+v)", code, env.Error)
	}

	event, err := a.store.GetEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.AverageRating != 4 {
		t.Errorf("averageRating = %v, want 4", event.AverageRating)
	}

	// Rating again replaces, never accumulates.
	if code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/ratings", token, map[string]interface{}{
		"rating": 2,
	}); code != http.StatusCreated {
		t.Fatalf("re-rating status = %d (error %+v)", code, env.Error)
	}
	event, _ = a.store.GetEvent(context.Background(), "e1")
	if event.AverageRating != 2 {
		t.Errorf("averageRating after replace = %v, want 2", event.AverageRating)
	}
}

func TestCommentsRoundTrip(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	code, _ := a.do(t, http.MethodPost, "/api/v1/events/e1/comments", token, map[string]string{
		"content": "   ",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("blank comment status = %d, want 400", code)
	}

	for _, content := range []string{"first", "second"} {
		if code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/comments", token, map[string]string{
			"content": content,
		}); code != http.StatusCreated {
			t.Fatalf("comment status = %d (error %+v)", code, env.Error)
		}
	}

	code, env := a.do(t, http.MethodGet, "/api/v1/events/e1/comments", token, nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	var comments []models.EventComment
	decodeData(t, env, &comments)
	if len(comments) != 2 {
		t.Errorf("comments = %d, want 2 (multiple per user allowed)", len(comments))
	}
}

func TestEventAnalyticsComputedOnDemand(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	_, token := a.seedUser(t, "s1", "student", models.RoleStudent, nil)
	a.seedEvent(t, "e1", instructor.ID, nil)

	if code, env := a.do(t, http.MethodPost, "/api/v1/events/e1/register", token, nil); code != http.StatusCreated {
		t.Fatalf("register status = %d (error %+v)", code, env.Error)
	}
	// A view for the conversion denominator.
	if code, _ := a.do(t, http.MethodGet, "/api/v1/events/e1", token, nil); code != http.StatusOK {
		t.Fatalf("view status = %d", code)
	}

	code, env := a.do(t, http.MethodGet, "/api/v1/events/e1/analytics", token, nil)
	if code != http.StatusOK {
		t.Fatalf("analytics status = %d (error %+v)", code, env.Error)
	}
	var agg models.EventAnalytics
	decodeData(t, env, &agg)
	if agg.Registrations != 1 {
		t.Errorf("registrations = %d, want 1", agg.Registrations)
	}
	if agg.Views != 1 {
		t.Errorf("views = %d, want 1", agg.Views)
	}

	code, _ = a.do(t, http.MethodGet, "/api/v1/events/missing/analytics", token, nil)
	if code != http.StatusNotFound {
		t.Errorf("missing event analytics status = %d, want 404", code)
	}
}

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

	"github.com/google/uuid"

	"github.com/campanile-app/campanile/internal/models"
	"github.com/campanile-app/campanile/internal/validation"
)

func registerUserBody(username string) *validation.CreateUserInput {
	return &validation.CreateUserInput{
		UniversityID: "U-" + username,
		Email:        username + "@campus.edu",
		Username:     username,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         string(models.RoleStudent),
		Department:   "Computer Science",
		Year:         intPtr(2),
		Major:        strPtr("Computer Science"),
		Interests:    []string{"robotics"},
	}
}

func TestRegisterUserIssuesTokenAndSeedsPreferences(t *testing.T) {
	a := newTestAPI(t)

	code, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", registerUserBody("ada"))
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (error %+v)", code, env.Error)
	}
	var resp tokenResponse
	decodeData(t, env, &resp)
	if resp.Token == "" {
		t.Error("token must be issued on registration")
	}
	if resp.User == nil || resp.User.ID == "" {
		t.Fatal("user must be returned with a server-assigned id")
	}

	// The token works against protected routes.
	if code, _ := a.do(t, http.MethodGet, "/api/v1/events", resp.Token, nil); code != http.StatusOK {
		t.Errorf("issued token rejected, status = %d", code)
	}

	pref, err := a.store.GetPreferences(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if pref.Theme != models.ThemeSystem || !pref.EventRecommendations {
		t.Errorf("seeded preferences = %+v, want defaults", pref)
	}

	// Username is a natural key.
	code, env = a.do(t, http.MethodPost, "/api/v1/auth/register", "", registerUserBody("ada"))
	if code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", code)
	}
	if env.Error == nil || env.Error.Code != "CONFLICT" {
		t.Errorf("error = %+v, want CONFLICT", env.Error)
	}
}

func TestRegisterUserValidatesPayload(t *testing.T) {
	a := newTestAPI(t)

	body := registerUserBody("ada")
	body.Email = "not-an-email"
	body.Role = "PROFESSOR"

	code, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Error == nil || len(env.Error.ValidationErrors) < 2 {
		t.Errorf("error = %+v, want both email and role violations", env.Error)
	}
}

func TestIssueToken(t *testing.T) {
	a := newTestAPI(t)
	user, _ := a.seedUser(t, "s1", "ada", models.RoleStudent, nil)

	code, env := a.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": "ada",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %+v)", code, env.Error)
	}
	var resp tokenResponse
	decodeData(t, env, &resp)
	if resp.Token == "" || resp.User.ID != user.ID {
		t.Errorf("response = %+v, want token for %s", resp, user.ID)
	}

	stored, err := a.store.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Error("lastLoginAt must be stamped on token issue")
	}

	code, env = a.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": "nobody",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("unknown identity status = %d, want 401", code)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("error = %+v, want UNAUTHORIZED", env.Error)
	}
}

func TestUpdateUserGuardsIdentityAndOwnership(t *testing.T) {
	a := newTestAPI(t)
	user, token := a.seedUser(t, "s1", "ada", models.RoleStudent, nil)
	_, otherToken := a.seedUser(t, "s2", "bob", models.RoleStudent, nil)
	_, adminToken := a.seedUser(t, "a1", "root", models.RoleAdmin, nil)

	// Another student cannot edit the profile.
	code, _ := a.do(t, http.MethodPut, "/api/v1/users/s1", otherToken, map[string]interface{}{
		"firstName": "Mallory",
	})
	if code != http.StatusForbidden {
		t.Fatalf("cross-user edit status = %d, want 403", code)
	}

	// Identity fields are not part of the update payload at all.
	code, env := a.do(t, http.MethodPut, "/api/v1/users/s1", token, map[string]interface{}{
		"username": "hijacked",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("identity edit status = %d, want 400 (error %+v)", code, env.Error)
	}

	code, env = a.do(t, http.MethodPut, "/api/v1/users/s1", token, map[string]interface{}{
		"interests": []string{"chess"},
	})
	if code != http.StatusOK {
		t.Fatalf("self edit status = %d (error %+v)", code, env.Error)
	}
	var updated models.User
	decodeData(t, env, &updated)
	if len(updated.Interests) != 1 || updated.Interests[0] != "chess" {
		t.Errorf("interests = %v, want [chess]", updated.Interests)
	}
	if updated.Username != user.Username {
		t.Errorf("username changed to %q", updated.Username)
	}

	// Admins can edit anyone.
	code, _ = a.do(t, http.MethodPut, "/api/v1/users/s1", adminToken, map[string]interface{}{
		"department": "Mathematics",
	})
	if code != http.StatusOK {
		t.Errorf("admin edit status = %d, want 200", code)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	a := newTestAPI(t)
	instructor, _ := a.seedUser(t, "i1", "prof", models.RoleInstructor, nil)
	user, token := a.seedUser(t, "s1", "ada", models.RoleStudent, nil)
	_, otherToken := a.seedUser(t, "s2", "bob", models.RoleStudent, func(u *models.User) {
		u.Interests = []string{"theatre"}
	})

	a.seedEvent(t, "e1", instructor.ID, nil) // robotics, matches ada
	a.seedEvent(t, "e2", instructor.ID, func(e *models.Event) {
		e.Slug = "event-e2"
		e.Status = models.StatusDraft
	})

	code, env := a.do(t, http.MethodGet, "/api/v1/users/s1/recommendations", token, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d (error %+v)", code, env.Error)
	}
	var recs models.UserRecommendations
	decodeData(t, env, &recs)
	if recs.UserID != user.ID {
		t.Errorf("userId = %s, want %s", recs.UserID, user.ID)
	}
	if len(recs.Recommendations) != 1 || recs.Recommendations[0].EventID != "e1" {
		t.Errorf("recommendations = %+v, want only published e1", recs.Recommendations)
	}
	if recs.ModelVersion == "" {
		t.Error("modelVersion must be stamped")
	}

	// Recommendations are private to the user (and admins).
	code, _ = a.do(t, http.MethodGet, "/api/v1/users/s1/recommendations", otherToken, nil)
	if code != http.StatusForbidden {
		t.Fatalf("cross-user status = %d, want 403", code)
	}

	code, _ = a.do(t, http.MethodGet, "/api/v1/users/s1/recommendations?k=bogus", token, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bad k status = %d, want 400", code)
	}
}

func TestNotificationsListAndMarkRead(t *testing.T) {
	a := newTestAPI(t)
	user, token := a.seedUser(t, "s1", "ada", models.RoleStudent, nil)

	n := &models.Notification{
		ID:        uuid.NewString(),
		Type:      models.NotifySystemAnnouncement,
		Title:     "Welcome",
		Message:   "Welcome to campus",
		UserID:    user.ID,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := a.store.AddNotification(context.Background(), n); err != nil {
		t.Fatalf("AddNotification: %v", err)
	}

	code, env := a.do(t, http.MethodGet, "/api/v1/users/s1/notifications", token, nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	var notifications []models.Notification
	decodeData(t, env, &notifications)
	if len(notifications) != 1 || notifications[0].IsRead {
		t.Fatalf("notifications = %+v, want one unread", notifications)
	}

	code, _ = a.do(t, http.MethodPost, "/api/v1/users/s1/notifications/"+n.ID+"/read", token, nil)
	if code != http.StatusOK {
		t.Fatalf("mark read status = %d", code)
	}

	_, env = a.do(t, http.MethodGet, "/api/v1/users/s1/notifications", token, nil)
	decodeData(t, env, &notifications)
	if !notifications[0].IsRead {
		t.Error("notification must be marked read")
	}

	code, _ = a.do(t, http.MethodPost, "/api/v1/users/s1/notifications/missing/read", token, nil)
	if code != http.StatusNotFound {
		t.Errorf("missing notification status = %d, want 404", code)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.seedUser(t, "s1", "ada", models.RoleStudent, nil)

	// Unknown users still get defaults, not 404.
	code, env := a.do(t, http.MethodGet, "/api/v1/users/s1/preferences", token, nil)
	if code != http.StatusOK {
		t.Fatalf("get status = %d (error %+v)", code, env.Error)
	}
	var pref models.UserPreference
	decodeData(t, env, &pref)
	if pref.Theme != models.ThemeSystem || pref.Language != "en" {
		t.Errorf("defaults = %+v", pref)
	}

	code, _ = a.do(t, http.MethodPut, "/api/v1/users/s1/preferences", token, map[string]interface{}{
		"theme":             "neon",
		"profileVisibility": "public",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("bad theme status = %d, want 400", code)
	}

	code, env = a.do(t, http.MethodPut, "/api/v1/users/s1/preferences", token, map[string]interface{}{
		"emailNotifications": true,
		"theme":              "dark",
		"language":           "fr",
		"timezone":           "Europe/Paris",
		"profileVisibility":  "private",
	})
	if code != http.StatusOK {
		t.Fatalf("put status = %d (error %+v)", code, env.Error)
	}
	decodeData(t, env, &pref)
	if pref.Theme != models.ThemeDark || pref.ProfileVisibility != models.VisibilityPrivate {
		t.Errorf("stored = %+v", pref)
	}

	stored, err := a.store.GetPreferences(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if stored.Language != "fr" || stored.Timezone != "Europe/Paris" {
		t.Errorf("persisted = %+v", stored)
	}
}

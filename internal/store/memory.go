// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/campanile-app/campanile/internal/models"
)

// MemoryStore implements Store with plain maps behind a single mutex.
// Used in tests and local development where persistence is unwanted.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[string]models.User
	usernames map[string]string // username -> user id
	events    map[string]models.Event
	slugs     map[string]string // slug -> event id
	attendees map[string]models.EventAttendee
	ratings   map[string]models.EventRating
	comments  map[string][]models.EventComment
	views     map[string][]models.ViewEvent
	notifs    map[string][]models.Notification
	prefs     map[string]models.UserPreference
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		usernames: make(map[string]string),
		events:    make(map[string]models.Event),
		slugs:     make(map[string]string),
		attendees: make(map[string]models.EventAttendee),
		ratings:   make(map[string]models.EventRating),
		comments:  make(map[string][]models.EventComment),
		views:     make(map[string][]models.ViewEvent),
		notifs:    make(map[string][]models.Notification),
		prefs:     make(map[string]models.UserPreference),
	}
}

func pairKey(a, b string) string { return a + ":" + b }

// CreateUser inserts a new user, enforcing username uniqueness.
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrDuplicate)
	}
	if _, ok := m.usernames[user.Username]; ok {
		return fmt.Errorf("username %s: %w", user.Username, ErrDuplicate)
	}

	m.users[user.ID] = *user
	m.usernames[user.Username] = user.ID
	return nil
}

// GetUser retrieves a user by id.
func (m *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	id, ok := m.usernames[username]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("username %s: %w", username, ErrNotFound)
	}
	return m.GetUser(ctx, id)
}

// UpdateUser replaces an existing user record.
func (m *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	m.users[user.ID] = *user
	return nil
}

// ListUsers returns all users ordered by id.
func (m *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.users, func(u models.User) string { return u.ID }), nil
}

// CreateEvent inserts a new event, enforcing slug uniqueness.
func (m *MemoryStore) CreateEvent(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[event.ID]; ok {
		return fmt.Errorf("event %s: %w", event.ID, ErrDuplicate)
	}
	if _, ok := m.slugs[event.Slug]; ok {
		return fmt.Errorf("slug %s: %w", event.Slug, ErrDuplicate)
	}

	m.events[event.ID] = *event
	m.slugs[event.Slug] = event.ID
	return nil
}

// GetEvent retrieves an event by id.
func (m *MemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return &event, nil
}

// GetEventBySlug retrieves an event by slug.
func (m *MemoryStore) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	m.mu.RLock()
	id, ok := m.slugs[slug]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("slug %s: %w", slug, ErrNotFound)
	}
	return m.GetEvent(ctx, id)
}

// UpdateEvent replaces an existing event record.
func (m *MemoryStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[event.ID]; !ok {
		return fmt.Errorf("event %s: %w", event.ID, ErrNotFound)
	}
	m.events[event.ID] = *event
	return nil
}

// ListEvents returns all events ordered by id.
func (m *MemoryStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.events, func(e models.Event) string { return e.ID }), nil
}

// PutAttendee inserts or replaces the attendance record for the record's
// (event, user) pair.
func (m *MemoryStore) PutAttendee(ctx context.Context, attendee *models.EventAttendee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendees[pairKey(attendee.EventID, attendee.UserID)] = *attendee
	return nil
}

// GetAttendee retrieves one attendance record, or ErrNotFound.
func (m *MemoryStore) GetAttendee(ctx context.Context, eventID, userID string) (*models.EventAttendee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	attendee, ok := m.attendees[pairKey(eventID, userID)]
	if !ok {
		return nil, fmt.Errorf("attendee %s/%s: %w", eventID, userID, ErrNotFound)
	}
	return &attendee, nil
}

// ListAttendeesByEvent returns all attendance records for an event.
func (m *MemoryStore) ListAttendeesByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.EventAttendee
	for _, a := range m.attendees {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ListAttendanceByUser returns a user's attendance records.
func (m *MemoryStore) ListAttendanceByUser(ctx context.Context, userID string) ([]models.EventAttendee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.EventAttendee
	for _, a := range m.attendees {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out, nil
}

// PutRating inserts or replaces the rating for the record's (event, user)
// pair.
func (m *MemoryStore) PutRating(ctx context.Context, rating *models.EventRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[pairKey(rating.EventID, rating.UserID)] = *rating
	return nil
}

// ListRatingsByEvent returns all ratings for an event.
func (m *MemoryStore) ListRatingsByEvent(ctx context.Context, eventID string) ([]models.EventRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.EventRating
	for _, r := range m.ratings {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// AddComment appends a comment.
func (m *MemoryStore) AddComment(ctx context.Context, comment *models.EventComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[comment.EventID] = append(m.comments[comment.EventID], *comment)
	return nil
}

// ListCommentsByEvent returns all comments for an event in insertion order.
func (m *MemoryStore) ListCommentsByEvent(ctx context.Context, eventID string) ([]models.EventComment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.EventComment(nil), m.comments[eventID]...), nil
}

// RecordView appends a view record.
func (m *MemoryStore) RecordView(ctx context.Context, view *models.ViewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[view.EventID] = append(m.views[view.EventID], *view)
	return nil
}

// ListViewsByEvent returns all view records for an event.
func (m *MemoryStore) ListViewsByEvent(ctx context.Context, eventID string) ([]models.ViewEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ViewEvent(nil), m.views[eventID]...), nil
}

// AddNotification appends a notification for its recipient.
func (m *MemoryStore) AddNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifs[n.UserID] = append(m.notifs[n.UserID], *n)
	return nil
}

// ListNotificationsByUser returns all notifications for a user in insertion
// order.
func (m *MemoryStore) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Notification(nil), m.notifs[userID]...), nil
}

// MarkNotificationRead flips the read flag on one notification.
func (m *MemoryStore) MarkNotificationRead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.notifs[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, ErrNotFound)
}

// GetPreferences returns the stored preferences, or the defaults when the
// user has never saved any.
func (m *MemoryStore) GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if pref, ok := m.prefs[userID]; ok {
		return &pref, nil
	}
	defaults := models.DefaultPreferences(userID)
	return &defaults, nil
}

// PutPreferences inserts or replaces a user's preferences.
func (m *MemoryStore) PutPreferences(ctx context.Context, pref *models.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[pref.UserID] = *pref
	return nil
}

// Snapshot copies every collection under the read lock.
func (m *MemoryStore) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &models.Snapshot{
		Users:  sortedValues(m.users, func(u models.User) string { return u.ID }),
		Events: sortedValues(m.events, func(e models.Event) string { return e.ID }),
	}

	snap.Attendees = sortedValues(m.attendees, func(a models.EventAttendee) string {
		return pairKey(a.EventID, a.UserID)
	})
	snap.Ratings = sortedValues(m.ratings, func(r models.EventRating) string {
		return pairKey(r.EventID, r.UserID)
	})
	for _, list := range m.comments {
		snap.Comments = append(snap.Comments, list...)
	}
	for _, list := range m.views {
		snap.Views = append(snap.Views, list...)
	}

	return snap, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

func sortedValues[T any](src map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(src))
	for _, v := range src {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

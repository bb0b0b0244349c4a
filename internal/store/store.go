// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package store persists the platform's entity collections and supplies
// consistent snapshots to the stateless query, recommendation, and
// analytics computations. Two implementations exist: a BadgerDB-backed
// store for production and an in-memory store for tests.
package store

import (
	"context"
	"errors"

	"github.com/campanile-app/campanile/internal/models"
)

// Sentinel errors. Callers branch on these with errors.Is to map storage
// failures to API error codes.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the persistence interface for all entity collections.
//
// Write methods stamp nothing: callers supply complete records with ids
// and timestamps already set. Uniqueness of natural keys (email, username,
// slug, one attendance/rating per user per event) is enforced here.
type Store interface {
	// Users. Identity fields are immutable; UpdateUser rejects unknown ids.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	// Events.
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context) ([]models.Event, error)

	// Attendance. At most one record per (event, user); PutAttendee
	// inserts or replaces that record.
	PutAttendee(ctx context.Context, attendee *models.EventAttendee) error
	GetAttendee(ctx context.Context, eventID, userID string) (*models.EventAttendee, error)
	ListAttendeesByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error)
	ListAttendanceByUser(ctx context.Context, userID string) ([]models.EventAttendee, error)

	// Ratings. One per (event, user); PutRating inserts or replaces.
	PutRating(ctx context.Context, rating *models.EventRating) error
	ListRatingsByEvent(ctx context.Context, eventID string) ([]models.EventRating, error)

	// Comments. Unbounded per user per event.
	AddComment(ctx context.Context, comment *models.EventComment) error
	ListCommentsByEvent(ctx context.Context, eventID string) ([]models.EventComment, error)

	// Views are append-only.
	RecordView(ctx context.Context, view *models.ViewEvent) error
	ListViewsByEvent(ctx context.Context, eventID string) ([]models.ViewEvent, error)

	// Notifications.
	AddNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error

	// Preferences. GetPreferences returns defaults for users with no
	// stored record.
	GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error)
	PutPreferences(ctx context.Context, pref *models.UserPreference) error

	// Snapshot returns a consistent point-in-time view of every
	// collection.
	Snapshot(ctx context.Context) (*models.Snapshot, error)

	Close() error
}

// RecomputeEventDerived refreshes an event's derived caches from its
// attendance and rating collections. Callers persist the event afterwards.
func RecomputeEventDerived(event *models.Event, attendees []models.EventAttendee, ratings []models.EventRating) {
	count := 0
	for _, a := range attendees {
		if a.Status.CountsTowardCapacity() {
			count++
		}
	}
	event.AttendeeCount = count
	event.AverageRating = models.AverageRating(ratings)
}

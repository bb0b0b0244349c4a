// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// NotificationType classifies a notification. Closed set.
type NotificationType string

// Notification types.
const (
	NotifyEventReminder       NotificationType = "EVENT_REMINDER"
	NotifyEventUpdate         NotificationType = "EVENT_UPDATE"
	NotifyEventCancelled      NotificationType = "EVENT_CANCELLED"
	NotifyNewAttendee         NotificationType = "NEW_ATTENDEE"
	NotifyAttendeeLeft        NotificationType = "ATTENDEE_LEFT"
	NotifyEventRecommendation NotificationType = "EVENT_RECOMMENDATION"
	NotifySystemAnnouncement  NotificationType = "SYSTEM_ANNOUNCEMENT"
)

// IsValid reports whether the type is a member of the closed set.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotifyEventReminder, NotifyEventUpdate, NotifyEventCancelled,
		NotifyNewAttendee, NotifyAttendeeLeft, NotifyEventRecommendation,
		NotifySystemAnnouncement:
		return true
	default:
		return false
	}
}

// Notification is a message delivered to a user, optionally tied to an event.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	UserID    string           `json:"userId"`
	EventID   *string          `json:"eventId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

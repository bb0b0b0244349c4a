// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// AttendeeStatus tracks the registration state of a user for an event.
type AttendeeStatus string

// Attendee statuses.
const (
	AttendeePending   AttendeeStatus = "PENDING"
	AttendeeConfirmed AttendeeStatus = "CONFIRMED"
	AttendeeDeclined  AttendeeStatus = "DECLINED"
	AttendeeWaitlist  AttendeeStatus = "WAITLIST"
)

// IsValid reports whether the status is a member of the closed set.
func (s AttendeeStatus) IsValid() bool {
	switch s {
	case AttendeePending, AttendeeConfirmed, AttendeeDeclined, AttendeeWaitlist:
		return true
	default:
		return false
	}
}

// CountsTowardCapacity reports whether a record in this status consumes an
// event seat. Declined and waitlisted registrations do not.
func (s AttendeeStatus) CountsTowardCapacity() bool {
	return s == AttendeeConfirmed || s == AttendeePending
}

// EventAttendee joins a user to an event. At most one record exists per
// (EventID, UserID) pair; re-registration updates the existing record.
type EventAttendee struct {
	ID        string         `json:"id"`
	EventID   string         `json:"eventId"`
	UserID    string         `json:"userId"`
	Status    AttendeeStatus `json:"status"`
	TicketID  *string        `json:"ticketId,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ResolveRegistrationStatus determines the status a new registration
// resolves to, given the event's capacity settings and the number of seats
// already taken (CONFIRMED plus PENDING records).
//
// When MaxAttendees is set and reached, registrations resolve to WAITLIST
// rather than CONFIRMED. Events requiring approval admit as PENDING while
// capacity remains.
func ResolveRegistrationStatus(event *Event, seatsTaken int) AttendeeStatus {
	if event.MaxAttendees != nil && seatsTaken >= *event.MaxAttendees {
		return AttendeeWaitlist
	}
	if event.RequiresApproval {
		return AttendeePending
	}
	return AttendeeConfirmed
}

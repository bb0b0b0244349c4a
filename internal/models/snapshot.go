// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

// Snapshot is a consistent, point-in-time view of the entity collections
// supplied to the stateless query, recommendation, and analytics
// computations. The supplier (a storage layer) guarantees no mid-computation
// mutation is visible through it.
type Snapshot struct {
	Users     []User
	Events    []Event
	Attendees []EventAttendee
	Ratings   []EventRating
	Comments  []EventComment
	Views     []ViewEvent
}

// EventByID returns the event with the given id, or nil.
func (s *Snapshot) EventByID(id string) *Event {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return &s.Events[i]
		}
	}
	return nil
}

// UserByID returns the user with the given id, or nil.
func (s *Snapshot) UserByID(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// AttendeesForEvent returns attendance records for one event.
func (s *Snapshot) AttendeesForEvent(eventID string) []EventAttendee {
	var out []EventAttendee
	for _, a := range s.Attendees {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out
}

// AttendanceForUser returns attendance records for one user.
func (s *Snapshot) AttendanceForUser(userID string) []EventAttendee {
	var out []EventAttendee
	for _, a := range s.Attendees {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

// RatingsForEvent returns rating records for one event.
func (s *Snapshot) RatingsForEvent(eventID string) []EventRating {
	var out []EventRating
	for _, r := range s.Ratings {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

// ViewsForEvent returns view records for one event.
func (s *Snapshot) ViewsForEvent(eventID string) []ViewEvent {
	var out []ViewEvent
	for _, v := range s.Views {
		if v.EventID == eventID {
			out = append(out, v)
		}
	}
	return out
}

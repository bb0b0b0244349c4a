// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// EventCategory classifies an event. Closed set.
type EventCategory string

// Event categories.
const (
	CategoryAcademic     EventCategory = "ACADEMIC"
	CategoryWorkshop     EventCategory = "WORKSHOP"
	CategorySeminar      EventCategory = "SEMINAR"
	CategoryConference   EventCategory = "CONFERENCE"
	CategoryClubActivity EventCategory = "CLUB_ACTIVITY"
	CategorySports       EventCategory = "SPORTS"
	CategoryCultural     EventCategory = "CULTURAL"
	CategoryCareer       EventCategory = "CAREER"
	CategoryResearch     EventCategory = "RESEARCH"
	CategoryDepartment   EventCategory = "DEPARTMENT"
	CategoryOrientation  EventCategory = "ORIENTATION"
	CategoryGraduation   EventCategory = "GRADUATION"
	CategoryGuestLecture EventCategory = "GUEST_LECTURE"
	CategoryCompetition  EventCategory = "COMPETITION"
	CategorySocial       EventCategory = "SOCIAL"
	CategoryOther        EventCategory = "OTHER"
)

// IsValid reports whether the category is a member of the closed set.
func (c EventCategory) IsValid() bool {
	switch c {
	case CategoryAcademic, CategoryWorkshop, CategorySeminar, CategoryConference,
		CategoryClubActivity, CategorySports, CategoryCultural, CategoryCareer,
		CategoryResearch, CategoryDepartment, CategoryOrientation, CategoryGraduation,
		CategoryGuestLecture, CategoryCompetition, CategorySocial, CategoryOther:
		return true
	default:
		return false
	}
}

// EventStatus tracks the lifecycle of an event.
type EventStatus string

// Event lifecycle states. Transitions are monotonic:
// DRAFT -> PUBLISHED -> {CANCELLED, COMPLETED}.
const (
	StatusDraft     EventStatus = "DRAFT"
	StatusPublished EventStatus = "PUBLISHED"
	StatusCancelled EventStatus = "CANCELLED"
	StatusCompleted EventStatus = "COMPLETED"
)

// IsValid reports whether the status is a member of the closed set.
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s EventStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next. Self-transitions are not permitted.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusPublished
	case StatusPublished:
		return next == StatusCancelled || next == StatusCompleted
	case StatusCancelled, StatusCompleted:
		return false
	default:
		return false
	}
}

// Event is the canonical representation of a campus event.
//
// AttendeeCount and AverageRating are derived caches recomputed from the
// EventAttendee and EventRating collections; they never drive business
// decisions directly.
type Event struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Slug          string        `json:"slug"`
	StartDateTime time.Time     `json:"startDateTime"`
	EndDateTime   time.Time     `json:"endDateTime"`
	Timezone      string        `json:"timezone"`
	IsAllDay      bool          `json:"isAllDay"`
	IsOnline      bool          `json:"isOnline"`
	Venue         *string       `json:"venue,omitempty"` // campus building/room
	Building      *string       `json:"building,omitempty"`
	Room          *string       `json:"room,omitempty"`
	Category      EventCategory `json:"category"`
	Department    string        `json:"department"` // organizing department
	TargetYear    []int         `json:"targetYear,omitempty"`   // empty: open to all years
	TargetMajors  []string      `json:"targetMajors,omitempty"` // empty: open to all majors
	Tags          []string      `json:"tags"`
	MaxAttendees  *int          `json:"maxAttendees,omitempty"`
	RequiresApproval bool       `json:"requiresApproval"`
	IsFree        bool          `json:"isFree"`
	TicketPrice   *float64      `json:"ticketPrice,omitempty"`
	Currency      string        `json:"currency"`
	CoverImage    *string       `json:"coverImage,omitempty"`
	Images        []string      `json:"images"`
	Status        EventStatus   `json:"status"`
	InstructorID  string        `json:"instructorId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	PublishedAt   *time.Time    `json:"publishedAt,omitempty"`

	// Derived caches, recomputed from attendance and rating collections.
	AttendeeCount int     `json:"attendeeCount"`
	AverageRating float64 `json:"averageRating"`
}

// OpenToYear reports whether the event's year targeting admits the given
// year. A nil year matches only unrestricted events.
func (e *Event) OpenToYear(year *int) bool {
	if len(e.TargetYear) == 0 {
		return true
	}
	if year == nil {
		return false
	}
	for _, y := range e.TargetYear {
		if y == *year {
			return true
		}
	}
	return false
}

// OpenToMajor reports whether the event's major targeting admits the given
// major. A nil major matches only unrestricted events.
func (e *Event) OpenToMajor(major *string) bool {
	if len(e.TargetMajors) == 0 {
		return true
	}
	if major == nil {
		return false
	}
	for _, m := range e.TargetMajors {
		if m == *major {
			return true
		}
	}
	return false
}

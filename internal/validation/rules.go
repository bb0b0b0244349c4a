// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package validation

import (
	"time"

	"github.com/campanile-app/campanile/internal/models"
)

// eventFields holds the normalized cross-field view of an event payload.
// Create inputs populate it directly; update inputs populate it from the
// merged result, so both variants share one rule list.
type eventFields struct {
	StartDateTime time.Time
	EndDateTime   time.Time
	IsFree        bool
	TicketPrice   *float64
}

// eventRule is a single cross-field check. Rules run after per-field
// checks and accumulate: every rule is evaluated, nothing short-circuits.
type eventRule func(f *eventFields) *models.ValidationError

// eventRules is the cross-field rule list for event payloads.
var eventRules = []eventRule{
	ruleDateOrdering,
	rulePriceConsistency,
}

// ruleDateOrdering rejects windows that end before they start. The error
// lands on endDateTime, the field the client most likely got wrong.
func ruleDateOrdering(f *eventFields) *models.ValidationError {
	if f.EndDateTime.Before(f.StartDateTime) {
		return &models.ValidationError{
			Field:   "endDateTime",
			Message: "endDateTime must not be before startDateTime",
			Value:   f.EndDateTime,
		}
	}
	return nil
}

// rulePriceConsistency enforces that ticketPrice is present exactly when
// the event is not free.
func rulePriceConsistency(f *eventFields) *models.ValidationError {
	if !f.IsFree && f.TicketPrice == nil {
		return &models.ValidationError{
			Field:   "ticketPrice",
			Message: "ticketPrice is required when isFree is false",
		}
	}
	if f.IsFree && f.TicketPrice != nil && *f.TicketPrice > 0 {
		return &models.ValidationError{
			Field:   "ticketPrice",
			Message: "ticketPrice must be absent or zero when isFree is true",
			Value:   *f.TicketPrice,
		}
	}
	return nil
}

func runEventRules(f *eventFields) []models.ValidationError {
	var errs []models.ValidationError
	for _, rule := range eventRules {
		if err := rule(f); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// ValidateCreateEvent validates an event creation payload: per-field checks
// first, then the cross-field rule list. All violations are returned; nil
// means the payload is valid.
func ValidateCreateEvent(in *CreateEventInput) []models.ValidationError {
	errs := ValidateStruct(in)

	errs = append(errs, runEventRules(&eventFields{
		StartDateTime: in.StartDateTime,
		EndDateTime:   in.EndDateTime,
		IsFree:        in.IsFree,
		TicketPrice:   in.TicketPrice,
	})...)

	return errs
}

// ValidateUpdateEvent validates an event update payload against the current
// event. Per-field checks apply to the provided fields; cross-field rules
// apply to the merged result, so a partial update cannot break the date or
// price invariants.
func ValidateUpdateEvent(current *models.Event, in *UpdateEventInput) []models.ValidationError {
	errs := ValidateStruct(in)

	merged := ApplyEventUpdate(current, in)
	errs = append(errs, runEventRules(&eventFields{
		StartDateTime: merged.StartDateTime,
		EndDateTime:   merged.EndDateTime,
		IsFree:        merged.IsFree,
		TicketPrice:   merged.TicketPrice,
	})...)

	return errs
}

// ValidateCreateUser validates a registration payload.
func ValidateCreateUser(in *CreateUserInput) []models.ValidationError {
	return ValidateStruct(in)
}

// ValidateUpdateUser validates a profile edit payload.
func ValidateUpdateUser(in *UpdateUserInput) []models.ValidationError {
	return ValidateStruct(in)
}

// ApplyEventUpdate returns a copy of the event with the update's provided
// fields applied. It does not validate; callers run ValidateUpdateEvent
// first.
func ApplyEventUpdate(current *models.Event, in *UpdateEventInput) models.Event {
	out := *current

	if in.Title != nil {
		out.Title = *in.Title
	}
	if in.Description != nil {
		out.Description = *in.Description
	}
	if in.StartDateTime != nil {
		out.StartDateTime = *in.StartDateTime
	}
	if in.EndDateTime != nil {
		out.EndDateTime = *in.EndDateTime
	}
	if in.Timezone != nil {
		out.Timezone = *in.Timezone
	}
	if in.IsAllDay != nil {
		out.IsAllDay = *in.IsAllDay
	}
	if in.IsOnline != nil {
		out.IsOnline = *in.IsOnline
	}
	if in.Venue != nil {
		out.Venue = in.Venue
	}
	if in.Building != nil {
		out.Building = in.Building
	}
	if in.Room != nil {
		out.Room = in.Room
	}
	if in.Category != nil {
		out.Category = models.EventCategory(*in.Category)
	}
	if in.Department != nil {
		out.Department = *in.Department
	}
	if in.TargetYear != nil {
		out.TargetYear = in.TargetYear
	}
	if in.TargetMajors != nil {
		out.TargetMajors = in.TargetMajors
	}
	if in.Tags != nil {
		out.Tags = in.Tags
	}
	if in.MaxAttendees != nil {
		out.MaxAttendees = in.MaxAttendees
	}
	if in.RequiresApproval != nil {
		out.RequiresApproval = *in.RequiresApproval
	}
	if in.IsFree != nil {
		out.IsFree = *in.IsFree
	}
	if in.TicketPrice != nil {
		out.TicketPrice = in.TicketPrice
	}
	if in.Currency != nil {
		out.Currency = *in.Currency
	}
	if in.CoverImage != nil {
		out.CoverImage = in.CoverImage
	}
	if in.Images != nil {
		out.Images = in.Images
	}

	return out
}

// ApplyUserUpdate returns a copy of the user with the update's provided
// fields applied. Identity fields are untouched by construction.
func ApplyUserUpdate(current *models.User, in *UpdateUserInput) models.User {
	out := *current

	if in.FirstName != nil {
		out.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		out.LastName = *in.LastName
	}
	if in.Avatar != nil {
		out.Avatar = in.Avatar
	}
	if in.Department != nil {
		out.Department = *in.Department
	}
	if in.Year != nil {
		out.Year = in.Year
	}
	if in.Major != nil {
		out.Major = in.Major
	}
	if in.Interests != nil {
		out.Interests = in.Interests
	}

	return out
}

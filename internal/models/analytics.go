// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// ViewEvent records a single view of an event page, the denominator of the
// conversion rate.
type ViewEvent struct {
	EventID  string    `json:"eventId"`
	UserID   *string   `json:"userId,omitempty"` // anonymous views carry no user
	ViewedAt time.Time `json:"viewedAt"`
}

// DemographicBreakdown holds raw frequency tables over the attendee
// population. Counts are not smoothed or normalized; consumers normalize
// as needed.
type DemographicBreakdown struct {
	Departments map[string]int `json:"departments"`
	Years       map[string]int `json:"years"`
	Interests   map[string]int `json:"interests"`
}

// EventAnalytics is the derived aggregate for one event. Recomputed
// periodically or on demand, never hand-edited.
type EventAnalytics struct {
	EventID              string               `json:"eventId"`
	Views                int                  `json:"views"`
	Registrations        int                  `json:"registrations"`
	Cancellations        int                  `json:"cancellations"`
	ConversionRate       float64              `json:"conversionRate"` // registrations / views, 0 when views = 0
	PopularTags          []string             `json:"popularTags"`
	DemographicBreakdown DemographicBreakdown `json:"demographicBreakdown"`
	// PeakRegistrationTimes lists bin starts (hourly) ordered descending by
	// registration count, ties broken chronologically.
	PeakRegistrationTimes []time.Time `json:"peakRegistrationTimes"`
	// SimilarEvents lists event IDs with overlapping tags/category in the
	// same department, independent of user-specific scoring.
	SimilarEvents []string  `json:"similarEvents"`
	ComputedAt    time.Time `json:"computedAt"`
}

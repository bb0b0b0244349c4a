// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// SortBy names a sort key for event queries.
type SortBy string

// Sort keys.
const (
	SortByDate       SortBy = "date"       // ascending StartDateTime by default
	SortByPopularity SortBy = "popularity" // descending AttendeeCount
	SortByRating     SortBy = "rating"     // descending AverageRating
	SortByCreated    SortBy = "created"    // descending CreatedAt
)

// IsValid reports whether the sort key is a member of the closed set.
func (s SortBy) IsValid() bool {
	switch s {
	case SortByDate, SortByPopularity, SortByRating, SortByCreated:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether the order is a member of the closed set.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// EventFilters describes a structured filter set over the event collection.
// It is a transient value object: fully defined by its fields, never
// persisted. Unset (nil/empty) fields impose no constraint. Fields combine
// with logical AND; values within a multi-valued field combine with OR.
type EventFilters struct {
	Category     []EventCategory `json:"category,omitempty"`
	Department   []string        `json:"department,omitempty"`
	StartDate    *time.Time      `json:"startDate,omitempty"` // inclusive lower bound on StartDateTime
	EndDate      *time.Time      `json:"endDate,omitempty"`   // inclusive upper bound on StartDateTime
	Venue        *string         `json:"venue,omitempty"`
	Building     *string         `json:"building,omitempty"`
	IsOnline     *bool           `json:"isOnline,omitempty"`
	TargetYear   []int           `json:"targetYear,omitempty"`
	TargetMajors []string        `json:"targetMajors,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	InstructorID *string         `json:"instructorId,omitempty"`
	Status       []EventStatus   `json:"status,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f *EventFilters) IsZero() bool {
	return len(f.Category) == 0 && len(f.Department) == 0 &&
		f.StartDate == nil && f.EndDate == nil &&
		f.Venue == nil && f.Building == nil && f.IsOnline == nil &&
		len(f.TargetYear) == 0 && len(f.TargetMajors) == 0 &&
		len(f.Tags) == 0 && f.InstructorID == nil && len(f.Status) == 0
}

// SearchParams describes a full event query: free text, structured filters,
// sort order, and pagination. Transient, never persisted.
type SearchParams struct {
	Query     string        `json:"query,omitempty"`
	Filters   *EventFilters `json:"filters,omitempty"`
	SortBy    SortBy        `json:"sortBy,omitempty"`
	SortOrder SortOrder     `json:"sortOrder,omitempty"`
	Page      int           `json:"page,omitempty"`  // 1-indexed
	Limit     int           `json:"limit,omitempty"` // page size
}

// Pagination carries page metadata computed from the pre-pagination
// filtered count.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// PaginatedEvents is a page of events with pagination metadata.
type PaginatedEvents struct {
	Data       []Event    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

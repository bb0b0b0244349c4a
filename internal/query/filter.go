// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package query implements the deterministic event query pipeline: the
// filter engine reduces the event set to those matching a structured filter
// set, and the resolver combines free-text relevance, filtering, sorting,
// and pagination into a single fixed-order contract.
//
// Every function here is a pure, stateless computation over the snapshot
// supplied by the caller: no I/O, no clock reads, safe to invoke
// concurrently across requests.
package query

import (
	"strings"

	"github.com/campanile-app/campanile/internal/models"
)

// ApplyFilters reduces events to those matching the filter set. Filter
// fields combine with logical AND; values within one multi-valued field
// combine with OR. Unset fields impose no constraint. The input order is
// preserved and no duplicates are introduced or removed beyond the
// predicate itself.
func ApplyFilters(events []models.Event, filters *models.EventFilters) []models.Event {
	if filters == nil || filters.IsZero() {
		return events
	}

	out := make([]models.Event, 0, len(events))
	for i := range events {
		if matchesFilters(&events[i], filters) {
			out = append(out, events[i])
		}
	}
	return out
}

// matchesFilters evaluates the conjunction of every set filter field.
func matchesFilters(e *models.Event, f *models.EventFilters) bool {
	if len(f.Category) > 0 && !containsCategory(f.Category, e.Category) {
		return false
	}
	if len(f.Department) > 0 && !containsFold(f.Department, e.Department) {
		return false
	}
	if len(f.Status) > 0 && !containsStatus(f.Status, e.Status) {
		return false
	}
	// Date range selects on StartDateTime, both bounds inclusive. An
	// absent bound is unconstrained.
	if f.StartDate != nil && e.StartDateTime.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.StartDateTime.After(*f.EndDate) {
		return false
	}
	if f.Venue != nil && (e.Venue == nil || !strings.EqualFold(*e.Venue, *f.Venue)) {
		return false
	}
	if f.Building != nil && (e.Building == nil || !strings.EqualFold(*e.Building, *f.Building)) {
		return false
	}
	if f.IsOnline != nil && e.IsOnline != *f.IsOnline {
		return false
	}
	// Targeting: an empty event array means "open to all" and matches any
	// filter; otherwise the arrays must intersect.
	if len(f.TargetYear) > 0 && len(e.TargetYear) > 0 && !intersectsInt(e.TargetYear, f.TargetYear) {
		return false
	}
	if len(f.TargetMajors) > 0 && len(e.TargetMajors) > 0 && !intersectsFold(e.TargetMajors, f.TargetMajors) {
		return false
	}
	if len(f.Tags) > 0 && !intersectsFold(e.Tags, f.Tags) {
		return false
	}
	if f.InstructorID != nil && e.InstructorID != *f.InstructorID {
		return false
	}
	return true
}

func containsCategory(set []models.EventCategory, v models.EventCategory) bool {
	for _, c := range set {
		if c == v {
			return true
		}
	}
	return false
}

func containsStatus(set []models.EventStatus, v models.EventStatus) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func intersectsInt(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func intersectsFold(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}

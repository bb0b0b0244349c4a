// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/campanile-app/campanile/internal/models"
)

// paramError reports an unparseable query parameter.
type paramError struct {
	param   string
	message string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s: %s", e.param, e.message)
}

// parseSearchParams builds SearchParams from the request query string.
// Multi-valued filters accept both repeated parameters and comma-separated
// values. An explicitly non-positive limit is rejected here; an absent
// limit falls through as zero and picks up the resolver default.
func parseSearchParams(values url.Values) (*models.SearchParams, error) {
	params := &models.SearchParams{
		Query: strings.TrimSpace(values.Get("query")),
	}

	if raw := values.Get("sortBy"); raw != "" {
		sortBy := models.SortBy(raw)
		if !sortBy.IsValid() {
			return nil, &paramError{"sortBy", "must be one of date, popularity, rating, created"}
		}
		params.SortBy = sortBy
	}
	if raw := values.Get("sortOrder"); raw != "" {
		order := models.SortOrder(raw)
		if !order.IsValid() {
			return nil, &paramError{"sortOrder", "must be asc or desc"}
		}
		params.SortOrder = order
	}

	var err error
	if params.Page, err = parseIntParam(values, "page"); err != nil {
		return nil, err
	}
	if params.Limit, err = parseIntParam(values, "limit"); err != nil {
		return nil, err
	}
	if raw := values.Get("limit"); raw != "" && params.Limit <= 0 {
		return nil, &paramError{"limit", "must be a positive integer"}
	}

	filters, err := parseFilters(values)
	if err != nil {
		return nil, err
	}
	if filters != nil && !filters.IsZero() {
		params.Filters = filters
	}

	return params, nil
}

func parseFilters(values url.Values) (*models.EventFilters, error) {
	filters := &models.EventFilters{
		Department:   multiValue(values, "department"),
		TargetMajors: multiValue(values, "targetMajors"),
		Tags:         multiValue(values, "tags"),
	}

	for _, raw := range multiValue(values, "category") {
		category := models.EventCategory(raw)
		if !category.IsValid() {
			return nil, &paramError{"category", fmt.Sprintf("unknown category %q", raw)}
		}
		filters.Category = append(filters.Category, category)
	}
	for _, raw := range multiValue(values, "status") {
		status := models.EventStatus(raw)
		if !status.IsValid() {
			return nil, &paramError{"status", fmt.Sprintf("unknown status %q", raw)}
		}
		filters.Status = append(filters.Status, status)
	}
	for _, raw := range multiValue(values, "targetYear") {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &paramError{"targetYear", fmt.Sprintf("invalid year %q", raw)}
		}
		filters.TargetYear = append(filters.TargetYear, year)
	}

	var err error
	if filters.StartDate, err = parseTimeParam(values, "startDate"); err != nil {
		return nil, err
	}
	if filters.EndDate, err = parseTimeParam(values, "endDate"); err != nil {
		return nil, err
	}

	if raw := values.Get("venue"); raw != "" {
		filters.Venue = &raw
	}
	if raw := values.Get("building"); raw != "" {
		filters.Building = &raw
	}
	if raw := values.Get("instructorId"); raw != "" {
		filters.InstructorID = &raw
	}
	if raw := values.Get("isOnline"); raw != "" {
		online, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &paramError{"isOnline", "must be true or false"}
		}
		filters.IsOnline = &online
	}

	return filters, nil
}

// multiValue collects a parameter's values, splitting comma-separated
// entries and dropping empties.
func multiValue(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseIntParam(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{key, "must be an integer"}
	}
	return n, nil
}

// parseTimeParam accepts RFC 3339 timestamps and bare dates (2026-03-01).
func parseTimeParam(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &paramError{key, "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
}

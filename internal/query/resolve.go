// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package query

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"github.com/campanile-app/campanile/internal/models"
)

// ErrInvalidLimit is returned when a caller explicitly supplies a
// non-positive limit. Oversized limits are clamped instead; rejecting
// non-positive values avoids masking client bugs behind a silent default.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Relevance weights for text matches. Title hits dominate tag hits, which
// dominate description hits; additional hits in any field increase the
// rank monotonically.
const (
	titleWeight       = 3
	tagWeight         = 2
	descriptionWeight = 1
)

// Config bounds pagination for the resolver.
type Config struct {
	// DefaultLimit is used when the caller leaves limit unset.
	DefaultLimit int
	// MaxLimit is the ceiling oversized limits are clamped to.
	MaxLimit int
}

// DefaultConfig returns the resolver's default pagination bounds.
func DefaultConfig() Config {
	return Config{DefaultLimit: 20, MaxLimit: 100}
}

// Resolve executes a full event query in fixed order: free-text match with
// relevance ranking, structured filtering, sorting, pagination. Pagination
// metadata is computed from the pre-pagination filtered count.
//
// The computation is deterministic: equal-key elements keep their input
// relative order and every sort breaks ties by id ascending.
func Resolve(events []models.Event, params *models.SearchParams, cfg Config) (*models.PaginatedEvents, error) {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultConfig().MaxLimit
	}

	limit := cfg.DefaultLimit
	if params.Limit != 0 {
		if params.Limit < 0 {
			return nil, ErrInvalidLimit
		}
		limit = params.Limit
		if limit > cfg.MaxLimit {
			limit = cfg.MaxLimit
		}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}

	// Step 1: free-text match and relevance rank.
	matched := events
	var ranks map[string]int
	if q := strings.TrimSpace(params.Query); q != "" {
		matched, ranks = textMatch(events, q)
	}

	// Step 2: structured filters.
	matched = ApplyFilters(matched, params.Filters)

	// Step 3: sort. Relevance is the default key when a query is present
	// and no explicit sort is requested.
	sortEvents(matched, params, ranks)

	// Step 4: paginate, 1-indexed.
	total := len(matched)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageData := matched[start:end]
	if pageData == nil {
		pageData = []models.Event{}
	}

	return &models.PaginatedEvents{
		Data: pageData,
		Pagination: models.Pagination{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page*limit < total,
			HasPrevious: page > 1,
		},
	}, nil
}

// textMatch retains events where title, tags, or description contain a
// query token, and returns the relevance rank per event id.
func textMatch(events []models.Event, query string) ([]models.Event, map[string]int) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return events, nil
	}

	matched := make([]models.Event, 0, len(events))
	ranks := make(map[string]int)

	for i := range events {
		rank := relevanceRank(&events[i], queryTokens)
		if rank > 0 {
			matched = append(matched, events[i])
			ranks[events[i].ID] = rank
		}
	}

	return matched, ranks
}

// relevanceRank scores one event against the query tokens. Each token hit
// contributes its field weight, so more matches always rank higher.
func relevanceRank(e *models.Event, queryTokens []string) int {
	titleTokens := tokenize(e.Title)
	descTokens := tokenize(e.Description)

	tagTokens := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		tagTokens = append(tagTokens, tokenize(tag)...)
	}

	rank := 0
	for _, qt := range queryTokens {
		rank += titleWeight * countToken(titleTokens, qt)
		rank += tagWeight * countToken(tagTokens, qt)
		rank += descriptionWeight * countToken(descTokens, qt)
	}
	return rank
}

// tokenize lowercases and splits on any non-letter, non-digit rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countToken(tokens []string, want string) int {
	n := 0
	for _, t := range tokens {
		if t == want {
			n++
		}
	}
	return n
}

// sortEvents orders the filtered set in place. Each sort key has a natural
// direction (date ascending, the rest descending); an explicit sortOrder
// overrides it. Ties always break by id ascending for determinism.
func sortEvents(events []models.Event, params *models.SearchParams, ranks map[string]int) {
	sortBy := params.SortBy

	// Relevance default when a query produced ranks and no key was given.
	if sortBy == "" && ranks != nil {
		sort.SliceStable(events, func(i, j int) bool {
			ri, rj := ranks[events[i].ID], ranks[events[j].ID]
			if ri != rj {
				return ri > rj
			}
			return events[i].ID < events[j].ID
		})
		return
	}
	if sortBy == "" {
		sortBy = models.SortByDate
	}

	ascending := defaultAscending(sortBy)
	switch params.SortOrder {
	case models.SortAsc:
		ascending = true
	case models.SortDesc:
		ascending = false
	}

	sort.SliceStable(events, func(i, j int) bool {
		c := compareByKey(&events[i], &events[j], sortBy)
		if c != 0 {
			if ascending {
				return c < 0
			}
			return c > 0
		}
		return events[i].ID < events[j].ID
	})
}

func defaultAscending(sortBy models.SortBy) bool {
	return sortBy == models.SortByDate
}

// compareByKey returns -1/0/1 ordering a before b in ascending terms.
func compareByKey(a, b *models.Event, sortBy models.SortBy) int {
	switch sortBy {
	case models.SortByDate:
		switch {
		case a.StartDateTime.Before(b.StartDateTime):
			return -1
		case a.StartDateTime.After(b.StartDateTime):
			return 1
		}
	case models.SortByPopularity:
		switch {
		case a.AttendeeCount < b.AttendeeCount:
			return -1
		case a.AttendeeCount > b.AttendeeCount:
			return 1
		}
	case models.SortByRating:
		switch {
		case a.AverageRating < b.AverageRating:
			return -1
		case a.AverageRating > b.AverageRating:
			return 1
		}
	case models.SortByCreated:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}

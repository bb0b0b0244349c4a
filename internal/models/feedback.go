// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// RatingMin and RatingMax bound the integer rating scale.
const (
	RatingMin = 1
	RatingMax = 5
)

// EventRating is a user's rating of an event. One rating per user per
// event; re-rating updates the existing record.
type EventRating struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"` // 1-5
	Review    *string   `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventComment is a user's comment on an event. Unbounded per user per event.
type EventComment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AverageRating computes the mean of the given ratings, or 0 when none
// exist. This is the recompute path for Event.AverageRating.
func AverageRating(ratings []EventRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}

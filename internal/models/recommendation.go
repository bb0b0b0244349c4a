// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// EventRecommendation is a scored, explained suggestion of one event for
// one user. Score and Confidence are always within [0, 1].
type EventRecommendation struct {
	EventID string `json:"eventId"`
	// Score is the combined recommendation score (0-1, higher is better).
	Score float64 `json:"score"`
	// Reason names the dominant contributing signal in human-readable form,
	// e.g. "matches your interest in robotics".
	Reason string `json:"reason"`
	// Confidence reflects the amount of signal available (0-1).
	Confidence float64 `json:"confidence"`
}

// UserRecommendations is the derived, regenerable recommendation output for
// a user. It is never the system of record: safe to discard and recompute
// from current state at any time.
type UserRecommendations struct {
	UserID          string                `json:"userId"`
	Recommendations []EventRecommendation `json:"recommendations"`
	GeneratedAt     time.Time             `json:"generatedAt"`
	ModelVersion    string                `json:"modelVersion"`
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package recommend

import (
	"fmt"
	"strings"

	"github.com/campanile-app/campanile/internal/models"
)

// signals carries the normalized per-event scoring components, each in
// [0, 1] before weighting.
type signals struct {
	interest   float64
	targeting  float64
	rating     float64
	conversion float64

	// sharedTag is the first interest tag shared with the event, used to
	// build the explanation.
	sharedTag string
}

// userTagSet builds the lowercased tag set representing the user's
// interests: declared interest tags plus major and department.
func userTagSet(user *models.User) map[string]struct{} {
	set := make(map[string]struct{}, len(user.Interests)+2)
	for _, t := range user.Interests {
		set[strings.ToLower(t)] = struct{}{}
	}
	if user.Major != nil {
		set[strings.ToLower(*user.Major)] = struct{}{}
	}
	if user.Department != "" {
		set[strings.ToLower(user.Department)] = struct{}{}
	}
	return set
}

// eventTagSet builds the lowercased tag set representing the event: its
// tags plus category and department.
func eventTagSet(event *models.Event) map[string]struct{} {
	set := make(map[string]struct{}, len(event.Tags)+2)
	for _, t := range event.Tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	set[strings.ToLower(string(event.Category))] = struct{}{}
	if event.Department != "" {
		set[strings.ToLower(event.Department)] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|, 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// computeSignals derives all scoring components for one candidate event.
func computeSignals(user *models.User, event *models.Event, analytics *models.EventAnalytics) signals {
	var s signals

	// Interest overlap: Jaccard over the interest and event tag sets,
	// remembering one shared declared interest for the explanation.
	userTags := userTagSet(user)
	eventTags := eventTagSet(event)
	s.interest = jaccard(userTags, eventTags)
	for _, t := range user.Interests {
		if _, ok := eventTags[strings.ToLower(t)]; ok {
			s.sharedTag = t
			break
		}
	}

	// Targeting affinity: department identity plus how specifically the
	// event's year/major targeting names this user. A restricted match is
	// a stronger signal than an open event.
	dept := 0.0
	if strings.EqualFold(user.Department, event.Department) {
		dept = 1.0
	}
	year := 0.5
	if len(event.TargetYear) > 0 {
		year = 1.0 // restricted and matching; non-matching events never reach scoring
	}
	major := 0.5
	if len(event.TargetMajors) > 0 {
		major = 1.0
	}
	s.targeting = (dept + year + major) / 3.0

	// Quality signals, normalized into [0, 1].
	s.rating = clamp01(event.AverageRating / models.RatingMax)
	if analytics != nil {
		s.conversion = clamp01(analytics.ConversionRate)
	}

	return s
}

// score combines the signals into the final [0, 1] score using the
// normalized weights.
func (s signals) score(w Weights) float64 {
	n := w.normalized()
	return clamp01(n.Interest*s.interest +
		n.Targeting*s.targeting +
		n.Rating*s.rating +
		n.Conversion*s.conversion)
}

// confidence reflects how much signal backs the score: users with few
// recorded interests or events with few ratings produce low-confidence
// recommendations regardless of the score itself.
func confidence(user *models.User, ratingCount int, hasAnalytics bool) float64 {
	c := 0.2
	c += 0.3 * clamp01(float64(len(user.Interests))/5.0)
	c += 0.3 * clamp01(float64(ratingCount)/5.0)
	if hasAnalytics {
		c += 0.2
	}
	return clamp01(c)
}

// reason names the dominant weighted signal in human-readable form.
func (s signals) reason(w Weights, user *models.User, event *models.Event) string {
	n := w.normalized()

	weighted := []struct {
		value float64
		text  string
	}{
		{n.Interest * s.interest, interestReason(s.sharedTag, event)},
		{n.Targeting * s.targeting, targetingReason(user, event)},
		{n.Rating * s.rating, "highly rated by past attendees"},
		{n.Conversion * s.conversion, "popular with students who viewed it"},
	}

	best := 0
	for i := 1; i < len(weighted); i++ {
		if weighted[i].value > weighted[best].value {
			best = i
		}
	}

	if weighted[best].value == 0 {
		return "suggested for you"
	}
	return weighted[best].text
}

func interestReason(sharedTag string, event *models.Event) string {
	if sharedTag != "" {
		return fmt.Sprintf("matches your interest in %s", strings.ToLower(sharedTag))
	}
	return fmt.Sprintf("related to %s events you engage with", strings.ToLower(string(event.Category)))
}

func targetingReason(user *models.User, event *models.Event) string {
	if len(event.TargetMajors) > 0 && user.Major != nil {
		return fmt.Sprintf("aimed at %s majors", *user.Major)
	}
	if len(event.TargetYear) > 0 && user.Year != nil {
		return fmt.Sprintf("aimed at year %d students", *user.Year)
	}
	return fmt.Sprintf("organized by the %s department", event.Department)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package analytics computes derived per-event aggregates: view and
// registration counts, conversion rate, demographic breakdowns, peak
// registration times, and similar-event lists. All aggregates are pure
// functions of a snapshot and are recomputed rather than incrementally
// maintained.
package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/campanile-app/campanile/internal/models"
)

// maxSimilarEvents caps the similar-events list per aggregate.
const maxSimilarEvents = 5

// maxPopularTags caps the popular-tags list per aggregate.
const maxPopularTags = 10

// Aggregate computes the full analytics record for one event from the
// snapshot. The result depends only on the inputs and the supplied
// timestamp, so identical snapshots produce identical aggregates.
func Aggregate(event *models.Event, snap *models.Snapshot, now time.Time) *models.EventAnalytics {
	attendees := snap.AttendeesForEvent(event.ID)
	views := snap.ViewsForEvent(event.ID)

	registrations := 0
	cancellations := 0
	for _, a := range attendees {
		if a.Status == models.AttendeeDeclined {
			cancellations++
		} else {
			registrations++
		}
	}

	// Conversion is registrations over views; an event nobody viewed has
	// no meaningful rate and reports zero rather than dividing by zero.
	conversionRate := 0.0
	if len(views) > 0 {
		conversionRate = float64(registrations) / float64(len(views))
	}

	return &models.EventAnalytics{
		EventID:               event.ID,
		Views:                 len(views),
		Registrations:         registrations,
		Cancellations:         cancellations,
		ConversionRate:        conversionRate,
		PopularTags:           popularTags(event, attendees, snap),
		DemographicBreakdown:  demographics(attendees, snap),
		PeakRegistrationTimes: peakRegistrationTimes(attendees),
		SimilarEvents:         SimilarEvents(event, snap.Events),
		ComputedAt:            now.UTC(),
	}
}

// demographics builds raw frequency tables over the registered attendee
// population. Counts are not normalized; consumers decide how to present
// them. Declined registrations are excluded.
func demographics(attendees []models.EventAttendee, snap *models.Snapshot) models.DemographicBreakdown {
	d := models.DemographicBreakdown{
		Departments: make(map[string]int),
		Years:       make(map[string]int),
		Interests:   make(map[string]int),
	}

	for _, a := range attendees {
		if a.Status == models.AttendeeDeclined {
			continue
		}
		user := snap.UserByID(a.UserID)
		if user == nil {
			continue
		}

		if user.Department != "" {
			d.Departments[user.Department]++
		}
		if user.Year != nil {
			d.Years[strconv.Itoa(*user.Year)]++
		}
		for _, interest := range user.Interests {
			d.Interests[strings.ToLower(interest)]++
		}
	}

	return d
}

// popularTags ranks the event's own tags by how often registered attendees
// declare them as interests, so organizers see which tags actually drew
// the audience. Tags nobody shares still appear, after the shared ones.
func popularTags(event *models.Event, attendees []models.EventAttendee, snap *models.Snapshot) []string {
	counts := make(map[string]int, len(event.Tags))
	for _, tag := range event.Tags {
		counts[strings.ToLower(tag)] = 0
	}

	for _, a := range attendees {
		if a.Status == models.AttendeeDeclined {
			continue
		}
		user := snap.UserByID(a.UserID)
		if user == nil {
			continue
		}
		for _, interest := range user.Interests {
			key := strings.ToLower(interest)
			if _, ok := counts[key]; ok {
				counts[key]++
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > maxPopularTags {
		tags = tags[:maxPopularTags]
	}
	return tags
}

// peakRegistrationTimes bins registration timestamps into hourly buckets
// and returns the bin starts ordered by registration count descending,
// ties broken chronologically.
func peakRegistrationTimes(attendees []models.EventAttendee) []time.Time {
	bins := make(map[time.Time]int)
	for _, a := range attendees {
		if a.Status == models.AttendeeDeclined {
			continue
		}
		bins[a.CreatedAt.UTC().Truncate(time.Hour)]++
	}

	starts := make([]time.Time, 0, len(bins))
	for start := range bins {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool {
		if bins[starts[i]] != bins[starts[j]] {
			return bins[starts[i]] > bins[starts[j]]
		}
		return starts[i].Before(starts[j])
	})

	return starts
}

// SimilarEvents lists ids of other events in the same department that share
// a tag or the category, ordered by tag overlap descending then id. The
// list is user-independent; personalized ranking lives in the
// recommendation engine.
func SimilarEvents(event *models.Event, candidates []models.Event) []string {
	tags := make(map[string]struct{}, len(event.Tags))
	for _, t := range event.Tags {
		tags[strings.ToLower(t)] = struct{}{}
	}

	type scored struct {
		id      string
		overlap int
	}
	var similar []scored

	for i := range candidates {
		c := &candidates[i]
		if c.ID == event.ID || !strings.EqualFold(c.Department, event.Department) {
			continue
		}

		overlap := 0
		for _, t := range c.Tags {
			if _, ok := tags[strings.ToLower(t)]; ok {
				overlap++
			}
		}
		if overlap == 0 && c.Category != event.Category {
			continue
		}
		similar = append(similar, scored{id: c.ID, overlap: overlap})
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].overlap != similar[j].overlap {
			return similar[i].overlap > similar[j].overlap
		}
		return similar[i].id < similar[j].id
	})

	if len(similar) > maxSimilarEvents {
		similar = similar[:maxSimilarEvents]
	}

	ids := make([]string, len(similar))
	for i, s := range similar {
		ids[i] = s.id
	}
	return ids
}

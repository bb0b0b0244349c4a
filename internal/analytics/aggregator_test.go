// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package analytics

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/campanile-app/campanile/internal/models"
)

func intPtr(v int) *int { return &v }

func analyticsSnapshot() *models.Snapshot {
	reg := func(id, userID string, status models.AttendeeStatus, created time.Time) models.EventAttendee {
		return models.EventAttendee{
			ID: id, EventID: "e1", UserID: userID, Status: status, CreatedAt: created,
		}
	}
	noon := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	return &models.Snapshot{
		Users: []models.User{
			{ID: "u1", Department: "Computer Science", Year: intPtr(2), Interests: []string{"robotics", "ai"}},
			{ID: "u2", Department: "Computer Science", Year: intPtr(3), Interests: []string{"Robotics"}},
			{ID: "u3", Department: "Business", Year: intPtr(2), Interests: []string{"finance"}},
		},
		Events: []models.Event{
			{ID: "e1", Department: "Computer Science", Category: models.CategoryWorkshop, Tags: []string{"robotics", "ai"}},
			{ID: "e2", Department: "Computer Science", Category: models.CategorySeminar, Tags: []string{"robotics"}},
			{ID: "e3", Department: "Computer Science", Category: models.CategoryWorkshop},
			{ID: "e4", Department: "Business", Category: models.CategoryWorkshop, Tags: []string{"robotics"}},
		},
		Attendees: []models.EventAttendee{
			reg("a1", "u1", models.AttendeeConfirmed, noon.Add(10*time.Minute)),
			reg("a2", "u2", models.AttendeeConfirmed, noon.Add(20*time.Minute)),
			reg("a3", "u3", models.AttendeeDeclined, noon.Add(2*time.Hour)),
		},
		Views: []models.ViewEvent{
			{EventID: "e1", ViewedAt: noon},
			{EventID: "e1", ViewedAt: noon},
			{EventID: "e1", ViewedAt: noon},
			{EventID: "e1", ViewedAt: noon},
		},
	}
}

func TestAggregateCounts(t *testing.T) {
	snap := analyticsSnapshot()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	got := Aggregate(snap.EventByID("e1"), snap, now)

	if got.Views != 4 {
		t.Errorf("views = %d, want 4", got.Views)
	}
	if got.Registrations != 2 {
		t.Errorf("registrations = %d, want 2 (declined excluded)", got.Registrations)
	}
	if got.Cancellations != 1 {
		t.Errorf("cancellations = %d, want 1", got.Cancellations)
	}
	if got.ConversionRate != 0.5 {
		t.Errorf("conversionRate = %v, want 0.5", got.ConversionRate)
	}
	if !got.ComputedAt.Equal(now) {
		t.Errorf("computedAt = %v, want %v", got.ComputedAt, now)
	}
}

func TestAggregateZeroViewsZeroConversion(t *testing.T) {
	snap := &models.Snapshot{
		Events: []models.Event{{ID: "e1"}},
		Attendees: []models.EventAttendee{
			{ID: "a1", EventID: "e1", UserID: "u1", Status: models.AttendeeConfirmed},
		},
	}

	got := Aggregate(snap.EventByID("e1"), snap, time.Now())
	if got.ConversionRate != 0 {
		t.Errorf("zero views must yield zero conversion, got %v", got.ConversionRate)
	}
}

func TestDemographicsAreRawCounts(t *testing.T) {
	snap := analyticsSnapshot()

	got := Aggregate(snap.EventByID("e1"), snap, time.Now())
	d := got.DemographicBreakdown

	if d.Departments["Computer Science"] != 2 {
		t.Errorf("departments[CS] = %d, want 2", d.Departments["Computer Science"])
	}
	if _, ok := d.Departments["Business"]; ok {
		t.Error("declined attendee must not appear in demographics")
	}
	if d.Years["2"] != 1 || d.Years["3"] != 1 {
		t.Errorf("years = %v, want {2:1 3:1}", d.Years)
	}
	if d.Interests["robotics"] != 2 {
		t.Errorf("interests[robotics] = %d, want 2 (case-folded)", d.Interests["robotics"])
	}
}

func TestPopularTagsOrderedByAttendeeInterest(t *testing.T) {
	snap := analyticsSnapshot()

	got := Aggregate(snap.EventByID("e1"), snap, time.Now())
	// Both attendees share "robotics", one shares "ai".
	if !reflect.DeepEqual(got.PopularTags, []string{"robotics", "ai"}) {
		t.Errorf("popularTags = %v, want [robotics ai]", got.PopularTags)
	}
}

func TestPeakRegistrationTimesHourlyBins(t *testing.T) {
	noon := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	attendees := []models.EventAttendee{
		{Status: models.AttendeeConfirmed, CreatedAt: noon.Add(5 * time.Minute)},
		{Status: models.AttendeeConfirmed, CreatedAt: noon.Add(45 * time.Minute)},
		{Status: models.AttendeeConfirmed, CreatedAt: noon.Add(90 * time.Minute)},
		{Status: models.AttendeeDeclined, CreatedAt: noon.Add(90 * time.Minute)},
	}

	got := peakRegistrationTimes(attendees)

	want := []time.Time{noon, noon.Add(time.Hour)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("peaks = %v, want %v (busiest bin first)", got, want)
	}
}

func TestPeakTiesBreakChronologically(t *testing.T) {
	noon := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	attendees := []models.EventAttendee{
		{Status: models.AttendeeConfirmed, CreatedAt: noon.Add(time.Hour)},
		{Status: models.AttendeeConfirmed, CreatedAt: noon},
	}

	got := peakRegistrationTimes(attendees)
	if !got[0].Equal(noon) {
		t.Errorf("equal counts must order chronologically, got %v first", got[0])
	}
}

func TestSimilarEventsSameDepartmentOnly(t *testing.T) {
	snap := analyticsSnapshot()

	got := SimilarEvents(snap.EventByID("e1"), snap.Events)

	// e2 shares a tag, e3 shares the category; e4 shares a tag but is in
	// another department.
	if !reflect.DeepEqual(got, []string{"e2", "e3"}) {
		t.Errorf("similarEvents = %v, want [e2 e3]", got)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	snap := analyticsSnapshot()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	a := Aggregate(snap.EventByID("e1"), snap, now)
	b := Aggregate(snap.EventByID("e1"), snap, now)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical snapshots must aggregate identically")
	}
}

type staticProvider struct {
	snap *models.Snapshot
}

func (p *staticProvider) Snapshot(context.Context) (*models.Snapshot, error) {
	return p.snap, nil
}

func TestServiceRefreshPublishesAggregates(t *testing.T) {
	svc := NewService(&staticProvider{snap: analyticsSnapshot()}, nil)
	svc.nowFn = func() time.Time {
		return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	}

	if got := svc.Get("e1"); got != nil {
		t.Fatal("aggregates must be empty before the first refresh")
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := svc.Get("e1")
	if got == nil {
		t.Fatal("aggregate missing after refresh")
	}
	if got.Views != 4 {
		t.Errorf("views = %d, want 4", got.Views)
	}
	if len(svc.All()) != 4 {
		t.Errorf("All() has %d aggregates, want one per event", len(svc.All()))
	}
}

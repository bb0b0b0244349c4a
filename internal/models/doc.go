// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package models defines the canonical entities of the platform (users,
// events, attendance, ratings, notifications, preferences), the transient
// query-description value objects (EventFilters, SearchParams), the derived
// output shapes (EventRecommendation, EventAnalytics), and the stable API
// response envelopes.
//
// Entities here are the validated, in-system representation of domain
// objects. Raw inbound payloads live in the validation package until they
// pass its checks. Derived fields (AttendeeCount, AverageRating, all of
// EventAnalytics) are recomputable projections and never authoritative.
package models

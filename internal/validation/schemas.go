// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package validation

import "time"

// CreateUserInput is the payload accepted on registration. Server-assigned
// fields (id, timestamps) are excluded by construction.
type CreateUserInput struct {
	UniversityID string   `json:"universityId" validate:"required,min=1,max=32"`
	Email        string   `json:"email" validate:"required,email"`
	Username     string   `json:"username" validate:"required,min=3,max=30"`
	FirstName    string   `json:"firstName" validate:"required,min=1,max=50"`
	LastName     string   `json:"lastName" validate:"required,min=1,max=50"`
	Avatar       *string  `json:"avatar,omitempty" validate:"omitempty,url"`
	Role         string   `json:"role" validate:"required,userrole"`
	Department   string   `json:"department" validate:"required,min=1,max=100"`
	Year         *int     `json:"year,omitempty" validate:"omitempty,gte=1,lte=10"`
	Major        *string  `json:"major,omitempty" validate:"omitempty,min=1,max=100"`
	Interests    []string `json:"interests" validate:"dive,min=1,max=50"`
}

// UpdateUserInput is the payload accepted on profile edit. Identity fields
// (universityId, email, username) are immutable and absent here; every
// mutable field is optional.
type UpdateUserInput struct {
	FirstName  *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName   *string  `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Avatar     *string  `json:"avatar,omitempty" validate:"omitempty,url"`
	Department *string  `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	Year       *int     `json:"year,omitempty" validate:"omitempty,gte=1,lte=10"`
	Major      *string  `json:"major,omitempty" validate:"omitempty,min=1,max=100"`
	Interests  []string `json:"interests,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

// CreateEventInput is the payload accepted on event creation. Server-assigned
// fields (id, slug, timestamps, publishedAt) are excluded by construction.
type CreateEventInput struct {
	Title            string     `json:"title" validate:"required,min=1,max=200"`
	Description      string     `json:"description" validate:"required,min=1,max=5000"`
	StartDateTime    time.Time  `json:"startDateTime" validate:"required"`
	EndDateTime      time.Time  `json:"endDateTime" validate:"required"`
	Timezone         string     `json:"timezone" validate:"required,min=1,max=64"`
	IsAllDay         bool       `json:"isAllDay"`
	IsOnline         bool       `json:"isOnline"`
	Venue            *string    `json:"venue,omitempty" validate:"omitempty,min=1,max=200"`
	Building         *string    `json:"building,omitempty" validate:"omitempty,min=1,max=100"`
	Room             *string    `json:"room,omitempty" validate:"omitempty,min=1,max=50"`
	Category         string     `json:"category" validate:"required,eventcategory"`
	Department       string     `json:"department" validate:"required,min=1,max=100"`
	TargetYear       []int      `json:"targetYear,omitempty" validate:"omitempty,dive,gte=1,lte=10"`
	TargetMajors     []string   `json:"targetMajors,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags             []string   `json:"tags" validate:"dive,min=1,max=50"`
	MaxAttendees     *int       `json:"maxAttendees,omitempty" validate:"omitempty,gt=0"`
	RequiresApproval bool       `json:"requiresApproval"`
	IsFree           bool       `json:"isFree"`
	TicketPrice      *float64   `json:"ticketPrice,omitempty" validate:"omitempty,gte=0"`
	Currency         string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	CoverImage       *string    `json:"coverImage,omitempty" validate:"omitempty,url"`
	Images           []string   `json:"images,omitempty" validate:"omitempty,dive,url"`
	Status           string     `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	InstructorID     string     `json:"instructorId" validate:"required"`
}

// UpdateEventInput is the payload accepted on event edit. Every field is
// optional; cross-field rules are still enforced on the merged result.
type UpdateEventInput struct {
	Title            *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string    `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	StartDateTime    *time.Time `json:"startDateTime,omitempty"`
	EndDateTime      *time.Time `json:"endDateTime,omitempty"`
	Timezone         *string    `json:"timezone,omitempty" validate:"omitempty,min=1,max=64"`
	IsAllDay         *bool      `json:"isAllDay,omitempty"`
	IsOnline         *bool      `json:"isOnline,omitempty"`
	Venue            *string    `json:"venue,omitempty" validate:"omitempty,min=1,max=200"`
	Building         *string    `json:"building,omitempty" validate:"omitempty,min=1,max=100"`
	Room             *string    `json:"room,omitempty" validate:"omitempty,min=1,max=50"`
	Category         *string    `json:"category,omitempty" validate:"omitempty,eventcategory"`
	Department       *string    `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	TargetYear       []int      `json:"targetYear,omitempty" validate:"omitempty,dive,gte=1,lte=10"`
	TargetMajors     []string   `json:"targetMajors,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags             []string   `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	MaxAttendees     *int       `json:"maxAttendees,omitempty" validate:"omitempty,gt=0"`
	RequiresApproval *bool      `json:"requiresApproval,omitempty"`
	IsFree           *bool      `json:"isFree,omitempty"`
	TicketPrice      *float64   `json:"ticketPrice,omitempty" validate:"omitempty,gte=0"`
	Currency         *string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	CoverImage       *string    `json:"coverImage,omitempty" validate:"omitempty,url"`
	Images           []string   `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// UserRole identifies the platform role of a user.
type UserRole string

// User roles. Closed set; exhaustive switches over these values are
// expected wherever role drives behavior.
const (
	RoleStudent    UserRole = "STUDENT"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleAdmin      UserRole = "ADMIN"
)

// IsValid reports whether the role is a member of the closed set.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanOwnEvents reports whether users with this role may be set as an
// event's instructor.
func (r UserRole) CanOwnEvents() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// User is the canonical representation of a platform member.
//
// Identity fields (ID, UniversityID, Email, Username) are immutable after
// creation. Profile fields are mutable. Users are never hard-deleted;
// lifecycle is handled by collaborating systems through role/status flags.
type User struct {
	ID           string    `json:"id"`
	UniversityID string    `json:"universityId"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Avatar       *string   `json:"avatar,omitempty"`
	Role         UserRole  `json:"role"`
	Department   string    `json:"department"`
	Year         *int      `json:"year,omitempty"`  // students: 1, 2, 3, 4, ...
	Major        *string   `json:"major,omitempty"` // students
	Interests    []string  `json:"interests"`       // free-text tags driving recommendations
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

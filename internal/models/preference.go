// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package models

import "time"

// Theme is a UI theme preference.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid reports whether the theme is a member of the closed set.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// Visibility controls who can view a user's profile.
type Visibility string

// Profile visibility levels.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether the visibility is a member of the closed set.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityFriends || v == VisibilityPrivate
}

// UserPreference holds a user's notification and display settings.
type UserPreference struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"userId"`
	EmailNotifications   bool       `json:"emailNotifications"`
	PushNotifications    bool       `json:"pushNotifications"`
	EventReminders       bool       `json:"eventReminders"`
	EventRecommendations bool       `json:"eventRecommendations"`
	MarketingEmails      bool       `json:"marketingEmails"`
	Theme                Theme      `json:"theme"`
	Language             string     `json:"language"`
	Timezone             string     `json:"timezone"`
	ProfileVisibility    Visibility `json:"profileVisibility"`
	ShowEmail            bool       `json:"showEmail"`
	ShowPhone            bool       `json:"showPhone"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// DefaultPreferences returns the preference record created for a new user.
func DefaultPreferences(userID string) UserPreference {
	return UserPreference{
		UserID:               userID,
		EmailNotifications:   true,
		PushNotifications:    true,
		EventReminders:       true,
		EventRecommendations: true,
		MarketingEmails:      false,
		Theme:                ThemeSystem,
		Language:             "en",
		Timezone:             "UTC",
		ProfileVisibility:    VisibilityPublic,
	}
}

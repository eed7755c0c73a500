// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain enumerations and types shared across the
// application: user roles, blood groups, event categories, and statuses.
package model

import "strings"

// User roles. Stored lowercase; free-text casing from callers is
// normalized at the boundary with NormalizeRole.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleEditor    = "editor"
	RoleViewer    = "viewer"
)

// RoleDefault is assigned to self-registered users.
const RoleDefault = RoleModerator

// ValidRoles returns all valid user roles.
func ValidRoles() []string {
	return []string{RoleAdmin, RoleModerator, RoleEditor, RoleViewer}
}

// NormalizeRole maps a free-text role name to its canonical lowercase form.
// Returns the canonical role and true, or "" and false for unknown values.
func NormalizeRole(role string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(role))
	for _, valid := range ValidRoles() {
		if r == valid {
			return valid, true
		}
	}
	return "", false
}

// Blood groups (ABO system with Rh factor).
const (
	BloodGroupAPos  = "A+"
	BloodGroupANeg  = "A-"
	BloodGroupBPos  = "B+"
	BloodGroupBNeg  = "B-"
	BloodGroupABPos = "AB+"
	BloodGroupABNeg = "AB-"
	BloodGroupOPos  = "O+"
	BloodGroupONeg  = "O-"
)

// ValidBloodGroups returns all valid blood groups.
func ValidBloodGroups() []string {
	return []string{
		BloodGroupAPos, BloodGroupANeg,
		BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg,
		BloodGroupOPos, BloodGroupONeg,
	}
}

// NormalizeBloodGroup maps a blood group string to its canonical form
// (uppercase letters, trimmed). Returns "" and false for unknown values.
func NormalizeBloodGroup(group string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(group))
	for _, valid := range ValidBloodGroups() {
		if g == valid {
			return valid, true
		}
	}
	return "", false
}

// Event categories.
const (
	EventCategoryHealth          = "HEALTH"
	EventCategoryEducation       = "EDUCATION"
	EventCategoryArtAndCulture   = "ART_AND_CULTURE"
	EventCategoryEnvironment     = "ENVIRONMENT"
	EventCategoryDisasterRelief  = "NATURAL_DISASTER_RELIEF"
	EventCategorySportsAdventure = "SPORTS_AND_ADVENTURE"
)

// ValidEventCategories returns all valid event categories.
func ValidEventCategories() []string {
	return []string{
		EventCategoryHealth,
		EventCategoryEducation,
		EventCategoryArtAndCulture,
		EventCategoryEnvironment,
		EventCategoryDisasterRelief,
		EventCategorySportsAdventure,
	}
}

// NormalizeEventCategory maps a category string to its canonical uppercase
// form. Returns "" and false for unknown values.
func NormalizeEventCategory(category string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(category))
	for _, valid := range ValidEventCategories() {
		if c == valid {
			return valid, true
		}
	}
	return "", false
}

// Event statuses. The only API-driven transition is ACTIVE -> COMPLETED;
// ARCHIVED is reachable only by direct data manipulation.
const (
	EventStatusActive    = "ACTIVE"
	EventStatusCompleted = "COMPLETED"
	EventStatusArchived  = "ARCHIVED"
)

// Audit log levels.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Audit log categories.
const (
	LogCategoryAuth     = "auth"
	LogCategoryContact  = "contact"
	LogCategoryDonation = "donation"
	LogCategoryEvent    = "event"
	LogCategoryUser     = "user"
	LogCategorySystem   = "system"
)

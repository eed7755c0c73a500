// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a dashboard user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// Contact is a submitted contact-form inquiry.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Phone     sql.NullString
	Subject   sql.NullString
	Message   string
	Resolved  bool
	CreatedAt time.Time
}

// BloodDonor is a blood donation record, optionally owned by a user.
type BloodDonor struct {
	ID           int64
	Name         string
	Email        string
	Phone        sql.NullString
	BloodGroup   string
	City         string
	Message      string
	DonationDate time.Time
	UserID       sql.NullInt64
	CreatedAt    time.Time
}

// Event is a community event created by a dashboard user.
type Event struct {
	ID          int64
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Category    string
	Status      string
	CreatedBy   int64
	CreatedAt   time.Time
}

// LogEntry is an audit event-log row.
type LogEntry struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// testQueries opens an in-memory database, runs the embedded migrations, and
// returns a Queries bound to it.
func testQueries(t *testing.T) (*sql.DB, *Queries) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// An in-memory database exists per connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db, New(db)
}

func createUser(t *testing.T, q *Queries, email string) User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "x",
		Role:         "moderator",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func donorParams(email string, userID sql.NullInt64, donationDate time.Time) CreateDonorParams {
	return CreateDonorParams{
		Name:         "Donor",
		Email:        email,
		BloodGroup:   "O+",
		City:         "Pune",
		Message:      "ready to donate",
		DonationDate: donationDate,
		UserID:       userID,
		CreatedAt:    donationDate,
	}
}

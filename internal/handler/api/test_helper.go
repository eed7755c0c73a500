// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"sevadesk/internal/middleware"
	"sevadesk/internal/model"
	"sevadesk/internal/store"
	"sevadesk/internal/version"
)

// testDB creates an in-memory SQLite database with the application tables.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// An in-memory database exists per connection
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'moderator',
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);

		CREATE TABLE contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			subject TEXT,
			message TEXT NOT NULL,
			resolved BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE blood_donors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			blood_group TEXT NOT NULL,
			city TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			donation_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			user_id INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			location TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (created_by) REFERENCES users(id)
		);

		CREATE TABLE event_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSetup creates a test database and API handler for testing.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()
	db := testDB(t)
	return db, NewHandler(db, version.Info{Version: "test"})
}

// createTestUser creates a user row directly.
func createTestUser(t *testing.T, db *sql.DB, email, role, name string) store.User {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, role, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		email, "x", role, name, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.User{
		ID:           id,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// createTestContact creates a contact row directly.
func createTestContact(t *testing.T, db *sql.DB, name, email, message string, createdAt time.Time) store.Contact {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO contacts (name, email, message, resolved, created_at) VALUES (?, ?, ?, 0, ?)`,
		name, email, message, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to create test contact: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.Contact{
		ID:        id,
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: createdAt,
	}
}

// createTestDonor creates a donation row directly.
func createTestDonor(t *testing.T, db *sql.DB, email, bloodGroup, city string, donationDate time.Time, userID sql.NullInt64) store.BloodDonor {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO blood_donors (name, email, blood_group, city, message, donation_date, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Donor", email, bloodGroup, city, "ready to donate", donationDate, userID, donationDate,
	)
	if err != nil {
		t.Fatalf("failed to create test donor: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.BloodDonor{
		ID:           id,
		Name:         "Donor",
		Email:        email,
		BloodGroup:   bloodGroup,
		City:         city,
		Message:      "ready to donate",
		DonationDate: donationDate,
		UserID:       userID,
		CreatedAt:    donationDate,
	}
}

// createTestEvent creates an event row directly.
func createTestEvent(t *testing.T, db *sql.DB, title string, start, end time.Time, status string, createdBy int64, createdAt time.Time) store.Event {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO events (title, description, start_date, end_date, location, category, status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title, "community event", start, end, "City Hall", model.EventCategoryHealth, status, createdBy, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.Event{
		ID:          id,
		Title:       title,
		Description: "community event",
		StartDate:   start,
		EndDate:     end,
		Location:    "City Hall",
		Category:    model.EventCategoryHealth,
		Status:      status,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithUser puts the given user into the request context the way the
// session middleware does.
func requestWithUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is a generic wrapper for API list responses with data and meta.
type listResponse[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// errorEnvelope mirrors the API error response for assertions.
type errorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data
}

// unmarshalList unmarshals a JSON list response body into the specified type.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data, resp.Meta
}

// unmarshalError unmarshals a JSON error response body.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp.Error
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

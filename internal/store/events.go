// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const eventColumns = `id, title, description, start_date, end_date, location, category, status, created_by, created_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Location, &e.Category, &e.Status, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

// CreateEventParams holds the fields for creating an event.
type CreateEventParams struct {
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

// CreateEvent inserts a new event and returns the created row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (title, description, start_date, end_date, location, category, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.StartDate, arg.EndDate, arg.Location,
		arg.Category, arg.Status, arg.CreatedBy, arg.CreatedAt,
	)
	return scanEvent(row)
}

// GetEventByID returns the event with the given ID.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// ListEventsRow is an event joined with its creator's summary.
type ListEventsRow struct {
	Event
	CreatorName  string
	CreatorEmail string
	CreatorRole  string
}

// ListEventsWithCreator returns all events newest-created-first, each with
// the creating user's summary.
func (q *Queries) ListEventsWithCreator(ctx context.Context) ([]ListEventsRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.location,
		       e.category, e.status, e.created_by, e.created_at, u.name, u.email, u.role
		FROM events e
		JOIN users u ON u.id = e.created_by
		ORDER BY e.created_at DESC, e.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ListEventsRow
	for rows.Next() {
		var row ListEventsRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.StartDate, &row.EndDate,
			&row.Location, &row.Category, &row.Status, &row.CreatedBy, &row.CreatedAt,
			&row.CreatorName, &row.CreatorEmail, &row.CreatorRole); err != nil {
			return nil, err
		}
		events = append(events, row)
	}
	return events, rows.Err()
}

// ListRecentEvents returns the newest events up to the given limit.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEventsByStatus returns the number of events with the given status.
func (q *Queries) CountEventsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = ?`, status).Scan(&count)
	return count, err
}

// UpdateEventStatusParams holds the fields for updating an event's status.
type UpdateEventStatusParams struct {
	Status string
	ID     int64
}

// UpdateEventStatus sets the event status and returns the updated row.
// Returns sql.ErrNoRows if no event with the given ID exists.
func (q *Queries) UpdateEventStatus(ctx context.Context, arg UpdateEventStatusParams) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE events SET status = ? WHERE id = ? RETURNING `+eventColumns,
		arg.Status, arg.ID)
	return scanEvent(row)
}

// DeleteEvent removes the event with the given ID and returns the deleted row.
// Returns sql.ErrNoRows if no event with the given ID exists.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`DELETE FROM events WHERE id = ? RETURNING `+eventColumns, id)
	return scanEvent(row)
}

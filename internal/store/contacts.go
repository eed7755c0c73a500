// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactColumns = `id, name, email, phone, subject, message, resolved, created_at`

func scanContact(row interface{ Scan(dest ...any) error }) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.Resolved, &c.CreatedAt)
	return c, err
}

// CreateContactParams holds the fields for creating a contact submission.
type CreateContactParams struct {
	Name      string
	Email     string
	Phone     sql.NullString
	Subject   sql.NullString
	Message   string
	CreatedAt time.Time
}

// CreateContact inserts a new contact submission and returns the created row.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (Contact, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, phone, subject, message, resolved, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
		RETURNING `+contactColumns,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Message, arg.CreatedAt,
	)
	return scanContact(row)
}

// GetContactByID returns the contact with the given ID.
func (q *Queries) GetContactByID(ctx context.Context, id int64) (Contact, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	return scanContact(row)
}

// ListContacts returns all contacts, newest first.
func (q *Queries) ListContacts(ctx context.Context) ([]Contact, error) {
	return q.listContacts(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC`)
}

// ListRecentContacts returns the newest contacts up to the given limit.
func (q *Queries) ListRecentContacts(ctx context.Context, limit int64) ([]Contact, error) {
	return q.listContacts(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (q *Queries) listContacts(ctx context.Context, query string, args ...any) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CountContacts returns the total number of contact submissions.
func (q *Queries) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

// UpdateContactResolvedParams holds the fields for toggling a contact's resolved flag.
type UpdateContactResolvedParams struct {
	Resolved bool
	ID       int64
}

// UpdateContactResolved sets the resolved flag and returns the updated row.
// Returns sql.ErrNoRows if no contact with the given ID exists.
func (q *Queries) UpdateContactResolved(ctx context.Context, arg UpdateContactResolvedParams) (Contact, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE contacts SET resolved = ? WHERE id = ? RETURNING `+contactColumns,
		arg.Resolved, arg.ID)
	return scanContact(row)
}

// DeleteContact removes the contact with the given ID and returns the deleted row.
// Returns sql.ErrNoRows if no contact with the given ID exists.
func (q *Queries) DeleteContact(ctx context.Context, id int64) (Contact, error) {
	row := q.db.QueryRowContext(ctx,
		`DELETE FROM contacts WHERE id = ? RETURNING `+contactColumns, id)
	return scanContact(row)
}

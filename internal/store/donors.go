// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrDonorNotEligible is returned when a donation is rejected because the
// donor's identity has a prior donation inside the three-month window.
var ErrDonorNotEligible = errors.New("donor not eligible: prior donation within three months")

const donorColumns = `id, name, email, phone, blood_group, city, message, donation_date, user_id, created_at`

func scanDonor(row interface{ Scan(dest ...any) error }) (BloodDonor, error) {
	var d BloodDonor
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.BloodGroup, &d.City,
		&d.Message, &d.DonationDate, &d.UserID, &d.CreatedAt)
	return d, err
}

// CreateDonorParams holds the fields for creating a blood donation record.
type CreateDonorParams struct {
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

// CreateDonor inserts a donation record unconditionally and returns the created row.
func (q *Queries) CreateDonor(ctx context.Context, arg CreateDonorParams) (BloodDonor, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blood_donors (name, email, phone, blood_group, city, message, donation_date, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+donorColumns,
		arg.Name, arg.Email, arg.Phone, arg.BloodGroup, arg.City, arg.Message,
		arg.DonationDate, arg.UserID, arg.CreatedAt,
	)
	return scanDonor(row)
}

// CreateDonorIfEligible inserts a donation record only when the owning
// identity has no prior donation dated at or after the cutoff. The check and
// the insert are a single statement, so two concurrent submissions for the
// same identity cannot both succeed. Returns ErrDonorNotEligible when the
// insert was suppressed. Records without an owning user are always inserted.
func (q *Queries) CreateDonorIfEligible(ctx context.Context, arg CreateDonorParams, cutoff time.Time) (BloodDonor, error) {
	if !arg.UserID.Valid {
		return q.CreateDonor(ctx, arg)
	}

	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blood_donors (name, email, phone, blood_group, city, message, donation_date, user_id, created_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM blood_donors WHERE user_id = ? AND donation_date >= ?
		)
		RETURNING `+donorColumns,
		arg.Name, arg.Email, arg.Phone, arg.BloodGroup, arg.City, arg.Message,
		arg.DonationDate, arg.UserID, arg.CreatedAt,
		arg.UserID, cutoff,
	)
	donor, err := scanDonor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BloodDonor{}, ErrDonorNotEligible
	}
	return donor, err
}

// GetDonorByID returns the donation record with the given ID.
func (q *Queries) GetDonorByID(ctx context.Context, id int64) (BloodDonor, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+donorColumns+` FROM blood_donors WHERE id = ?`, id)
	return scanDonor(row)
}

// ListDonorsParams holds the optional equality filters for listing donors.
type ListDonorsParams struct {
	BloodGroup sql.NullString
	City       sql.NullString
	UserID     sql.NullInt64
}

// ListDonorsRow is a donation record joined with its owner's summary.
type ListDonorsRow struct {
	BloodDonor
	OwnerName  sql.NullString
	OwnerEmail sql.NullString
}

// ListDonors returns donation records matching the given filters, newest
// donation first, each joined with the owning user's summary when owned.
func (q *Queries) ListDonors(ctx context.Context, arg ListDonorsParams) ([]ListDonorsRow, error) {
	query := `
		SELECT d.id, d.name, d.email, d.phone, d.blood_group, d.city, d.message,
		       d.donation_date, d.user_id, d.created_at, u.name, u.email
		FROM blood_donors d
		LEFT JOIN users u ON u.id = d.user_id`

	var conds []string
	var args []any
	if arg.BloodGroup.Valid {
		conds = append(conds, "d.blood_group = ?")
		args = append(args, arg.BloodGroup.String)
	}
	if arg.City.Valid {
		conds = append(conds, "d.city = ?")
		args = append(args, arg.City.String)
	}
	if arg.UserID.Valid {
		conds = append(conds, "d.user_id = ?")
		args = append(args, arg.UserID.Int64)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY d.donation_date DESC, d.id DESC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donors []ListDonorsRow
	for rows.Next() {
		var row ListDonorsRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.Phone, &row.BloodGroup,
			&row.City, &row.Message, &row.DonationDate, &row.UserID, &row.CreatedAt,
			&row.OwnerName, &row.OwnerEmail); err != nil {
			return nil, err
		}
		donors = append(donors, row)
	}
	return donors, rows.Err()
}

// UpdateDonorParams holds the fields for updating a donation record.
type UpdateDonorParams struct {
	Name       string
	Email      string
	Phone      sql.NullString
	BloodGroup string
	City       string
	Message    string
	ID         int64
}

// UpdateDonor applies the given fields and returns the updated row.
// Returns sql.ErrNoRows if no record with the given ID exists.
func (q *Queries) UpdateDonor(ctx context.Context, arg UpdateDonorParams) (BloodDonor, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE blood_donors
		SET name = ?, email = ?, phone = ?, blood_group = ?, city = ?, message = ?
		WHERE id = ?
		RETURNING `+donorColumns,
		arg.Name, arg.Email, arg.Phone, arg.BloodGroup, arg.City, arg.Message, arg.ID,
	)
	return scanDonor(row)
}

// DeleteDonor removes the donation record with the given ID.
// Returns sql.ErrNoRows if no record with the given ID exists.
func (q *Queries) DeleteDonor(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blood_donors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

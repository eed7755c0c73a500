// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCreateDonorIfEligibleNoOwner(t *testing.T) {
	_, q := testQueries(t)
	ctx := context.Background()
	now := time.Now()

	// Unowned records skip the eligibility check entirely
	for i := 0; i < 2; i++ {
		_, err := q.CreateDonorIfEligible(ctx, donorParams("anon@example.com", sql.NullInt64{}, now), now.AddDate(0, -3, 0))
		if err != nil {
			t.Fatalf("unowned insert %d failed: %v", i, err)
		}
	}
}

func TestCreateDonorIfEligibleRejectsRecent(t *testing.T) {
	_, q := testQueries(t)
	ctx := context.Background()
	user := createUser(t, q, "donor@example.com")
	owner := sql.NullInt64{Int64: user.ID, Valid: true}
	now := time.Now()
	cutoff := now.AddDate(0, -3, 0)

	if _, err := q.CreateDonor(ctx, donorParams("donor@example.com", owner, now.AddDate(0, -1, 0))); err != nil {
		t.Fatalf("seeding prior donation: %v", err)
	}

	_, err := q.CreateDonorIfEligible(ctx, donorParams("donor@example.com", owner, now), cutoff)
	if !errors.Is(err, ErrDonorNotEligible) {
		t.Fatalf("err = %v, want ErrDonorNotEligible", err)
	}
}

func TestCreateDonorIfEligibleBoundary(t *testing.T) {
	_, q := testQueries(t)
	ctx := context.Background()
	user := createUser(t, q, "donor@example.com")
	owner := sql.NullInt64{Int64: user.ID, Valid: true}
	now := time.Now()
	cutoff := now.AddDate(0, -3, 0)

	// A prior donation dated exactly at the cutoff is still inside the window
	if _, err := q.CreateDonor(ctx, donorParams("donor@example.com", owner, cutoff)); err != nil {
		t.Fatalf("seeding prior donation: %v", err)
	}
	if _, err := q.CreateDonorIfEligible(ctx, donorParams("donor@example.com", owner, now), cutoff); !errors.Is(err, ErrDonorNotEligible) {
		t.Fatalf("boundary-equal donation: err = %v, want ErrDonorNotEligible", err)
	}
}

func TestCreateDonorIfEligibleAcceptsOld(t *testing.T) {
	_, q := testQueries(t)
	ctx := context.Background()
	user := createUser(t, q, "donor@example.com")
	owner := sql.NullInt64{Int64: user.ID, Valid: true}
	now := time.Now()
	cutoff := now.AddDate(0, -3, 0)

	if _, err := q.CreateDonor(ctx, donorParams("donor@example.com", owner, cutoff.Add(-time.Second))); err != nil {
		t.Fatalf("seeding prior donation: %v", err)
	}

	donor, err := q.CreateDonorIfEligible(ctx, donorParams("donor@example.com", owner, now), cutoff)
	if err != nil {
		t.Fatalf("donation outside the window rejected: %v", err)
	}
	if donor.ID == 0 {
		t.Error("inserted record has no ID")
	}
}

func TestCreateDonorIfEligibleConcurrent(t *testing.T) {
	db, q := testQueries(t)
	ctx := context.Background()
	user := createUser(t, q, "donor@example.com")
	owner := sql.NullInt64{Int64: user.ID, Valid: true}
	now := time.Now()
	cutoff := now.AddDate(0, -3, 0)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = q.CreateDonorIfEligible(ctx, donorParams("donor@example.com", owner, now), cutoff)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrDonorNotEligible):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if rejected != attempts-1 {
		t.Errorf("rejected = %d, want %d", rejected, attempts-1)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM blood_donors WHERE user_id = ?`, user.ID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("stored rows = %d, want 1", count)
	}
}

func TestDeleteDonorMissing(t *testing.T) {
	_, q := testQueries(t)

	err := q.DeleteDonor(context.Background(), 12345)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"

	"sevadesk/internal/auth"
	"sevadesk/internal/model"
)

func TestSeedCreatesDefaultAdmin(t *testing.T) {
	db, q := testQueries(t)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	user, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		t.Fatalf("admin user not created: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleAdmin)
	}

	ok, err := auth.CheckPassword(DefaultAdminPassword, user.PasswordHash)
	if err != nil || !ok {
		t.Errorf("default password does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, _ := testQueries(t)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, DefaultAdminEmail).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("admin rows = %d, want 1", count)
	}
}

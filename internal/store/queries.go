// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "database/sql"

// Queries wraps a database handle and exposes typed query methods.
// All methods issue single statements; there are no multi-table transactions.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance bound to the given database handle.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

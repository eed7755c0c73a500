// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"sevadesk/internal/middleware"
)

// dashboardData is the template data for the dashboard shell.
type dashboardData struct {
	UserName string
}

// Dashboard renders the dashboard shell. The page loads its numbers
// from GET /api/dashboard client-side.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{UserName: "Admin"}
	if user := middleware.GetUser(r); user != nil {
		data.UserName = user.Name
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		slog.Error("failed to render dashboard page", "error", err)
	}
}

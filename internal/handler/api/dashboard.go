// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"sevadesk/internal/model"
)

// recentActivityLimit caps the merged activity feed.
const recentActivityLimit = 5

// DashboardStats holds the live dashboard counters.
type DashboardStats struct {
	TotalContacts   int64 `json:"totalContacts"`
	ActiveEvents    int64 `json:"activeEvents"`
	TotalAdmins     int64 `json:"totalAdmins"`
	TotalModerators int64 `json:"totalModerators"`
}

// Activity is one entry in the merged recent-activity feed.
type Activity struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Email     string    `json:"email,omitempty"`
	Resolved  *bool     `json:"resolved,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardResponse is the GET /api/dashboard payload.
type DashboardResponse struct {
	Stats            DashboardStats `json:"stats"`
	RecentActivities []Activity     `json:"recentActivities"`
}

// Dashboard handles GET /api/dashboard (session required). Counters are
// computed from the store on every request; the activity feed merges the
// newest contacts and events.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalContacts, err := h.queries.CountContacts(ctx)
	if err != nil {
		slog.Error("failed to count contacts", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	activeEvents, err := h.queries.CountEventsByStatus(ctx, model.EventStatusActive)
	if err != nil {
		slog.Error("failed to count active events", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	totalAdmins, err := h.queries.CountUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		slog.Error("failed to count admins", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	totalModerators, err := h.queries.CountUsersByRole(ctx, model.RoleModerator)
	if err != nil {
		slog.Error("failed to count moderators", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	contacts, err := h.queries.ListRecentContacts(ctx, recentActivityLimit)
	if err != nil {
		slog.Error("failed to list recent contacts", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	events, err := h.queries.ListRecentEvents(ctx, recentActivityLimit)
	if err != nil {
		slog.Error("failed to list recent events", "error", err)
		WriteInternalError(w, "Failed to load dashboard data")
		return
	}

	activities := make([]Activity, 0, len(contacts)+len(events))
	for _, c := range contacts {
		resolved := c.Resolved
		activities = append(activities, Activity{
			Type:      "contact",
			ID:        c.ID,
			Title:     c.Name,
			Email:     c.Email,
			Resolved:  &resolved,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, e := range events {
		activities = append(activities, Activity{
			Type:      "event",
			ID:        e.ID,
			Title:     e.Title,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}

	WriteSuccess(w, DashboardResponse{
		Stats: DashboardStats{
			TotalContacts:   totalContacts,
			ActiveEvents:    activeEvents,
			TotalAdmins:     totalAdmins,
			TotalModerators: totalModerators,
		},
		RecentActivities: activities,
	}, nil)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"sevadesk/internal/util"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// LogEntryResponse represents an audit log entry in API responses.
type LogEntryResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	UserID    *int64          `json:"userId,omitempty"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListLogs handles GET /api/logs (admin session required).
// A "limit" query parameter caps the number of entries returned.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLogLimit)
	if v := util.ParseNullInt64(r.URL.Query().Get("limit")); v.Valid && v.Int64 > 0 {
		limit = min(v.Int64, maxLogLimit)
	}

	entries, err := h.queries.ListRecentLogEntries(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list audit log entries", "error", err)
		WriteInternalError(w, "Failed to list audit log entries")
		return
	}

	responses := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := LogEntryResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  json.RawMessage(e.Metadata),
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			resp.UserID = &e.UserID.Int64
		}
		if !json.Valid(resp.Metadata) {
			resp.Metadata = json.RawMessage("{}")
		}
		responses = append(responses, resp)
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sevadesk/internal/middleware"
	"sevadesk/internal/model"
	"sevadesk/internal/store"
)

// EventCreator is the creating user's summary on an event.
type EventCreator struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	EndDate     time.Time     `json:"endDate"`
	Location    string        `json:"location"`
	Category    string        `json:"category"`
	Status      string        `json:"status"`
	CreatedBy   int64         `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	Creator     *EventCreator `json:"user,omitempty"`
}

func storeEventToResponse(e store.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.StartDate,
		EndDate:     e.EndDate,
		Location:    e.Location,
		Category:    e.Category,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	EndDate     string `json:"endDate"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

// parseEventDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// CreateEvent handles POST /api/events (session required).
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteNotFound(w, "User not found")
		return
	}

	var req CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = "Title is required"
	}
	if strings.TrimSpace(req.Description) == "" {
		fieldErrors["description"] = "Description is required"
	}
	if strings.TrimSpace(req.Date) == "" {
		fieldErrors["date"] = "Start date is required"
	}
	if strings.TrimSpace(req.EndDate) == "" {
		fieldErrors["endDate"] = "End date is required"
	}
	if strings.TrimSpace(req.Location) == "" {
		fieldErrors["location"] = "Location is required"
	}
	if strings.TrimSpace(req.Category) == "" {
		fieldErrors["category"] = "Category is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	category, ok := model.NormalizeEventCategory(req.Category)
	if !ok {
		WriteValidationError(w, map[string]string{"category": "Invalid event category"})
		return
	}

	startDate, err := parseEventDate(strings.TrimSpace(req.Date))
	if err != nil {
		WriteValidationError(w, map[string]string{"date": "Invalid date format"})
		return
	}
	endDate, err := parseEventDate(strings.TrimSpace(req.EndDate))
	if err != nil {
		WriteValidationError(w, map[string]string{"endDate": "Invalid date format"})
		return
	}
	if endDate.Before(startDate) {
		WriteValidationError(w, map[string]string{"endDate": "End date must not be before the start date"})
		return
	}

	event, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Title:       strings.TrimSpace(req.Title),
		Description: textSanitizer.Sanitize(req.Description),
		StartDate:   startDate,
		EndDate:     endDate,
		Location:    strings.TrimSpace(req.Location),
		Category:    category,
		Status:      model.EventStatusActive,
		CreatedBy:   user.ID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to create event", "error", err)
		WriteInternalError(w, "Failed to create event")
		return
	}

	slog.Info("event created",
		"category", model.LogCategoryEvent, "event_id", event.ID, "created_by", user.ID)

	WriteCreated(w, storeEventToResponse(event))
}

// ListEvents handles GET /api/events (public).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListEventsWithCreator(r.Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	responses := make([]EventResponse, 0, len(rows))
	for _, row := range rows {
		resp := storeEventToResponse(row.Event)
		resp.Creator = &EventCreator{
			ID:    row.Event.CreatedBy,
			Name:  row.CreatorName,
			Email: row.CreatorEmail,
			Role:  row.CreatorRole,
		}
		responses = append(responses, resp)
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// RefreshEventRequest is the request body for refreshing an event's status.
type RefreshEventRequest struct {
	ID *int64 `json:"id"`
}

// RefreshEventResponse carries the refresh outcome and the current record.
type RefreshEventResponse struct {
	Message string        `json:"message"`
	Event   EventResponse `json:"event"`
}

// RefreshEvent handles PATCH /api/events (session required). An event whose
// end date has passed transitions to COMPLETED; the operation is idempotent.
func (h *Handler) RefreshEvent(w http.ResponseWriter, r *http.Request) {
	var req RefreshEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ID == nil {
		WriteBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.queries.GetEventByID(r.Context(), *req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Event not found")
			return
		}
		slog.Error("failed to load event", "error", err, "event_id", *req.ID)
		WriteInternalError(w, "Failed to refresh event")
		return
	}

	if time.Now().Before(event.EndDate) {
		WriteSuccess(w, RefreshEventResponse{
			Message: "Event is still active",
			Event:   storeEventToResponse(event),
		}, nil)
		return
	}

	if event.Status != model.EventStatusCompleted {
		event, err = h.queries.UpdateEventStatus(r.Context(), store.UpdateEventStatusParams{
			Status: model.EventStatusCompleted,
			ID:     event.ID,
		})
		if err != nil {
			slog.Error("failed to update event status", "error", err, "event_id", *req.ID)
			WriteInternalError(w, "Failed to refresh event")
			return
		}
		slog.Info("event completed",
			"category", model.LogCategoryEvent, "event_id", event.ID)
	}

	WriteSuccess(w, RefreshEventResponse{
		Message: "Event status updated",
		Event:   storeEventToResponse(event),
	}, nil)
}

// DeleteEvent handles DELETE /api/events/{id} (session required).
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	event, err := h.queries.DeleteEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Event not found")
			return
		}
		slog.Error("failed to delete event", "error", err, "event_id", id)
		WriteInternalError(w, "Failed to delete event")
		return
	}

	slog.Warn("event deleted",
		"category", model.LogCategoryEvent, "event_id", event.ID)

	WriteSuccess(w, map[string]string{"message": "Event deleted"}, nil)
}

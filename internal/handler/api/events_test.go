// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"sevadesk/internal/model"
)

func TestCreateEvent(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")

	body := `{"title":"Blood Drive","description":"Annual drive","date":"2026-10-01","endDate":"2026-10-02","location":"Town Hall","category":"HEALTH"}`
	req := requestWithUser(newJSONRequest(t, http.MethodPost, "/api/events", body, nil), user)
	w := executeHandler(t, h.CreateEvent, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	got := unmarshalData[EventResponse](t, w)
	if got.Title != "Blood Drive" {
		t.Errorf("Title = %q, want Blood Drive", got.Title)
	}
	if got.Status != model.EventStatusActive {
		t.Errorf("Status = %q, want %q", got.Status, model.EventStatusActive)
	}
	if got.CreatedBy != user.ID {
		t.Errorf("CreatedBy = %d, want %d", got.CreatedBy, user.ID)
	}
}

func TestCreateEventWithoutIdentity(t *testing.T) {
	_, h := testSetup(t)

	body := `{"title":"T","description":"D","date":"2026-10-01","endDate":"2026-10-02","location":"L","category":"HEALTH"}`
	w := executeHandler(t, h.CreateEvent, newJSONRequest(t, http.MethodPost, "/api/events", body, nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	detail := unmarshalError(t, w)
	if detail.Message != "User not found" {
		t.Errorf("message = %q, want %q", detail.Message, "User not found")
	}
}

func TestCreateEventMissingFields(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")

	req := requestWithUser(newJSONRequest(t, http.MethodPost, "/api/events", `{"title":"Only title"}`, nil), user)
	w := executeHandler(t, h.CreateEvent, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	detail := unmarshalError(t, w)
	if detail.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", detail.Code)
	}
	for _, field := range []string{"description", "date", "endDate", "location", "category"} {
		if _, ok := detail.Details[field]; !ok {
			t.Errorf("missing validation detail for %q", field)
		}
	}
}

func TestCreateEventInvalidCategory(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")

	body := `{"title":"T","description":"D","date":"2026-10-01","endDate":"2026-10-02","location":"L","category":"PARTY"}`
	req := requestWithUser(newJSONRequest(t, http.MethodPost, "/api/events", body, nil), user)
	w := executeHandler(t, h.CreateEvent, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateEventEndBeforeStart(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")

	body := `{"title":"T","description":"D","date":"2026-10-05","endDate":"2026-10-01","location":"L","category":"HEALTH"}`
	req := requestWithUser(newJSONRequest(t, http.MethodPost, "/api/events", body, nil), user)
	w := executeHandler(t, h.CreateEvent, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("rejected event must not be stored, found %d rows", count)
	}
}

func TestListEventsWithCreator(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")

	now := time.Now()
	createTestEvent(t, db, "First", now, now.Add(24*time.Hour), model.EventStatusActive, user.ID, now.Add(-2*time.Hour))
	createTestEvent(t, db, "Second", now, now.Add(24*time.Hour), model.EventStatusActive, user.ID, now.Add(-time.Hour))

	w := executeHandler(t, h.ListEvents, newJSONRequest(t, http.MethodGet, "/api/events", "", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	got, meta := unmarshalList[EventResponse](t, w)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if meta == nil || meta.Total != 2 {
		t.Errorf("meta.total = %v, want 2", meta)
	}
	for _, e := range got {
		if e.Creator == nil {
			t.Fatalf("event %d missing creator summary", e.ID)
		}
		if e.Creator.Name != "Organizer" || e.Creator.Email != "organizer@example.com" {
			t.Errorf("creator = %+v", e.Creator)
		}
	}
}

func TestRefreshEventStillActive(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")
	now := time.Now()
	event := createTestEvent(t, db, "Ongoing", now.Add(-time.Hour), now.Add(time.Hour), model.EventStatusActive, user.ID, now)

	w := executeHandler(t, h.RefreshEvent,
		newJSONRequest(t, http.MethodPatch, "/api/events", fmt.Sprintf(`{"id":%d}`, event.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	got := unmarshalData[RefreshEventResponse](t, w)
	if got.Message != "Event is still active" {
		t.Errorf("message = %q, want %q", got.Message, "Event is still active")
	}
	if got.Event.Status != model.EventStatusActive {
		t.Errorf("Status = %q, want %q", got.Event.Status, model.EventStatusActive)
	}
}

func TestRefreshEventCompletesExpired(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")
	now := time.Now()
	event := createTestEvent(t, db, "Past", now.Add(-48*time.Hour), now.Add(-24*time.Hour), model.EventStatusActive, user.ID, now)

	body := fmt.Sprintf(`{"id":%d}`, event.ID)
	w := executeHandler(t, h.RefreshEvent, newJSONRequest(t, http.MethodPatch, "/api/events", body, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	got := unmarshalData[RefreshEventResponse](t, w)
	if got.Message != "Event status updated" {
		t.Errorf("message = %q, want %q", got.Message, "Event status updated")
	}
	if got.Event.Status != model.EventStatusCompleted {
		t.Errorf("Status = %q, want %q", got.Event.Status, model.EventStatusCompleted)
	}

	// Second refresh is idempotent
	w = executeHandler(t, h.RefreshEvent, newJSONRequest(t, http.MethodPatch, "/api/events", body, nil))
	got = unmarshalData[RefreshEventResponse](t, w)
	if got.Message != "Event status updated" {
		t.Errorf("second refresh message = %q, want %q", got.Message, "Event status updated")
	}
	if got.Event.Status != model.EventStatusCompleted {
		t.Errorf("second refresh Status = %q", got.Event.Status)
	}
}

func TestRefreshEventNotFound(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.RefreshEvent,
		newJSONRequest(t, http.MethodPatch, "/api/events", `{"id":99}`, nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRefreshEventRequiresID(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.RefreshEvent,
		newJSONRequest(t, http.MethodPatch, "/api/events", `{}`, nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteEvent(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "organizer@example.com", model.RoleAdmin, "Organizer")
	now := time.Now()
	event := createTestEvent(t, db, "Doomed", now, now.Add(time.Hour), model.EventStatusActive, user.ID, now)

	req := newJSONRequest(t, http.MethodDelete, fmt.Sprintf("/api/events/%d", event.ID), "",
		map[string]string{"id": fmt.Sprintf("%d", event.ID)})
	w := executeHandler(t, h.DeleteEvent, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("event still present after delete, %d rows", count)
	}
}

func TestDeleteEventNotFound(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodDelete, "/api/events/41", "", map[string]string{"id": "41"})
	w := executeHandler(t, h.DeleteEvent, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeleteEventInvalidID(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodDelete, "/api/events/abc", "", map[string]string{"id": "abc"})
	w := executeHandler(t, h.DeleteEvent, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	detail := unmarshalError(t, w)
	if detail.Message != "Invalid event ID" {
		t.Errorf("message = %q, want %q", detail.Message, "Invalid event ID")
	}
}

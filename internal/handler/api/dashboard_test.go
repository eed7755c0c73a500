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

func TestDashboardCounters(t *testing.T) {
	db, h := testSetup(t)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin, "Admin")
	createTestUser(t, db, "mod1@example.com", model.RoleModerator, "Mod One")
	createTestUser(t, db, "mod2@example.com", model.RoleModerator, "Mod Two")

	now := time.Now()
	createTestContact(t, db, "Asha", "asha@example.com", "hello", now)
	createTestContact(t, db, "Ravi", "ravi@example.com", "help", now)
	createTestEvent(t, db, "Active One", now, now.Add(24*time.Hour), model.EventStatusActive, admin.ID, now)
	createTestEvent(t, db, "Done", now.Add(-48*time.Hour), now.Add(-24*time.Hour), model.EventStatusCompleted, admin.ID, now)

	w := executeHandler(t, h.Dashboard, newJSONRequest(t, http.MethodGet, "/api/dashboard", "", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	got := unmarshalData[DashboardResponse](t, w)
	if got.Stats.TotalContacts != 2 {
		t.Errorf("TotalContacts = %d, want 2", got.Stats.TotalContacts)
	}
	if got.Stats.ActiveEvents != 1 {
		t.Errorf("ActiveEvents = %d, want 1", got.Stats.ActiveEvents)
	}
	if got.Stats.TotalAdmins != 1 {
		t.Errorf("TotalAdmins = %d, want 1", got.Stats.TotalAdmins)
	}
	if got.Stats.TotalModerators != 2 {
		t.Errorf("TotalModerators = %d, want 2", got.Stats.TotalModerators)
	}
}

func TestDashboardActivityFeed(t *testing.T) {
	db, h := testSetup(t)
	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin, "Admin")

	// Interleave contacts and events with distinct timestamps
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		createTestContact(t, db, fmt.Sprintf("Contact %d", i), fmt.Sprintf("c%d@example.com", i),
			"message", base.Add(time.Duration(2*i)*time.Minute))
	}
	for i := 0; i < 4; i++ {
		createTestEvent(t, db, fmt.Sprintf("Event %d", i), base, base.Add(24*time.Hour),
			model.EventStatusActive, admin.ID, base.Add(time.Duration(2*i+1)*time.Minute))
	}

	w := executeHandler(t, h.Dashboard, newJSONRequest(t, http.MethodGet, "/api/dashboard", "", nil))
	got := unmarshalData[DashboardResponse](t, w)

	if len(got.RecentActivities) != 5 {
		t.Fatalf("feed length = %d, want 5", len(got.RecentActivities))
	}

	// Newest first across both sources: Event 3, Contact 3, Event 2, Contact 2, Event 1
	wantTitles := []string{"Event 3", "Contact 3", "Event 2", "Contact 2", "Event 1"}
	for i, want := range wantTitles {
		if got.RecentActivities[i].Title != want {
			t.Errorf("feed[%d].Title = %q, want %q", i, got.RecentActivities[i].Title, want)
		}
	}

	for _, a := range got.RecentActivities {
		switch a.Type {
		case "contact":
			if a.Resolved == nil {
				t.Errorf("contact entry %d missing resolved flag", a.ID)
			}
			if a.Email == "" {
				t.Errorf("contact entry %d missing email", a.ID)
			}
		case "event":
			if a.Status != model.EventStatusActive {
				t.Errorf("event entry %d Status = %q", a.ID, a.Status)
			}
		default:
			t.Errorf("unexpected activity type %q", a.Type)
		}
	}
}

func TestDashboardEmptyStore(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.Dashboard, newJSONRequest(t, http.MethodGet, "/api/dashboard", "", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	got := unmarshalData[DashboardResponse](t, w)
	if got.Stats.TotalContacts != 0 || got.Stats.ActiveEvents != 0 {
		t.Errorf("stats = %+v, want zeros", got.Stats)
	}
	if len(got.RecentActivities) != 0 {
		t.Errorf("feed length = %d, want 0", len(got.RecentActivities))
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sevadesk/internal/model"
	"sevadesk/internal/store"
	"sevadesk/internal/util"
)

// ContactResponse represents a contact submission in API responses.
type ContactResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateContactRequest is the request body for submitting a contact form.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func storeContactToResponse(c store.Contact) ContactResponse {
	resp := ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		Resolved:  c.Resolved,
		CreatedAt: c.CreatedAt,
	}
	if c.Phone.Valid {
		resp.Phone = &c.Phone.String
	}
	if c.Subject.Valid {
		resp.Subject = &c.Subject.String
	}
	return resp
}

// CreateContact handles POST /api/contact (public).
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fieldErrors["message"] = "Message is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	contact, err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     util.NullStringFromValue(strings.TrimSpace(req.Phone)),
		Subject:   util.NullStringFromValue(strings.TrimSpace(req.Subject)),
		Message:   textSanitizer.Sanitize(req.Message),
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to create contact", "error", err)
		WriteInternalError(w, "Failed to save contact submission")
		return
	}

	slog.Info("contact submission received",
		"category", model.LogCategoryContact, "contact_id", contact.ID)

	WriteCreated(w, storeContactToResponse(contact))
}

// ListContacts handles GET /api/contact (session required).
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.queries.ListContacts(r.Context())
	if err != nil {
		slog.Error("failed to list contacts", "error", err)
		WriteInternalError(w, "Failed to list contacts")
		return
	}

	responses := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		responses = append(responses, storeContactToResponse(c))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// UpdateContactRequest is the request body for toggling the resolved flag.
type UpdateContactRequest struct {
	ID       *int64 `json:"id"`
	Resolved *bool  `json:"resolved"`
}

// UpdateContact handles PATCH /api/contact (session required).
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req UpdateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ID == nil || req.Resolved == nil {
		WriteBadRequest(w, "Contact ID and resolved status are required", nil)
		return
	}

	contact, err := h.queries.UpdateContactResolved(r.Context(), store.UpdateContactResolvedParams{
		Resolved: *req.Resolved,
		ID:       *req.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contact not found")
			return
		}
		slog.Error("failed to update contact", "error", err, "contact_id", *req.ID)
		WriteInternalError(w, "Failed to update contact")
		return
	}

	WriteSuccess(w, storeContactToResponse(contact), nil)
}

// DeleteContactRequest is the request body for deleting a contact.
type DeleteContactRequest struct {
	ID *int64 `json:"id"`
}

// DeleteContact handles DELETE /api/contact (session required).
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	var req DeleteContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ID == nil {
		WriteBadRequest(w, "Contact ID is required", nil)
		return
	}

	contact, err := h.queries.DeleteContact(r.Context(), *req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Contact not found")
			return
		}
		slog.Error("failed to delete contact", "error", err, "contact_id", *req.ID)
		WriteInternalError(w, "Failed to delete contact")
		return
	}

	slog.Warn("contact deleted",
		"category", model.LogCategoryContact, "contact_id", contact.ID)

	WriteSuccess(w, storeContactToResponse(contact), nil)
}

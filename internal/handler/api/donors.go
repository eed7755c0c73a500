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

// donationIneligibleMessage is returned when a donor tries to donate again
// inside the three-month window.
const donationIneligibleMessage = "You can only donate blood once every 3 months"

// DonorOwner is the owning user's summary on a donation record.
type DonorOwner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DonorResponse represents a blood donation record in API responses.
type DonorResponse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        *string     `json:"phone,omitempty"`
	BloodGroup   string      `json:"bloodGroup"`
	City         string      `json:"city"`
	Message      string      `json:"message"`
	DonationDate time.Time   `json:"donationDate"`
	UserID       *int64      `json:"userId,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	Owner        *DonorOwner `json:"user,omitempty"`
}

func storeDonorToResponse(d store.BloodDonor) DonorResponse {
	resp := DonorResponse{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		BloodGroup:   d.BloodGroup,
		City:         d.City,
		Message:      d.Message,
		DonationDate: d.DonationDate,
		CreatedAt:    d.CreatedAt,
	}
	if d.Phone.Valid {
		resp.Phone = &d.Phone.String
	}
	if d.UserID.Valid {
		resp.UserID = &d.UserID.Int64
	}
	return resp
}

// CreateDonorRequest is the request body for recording a blood donation.
type CreateDonorRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"bloodGroup"`
	City       string `json:"city"`
	Message    string `json:"message"`
}

// CreateDonor handles POST /api/blood-donation (public).
// The submission is tied to a user account when the email matches one, and
// owned submissions are subject to the three-month eligibility window.
func (h *Handler) CreateDonor(w http.ResponseWriter, r *http.Request) {
	var req CreateDonorRequest
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
	if strings.TrimSpace(req.BloodGroup) == "" {
		fieldErrors["bloodGroup"] = "Blood group is required"
	}
	if strings.TrimSpace(req.City) == "" {
		fieldErrors["city"] = "City is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fieldErrors["message"] = "Message is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	bloodGroup, ok := model.NormalizeBloodGroup(req.BloodGroup)
	if !ok {
		WriteValidationError(w, map[string]string{"bloodGroup": "Invalid blood group"})
		return
	}

	email := strings.TrimSpace(req.Email)
	now := time.Now()

	// Resolve the owning account by email, if any
	var userID sql.NullInt64
	if user, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		userID = util.NullInt64FromValue(user.ID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to resolve donor identity", "error", err)
		WriteInternalError(w, "Failed to save donation record")
		return
	}

	donor, err := h.queries.CreateDonorIfEligible(r.Context(), store.CreateDonorParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        util.NullStringFromValue(strings.TrimSpace(req.Phone)),
		BloodGroup:   bloodGroup,
		City:         strings.TrimSpace(req.City),
		Message:      textSanitizer.Sanitize(req.Message),
		DonationDate: now,
		UserID:       userID,
		CreatedAt:    now,
	}, model.DonationCutoff(now))
	if err != nil {
		if errors.Is(err, store.ErrDonorNotEligible) {
			WriteBadRequest(w, donationIneligibleMessage, nil)
			return
		}
		slog.Error("failed to create donation record", "error", err)
		WriteInternalError(w, "Failed to save donation record")
		return
	}

	slog.Info("donation recorded",
		"category", model.LogCategoryDonation, "donor_id", donor.ID, "blood_group", donor.BloodGroup)

	WriteCreated(w, storeDonorToResponse(donor))
}

// ListDonors handles GET /api/blood-donation (public).
// Supports optional bloodGroup, city, and userId equality filters.
func (h *Handler) ListDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := store.ListDonorsParams{
		City:   util.NullStringFromValue(strings.TrimSpace(q.Get("city"))),
		UserID: util.ParseNullInt64(q.Get("userId")),
	}

	if raw := strings.TrimSpace(q.Get("bloodGroup")); raw != "" {
		bloodGroup, ok := model.NormalizeBloodGroup(raw)
		if !ok {
			WriteValidationError(w, map[string]string{"bloodGroup": "Invalid blood group"})
			return
		}
		params.BloodGroup = util.NullStringFromValue(bloodGroup)
	}

	rows, err := h.queries.ListDonors(r.Context(), params)
	if err != nil {
		slog.Error("failed to list donors", "error", err)
		WriteInternalError(w, "Failed to list donation records")
		return
	}

	responses := make([]DonorResponse, 0, len(rows))
	for _, row := range rows {
		resp := storeDonorToResponse(row.BloodDonor)
		if row.BloodDonor.UserID.Valid && row.OwnerName.Valid {
			resp.Owner = &DonorOwner{
				ID:    row.BloodDonor.UserID.Int64,
				Name:  row.OwnerName.String,
				Email: row.OwnerEmail.String,
			}
		}
		responses = append(responses, resp)
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// UpdateDonorRequest is the request body for updating a donation record.
// Omitted fields keep their stored values. UserID, when supplied, asserts
// ownership and must match the record's owner.
type UpdateDonorRequest struct {
	ID         *int64  `json:"id"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	BloodGroup *string `json:"bloodGroup,omitempty"`
	City       *string `json:"city,omitempty"`
	Message    *string `json:"message,omitempty"`
	UserID     *int64  `json:"userId,omitempty"`
}

// UpdateDonor handles PATCH /api/blood-donation (session required).
func (h *Handler) UpdateDonor(w http.ResponseWriter, r *http.Request) {
	var req UpdateDonorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ID == nil {
		WriteBadRequest(w, "Donation record ID is required", nil)
		return
	}

	donor, err := h.queries.GetDonorByID(r.Context(), *req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Donation record not found")
			return
		}
		slog.Error("failed to load donation record", "error", err, "donor_id", *req.ID)
		WriteInternalError(w, "Failed to update donation record")
		return
	}

	if req.UserID != nil && (!donor.UserID.Valid || donor.UserID.Int64 != *req.UserID) {
		WriteForbidden(w, "You can only modify your own donation records")
		return
	}

	params := store.UpdateDonorParams{
		Name:       donor.Name,
		Email:      donor.Email,
		Phone:      donor.Phone,
		BloodGroup: donor.BloodGroup,
		City:       donor.City,
		Message:    donor.Message,
		ID:         donor.ID,
	}
	if req.Name != nil {
		params.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		params.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		params.Phone = util.NullStringFromValue(strings.TrimSpace(*req.Phone))
	}
	if req.BloodGroup != nil {
		bloodGroup, ok := model.NormalizeBloodGroup(*req.BloodGroup)
		if !ok {
			WriteValidationError(w, map[string]string{"bloodGroup": "Invalid blood group"})
			return
		}
		params.BloodGroup = bloodGroup
	}
	if req.City != nil {
		params.City = strings.TrimSpace(*req.City)
	}
	if req.Message != nil {
		params.Message = textSanitizer.Sanitize(*req.Message)
	}

	updated, err := h.queries.UpdateDonor(r.Context(), params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Donation record not found")
			return
		}
		slog.Error("failed to update donation record", "error", err, "donor_id", donor.ID)
		WriteInternalError(w, "Failed to update donation record")
		return
	}

	WriteSuccess(w, storeDonorToResponse(updated), nil)
}

// DeleteDonor handles DELETE /api/blood-donation (session required).
// Takes the record ID from the "id" query parameter; an optional "userId"
// parameter asserts ownership.
func (h *Handler) DeleteDonor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id := util.ParseNullInt64(q.Get("id"))
	if !id.Valid {
		WriteBadRequest(w, "Donation record ID is required", nil)
		return
	}

	donor, err := h.queries.GetDonorByID(r.Context(), id.Int64)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Donation record not found")
			return
		}
		slog.Error("failed to load donation record", "error", err, "donor_id", id.Int64)
		WriteInternalError(w, "Failed to delete donation record")
		return
	}

	if ownerID := util.ParseNullInt64(q.Get("userId")); ownerID.Valid {
		if !donor.UserID.Valid || donor.UserID.Int64 != ownerID.Int64 {
			WriteForbidden(w, "You can only delete your own donation records")
			return
		}
	}

	if err := h.queries.DeleteDonor(r.Context(), donor.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Donation record not found")
			return
		}
		slog.Error("failed to delete donation record", "error", err, "donor_id", donor.ID)
		WriteInternalError(w, "Failed to delete donation record")
		return
	}

	slog.Warn("donation record deleted",
		"category", model.LogCategoryDonation, "donor_id", donor.ID)

	WriteSuccess(w, map[string]string{"message": "Donation record deleted"}, nil)
}

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

	"sevadesk/internal/auth"
	"sevadesk/internal/middleware"
	"sevadesk/internal/model"
	"sevadesk/internal/store"
)

// UserResponse is the safe projection of a user account. It never carries
// the password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func storeUserToResponse(u store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest is the request body for self-registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register (public). New accounts get the
// moderator role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
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
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		WriteConflict(w, "User with this email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to check existing user", "error", err)
		WriteInternalError(w, "Failed to register user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to register user")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleDefault,
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		WriteInternalError(w, "Failed to register user")
		return
	}

	slog.Info("user registered",
		"category", model.LogCategoryUser, "user_id", user.ID, "email", user.Email)

	WriteCreated(w, storeUserToResponse(user))
}

// CreateUserRequest is the request body for admin user creation.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// CreateUser handles POST /api/users (admin session required).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
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
	if strings.TrimSpace(req.Role) == "" {
		fieldErrors["role"] = "Role is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	role, ok := model.NormalizeRole(req.Role)
	if !ok {
		WriteValidationError(w, map[string]string{"role": "Invalid role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.queries.GetUserByEmail(r.Context(), email); err == nil {
		WriteBadRequest(w, "User with this email already exists", nil)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to check existing user", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	slog.Warn("user created by admin",
		"category", model.LogCategoryUser, "user_id", user.ID, "role", user.Role,
		"created_by", middleware.GetUserID(r))

	WriteCreated(w, storeUserToResponse(user))
}

// ListUsers handles GET /api/users (admin session required).
// An "email" query parameter performs an exact lookup; a "role" parameter
// filters the listing.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if email := strings.ToLower(strings.TrimSpace(q.Get("email"))); email != "" {
		user, err := h.queries.GetUserByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "User not found")
				return
			}
			slog.Error("failed to look up user", "error", err)
			WriteInternalError(w, "Failed to look up user")
			return
		}
		WriteSuccess(w, storeUserToResponse(user), nil)
		return
	}

	var (
		users []store.User
		err   error
	)
	if raw := strings.TrimSpace(q.Get("role")); raw != "" {
		role, ok := model.NormalizeRole(raw)
		if !ok {
			WriteValidationError(w, map[string]string{"role": "Invalid role"})
			return
		}
		users, err = h.queries.ListUsersByRole(r.Context(), role)
	} else {
		users, err = h.queries.ListUsers(r.Context())
	}
	if err != nil {
		slog.Error("failed to list users", "error", err)
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, storeUserToResponse(u))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// Profile handles GET /api/profile (session required).
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteNotFound(w, "User not found")
		return
	}

	WriteSuccess(w, storeUserToResponse(*user), nil)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the browser-facing routes:
// the login page, the dashboard shell, and health checks.
package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"sevadesk/internal/auth"
	"sevadesk/internal/middleware"
	"sevadesk/internal/model"
	"sevadesk/internal/store"
	"sevadesk/internal/util"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = middleware.SessionKeyUserID

// AuthHandler handles the login page and authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// loginData is the template data for the login page.
type loginData struct {
	Flash string
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	data := loginData{
		Flash: h.sessionManager.PopString(r.Context(), "flash"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginTmpl.Execute(w, data); err != nil {
		slog.Error("failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashError(w, r, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.flashError(w, r, "Email and password are required")
		return
	}

	clientIP := r.Header.Get("X-Real-IP")
	if clientIP == "" {
		clientIP = r.RemoteAddr
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account",
				"category", model.LogCategoryAuth, "email", email, "ip", clientIP)
			h.flashError(w, r, fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("login failed: user not found",
				"category", model.LogCategoryAuth, "email", email, "ip", clientIP)
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		h.recordFailureAndFlash(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		h.flashError(w, r, "Invalid email or password")
		return
	}

	if !valid {
		slog.Warn("login failed: invalid password",
			"category", model.LogCategoryAuth, "email", email, "ip", clientIP)
		h.recordFailureAndFlash(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Re-hash if the stored hash uses outdated parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, hashErr := auth.HashPassword(password); hashErr == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: util.NullTimeFromValue(time.Now()),
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("failed to renew session token", "error", err)
		h.flashError(w, r, "Login failed. Please try again.")
		return
	}

	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	slog.Info("user logged in",
		"category", model.LogCategoryAuth, "user_id", user.ID, "email", user.Email)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}

	if userID != 0 {
		slog.Info("user logged out", "category", model.LogCategoryAuth, "user_id", userID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// recordFailureAndFlash records a failed attempt and writes the matching flash message.
func (h *AuthHandler) recordFailureAndFlash(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.flashError(w, r, fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(email)
		if remaining <= 3 && remaining > 0 {
			h.flashError(w, r, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
	}
	h.flashError(w, r, "Invalid email or password")
}

// flashError stores an error message in the session and redirects to the login page.
func (h *AuthHandler) flashError(w http.ResponseWriter, r *http.Request, msg string) {
	h.sessionManager.Put(r.Context(), "flash", msg)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formatDuration renders a duration in whole minutes or seconds for user messages.
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%d minutes", int(d.Round(time.Minute).Minutes()))
	}
	return fmt.Sprintf("%d seconds", int(d.Round(time.Second).Seconds()))
}

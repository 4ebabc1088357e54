// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
accounts.go - Account and Session Endpoints

Registration, login/logout, profile, password change and the token
based reset flow. Session management is cookie-only: the token never
appears in a response body.
*/

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/logging"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

type forgotPasswordRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type resetWithTokenRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// Register creates an account and opens a session for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "USERNAME_TAKEN", "username is already taken", nil)
		return
	case errors.Is(err, store.ErrEmailTaken):
		respondError(w, http.StatusConflict, "EMAIL_TAKEN", "email is already registered", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "REGISTRATION_FAILED", err.Error(), err)
		return
	}

	token, err := h.db.CreateSession(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION_ERROR", "failed to create session", err)
		return
	}
	h.setSessionCookie(w, token)

	logging.Info().Int("user_id", user.ID).Msg("Account registered")
	respondJSON(w, http.StatusCreated, models.Success(user))
}

// Login authenticates credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}

	user, err := h.db.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LOGIN_FAILED", "login failed", err)
		return
	}

	token, err := h.db.CreateSession(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION_ERROR", "failed to create session", err)
		return
	}
	h.setSessionCookie(w, token)

	respondJSON(w, http.StatusOK, models.Success(user))
}

// Logout deletes the session server-side and expires the cookie.
// Logging out without a session is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(r.Context(), cookie.Value); err != nil {
			logging.Warn().Err(err).Msg("Failed to delete session")
		}
	}
	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, models.Success(map[string]string{"message": "logged out"}))
}

// CurrentUser returns the authenticated account.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.Success(currentUser(r.Context())))
}

// Profile returns the account together with its rating statistics.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	stats, err := h.db.GetUserStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "PROFILE_ERROR", "failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"user":  user,
		"stats": stats,
	}))
}

// UserStats returns rating statistics for the authenticated account.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	stats, err := h.db.GetUserStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STATS_ERROR", "failed to load stats", err)
		return
	}
	respondJSON(w, http.StatusOK, models.Success(stats))
}

// ratedMovie is a rating history entry joined with its catalog record.
// Movies no longer present in the catalog keep their id and rating with
// a zero-valued movie.
type ratedMovie struct {
	recommend.Movie
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// RatingHistory returns the account's ratings newest first, enriched
// with movie details where the catalog still has them.
func (h *Handler) RatingHistory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	history, err := h.db.GetRatingHistory(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_ERROR", "failed to load rating history", err)
		return
	}

	out := make([]ratedMovie, 0, len(history))
	for _, entry := range history {
		item := ratedMovie{Rating: entry.Rating, RatedAt: entry.CreatedAt}
		if m, ok := h.catalog.Get(entry.MovieID); ok {
			item.Movie = m
		} else {
			item.Movie.ID = entry.MovieID
		}
		out = append(out, item)
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"history": out,
		"count":   len(out),
	}))
}

// ChangePassword updates the password after verifying the current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	user := currentUser(r.Context())
	err := h.db.UpdatePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "current password is incorrect", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "PASSWORD_CHANGE_FAILED", err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, models.Success(map[string]string{"message": "password updated"}))
}

// ForgotPassword issues a single-use reset token for the username.
// Without an email channel the token is returned in the response; a
// deployment with outbound mail would send it instead.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	token, err := h.db.CreateResetToken(r.Context(), req.Username, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		// Same response either way so usernames cannot be probed.
		respondJSON(w, http.StatusOK, models.Success(map[string]string{
			"message": "if the account exists, a reset token has been issued",
		}))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RESET_ERROR", "failed to issue reset token", err)
		return
	}
	respondJSON(w, http.StatusOK, models.Success(map[string]string{
		"message":     "if the account exists, a reset token has been issued",
		"reset_token": token,
	}))
}

// ResetPasswordWithToken redeems a reset token for a new password.
func (h *Handler) ResetPasswordWithToken(w http.ResponseWriter, r *http.Request) {
	var req resetWithTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}

	err := h.db.RedeemResetToken(r.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, store.ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "INVALID_TOKEN", "reset token is invalid or expired", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "RESET_FAILED", err.Error(), err)
		return
	}
	respondJSON(w, http.StatusOK, models.Success(map[string]string{"message": "password reset"}))
}

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
auth.go - Session Cookie Authentication

Authentication rides on an opaque session cookie resolved against the
user_sessions table. The RequireAuth middleware attaches the account to
the request context; handlers read it back with currentUser.
*/

package api

import (
	"context"
	"net/http"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "cinemate_session"

type userContextKey struct{}

// RequireAuth resolves the session cookie to an account and rejects the
// request with 401 when it is missing or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}
		user, err := h.db.GetSessionUser(r.Context(), cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session expired or invalid", nil)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated account attached by
// RequireAuth, or nil outside an authenticated route.
func currentUser(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey{}).(*store.User)
	return user
}

// setSessionCookie installs the session cookie on the response.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(store.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

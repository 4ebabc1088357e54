// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
router.go - HTTP Route Table

Three tiers: public routes (health, browsing, credential endpoints),
the stricter rate limit on anything accepting credentials, and the
authenticated group behind RequireAuth. Prometheus metrics are scraped
from /metrics outside the API middleware stack.
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/middleware"
)

// NewRouter assembles the full route table.
func NewRouter(h *Handler, mw *Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get the stricter limiter.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitAuth())
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/api/forgot-password", h.ForgotPassword)
		r.Post("/api/reset-password-with-token", h.ResetPasswordWithToken)
	})

	// Public browsing.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/api/popular-movies", h.PopularMovies)
		r.Get("/api/search-movies", h.SearchMovies)
		r.Get("/api/movie-details", h.MovieDetails)
	})

	// Everything below requires a session.
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.RequireAuth)

		r.Post("/logout", h.Logout)
		r.Get("/user", h.CurrentUser)
		r.Get("/api/profile", h.Profile)
		r.Get("/api/user-stats", h.UserStats)
		r.Get("/api/rating-history", h.RatingHistory)
		r.Post("/api/reset-password", h.ChangePassword)

		r.Get("/api/rate-movies", h.RateMovies)
		r.Post("/api/submit-ratings", h.SubmitRatings)
		r.Post("/api/remove-rating", h.RemoveRating)
		r.Get("/api/recommendations", h.Recommendations)
	})

	return r
}

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package api

import (
	"net/http"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/metrics"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
)

// maxRecommendCount caps a single request; larger asks are clamped
// rather than rejected.
const maxRecommendCount = 50

// Recommendations returns personalized recommendations for the
// authenticated user. An empty list is a valid response for users
// without enough rating history.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	n := getIntParam(r, "n", defaultRecommendCount)
	if n < 1 {
		n = defaultRecommendCount
	}
	if n > maxRecommendCount {
		n = maxRecommendCount
	}

	start := time.Now()
	recs := h.engine.Recommend(r.Context(), user.ID, n, h.catalog.Movies())
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	for _, rec := range recs {
		metrics.RecommendationsServed.WithLabelValues(string(rec.Source)).Inc()
	}

	// The client renders the user's own ratings next to the results.
	ratings, err := h.db.GetUserRatings(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RATINGS_ERROR", "failed to load ratings", err)
		return
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
		"user_ratings":    ratings,
	}))
}

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package api

import (
	"errors"
	"net/http"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/metrics"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/store"
)

type ratingInput struct {
	MovieID int `json:"movie_id" validate:"required,min=1"`
	Rating  int `json:"rating" validate:"required,min=1,max=5"`
}

type submitRatingsRequest struct {
	Ratings []ratingInput `json:"ratings" validate:"required,min=1,max=100,dive"`

	// Movies optionally carries full records for rated titles that came
	// from search results, so they join the catalog for later scoring.
	Movies []recommend.Movie `json:"movies" validate:"omitempty,max=100"`
}

type removeRatingRequest struct {
	MovieID int `json:"movie_id" validate:"required,min=1"`
}

// SubmitRatings stores a batch of ratings. Re-rating a movie replaces
// the previous value.
func (h *Handler) SubmitRatings(w http.ResponseWriter, r *http.Request) {
	var req submitRatingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	for _, m := range req.Movies {
		if m.ID > 0 && m.Title != "" {
			h.catalog.Add(m)
		}
	}

	user := currentUser(r.Context())
	saved := 0
	for _, in := range req.Ratings {
		err := h.db.UpsertRating(r.Context(), user.ID, in.MovieID, in.Rating)
		if errors.Is(err, store.ErrInvalidRating) {
			respondError(w, http.StatusBadRequest, "INVALID_RATING", "rating must be between 1 and 5", nil)
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "RATING_ERROR", "failed to save ratings", err)
			return
		}
		saved++
		metrics.RatingsSubmitted.Inc()
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"message": "ratings saved",
		"count":   saved,
	}))
}

// RemoveRating deletes one of the user's ratings.
func (h *Handler) RemoveRating(w http.ResponseWriter, r *http.Request) {
	var req removeRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	user := currentUser(r.Context())
	err := h.db.RemoveRating(r.Context(), user.ID, req.MovieID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "RATING_NOT_FOUND", "no rating found for that movie", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RATING_ERROR", "failed to remove rating", err)
		return
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"message":  "rating removed",
		"movie_id": req.MovieID,
	}))
}

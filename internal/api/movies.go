// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
movies.go - Catalog Browsing Endpoints

Popular movies, title search and single-movie details. Search and
details prefer live TMDb data and fall back to the local catalog when
the client runs offline; details fetched live are folded back into the
catalog so later recommendation passes can use them.
*/

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
)

// browseSampleSize is how many movies the browse endpoints return per
// call. The selection rotates so repeat visits see fresh titles.
const browseSampleSize = 12

// PopularMovies returns a rotating sample of the catalog.
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	movies := h.catalog.Sample(browseSampleSize, h.rng)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"movies": movies,
		"count":  len(movies),
	}))
}

// SearchMovies searches by title, via TMDb when available and against
// the local catalog otherwise.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter 'q' is required", nil)
		return
	}

	var movies []recommend.Movie
	if h.tmdb.Offline() {
		movies = h.searchCatalog(query)
	} else {
		results, err := h.tmdb.SearchMovies(r.Context(), query)
		if err != nil {
			// Degrade to the local catalog rather than failing the search.
			movies = h.searchCatalog(query)
		} else {
			movies = results
		}
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"movies": movies,
		"count":  len(movies),
		"query":  query,
	}))
}

// searchCatalog is the offline substring search over catalog titles.
func (h *Handler) searchCatalog(query string) []recommend.Movie {
	needle := strings.ToLower(query)
	matches := make([]recommend.Movie, 0, browseSampleSize)
	for _, m := range h.catalog.Movies() {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			matches = append(matches, m)
			if len(matches) == browseSampleSize {
				break
			}
		}
	}
	return matches
}

// MovieDetails returns movie records by id. With `ids` (comma
// separated) it answers from the catalog only; with a single
// `movie_id` a catalog miss falls through to TMDb and the result is
// added to the catalog.
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	if ids := r.URL.Query().Get("ids"); ids != "" {
		movies := make([]recommend.Movie, 0, 8)
		for _, raw := range strings.Split(ids, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || id <= 0 {
				continue
			}
			if m, ok := h.catalog.Get(id); ok {
				movies = append(movies, m)
			}
		}
		respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
			"movies": movies,
			"count":  len(movies),
		}))
		return
	}

	movieID := getIntParam(r, "movie_id", 0)
	if movieID <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_MOVIE_ID", "query parameter 'movie_id' must be a positive integer", nil)
		return
	}

	if movie, ok := h.catalog.Get(movieID); ok {
		respondJSON(w, http.StatusOK, models.Success(movie))
		return
	}

	if h.tmdb.Offline() {
		respondError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "movie not found", nil)
		return
	}
	movie, err := h.tmdb.MovieDetails(r.Context(), movieID)
	if err != nil {
		respondError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "movie not found", err)
		return
	}
	h.catalog.Add(*movie)

	respondJSON(w, http.StatusOK, models.Success(movie))
}

// Rating sheet pagination: a bounded slice of the catalog split into
// fixed-size pages.
const (
	ratingSheetPageSize = 20
	ratingSheetMaxPages = 20
)

// RateMovies returns one page of the rating sheet. The sheet is the
// catalog in id order, shuffled per request for variety, so every page
// shows the same pool but in a fresh arrangement. Already rated movies
// stay visible; the client renders the existing rating.
func (h *Handler) RateMovies(w http.ResponseWriter, r *http.Request) {
	movies := h.catalog.Movies()

	totalPages := len(movies) / ratingSheetPageSize
	if totalPages > ratingSheetMaxPages {
		totalPages = ratingSheetMaxPages
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if limit := totalPages * ratingSheetPageSize; len(movies) > limit {
		movies = movies[:limit]
	}

	page := getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	h.mu.Lock()
	h.rng.Shuffle(len(movies), func(i, j int) {
		movies[i], movies[j] = movies[j], movies[i]
	})
	h.mu.Unlock()

	start := (page - 1) * ratingSheetPageSize
	end := start + ratingSheetPageSize
	if start > len(movies) {
		start = len(movies)
	}
	if end > len(movies) {
		end = len(movies)
	}

	respondJSON(w, http.StatusOK, models.Success(map[string]interface{}{
		"movies":          movies[start:end],
		"page":            page,
		"total_pages":     totalPages,
		"movies_per_page": ratingSheetPageSize,
		"total_movies":    len(movies),
	}))
}

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package recommend

import "context"

// Source identifies which strategy produced a recommendation.
type Source string

const (
	// SourceContent marks recommendations from the TF-IDF content scorer
	// (or its fallback substitute).
	SourceContent Source = "content-based"

	// SourceCollaborative marks recommendations from the neighbor scorer
	// (or its fallback substitute).
	SourceCollaborative Source = "collaborative"

	// SourceHybrid marks recommendations produced by the weighted blend
	// mode, where content and collaborative scores are merged per item.
	SourceHybrid Source = "hybrid"
)

// Rating is a single (user, movie, value) triple. Value is always in [1,5];
// the store enforces this at write time.
type Rating struct {
	UserID  int `json:"user_id"`
	MovieID int `json:"movie_id"`
	Value   int `json:"rating"`
}

// Movie is the engine's view of a catalog item. Title, Overview and Genre
// feed the content scorer; the remaining fields are carried through for
// final enrichment.
type Movie struct {
	ID          int     `json:"movie_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Genre       string  `json:"genre"`
	PosterURL   string  `json:"poster_url,omitempty"`
	BackdropURL string  `json:"backdrop_url,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// Recommendation is a scored candidate produced by a scorer. Scores are
// strategy-specific (all strategies map into [2.0, 4.0]) and ordering
// across strategies is by blend priority, not by score.
type Recommendation struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
	Source  Source  `json:"type"`
}

// EnrichedRecommendation is a Recommendation joined with its catalog
// record, the shape returned to API callers. The embedded Movie keeps
// the JSON output flat.
type EnrichedRecommendation struct {
	Movie
	Score  float64 `json:"score"`
	Source Source  `json:"type"`
}

// RatingStore is the engine's read-only view of rating storage.
// Implemented by the store package; the engine never writes.
type RatingStore interface {
	// GetUserRatings returns movieID -> rating for one user. A user with
	// no ratings yields an empty map, not an error.
	GetUserRatings(ctx context.Context, userID int) (map[int]int, error)

	// GetAllRatings returns every rating in the system. Used only by the
	// neighbor scorer.
	GetAllRatings(ctx context.Context) ([]Rating, error)
}

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
ratings.go - Movie Ratings

Ratings are 1-5 integers, unique per (user_id, movie_id). Submitting a
rating for an already rated movie replaces the previous value via ON
CONFLICT upsert; it never accumulates a second row.
*/

package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
)

// RatingEntry is one stored rating with its timestamp, used by the
// rating history endpoint.
type RatingEntry struct {
	MovieID   int       `json:"movie_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"timestamp"`
}

// UserStats summarizes a user's rating activity. FavoriteMovies counts
// five-star ratings.
type UserStats struct {
	MoviesRated    int     `json:"movies_rated"`
	AverageRating  float64 `json:"average_rating"`
	FavoriteMovies int     `json:"favorite_movies"`
}

// UpsertRating stores or replaces the user's rating for a movie.
func (db *DB) UpsertRating(ctx context.Context, userID, movieID, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_ratings (user_id, movie_id, rating) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, movie_id)
		 DO UPDATE SET rating = excluded.rating, created_at = CURRENT_TIMESTAMP`,
		userID, movieID, rating)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// RemoveRating deletes the user's rating for a movie. Returns
// ErrNotFound if no such rating exists.
func (db *DB) RemoveRating(ctx context.Context, userID, movieID int) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to remove rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserRatings returns movie_id -> rating for one user. A user with
// no ratings gets an empty map, not an error.
func (db *DB) GetUserRatings(ctx context.Context, userID int) (map[int]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, rating FROM user_ratings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var movieID, rating int
		if err := rows.Scan(&movieID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out[movieID] = rating
	}
	return out, rows.Err()
}

// GetAllRatings returns the full system-wide rating set, consumed by
// the collaborative strategy.
func (db *DB) GetAllRatings(ctx context.Context) ([]recommend.Rating, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, movie_id, rating FROM user_ratings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var out []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRatingHistory returns the user's ratings newest first.
func (db *DB) GetRatingHistory(ctx context.Context, userID int) ([]RatingEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, rating, created_at FROM user_ratings
		 WHERE user_id = ? ORDER BY created_at DESC, movie_id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	var out []RatingEntry
	for rows.Next() {
		var e RatingEntry
		if err := rows.Scan(&e.MovieID, &e.Rating, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetUserStats aggregates a user's rating activity. A user with no
// ratings gets zeroed stats.
func (db *DB) GetUserStats(ctx context.Context, userID int) (*UserStats, error) {
	var s UserStats
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(rating), 0),
		        COALESCE(SUM(rating = 5), 0)
		 FROM user_ratings WHERE user_id = ?`, userID).
		Scan(&s.MoviesRated, &s.AverageRating, &s.FavoriteMovies)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	s.AverageRating = math.Round(s.AverageRating*10) / 10
	return &s, nil
}

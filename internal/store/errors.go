// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package store

import "errors"

// Sentinel errors returned by data access methods. Callers branch on
// these with errors.Is to map storage outcomes to API responses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidToken       = errors.New("token is invalid or expired")
)

// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
sessions.go - Session and Password Reset Tokens

Both token kinds are opaque UUIDs with a server-side expiry. Session
tokens live until logout or expiry; reset tokens are single-use and
marked consumed on redemption.
*/

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionTTL and ResetTokenTTL bound token lifetime.
const (
	SessionTTL    = 7 * 24 * time.Hour
	ResetTokenTTL = time.Hour
)

// CreateSession issues a new session token for the user.
func (db *DB) CreateSession(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, time.Now().Add(SessionTTL).UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// GetSessionUser resolves a session token to its account. Expired or
// unknown tokens return ErrInvalidToken.
func (db *DB) GetSessionUser(ctx context.Context, token string) (*User, error) {
	var userID int
	var expires time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM user_sessions WHERE token = ?`, token).
		Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if time.Now().After(expires) {
		_ = db.DeleteSession(ctx, token)
		return nil, ErrInvalidToken
	}
	return db.GetUserByID(ctx, userID)
}

// DeleteSession invalidates a session token. Deleting an unknown token
// is not an error.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CreateResetToken issues a password reset token when username and
// email identify the same account. To avoid leaking which accounts
// exist, any mismatch returns ErrNotFound and the caller decides how
// much to reveal.
func (db *DB) CreateResetToken(ctx context.Context, username, email string) (string, error) {
	user, err := db.getUserByName(ctx, username)
	if err != nil {
		return "", err
	}
	if user.Email != email {
		return "", ErrNotFound
	}
	token := uuid.NewString()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, user.ID, time.Now().Add(ResetTokenTTL).UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create reset token: %w", err)
	}
	return token, nil
}

// RedeemResetToken sets a new password for the token's user and marks
// the token consumed. Unknown, expired, or already-used tokens return
// ErrInvalidToken.
func (db *DB) RedeemResetToken(ctx context.Context, token, password string) error {
	var userID int
	var expires time.Time
	var used bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, expires_at, used FROM password_reset_tokens WHERE token = ?`, token).
		Scan(&userID, &expires, &used)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if used || time.Now().After(expires) {
		return ErrInvalidToken
	}

	if err := db.setPassword(ctx, userID, password); err != nil {
		return err
	}
	if _, err := db.conn.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	return nil
}

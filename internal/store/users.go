// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

/*
users.go - Account Records

Usernames are unique and case-sensitive. Passwords are stored as bcrypt
hashes only; plaintext never touches the database.
*/

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// User is an account record. PasswordHash is never serialized.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	PasswordHash string `json:"-"`
}

// MinUsernameLength and MinPasswordLength bound registration input.
const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// ValidateUsername checks registration username rules.
func ValidateUsername(username string) error {
	if len(strings.TrimSpace(username)) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	}
	return nil
}

// ValidateEmail applies a minimal sanity check; deliverability is not
// verified.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the password policy: minimum length plus at
// least one uppercase letter, one lowercase letter, and one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return errors.New("password must contain an uppercase letter")
	}
	if !lower {
		return errors.New("password must contain a lowercase letter")
	}
	if !digit {
		return errors.New("password must contain a digit")
	}
	return nil
}

// CreateUser registers a new account and returns it. Returns
// ErrUsernameTaken or ErrEmailTaken when the corresponding unique
// constraint fires.
func (db *DB) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, string(hash))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(sqliteErr.Error(), "users.email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return db.GetUserByID(ctx, int(id))
}

// Authenticate verifies a username/password pair and returns the
// account. Returns ErrInvalidCredentials for an unknown username or a
// wrong password, without distinguishing the two.
func (db *DB) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := db.getUserByName(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID fetches an account by primary key.
func (db *DB) GetUserByID(ctx context.Context, id int) (*User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (db *DB) getUserByName(ctx context.Context, username string) (*User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username))
}

func (db *DB) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// UpdatePassword replaces the stored hash for a user after verifying
// the current password.
func (db *DB) UpdatePassword(ctx context.Context, userID int, current, next string) error {
	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	return db.setPassword(ctx, userID, next)
}

func (db *DB) setPassword(ctx context.Context, userID int, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

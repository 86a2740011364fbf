// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/ids"
)

// User represents a registered account.
type User struct {
	ID           ulid.ULID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address. Email is the natural
// unique key for user lookup, so every write path must apply the same
// normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName lowercases and trims a display name, mirroring email
// normalization.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewUser creates a validated User with normalized email and name.
// The password must already be hashed; plaintext never reaches this type.
func NewUser(email, name, passwordHash string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, oops.Code("USER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	name = NormalizeName(name)
	if name == "" {
		return nil, oops.Code("USER_INVALID_NAME").Errorf("name cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	return &User{
		ID:           ids.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrDuplicate if
	// the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	// Returns an error wrapping ErrNotFound if no user matches.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns an error wrapping ErrNotFound if no user matches.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword updates only the password hash for a user.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/ids"
)

// Verification records an email verification token issued to a user.
// Tokens carry no expiry and no consumption state; issuing a new one does
// not invalidate earlier ones.
type Verification struct {
	ID        ulid.ULID
	Token     string
	UserID    ulid.ULID
	CreatedAt time.Time
}

// NewVerificationToken returns the raw token embedded in verification
// links: two concatenated random UUIDs.
func NewVerificationToken() string {
	return uuid.NewString() + uuid.NewString()
}

// NewVerification creates a validated Verification record.
func NewVerification(userID ulid.ULID, token string) (*Verification, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("VERIFICATION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if token == "" {
		return nil, oops.Code("VERIFICATION_INVALID_TOKEN").Errorf("token cannot be empty")
	}

	return &Verification{
		ID:        ids.New(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}

// VerificationRepository manages verification persistence.
type VerificationRepository interface {
	// Create stores a new verification record.
	Create(ctx context.Context, verification *Verification) error

	// GetLatestByUser retrieves the most recently created verification for
	// a user. Returns an error wrapping ErrNotFound if none exist.
	GetLatestByUser(ctx context.Context, userID ulid.ULID) (*Verification, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package fitness

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/internal/ids"
)

// Coach marks a user as an enrolled coach. Each user has at most one coach
// record.
type Coach struct {
	ID         ulid.ULID
	UserID     ulid.ULID
	Experience string
	Active     bool
	CreatedAt  time.Time
}

// NewCoach creates a validated Coach enrollment. New coaches start active.
func NewCoach(userID ulid.ULID, experience string) (*Coach, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("COACH_INVALID_USER").Errorf("user ID cannot be zero")
	}

	return &Coach{
		ID:         ids.New(),
		UserID:     userID,
		Experience: experience,
		Active:     true,
		CreatedAt:  time.Now(),
	}, nil
}

// CoachDetail is the read model for coach lookups: the coach row with its
// user and profile loaded alongside. Profile is nil when the user has not
// created one yet.
type CoachDetail struct {
	Coach   *Coach
	User    *identity.User
	Profile *identity.Profile
}

// CoachRepository manages coach persistence.
type CoachRepository interface {
	// Create stores a new coach. Returns an error wrapping ErrDuplicate
	// if the user is already enrolled.
	Create(ctx context.Context, coach *Coach) error

	// GetDetailByID retrieves a coach with its user and profile in a
	// single query. Returns an error wrapping ErrNotFound if no coach
	// matches.
	GetDetailByID(ctx context.Context, id ulid.ULID) (*CoachDetail, error)

	// GetDetailByUserID retrieves a user's coach enrollment with the user
	// and profile loaded. Returns an error wrapping ErrNotFound if the
	// user is not a coach.
	GetDetailByUserID(ctx context.Context, userID ulid.ULID) (*CoachDetail, error)
}

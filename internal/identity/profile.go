// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/ids"
)

// Profile holds the demographic and fitness attributes for a user.
// Each user has at most one profile.
type Profile struct {
	ID            ulid.ULID
	UserID        ulid.ULID
	Gender        string
	Age           int
	Weight        float64
	Height        float64
	Goal          string
	ActivityLevel string
	CreatedAt     time.Time
}

// ProfileAttrs carries the caller-supplied profile fields. Shape validation
// (ranges, enums) happens at the transport layer; this type is already
// validated input.
type ProfileAttrs struct {
	Gender        string
	Age           int
	Weight        float64
	Height        float64
	Goal          string
	ActivityLevel string
}

// NewProfile creates a validated Profile linked to a user.
func NewProfile(userID ulid.ULID, attrs ProfileAttrs) (*Profile, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("PROFILE_INVALID_USER").Errorf("user ID cannot be zero")
	}

	return &Profile{
		ID:            ids.New(),
		UserID:        userID,
		Gender:        attrs.Gender,
		Age:           attrs.Age,
		Weight:        attrs.Weight,
		Height:        attrs.Height,
		Goal:          attrs.Goal,
		ActivityLevel: attrs.ActivityLevel,
		CreatedAt:     time.Now(),
	}, nil
}

// ProfileRepository manages profile persistence.
type ProfileRepository interface {
	// Create stores a new profile. Returns an error wrapping ErrDuplicate
	// if the user already has one.
	Create(ctx context.Context, profile *Profile) error

	// GetByUserID retrieves the profile for a user.
	// Returns an error wrapping ErrNotFound if the user has no profile.
	GetByUserID(ctx context.Context, userID ulid.ULID) (*Profile, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/identity"
)

// ProfileRepository implements identity.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool poolIface
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool poolIface) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create stores a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *identity.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (
			id, user_id, gender, age, weight, height,
			goal, activity_level, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		profile.ID.String(),
		profile.UserID.String(),
		profile.Gender,
		profile.Age,
		profile.Weight,
		profile.Height,
		profile.Goal,
		profile.ActivityLevel,
		profile.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PROFILE_EXISTS").
				With("user_id", profile.UserID.String()).
				Wrap(identity.ErrDuplicate)
		}
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "insert profile").
			With("user_id", profile.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByUserID retrieves the profile for a user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID ulid.ULID) (*identity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, gender, age, weight, height,
		       goal, activity_level, created_at
		FROM profiles
		WHERE user_id = $1
	`, userID.String())

	profile, err := r.scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_FAILED").
			With("operation", "get profile by user id").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return profile, nil
}

// scanProfile scans a single row into a Profile.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *ProfileRepository) scanProfile(row pgx.Row) (*identity.Profile, error) {
	var (
		idStr         string
		userIDStr     string
		gender        string
		age           int
		weight        float64
		height        float64
		goal          string
		activityLevel string
		createdAt     time.Time
	)

	err := row.Scan(
		&idStr,
		&userIDStr,
		&gender,
		&age,
		&weight,
		&height,
		&goal,
		&activityLevel,
		&createdAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PROFILE_SCAN_FAILED").
			With("operation", "scan profile").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PROFILE_INVALID_ID").
			With("operation", "parse profile id").
			With("id", idStr).
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("PROFILE_INVALID_ID").
			With("operation", "parse profile user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &identity.Profile{
		ID:            id,
		UserID:        userID,
		Gender:        gender,
		Age:           age,
		Weight:        weight,
		Height:        height,
		Goal:          goal,
		ActivityLevel: activityLevel,
		CreatedAt:     createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.ProfileRepository = (*ProfileRepository)(nil)

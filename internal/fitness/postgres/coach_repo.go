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

	"github.com/fitforge/fitforge/internal/fitness"
	"github.com/fitforge/fitforge/internal/identity"
)

// coachDetailColumns is the select list shared by the detail lookups. The
// profile columns come from a LEFT JOIN and scan as NULL for users without
// a profile.
const coachDetailColumns = `
	c.id, c.user_id, c.experience, c.active, c.created_at,
	u.id, u.email, u.name, u.password_hash, u.created_at,
	p.id, p.user_id, p.gender, p.age, p.weight, p.height, p.goal, p.activity_level, p.created_at`

// CoachRepository implements fitness.CoachRepository using PostgreSQL.
type CoachRepository struct {
	pool poolIface
}

// NewCoachRepository creates a new CoachRepository.
func NewCoachRepository(pool poolIface) *CoachRepository {
	return &CoachRepository{pool: pool}
}

// Create stores a new coach.
func (r *CoachRepository) Create(ctx context.Context, coach *fitness.Coach) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coaches (id, user_id, experience, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		coach.ID.String(),
		coach.UserID.String(),
		coach.Experience,
		coach.Active,
		coach.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return oops.Code("COACH_EXISTS").
					With("user_id", coach.UserID.String()).
					Wrap(fitness.ErrDuplicate)
			case pgerrcode.ForeignKeyViolation:
				return oops.Code("USER_NOT_FOUND").
					With("user_id", coach.UserID.String()).
					Wrap(fitness.ErrNotFound)
			}
		}
		return oops.Code("COACH_CREATE_FAILED").
			With("operation", "insert coach").
			With("user_id", coach.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetDetailByID retrieves a coach with its user and profile in a single
// query.
func (r *CoachRepository) GetDetailByID(ctx context.Context, id ulid.ULID) (*fitness.CoachDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+coachDetailColumns+`
		FROM coaches c
		INNER JOIN users u ON u.id = c.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE c.id = $1
	`, id.String())

	detail, err := r.scanCoachDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COACH_NOT_FOUND").
			With("id", id.String()).
			Wrap(fitness.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COACH_GET_BY_ID_FAILED").
			With("operation", "get coach by id").
			With("id", id.String()).
			Wrap(err)
	}
	return detail, nil
}

// GetDetailByUserID retrieves a user's coach enrollment with the user and
// profile loaded.
func (r *CoachRepository) GetDetailByUserID(ctx context.Context, userID ulid.ULID) (*fitness.CoachDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+coachDetailColumns+`
		FROM coaches c
		INNER JOIN users u ON u.id = c.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE c.user_id = $1
	`, userID.String())

	detail, err := r.scanCoachDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COACH_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(fitness.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COACH_GET_BY_USER_FAILED").
			With("operation", "get coach by user id").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return detail, nil
}

// scanCoachDetail scans a joined coach/user/profile row.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *CoachRepository) scanCoachDetail(row pgx.Row) (*fitness.CoachDetail, error) {
	var (
		coachIDStr     string
		coachUserStr   string
		experience     string
		active         bool
		coachCreatedAt time.Time

		userIDStr     string
		email         string
		name          string
		passwordHash  string
		userCreatedAt time.Time

		profileIDStr     *string
		profileUserStr   *string
		gender           *string
		age              *int
		weight           *float64
		height           *float64
		goal             *string
		activityLevel    *string
		profileCreatedAt *time.Time
	)

	err := row.Scan(
		&coachIDStr, &coachUserStr, &experience, &active, &coachCreatedAt,
		&userIDStr, &email, &name, &passwordHash, &userCreatedAt,
		&profileIDStr, &profileUserStr, &gender, &age, &weight, &height, &goal, &activityLevel, &profileCreatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("COACH_SCAN_FAILED").
			With("operation", "scan coach detail").
			Wrap(err)
	}

	coachID, err := ulid.Parse(coachIDStr)
	if err != nil {
		return nil, oops.Code("COACH_INVALID_ID").
			With("operation", "parse coach id").
			With("id", coachIDStr).
			Wrap(err)
	}
	coachUserID, err := ulid.Parse(coachUserStr)
	if err != nil {
		return nil, oops.Code("COACH_INVALID_ID").
			With("operation", "parse coach user id").
			With("user_id", coachUserStr).
			Wrap(err)
	}
	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("COACH_INVALID_ID").
			With("operation", "parse user id").
			With("id", userIDStr).
			Wrap(err)
	}

	detail := &fitness.CoachDetail{
		Coach: &fitness.Coach{
			ID:         coachID,
			UserID:     coachUserID,
			Experience: experience,
			Active:     active,
			CreatedAt:  coachCreatedAt,
		},
		User: &identity.User{
			ID:           userID,
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			CreatedAt:    userCreatedAt,
		},
	}

	// A NULL profile id means the LEFT JOIN matched nothing.
	if profileIDStr == nil {
		return detail, nil
	}

	profileID, err := ulid.Parse(*profileIDStr)
	if err != nil {
		return nil, oops.Code("COACH_INVALID_ID").
			With("operation", "parse profile id").
			With("id", *profileIDStr).
			Wrap(err)
	}
	profileUserID, err := ulid.Parse(*profileUserStr)
	if err != nil {
		return nil, oops.Code("COACH_INVALID_ID").
			With("operation", "parse profile user id").
			With("user_id", *profileUserStr).
			Wrap(err)
	}

	detail.Profile = &identity.Profile{
		ID:            profileID,
		UserID:        profileUserID,
		Gender:        *gender,
		Age:           *age,
		Weight:        *weight,
		Height:        *height,
		Goal:          *goal,
		ActivityLevel: *activityLevel,
		CreatedAt:     *profileCreatedAt,
	}
	return detail, nil
}

// Compile-time interface check.
var _ fitness.CoachRepository = (*CoachRepository)(nil)

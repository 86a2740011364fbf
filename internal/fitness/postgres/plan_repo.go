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
)

// WorkoutPlanRepository implements fitness.WorkoutPlanRepository using PostgreSQL.
type WorkoutPlanRepository struct {
	pool poolIface
}

// NewWorkoutPlanRepository creates a new WorkoutPlanRepository.
func NewWorkoutPlanRepository(pool poolIface) *WorkoutPlanRepository {
	return &WorkoutPlanRepository{pool: pool}
}

// Create stores a new plan.
func (r *WorkoutPlanRepository) Create(ctx context.Context, plan *fitness.WorkoutPlan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workout_plans (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		plan.ID.String(),
		plan.Name,
		plan.Description,
		plan.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PLAN_EXISTS").
				With("name", plan.Name).
				Wrap(fitness.ErrDuplicate)
		}
		return oops.Code("PLAN_CREATE_FAILED").
			With("operation", "insert plan").
			With("name", plan.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a plan by ID.
func (r *WorkoutPlanRepository) GetByID(ctx context.Context, id ulid.ULID) (*fitness.WorkoutPlan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM workout_plans
		WHERE id = $1
	`, id.String())

	plan, err := r.scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAN_NOT_FOUND").
			With("id", id.String()).
			Wrap(fitness.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAN_GET_BY_ID_FAILED").
			With("operation", "get plan by id").
			With("id", id.String()).
			Wrap(err)
	}
	return plan, nil
}

// GetByName retrieves a plan by its unique name.
func (r *WorkoutPlanRepository) GetByName(ctx context.Context, name string) (*fitness.WorkoutPlan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM workout_plans
		WHERE name = $1
	`, name)

	plan, err := r.scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAN_NOT_FOUND").
			With("name", name).
			Wrap(fitness.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAN_GET_BY_NAME_FAILED").
			With("operation", "get plan by name").
			With("name", name).
			Wrap(err)
	}
	return plan, nil
}

// scanPlan scans a single row into a WorkoutPlan.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *WorkoutPlanRepository) scanPlan(row pgx.Row) (*fitness.WorkoutPlan, error) {
	var (
		idStr       string
		name        string
		description string
		createdAt   time.Time
	)

	err := row.Scan(&idStr, &name, &description, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PLAN_SCAN_FAILED").
			With("operation", "scan plan").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PLAN_INVALID_ID").
			With("operation", "parse plan id").
			With("id", idStr).
			Wrap(err)
	}

	return &fitness.WorkoutPlan{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
	}, nil
}

// Compile-time interface check.
var _ fitness.WorkoutPlanRepository = (*WorkoutPlanRepository)(nil)

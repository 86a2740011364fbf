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

// WorkoutRepository implements fitness.WorkoutRepository using PostgreSQL.
type WorkoutRepository struct {
	pool poolIface
}

// NewWorkoutRepository creates a new WorkoutRepository.
func NewWorkoutRepository(pool poolIface) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

// Create stores a new workout.
func (r *WorkoutRepository) Create(ctx context.Context, workout *fitness.Workout) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workouts (id, plan_id, name, target_muscle, duration_minutes, description, calories, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		workout.ID.String(),
		workout.PlanID.String(),
		workout.Name,
		workout.TargetMuscle,
		workout.DurationMinutes,
		workout.Description,
		workout.Calories,
		workout.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return oops.Code("WORKOUT_EXISTS").
					With("plan_id", workout.PlanID.String()).
					With("name", workout.Name).
					Wrap(fitness.ErrDuplicate)
			case pgerrcode.ForeignKeyViolation:
				return oops.Code("PLAN_NOT_FOUND").
					With("plan_id", workout.PlanID.String()).
					Wrap(fitness.ErrNotFound)
			}
		}
		return oops.Code("WORKOUT_CREATE_FAILED").
			With("operation", "insert workout").
			With("plan_id", workout.PlanID.String()).
			With("name", workout.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a workout by ID.
func (r *WorkoutRepository) GetByID(ctx context.Context, id ulid.ULID) (*fitness.Workout, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, plan_id, name, target_muscle, duration_minutes, description, calories, created_at
		FROM workouts
		WHERE id = $1
	`, id.String())

	workout, err := r.scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORKOUT_NOT_FOUND").
			With("id", id.String()).
			Wrap(fitness.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORKOUT_GET_BY_ID_FAILED").
			With("operation", "get workout by id").
			With("id", id.String()).
			Wrap(err)
	}
	return workout, nil
}

// ListByPlan retrieves all workouts in a plan, ordered by name.
func (r *WorkoutRepository) ListByPlan(ctx context.Context, planID ulid.ULID) ([]*fitness.Workout, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plan_id, name, target_muscle, duration_minutes, description, calories, created_at
		FROM workouts
		WHERE plan_id = $1
		ORDER BY name
	`, planID.String())
	if err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").
			With("operation", "list workouts by plan").
			With("plan_id", planID.String()).
			Wrap(err)
	}
	defer rows.Close()

	workouts := make([]*fitness.Workout, 0)
	for rows.Next() {
		workout, err := r.scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").
			With("operation", "iterate workouts").
			With("plan_id", planID.String()).
			Wrap(err)
	}
	return workouts, nil
}

// scanWorkout scans a single row into a Workout.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *WorkoutRepository) scanWorkout(row pgx.Row) (*fitness.Workout, error) {
	var (
		idStr           string
		planIDStr       string
		name            string
		targetMuscle    string
		durationMinutes int
		description     string
		calories        int
		createdAt       time.Time
	)

	err := row.Scan(&idStr, &planIDStr, &name, &targetMuscle, &durationMinutes, &description, &calories, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("WORKOUT_SCAN_FAILED").
			With("operation", "scan workout").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("WORKOUT_INVALID_ID").
			With("operation", "parse workout id").
			With("id", idStr).
			Wrap(err)
	}
	planID, err := ulid.Parse(planIDStr)
	if err != nil {
		return nil, oops.Code("WORKOUT_INVALID_ID").
			With("operation", "parse plan id").
			With("plan_id", planIDStr).
			Wrap(err)
	}

	return &fitness.Workout{
		ID:              id,
		PlanID:          planID,
		Name:            name,
		TargetMuscle:    targetMuscle,
		DurationMinutes: durationMinutes,
		Description:     description,
		Calories:        calories,
		CreatedAt:       createdAt,
	}, nil
}

// Compile-time interface check.
var _ fitness.WorkoutRepository = (*WorkoutRepository)(nil)

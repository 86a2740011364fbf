// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package fitness

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/ids"
)

// Workout is a single exercise entry belonging to a workout plan.
type Workout struct {
	ID              ulid.ULID
	PlanID          ulid.ULID
	Name            string
	TargetMuscle    string
	DurationMinutes int
	Description     string
	Calories        int
	CreatedAt       time.Time
}

// WorkoutAttrs carries the caller-supplied workout fields. Shape validation
// (ranges, enums) happens at the transport layer; this type is already
// validated input.
type WorkoutAttrs struct {
	Name            string
	TargetMuscle    string
	DurationMinutes int
	Description     string
	Calories        int
}

// NewWorkout creates a validated Workout linked to a plan. The name is
// trimmed because it forms a uniqueness key together with the plan ID.
func NewWorkout(planID ulid.ULID, attrs WorkoutAttrs) (*Workout, error) {
	if planID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("WORKOUT_INVALID_PLAN").Errorf("plan ID cannot be zero")
	}
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return nil, oops.Code("WORKOUT_INVALID_NAME").Errorf("workout name cannot be empty")
	}

	return &Workout{
		ID:              ids.New(),
		PlanID:          planID,
		Name:            name,
		TargetMuscle:    attrs.TargetMuscle,
		DurationMinutes: attrs.DurationMinutes,
		Description:     attrs.Description,
		Calories:        attrs.Calories,
		CreatedAt:       time.Now(),
	}, nil
}

// WorkoutRepository manages workout persistence.
type WorkoutRepository interface {
	// Create stores a new workout. Returns an error wrapping ErrDuplicate
	// if the plan already has a workout with the same name.
	Create(ctx context.Context, workout *Workout) error

	// GetByID retrieves a workout by ID.
	// Returns an error wrapping ErrNotFound if no workout matches.
	GetByID(ctx context.Context, id ulid.ULID) (*Workout, error)

	// ListByPlan retrieves all workouts in a plan, ordered by name.
	// Returns an empty slice when the plan has none.
	ListByPlan(ctx context.Context, planID ulid.ULID) ([]*Workout, error)
}

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

// WorkoutPlan groups workouts under a unique plan name.
type WorkoutPlan struct {
	ID          ulid.ULID
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewWorkoutPlan creates a validated WorkoutPlan.
func NewWorkoutPlan(name, description string) (*WorkoutPlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, oops.Code("PLAN_INVALID_NAME").Errorf("plan name cannot be empty")
	}

	return &WorkoutPlan{
		ID:          ids.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// WorkoutPlanRepository manages workout plan persistence.
type WorkoutPlanRepository interface {
	// Create stores a new plan. Returns an error wrapping ErrDuplicate if
	// the name is already taken.
	Create(ctx context.Context, plan *WorkoutPlan) error

	// GetByID retrieves a plan by ID.
	// Returns an error wrapping ErrNotFound if no plan matches.
	GetByID(ctx context.Context, id ulid.ULID) (*WorkoutPlan, error)

	// GetByName retrieves a plan by its unique name.
	// Returns an error wrapping ErrNotFound if no plan matches.
	GetByName(ctx context.Context, name string) (*WorkoutPlan, error)
}

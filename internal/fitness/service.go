// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package fitness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Workout lookup messages. The exact strings are part of the client
// contract and must not change.
const (
	MsgWorkoutFound    = "found"
	MsgWorkoutNotFound = "Workout doesn't exists"
)

// CoachQuery selects which coach to load. CoachID takes precedence over
// UserID when both are given; a query with neither matches nothing.
type CoachQuery struct {
	CoachID *ulid.ULID
	UserID  *ulid.ULID
}

// Service provides coach enrollment and workout record operations.
type Service struct {
	coaches  CoachRepository
	plans    WorkoutPlanRepository
	workouts WorkoutRepository
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(coaches CoachRepository, plans WorkoutPlanRepository, workouts WorkoutRepository) (*Service, error) {
	return NewServiceWithLogger(coaches, plans, workouts, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(coaches CoachRepository, plans WorkoutPlanRepository, workouts WorkoutRepository, logger *slog.Logger) (*Service, error) {
	if coaches == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("coaches repository is required")
	}
	if plans == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("plans repository is required")
	}
	if workouts == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("workouts repository is required")
	}
	if logger == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		coaches:  coaches,
		plans:    plans,
		workouts: workouts,
		logger:   logger,
	}, nil
}

// CreateCoach enrolls a user as a coach. New enrollments start active.
func (s *Service) CreateCoach(ctx context.Context, userID ulid.ULID, experience string) (*Coach, error) {
	coach, err := NewCoach(userID, experience)
	if err != nil {
		RecordCoachEnrollment(StatusError)
		return nil, err // constructor errors carry their own codes
	}

	if err := s.coaches.Create(ctx, coach); err != nil {
		if errors.Is(err, ErrDuplicate) {
			RecordCoachEnrollment(StatusDuplicate)
			return nil, err // repository already coded COACH_EXISTS
		}
		if errors.Is(err, ErrNotFound) {
			RecordCoachEnrollment(StatusError)
			return nil, err // repository already coded USER_NOT_FOUND
		}
		RecordCoachEnrollment(StatusError)
		return nil, oops.Code("COACH_CREATE_FAILED").
			With("operation", "insert coach").
			With("user_id", userID.String()).
			Wrap(err)
	}

	RecordCoachEnrollment(StatusSuccess)
	return coach, nil
}

// GetCoach loads a coach with its user and profile. The coach ID is
// consulted first, the user ID only when no coach ID is given. A query
// with no identifiers, or one matching no coach, yields (nil, nil); the
// error return is reserved for infrastructure failures.
func (s *Service) GetCoach(ctx context.Context, query CoachQuery) (*CoachDetail, error) {
	var (
		detail *CoachDetail
		err    error
	)
	switch {
	case query.CoachID != nil:
		detail, err = s.coaches.GetDetailByID(ctx, *query.CoachID)
	case query.UserID != nil:
		detail, err = s.coaches.GetDetailByUserID(ctx, *query.UserID)
	default:
		RecordCoachLookup(StatusNotFound)
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "coach lookup matched nothing",
				"operation", "get_coach")
			RecordCoachLookup(StatusNotFound)
			return nil, nil
		}
		RecordCoachLookup(StatusError)
		return nil, oops.Code("COACH_GET_FAILED").
			With("operation", "get coach detail").
			Wrap(err)
	}

	RecordCoachLookup(StatusFound)
	return detail, nil
}

// SaveWorkout inserts a workout into a plan. Failures surface as coded
// errors; callers decide whether to log or propagate them.
func (s *Service) SaveWorkout(ctx context.Context, planID ulid.ULID, attrs WorkoutAttrs) (*Workout, error) {
	workout, err := NewWorkout(planID, attrs)
	if err != nil {
		RecordWorkoutSave(StatusError)
		return nil, err // constructor errors carry their own codes
	}

	if err := s.workouts.Create(ctx, workout); err != nil {
		if errors.Is(err, ErrDuplicate) {
			RecordWorkoutSave(StatusDuplicate)
			return nil, err // repository already coded WORKOUT_EXISTS
		}
		if errors.Is(err, ErrNotFound) {
			RecordWorkoutSave(StatusError)
			return nil, err // repository already coded PLAN_NOT_FOUND
		}
		RecordWorkoutSave(StatusError)
		return nil, oops.Code("WORKOUT_SAVE_FAILED").
			With("operation", "insert workout").
			With("plan_id", planID.String()).
			Wrap(err)
	}

	RecordWorkoutSave(StatusSuccess)
	return workout, nil
}

// GetWorkout retrieves a workout by ID. The message always carries one of
// the Msg* constants; the error return is reserved for infrastructure
// failures.
func (s *Service) GetWorkout(ctx context.Context, id ulid.ULID) (*Workout, string, error) {
	workout, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			RecordWorkoutLookup(StatusNotFound)
			return nil, MsgWorkoutNotFound, nil
		}
		RecordWorkoutLookup(StatusError)
		return nil, "", oops.Code("WORKOUT_GET_FAILED").
			With("operation", "get workout").
			With("workout_id", id.String()).
			Wrap(err)
	}

	RecordWorkoutLookup(StatusFound)
	return workout, MsgWorkoutFound, nil
}

// CreateWorkoutPlan stores a new workout plan.
func (s *Service) CreateWorkoutPlan(ctx context.Context, name, description string) (*WorkoutPlan, error) {
	plan, err := NewWorkoutPlan(name, description)
	if err != nil {
		return nil, err
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err // repository already coded PLAN_EXISTS
		}
		return nil, oops.Code("PLAN_CREATE_FAILED").
			With("operation", "insert plan").
			With("name", plan.Name).
			Wrap(err)
	}

	return plan, nil
}

// GetWorkoutPlan retrieves a plan by ID. Repository errors pass through
// with their codes intact.
func (s *Service) GetWorkoutPlan(ctx context.Context, id ulid.ULID) (*WorkoutPlan, error) {
	return s.plans.GetByID(ctx, id)
}

// ListWorkouts retrieves all workouts in a plan, ordered by name.
func (s *Service) ListWorkouts(ctx context.Context, planID ulid.ULID) ([]*Workout, error) {
	return s.workouts.ListByPlan(ctx, planID)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/fitness"
	"github.com/fitforge/fitforge/internal/ids"
	"github.com/fitforge/fitforge/pkg/errutil"
)

// FitnessService defines the coaching and workout operations needed by the
// fitness handlers.
type FitnessService interface {
	// CreateCoach enrolls a user as an active coach.
	CreateCoach(ctx context.Context, userID ulid.ULID, experience string) (*fitness.Coach, error)

	// GetCoach resolves a coach by coach ID or user ID.
	GetCoach(ctx context.Context, query fitness.CoachQuery) (*fitness.CoachDetail, error)

	// SaveWorkout stores a workout under a plan.
	SaveWorkout(ctx context.Context, planID ulid.ULID, attrs fitness.WorkoutAttrs) (*fitness.Workout, error)

	// GetWorkout fetches a workout and its outcome message.
	GetWorkout(ctx context.Context, id ulid.ULID) (*fitness.Workout, string, error)

	// CreateWorkoutPlan creates a named plan.
	CreateWorkoutPlan(ctx context.Context, name, description string) (*fitness.WorkoutPlan, error)

	// GetWorkoutPlan fetches a plan by ID.
	GetWorkoutPlan(ctx context.Context, id ulid.ULID) (*fitness.WorkoutPlan, error)

	// ListWorkouts lists a plan's workouts ordered by name.
	ListWorkouts(ctx context.Context, planID ulid.ULID) ([]*fitness.Workout, error)
}

// FitnessHandler handles coach, plan, and workout requests.
type FitnessHandler struct {
	fitness FitnessService
	logger  *slog.Logger
}

// NewFitnessHandler creates a new FitnessHandler with a no-op logger.
func NewFitnessHandler(fitnessSvc FitnessService) (*FitnessHandler, error) {
	return NewFitnessHandlerWithLogger(fitnessSvc, slog.New(slog.DiscardHandler))
}

// NewFitnessHandlerWithLogger creates a new FitnessHandler with the provided
// logger. Returns an error if any required dependency is nil.
func NewFitnessHandlerWithLogger(fitnessSvc FitnessService, logger *slog.Logger) (*FitnessHandler, error) {
	if fitnessSvc == nil {
		return nil, oops.Errorf("fitness service is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &FitnessHandler{fitness: fitnessSvc, logger: logger}, nil
}

// CoachResponse is the public view of a coach.
type CoachResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Experience string    `json:"experience"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCoachResponse(coach *fitness.Coach) CoachResponse {
	return CoachResponse{
		ID:         coach.ID.String(),
		UserID:     coach.UserID.String(),
		Experience: coach.Experience,
		Active:     coach.Active,
		CreatedAt:  coach.CreatedAt,
	}
}

// CoachDetailResponse carries a coach with the linked user and profile.
type CoachDetailResponse struct {
	Coach   CoachResponse    `json:"coach"`
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// PlanResponse is the public view of a workout plan.
type PlanResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newPlanResponse(plan *fitness.WorkoutPlan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID.String(),
		Name:        plan.Name,
		Description: plan.Description,
		CreatedAt:   plan.CreatedAt,
	}
}

// WorkoutResponse is the public view of a workout.
type WorkoutResponse struct {
	ID              string    `json:"id"`
	PlanID          string    `json:"plan_id"`
	Name            string    `json:"name"`
	TargetMuscle    string    `json:"target_muscle"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	Calories        int       `json:"calories"`
	CreatedAt       time.Time `json:"created_at"`
}

func newWorkoutResponse(w *fitness.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:              w.ID.String(),
		PlanID:          w.PlanID.String(),
		Name:            w.Name,
		TargetMuscle:    w.TargetMuscle,
		DurationMinutes: w.DurationMinutes,
		Description:     w.Description,
		Calories:        w.Calories,
		CreatedAt:       w.CreatedAt,
	}
}

// CreateCoachInput enrolls a user as a coach.
type CreateCoachInput struct {
	UserID     string `json:"user_id" binding:"required"`
	Experience string `json:"experience"`
}

// CreateCoach handles POST /v1/coaches.
func (h *FitnessHandler) CreateCoach(c *gin.Context) {
	var in CreateCoachInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	userID, err := ids.Parse(in.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	coach, err := h.fitness.CreateCoach(c.Request.Context(), userID, in.Experience)
	if err != nil {
		h.createCoachError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCoachResponse(coach))
}

func (h *FitnessHandler) createCoachError(c *gin.Context, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "COACH_EXISTS":
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a coach"})
			return
		case "USER_NOT_FOUND":
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case "COACH_INVALID_USER":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	errutil.LogError(h.logger, "coach enrollment failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "coach enrollment failed"})
}

// GetCoach handles GET /v1/coaches. The coach_id query parameter wins over
// user_id when both are present; with neither the lookup matches nothing.
func (h *FitnessHandler) GetCoach(c *gin.Context) {
	var query fitness.CoachQuery

	if raw := c.Query("coach_id"); raw != "" {
		id, err := ids.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coach id"})
			return
		}
		query.CoachID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := ids.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		query.UserID = &id
	}

	detail, err := h.fitness.GetCoach(c.Request.Context(), query)
	if err != nil {
		errutil.LogError(h.logger, "coach lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coach lookup failed"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coach not found"})
		return
	}

	resp := CoachDetailResponse{
		Coach: newCoachResponse(detail.Coach),
		User:  newUserResponse(detail.User),
	}
	if detail.Profile != nil {
		resp.Profile = newProfileResponse(detail.Profile)
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePlanInput names a new workout plan.
type CreatePlanInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreatePlan handles POST /v1/plans.
func (h *FitnessHandler) CreatePlan(c *gin.Context) {
	var in CreatePlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	plan, err := h.fitness.CreateWorkoutPlan(c.Request.Context(), in.Name, in.Description)
	if err != nil {
		h.createPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPlanResponse(plan))
}

func (h *FitnessHandler) createPlanError(c *gin.Context, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "PLAN_EXISTS":
			c.JSON(http.StatusConflict, gin.H{"error": "plan name already exists"})
			return
		case "PLAN_INVALID_NAME":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	errutil.LogError(h.logger, "plan creation failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "plan creation failed"})
}

// PlanDetailResponse carries a plan with its workouts.
type PlanDetailResponse struct {
	Plan     PlanResponse      `json:"plan"`
	Workouts []WorkoutResponse `json:"workouts"`
}

// GetPlan handles GET /v1/plans/:id.
func (h *FitnessHandler) GetPlan(c *gin.Context) {
	planID, err := ids.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	plan, err := h.fitness.GetWorkoutPlan(c.Request.Context(), planID)
	if err != nil {
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == "PLAN_NOT_FOUND" {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		errutil.LogError(h.logger, "plan lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "plan lookup failed"})
		return
	}

	workouts, err := h.fitness.ListWorkouts(c.Request.Context(), planID)
	if err != nil {
		errutil.LogError(h.logger, "workout listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workout listing failed"})
		return
	}

	resp := PlanDetailResponse{
		Plan:     newPlanResponse(plan),
		Workouts: make([]WorkoutResponse, 0, len(workouts)),
	}
	for _, w := range workouts {
		resp.Workouts = append(resp.Workouts, newWorkoutResponse(w))
	}
	c.JSON(http.StatusOK, resp)
}

// SaveWorkoutInput carries a workout to store under a plan.
type SaveWorkoutInput struct {
	PlanID          string `json:"plan_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	TargetMuscle    string `json:"target_muscle" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	Description     string `json:"description"`
	Calories        int    `json:"calories" binding:"gte=0"`
}

// SaveWorkout handles POST /v1/workouts.
func (h *FitnessHandler) SaveWorkout(c *gin.Context) {
	var in SaveWorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	planID, err := ids.Parse(in.PlanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	workout, err := h.fitness.SaveWorkout(c.Request.Context(), planID, fitness.WorkoutAttrs{
		Name:            in.Name,
		TargetMuscle:    in.TargetMuscle,
		DurationMinutes: in.DurationMinutes,
		Description:     in.Description,
		Calories:        in.Calories,
	})
	if err != nil {
		h.saveWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newWorkoutResponse(workout))
}

func (h *FitnessHandler) saveWorkoutError(c *gin.Context, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "WORKOUT_EXISTS":
			c.JSON(http.StatusConflict, gin.H{"error": "workout name already exists in this plan"})
			return
		case "PLAN_NOT_FOUND":
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		case "WORKOUT_INVALID_PLAN", "WORKOUT_INVALID_NAME":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	errutil.LogError(h.logger, "workout save failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "workout save failed"})
}

// WorkoutLookupResponse pairs a workout with its outcome message. Workout is
// null in the not-found response; the message strings are part of the client
// contract.
type WorkoutLookupResponse struct {
	Workout *WorkoutResponse `json:"workout"`
	Message string           `json:"message"`
}

// GetWorkout handles GET /v1/workouts/:id.
func (h *FitnessHandler) GetWorkout(c *gin.Context) {
	id, err := ids.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workout id"})
		return
	}

	workout, message, err := h.fitness.GetWorkout(c.Request.Context(), id)
	if err != nil {
		errutil.LogError(h.logger, "workout lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "workout lookup failed"})
		return
	}
	if workout == nil {
		c.JSON(http.StatusNotFound, WorkoutLookupResponse{Message: message})
		return
	}

	resp := newWorkoutResponse(workout)
	c.JSON(http.StatusOK, WorkoutLookupResponse{Workout: &resp, Message: message})
}

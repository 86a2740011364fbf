// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

// NewRouter assembles the versioned API routes.
// Returns an error if any handler is nil.
func NewRouter(auth *AuthHandler, profiles *ProfileHandler, fitness *FitnessHandler, logger *slog.Logger) (*gin.Engine, error) {
	if auth == nil {
		return nil, oops.Errorf("auth handler is required")
	}
	if profiles == nil {
		return nil, oops.Errorf("profile handler is required")
	}
	if fitness == nil {
		return nil, oops.Errorf("fitness handler is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}

	r := gin.New()
	r.Use(Tracing(), RequestLogger(logger), gin.Recovery())

	v1 := r.Group("/v1")
	v1.POST("/auth/signup", auth.Signup)
	v1.POST("/auth/login", auth.Login)
	v1.POST("/auth/send-verification", auth.SendVerification)

	v1.POST("/users/:id/profile", profiles.Create)

	v1.POST("/coaches", fitness.CreateCoach)
	v1.GET("/coaches", fitness.GetCoach)

	v1.POST("/plans", fitness.CreatePlan)
	v1.GET("/plans/:id", fitness.GetPlan)

	v1.POST("/workouts", fitness.SaveWorkout)
	v1.GET("/workouts/:id", fitness.GetWorkout)

	return r, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/internal/ids"
	"github.com/fitforge/fitforge/pkg/errutil"
)

// ProfileCreator defines the profile operation needed by the profile handler.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, userID ulid.ULID, attrs identity.ProfileAttrs) (*identity.Profile, error)
}

// ProfileHandler handles profile creation for existing users.
type ProfileHandler struct {
	profiles ProfileCreator
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler with a no-op logger.
func NewProfileHandler(profiles ProfileCreator) (*ProfileHandler, error) {
	return NewProfileHandlerWithLogger(profiles, slog.New(slog.DiscardHandler))
}

// NewProfileHandlerWithLogger creates a new ProfileHandler with the provided
// logger. Returns an error if any required dependency is nil.
func NewProfileHandlerWithLogger(profiles ProfileCreator, logger *slog.Logger) (*ProfileHandler, error) {
	if profiles == nil {
		return nil, oops.Errorf("profile creator is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &ProfileHandler{profiles: profiles, logger: logger}, nil
}

// Create handles POST /v1/users/:id/profile.
func (h *ProfileHandler) Create(c *gin.Context) {
	userID, err := ids.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), userID, in.attrs())
	if err != nil {
		h.createError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProfileResponse(profile))
}

func (h *ProfileHandler) createError(c *gin.Context, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "PROFILE_EXISTS":
			c.JSON(http.StatusConflict, gin.H{"error": "profile already exists"})
			return
		case "USER_NOT_FOUND":
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case "PROFILE_INVALID_USER":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	errutil.LogError(h.logger, "profile creation failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "profile creation failed"})
}

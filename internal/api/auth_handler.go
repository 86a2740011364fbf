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

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/internal/ids"
	"github.com/fitforge/fitforge/pkg/errutil"
)

// IdentityService defines the account operations needed by auth handlers.
type IdentityService interface {
	// Register creates a new user account.
	Register(ctx context.Context, email, name, password string) (*identity.User, error)

	// CreateProfile stores the profile for a user.
	CreateProfile(ctx context.Context, userID ulid.ULID, attrs identity.ProfileAttrs) (*identity.Profile, error)

	// Authenticate checks credentials and reports the outcome.
	Authenticate(ctx context.Context, email, password string) (identity.AuthResult, error)
}

// TokenIssuer defines the token signing operations needed after login.
type TokenIssuer interface {
	IssueAccessToken(user *identity.User) (string, error)
	IssueRefreshToken(user *identity.User) (string, error)
}

// VerificationMailer defines the verification mail trigger.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, userID ulid.ULID) error
}

// AuthHandler handles signup, login, and verification mail requests.
type AuthHandler struct {
	identity IdentityService
	tokens   TokenIssuer
	verifier VerificationMailer
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with a no-op logger.
// Returns an error if any required dependency is nil.
func NewAuthHandler(identitySvc IdentityService, tokens TokenIssuer, verifier VerificationMailer) (*AuthHandler, error) {
	return NewAuthHandlerWithLogger(identitySvc, tokens, verifier, slog.New(slog.DiscardHandler))
}

// NewAuthHandlerWithLogger creates a new AuthHandler with the provided logger.
// Returns an error if any required dependency is nil.
func NewAuthHandlerWithLogger(identitySvc IdentityService, tokens TokenIssuer, verifier VerificationMailer, logger *slog.Logger) (*AuthHandler, error) {
	if identitySvc == nil {
		return nil, oops.Errorf("identity service is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if verifier == nil {
		return nil, oops.Errorf("verification mailer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &AuthHandler{
		identity: identitySvc,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger,
	}, nil
}

// ProfileInput carries the profile fields accepted over HTTP.
type ProfileInput struct {
	Gender        string  `json:"gender" binding:"required"`
	Age           int     `json:"age" binding:"required,gt=0,lt=130"`
	Weight        float64 `json:"weight" binding:"required,gt=0"`
	Height        float64 `json:"height" binding:"required,gt=0"`
	Goal          string  `json:"goal" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
}

func (in *ProfileInput) attrs() identity.ProfileAttrs {
	return identity.ProfileAttrs{
		Gender:        in.Gender,
		Age:           in.Age,
		Weight:        in.Weight,
		Height:        in.Height,
		Goal:          in.Goal,
		ActivityLevel: in.ActivityLevel,
	}
}

// SignupInput carries the registration fields. Profile is optional; when
// present the profile is created in the same request.
type SignupInput struct {
	Email    string        `json:"email" binding:"required,email"`
	Name     string        `json:"name" binding:"required"`
	Password string        `json:"password" binding:"required,min=8"`
	Profile  *ProfileInput `json:"profile" binding:"omitempty"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Gender        string    `json:"gender"`
	Age           int       `json:"age"`
	Weight        float64   `json:"weight"`
	Height        float64   `json:"height"`
	Goal          string    `json:"goal"`
	ActivityLevel string    `json:"activity_level"`
	CreatedAt     time.Time `json:"created_at"`
}

func newProfileResponse(p *identity.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		Gender:        p.Gender,
		Age:           p.Age,
		Weight:        p.Weight,
		Height:        p.Height,
		Goal:          p.Goal,
		ActivityLevel: p.ActivityLevel,
		CreatedAt:     p.CreatedAt,
	}
}

// SignupResponse is the signup success payload.
type SignupResponse struct {
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// Signup handles POST /v1/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), in.Email, in.Name, in.Password)
	if err != nil {
		h.signupError(c, err)
		return
	}

	resp := SignupResponse{User: newUserResponse(user)}
	if in.Profile != nil {
		profile, err := h.identity.CreateProfile(c.Request.Context(), user.ID, in.Profile.attrs())
		if err != nil {
			// The account exists at this point; report the signup as
			// created and leave the profile for a follow-up request.
			errutil.LogWarn(h.logger, "signup profile creation failed", err)
		} else {
			resp.Profile = newProfileResponse(profile)
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) signupError(c *gin.Context, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "EMAIL_TAKEN":
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		case "USER_INVALID_EMAIL", "USER_INVALID_NAME":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	errutil.LogError(h.logger, "signup failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
}

// LoginInput carries the login credentials.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login success payload.
type TokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

const tokenTypeBearer = "bearer"

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	result, err := h.identity.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		errutil.LogError(h.logger, "authentication failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	if result.User == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": result.Message})
		return
	}

	access, err := h.tokens.IssueAccessToken(result.User)
	if err != nil {
		errutil.LogError(h.logger, "access token signing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	refresh, err := h.tokens.IssueRefreshToken(result.User)
	if err != nil {
		errutil.LogError(h.logger, "refresh token signing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Message:      result.Message,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
	})
}

// SendVerificationInput names the user to mail.
type SendVerificationInput struct {
	UserID string `json:"user_id" binding:"required"`
}

// SendVerification handles POST /v1/auth/send-verification. The response
// is 202 whether or not the user exists; a missing user is absorbed by the
// verification service so the endpoint does not leak account existence.
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var in SendVerificationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	userID, err := ids.Parse(in.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.verifier.SendVerificationEmail(c.Request.Context(), userID); err != nil {
		errutil.LogError(h.logger, "verification mail failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification mail failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "verification email queued"})
}

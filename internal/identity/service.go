// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Authentication outcome messages. The exact strings are part of the client
// contract and must not change.
const (
	MsgUserFound        = "User found"
	MsgPasswordMismatch = "Password didn't match"
	MsgUserNotFound     = "User doesnt exists"
)

// AuthResult reports the outcome of an authentication attempt. User is nil
// unless authentication succeeded; Message always carries one of the Msg*
// constants.
type AuthResult struct {
	User    *User
	Message string
}

// Service provides registration, profile creation, and authentication.
type Service struct {
	users    UserRepository
	profiles ProfileRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, profiles ProfileRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, profiles, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, profiles ProfileRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("users repository is required")
	}
	if profiles == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("profiles repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// Register creates a user from raw signup input. Email and name are
// normalized (lowercased, trimmed) and the password is hashed before
// anything touches the repository.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		RecordRegistration(StatusError)
		return nil, oops.Code("USER_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(email, name, hash)
	if err != nil {
		RecordRegistration(StatusError)
		return nil, err // constructor errors carry their own codes
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			RecordRegistration(StatusDuplicate)
			return nil, err // repository already coded EMAIL_TAKEN
		}
		RecordRegistration(StatusError)
		return nil, oops.Code("USER_REGISTER_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}

	RecordRegistration(StatusSuccess)
	return user, nil
}

// CreateProfile stores the profile for a freshly registered user.
func (s *Service) CreateProfile(ctx context.Context, userID ulid.ULID, attrs ProfileAttrs) (*Profile, error) {
	profile, err := NewProfile(userID, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err // repository already coded PROFILE_EXISTS
		}
		return nil, oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "insert profile").
			With("user_id", userID.String()).
			Wrap(err)
	}

	return profile, nil
}

// Authenticate checks credentials against the stored user. The existence
// check precedes the password check, and each outcome reports its own
// message; infrastructure failures surface as errors instead.
func (s *Service) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			RecordAuthentication(StatusUnknownUser)
			return AuthResult{Message: MsgUserNotFound}, nil
		}
		RecordAuthentication(StatusError)
		return AuthResult{}, oops.Code("AUTH_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		RecordAuthentication(StatusError)
		return AuthResult{}, oops.Code("AUTH_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	if !ok {
		RecordAuthentication(StatusMismatch)
		return AuthResult{Message: MsgPasswordMismatch}, nil
	}

	// Opportunistically upgrade legacy hashes. Authentication succeeds even
	// if the rewrite fails.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if updErr := s.users.UpdatePassword(ctx, user.ID, newHash); updErr != nil {
				s.logger.WarnContext(ctx, "best-effort password hash upgrade failed",
					"operation", "upgrade_password_hash",
					"user_id", user.ID.String(),
					"error", updErr.Error())
			} else {
				user.PasswordHash = newHash
			}
		}
	}

	RecordAuthentication(StatusSuccess)
	return AuthResult{User: user, Message: MsgUserFound}, nil
}

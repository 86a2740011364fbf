// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/mail"
)

// Verification email content. The subject and body wording are part of the
// product surface; change them deliberately.
const (
	verificationSubject    = "Email Verification"
	verificationBodyPrefix = "Click the link to verify your email: "
)

// VerificationConfig controls how verification links are built and whether
// mail is actually dispatched.
type VerificationConfig struct {
	// BaseURL is the externally reachable prefix for verification links,
	// without a trailing slash.
	BaseURL string
	// SendEmail gates outbound mail. Tokens are persisted either way.
	SendEmail bool
}

// VerificationService issues email verification tokens and dispatches the
// verification mail.
type VerificationService struct {
	users         UserRepository
	verifications VerificationRepository
	sender        mail.Sender
	cfg           VerificationConfig
	logger        *slog.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(users UserRepository, verifications VerificationRepository, sender mail.Sender, cfg VerificationConfig) (*VerificationService, error) {
	return NewVerificationServiceWithLogger(users, verifications, sender, cfg, slog.Default())
}

// NewVerificationServiceWithLogger creates a new VerificationService with an
// explicit logger. A sender is only required when cfg.SendEmail is set.
func NewVerificationServiceWithLogger(users UserRepository, verifications VerificationRepository, sender mail.Sender, cfg VerificationConfig, logger *slog.Logger) (*VerificationService, error) {
	if users == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("users repository is required")
	}
	if verifications == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("verifications repository is required")
	}
	if cfg.BaseURL == "" {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("verification base URL is required")
	}
	if cfg.SendEmail && sender == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("mail sender is required when sending is enabled")
	}
	if logger == nil {
		return nil, oops.Code("SERVICE_CONFIG_INVALID").Errorf("logger is required")
	}
	return &VerificationService{
		users:         users,
		verifications: verifications,
		sender:        sender,
		cfg:           cfg,
		logger:        logger,
	}, nil
}

// SendVerificationEmail generates a fresh token, persists it, and mails the
// verification link to the user. A missing user is logged and swallowed, so
// callers cannot tell that case apart from success. Actual dispatch is gated
// by the SendEmail flag; the token is stored either way.
func (s *VerificationService) SendVerificationEmail(ctx context.Context, userID ulid.ULID) error {
	// The token and link are fixed before the user lookup.
	token := NewVerificationToken()
	link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.BaseURL, token)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "user not found for verification email",
				"operation", "send_verification_email",
				"user_id", userID.String())
			RecordVerificationEmail(StatusUnknownUser)
			return nil
		}
		RecordVerificationEmail(StatusError)
		return oops.Code("VERIFICATION_SEND_FAILED").
			With("operation", "get user").
			With("user_id", userID.String()).
			Wrap(err)
	}

	verification, err := NewVerification(userID, token)
	if err != nil {
		RecordVerificationEmail(StatusError)
		return err
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		RecordVerificationEmail(StatusError)
		return oops.Code("VERIFICATION_SEND_FAILED").
			With("operation", "insert verification").
			With("user_id", userID.String()).
			Wrap(err)
	}

	if !s.cfg.SendEmail {
		s.logger.DebugContext(ctx, "verification email dispatch disabled",
			"user_id", userID.String())
		RecordVerificationEmail(StatusSkipped)
		return nil
	}

	msg := mail.Message{
		Subject:     verificationSubject,
		Recipients:  []string{user.Email},
		Body:        verificationBodyPrefix + link,
		ContentType: mail.ContentTypeHTML,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		RecordVerificationEmail(StatusError)
		return oops.Code("VERIFICATION_SEND_FAILED").
			With("operation", "send email").
			With("user_id", userID.String()).
			Wrap(err)
	}

	RecordVerificationEmail(StatusSuccess)
	return nil
}

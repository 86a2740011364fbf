// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity_test

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/internal/mail"
	"github.com/fitforge/fitforge/pkg/errutil"
)

// mockVerificationRepository is a mock for identity.VerificationRepository.
type mockVerificationRepository struct {
	mock.Mock
}

func (m *mockVerificationRepository) Create(ctx context.Context, verification *identity.Verification) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *mockVerificationRepository) GetLatestByUser(ctx context.Context, userID ulid.ULID) (*identity.Verification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Verification), args.Error(1)
}

// mockSender is a mock for mail.Sender.
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func verificationTestConfig() identity.VerificationConfig {
	return identity.VerificationConfig{
		BaseURL:   "https://app.fitforge.test",
		SendEmail: true,
	}
}

func TestNewVerificationService(t *testing.T) {
	users := new(mockUserRepository)
	verifications := new(mockVerificationRepository)
	sender := new(mockSender)

	t.Run("creates service with all dependencies", func(t *testing.T) {
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("sender optional when sending disabled", func(t *testing.T) {
		cfg := verificationTestConfig()
		cfg.SendEmail = false
		svc, err := identity.NewVerificationService(users, verifications, nil, cfg)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects nil users repository", func(t *testing.T) {
		svc, err := identity.NewVerificationService(nil, verifications, sender, verificationTestConfig())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "users repository is required")
	})

	t.Run("rejects nil verifications repository", func(t *testing.T) {
		svc, err := identity.NewVerificationService(users, nil, sender, verificationTestConfig())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verifications repository is required")
	})

	t.Run("rejects empty base URL", func(t *testing.T) {
		cfg := verificationTestConfig()
		cfg.BaseURL = ""
		svc, err := identity.NewVerificationService(users, verifications, sender, cfg)
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("rejects nil sender when sending enabled", func(t *testing.T) {
		svc, err := identity.NewVerificationService(users, verifications, nil, verificationTestConfig())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail sender is required")
	})
}

func TestVerificationService_SendVerificationEmail(t *testing.T) {
	ctx := context.Background()

	newStoredUser := func() *identity.User {
		return &identity.User{
			ID:    ulid.Make(),
			Email: "jo@fitforge.test",
			Name:  "jordan",
		}
	}

	t.Run("persists token and sends mail", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		sender := new(mockSender)
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)

		user := newStoredUser()
		var stored *identity.Verification
		var sent mail.Message

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		verifications.On("Create", ctx, mock.AnythingOfType("*identity.Verification")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*identity.Verification)
			}).Return(nil)
		sender.On("Send", ctx, mock.AnythingOfType("mail.Message")).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(mail.Message)
			}).Return(nil)

		err = svc.SendVerificationEmail(ctx, user.ID)
		require.NoError(t, err)

		require.NotNil(t, stored)
		assert.Equal(t, user.ID, stored.UserID)
		assert.Len(t, stored.Token, 72)

		assert.Equal(t, "Email Verification", sent.Subject)
		assert.Equal(t, []string{user.Email}, sent.Recipients)
		assert.Equal(t, mail.ContentTypeHTML, sent.ContentType)
		assert.True(t, strings.HasPrefix(sent.Body, "Click the link to verify your email: "))
		assert.Contains(t, sent.Body, "https://app.fitforge.test/verify-email?token="+stored.Token)

		users.AssertExpectations(t)
		verifications.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("missing user is swallowed", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		sender := new(mockSender)
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)

		userID := ulid.Make()
		notFound := oops.Code("USER_NOT_FOUND").Wrap(identity.ErrNotFound)
		users.On("GetByID", ctx, userID).Return(nil, notFound)

		err = svc.SendVerificationEmail(ctx, userID)
		require.NoError(t, err)

		verifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("disabled sending still persists the token", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		cfg := verificationTestConfig()
		cfg.SendEmail = false
		svc, err := identity.NewVerificationService(users, verifications, nil, cfg)
		require.NoError(t, err)

		user := newStoredUser()
		users.On("GetByID", ctx, user.ID).Return(user, nil)
		verifications.On("Create", ctx, mock.AnythingOfType("*identity.Verification")).Return(nil)

		err = svc.SendVerificationEmail(ctx, user.ID)
		require.NoError(t, err)

		verifications.AssertExpectations(t)
	})

	t.Run("wraps user lookup failures", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		sender := new(mockSender)
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)

		userID := ulid.Make()
		users.On("GetByID", ctx, userID).Return(nil, assert.AnError)

		err = svc.SendVerificationEmail(ctx, userID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_SEND_FAILED")
	})

	t.Run("wraps persistence failures", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		sender := new(mockSender)
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)

		user := newStoredUser()
		users.On("GetByID", ctx, user.ID).Return(user, nil)
		verifications.On("Create", ctx, mock.AnythingOfType("*identity.Verification")).Return(assert.AnError)

		err = svc.SendVerificationEmail(ctx, user.ID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_SEND_FAILED")
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("wraps send failures", func(t *testing.T) {
		users := new(mockUserRepository)
		verifications := new(mockVerificationRepository)
		sender := new(mockSender)
		svc, err := identity.NewVerificationService(users, verifications, sender, verificationTestConfig())
		require.NoError(t, err)

		user := newStoredUser()
		users.On("GetByID", ctx, user.ID).Return(user, nil)
		verifications.On("Create", ctx, mock.AnythingOfType("*identity.Verification")).Return(nil)
		sender.On("Send", ctx, mock.AnythingOfType("mail.Message")).Return(assert.AnError)

		err = svc.SendVerificationEmail(ctx, user.ID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_SEND_FAILED")
	})
}

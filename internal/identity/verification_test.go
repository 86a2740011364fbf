// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/pkg/errutil"
)

func TestNewVerificationToken(t *testing.T) {
	t.Run("concatenates two UUIDs", func(t *testing.T) {
		token := identity.NewVerificationToken()
		require.Len(t, token, 72)

		_, err := uuid.Parse(token[:36])
		assert.NoError(t, err)
		_, err = uuid.Parse(token[36:])
		assert.NoError(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token := identity.NewVerificationToken()
			assert.False(t, seen[token])
			seen[token] = true
		}
	})
}

func TestNewVerification(t *testing.T) {
	t.Run("creates valid verification", func(t *testing.T) {
		userID := ulid.Make()
		token := identity.NewVerificationToken()

		v, err := identity.NewVerification(userID, token)
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.NotEqual(t, ulid.ULID{}, v.ID)
		assert.Equal(t, token, v.Token)
		assert.Equal(t, userID, v.UserID)
		assert.False(t, v.CreatedAt.IsZero())
	})

	t.Run("rejects zero user ID", func(t *testing.T) {
		v, err := identity.NewVerification(ulid.ULID{}, identity.NewVerificationToken())
		assert.Nil(t, v)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_INVALID_USER")
	})

	t.Run("rejects empty token", func(t *testing.T) {
		v, err := identity.NewVerification(ulid.Make(), "")
		assert.Nil(t, v)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_INVALID_TOKEN")
	})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/pkg/errutil"
)

func TestVerificationRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		verification, err := identity.NewVerification(ulid.Make(), identity.NewVerificationToken())
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO verifications`).
			WithArgs(
				verification.ID.String(), verification.Token,
				verification.UserID.String(), verification.CreatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewVerificationRepository(mock)
		err = repo.Create(context.Background(), verification)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		verification, err := identity.NewVerification(ulid.Make(), identity.NewVerificationToken())
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO verifications`).
			WithArgs(
				verification.ID.String(), verification.Token,
				verification.UserID.String(), verification.CreatedAt,
			).
			WillReturnError(errors.New("foreign key violation"))

		repo := NewVerificationRepository(mock)
		err = repo.Create(context.Background(), verification)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign key violation")
		errutil.AssertErrorCode(t, err, "VERIFICATION_CREATE_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestVerificationRepository_GetLatestByUser(t *testing.T) {
	userID := ulid.Make()
	cols := []string{"id", "token", "user_id", "created_at"}

	t.Run("returns latest verification", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		verificationID := ulid.Make()
		token := identity.NewVerificationToken()
		createdAt := time.Now().UTC().Truncate(time.Microsecond)

		rows := pgxmock.NewRows(cols).
			AddRow(verificationID.String(), token, userID.String(), createdAt)
		mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM verifications WHERE user_id = \$1 ORDER BY created_at DESC, id DESC LIMIT 1`).
			WithArgs(userID.String()).
			WillReturnRows(rows)

		repo := NewVerificationRepository(mock)
		verification, err := repo.GetLatestByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, verificationID, verification.ID)
		assert.Equal(t, token, verification.Token)
		assert.Equal(t, userID, verification.UserID)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("no verifications maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM verifications WHERE user_id = \$1`).
			WithArgs(userID.String()).
			WillReturnRows(pgxmock.NewRows(cols))

		repo := NewVerificationRepository(mock)
		verification, err := repo.GetLatestByUser(context.Background(), userID)
		assert.Nil(t, verification)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		errutil.AssertErrorCode(t, err, "VERIFICATION_NOT_FOUND")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, token, user_id, created_at FROM verifications WHERE user_id = \$1`).
			WithArgs(userID.String()).
			WillReturnError(errors.New("connection lost"))

		repo := NewVerificationRepository(mock)
		_, err = repo.GetLatestByUser(context.Background(), userID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "VERIFICATION_GET_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

// Test that the interface is correctly implemented
func TestVerificationRepositoryInterface(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	var _ identity.VerificationRepository = NewVerificationRepository(mock)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitforge/fitforge/internal/identity"
	"github.com/fitforge/fitforge/pkg/errutil"
)

func testProfile(t *testing.T) *identity.Profile {
	t.Helper()
	profile, err := identity.NewProfile(ulid.Make(), identity.ProfileAttrs{
		Gender:        "female",
		Age:           29,
		Weight:        61.0,
		Height:        168.5,
		Goal:          "general_fitness",
		ActivityLevel: "light",
	})
	require.NoError(t, err)
	return profile
}

func TestProfileRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		profile := testProfile(t)
		mock.ExpectExec(`INSERT INTO profiles`).
			WithArgs(
				profile.ID.String(), profile.UserID.String(),
				profile.Gender, profile.Age, profile.Weight, profile.Height,
				profile.Goal, profile.ActivityLevel, profile.CreatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewProfileRepository(mock)
		err = repo.Create(context.Background(), profile)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("second profile maps to ErrDuplicate", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		profile := testProfile(t)
		mock.ExpectExec(`INSERT INTO profiles`).
			WithArgs(
				profile.ID.String(), profile.UserID.String(),
				profile.Gender, profile.Age, profile.Weight, profile.Height,
				profile.Goal, profile.ActivityLevel, profile.CreatedAt,
			).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewProfileRepository(mock)
		err = repo.Create(context.Background(), profile)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrDuplicate)
		errutil.AssertErrorCode(t, err, "PROFILE_EXISTS")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		profile := testProfile(t)
		mock.ExpectExec(`INSERT INTO profiles`).
			WithArgs(
				profile.ID.String(), profile.UserID.String(),
				profile.Gender, profile.Age, profile.Weight, profile.Height,
				profile.Goal, profile.ActivityLevel, profile.CreatedAt,
			).
			WillReturnError(errors.New("connection refused"))

		repo := NewProfileRepository(mock)
		err = repo.Create(context.Background(), profile)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PROFILE_CREATE_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	profileID := ulid.Make()
	userID := ulid.Make()
	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	cols := []string{
		"id", "user_id", "gender", "age", "weight", "height",
		"goal", "activity_level", "created_at",
	}

	t.Run("returns stored profile", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows(cols).
			AddRow(profileID.String(), userID.String(), "male", 42, 88.0, 179.0, "weight_loss", "sedentary", createdAt)
		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
			WithArgs(userID.String()).
			WillReturnRows(rows)

		repo := NewProfileRepository(mock)
		profile, err := repo.GetByUserID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, profileID, profile.ID)
		assert.Equal(t, userID, profile.UserID)
		assert.Equal(t, "male", profile.Gender)
		assert.Equal(t, 42, profile.Age)
		assert.InDelta(t, 88.0, profile.Weight, 0.001)
		assert.InDelta(t, 179.0, profile.Height, 0.001)
		assert.Equal(t, "weight_loss", profile.Goal)
		assert.Equal(t, "sedentary", profile.ActivityLevel)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("missing profile maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
			WithArgs(userID.String()).
			WillReturnRows(pgxmock.NewRows(cols))

		repo := NewProfileRepository(mock)
		profile, err := repo.GetByUserID(context.Background(), userID)
		assert.Nil(t, profile)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		errutil.AssertErrorCode(t, err, "PROFILE_NOT_FOUND")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
			WithArgs(userID.String()).
			WillReturnError(errors.New("timeout"))

		repo := NewProfileRepository(mock)
		_, err = repo.GetByUserID(context.Background(), userID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "PROFILE_GET_FAILED")

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

// Test that the interface is correctly implemented
func TestProfileRepositoryInterface(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	var _ identity.ProfileRepository = NewProfileRepository(mock)
}

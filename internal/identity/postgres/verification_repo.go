// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/fitforge/fitforge/internal/identity"
)

// VerificationRepository implements identity.VerificationRepository using PostgreSQL.
type VerificationRepository struct {
	pool poolIface
}

// NewVerificationRepository creates a new VerificationRepository.
func NewVerificationRepository(pool poolIface) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

// Create stores a new verification record. Earlier tokens for the same user
// stay valid, so this is a plain insert.
func (r *VerificationRepository) Create(ctx context.Context, verification *identity.Verification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verifications (id, token, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		verification.ID.String(),
		verification.Token,
		verification.UserID.String(),
		verification.CreatedAt,
	)
	if err != nil {
		return oops.Code("VERIFICATION_CREATE_FAILED").
			With("operation", "insert verification").
			With("user_id", verification.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetLatestByUser retrieves the most recently created verification for a user.
func (r *VerificationRepository) GetLatestByUser(ctx context.Context, userID ulid.ULID) (*identity.Verification, error) {
	// ULIDs sort by creation time, so id breaks created_at ties.
	row := r.pool.QueryRow(ctx, `
		SELECT id, token, user_id, created_at
		FROM verifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID.String())

	verification, err := r.scanVerification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("VERIFICATION_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("VERIFICATION_GET_FAILED").
			With("operation", "get latest verification").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return verification, nil
}

// scanVerification scans a single row into a Verification.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *VerificationRepository) scanVerification(row pgx.Row) (*identity.Verification, error) {
	var (
		idStr     string
		token     string
		userIDStr string
		createdAt time.Time
	)

	err := row.Scan(&idStr, &token, &userIDStr, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("VERIFICATION_SCAN_FAILED").
			With("operation", "scan verification").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("VERIFICATION_INVALID_ID").
			With("operation", "parse verification id").
			With("id", idStr).
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("VERIFICATION_INVALID_ID").
			With("operation", "parse verification user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &identity.Verification{
		ID:        id,
		Token:     token,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.VerificationRepository = (*VerificationRepository)(nil)

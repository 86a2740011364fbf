// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package postgres provides PostgreSQL implementations of the fitness
// repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// poolIface is the subset of pgxpool.Pool the repositories use. Tests
// substitute a mock pool through it.
type poolIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fitforge/fitforge/internal/store"
)

// startPostgresContainer starts a PostgreSQL container for testing.
func startPostgresContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return connStr, cleanup
}

// tableExists reports whether a table is present in the public schema.
func tableExists(ctx context.Context, connStr, table string) (bool, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	var exists bool
	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = $1
	)`
	err = conn.QueryRow(ctx, query, table).Scan(&exists)
	return exists, err
}

// migrationState reads the recorded version and dirty flag from
// schema_migrations.
func migrationState(ctx context.Context, connStr string) (int, bool, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return 0, false, err
	}
	defer conn.Close(ctx)

	var version int
	var dirty bool
	err = conn.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}

func TestAutoMigrate_Integration_RunsOnStartup(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := startPostgresContainer(t)
	defer cleanup()

	exists, err := tableExists(ctx, connStr, "schema_migrations")
	require.NoError(t, err)
	assert.False(t, exists, "schema_migrations should not exist before auto-migrate")

	err = runAutoMigration(connStr, func(url string) (AutoMigrator, error) {
		return store.NewMigrator(url)
	})
	require.NoError(t, err)

	// The embedded migrations create the full application schema.
	for _, table := range []string{"schema_migrations", "users", "profiles", "verifications", "coaches", "workout_plans", "workouts"} {
		exists, err = tableExists(ctx, connStr, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after auto-migrate", table)
	}

	version, dirty, err := migrationState(ctx, connStr)
	require.NoError(t, err)
	assert.Greater(t, version, 0, "migration version should be > 0 after auto-migrate")
	assert.False(t, dirty, "database should not be in dirty state after successful migration")
}

func TestAutoMigrate_Integration_SkippedWhenDisabled(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := startPostgresContainer(t)
	defer cleanup()

	// Build a serve config with auto-migrate disabled and a factory that
	// must never run.
	sc := &serveConfig{autoMigrate: false}
	factory := func(url string) (AutoMigrator, error) {
		t.Error("MigratorFactory should not be called when auto-migrate is disabled")
		return store.NewMigrator(url)
	}

	// Mirror the auto-migrate branch from runServeWithDeps: when the flag
	// is off, runAutoMigration is never reached.
	if sc.autoMigrate {
		err := runAutoMigration(connStr, factory)
		require.NoError(t, err)
	}

	exists, err := tableExists(ctx, connStr, "schema_migrations")
	require.NoError(t, err)
	assert.False(t, exists, "schema_migrations should not exist when auto-migrate is disabled")
	exists, err = tableExists(ctx, connStr, "users")
	require.NoError(t, err)
	assert.False(t, exists, "users table should not exist when auto-migrate is disabled")
}

func TestAutoMigrate_Integration_IdempotentOnRerun(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := startPostgresContainer(t)
	defer cleanup()

	migratorFactory := func(url string) (AutoMigrator, error) {
		return store.NewMigrator(url)
	}

	err := runAutoMigration(connStr, migratorFactory)
	require.NoError(t, err)

	versionAfterFirst, dirtyAfterFirst, err := migrationState(ctx, connStr)
	require.NoError(t, err)
	assert.Greater(t, versionAfterFirst, 0)
	assert.False(t, dirtyAfterFirst)

	err = runAutoMigration(connStr, migratorFactory)
	require.NoError(t, err)

	versionAfterSecond, dirtyAfterSecond, err := migrationState(ctx, connStr)
	require.NoError(t, err)
	assert.Equal(t, versionAfterFirst, versionAfterSecond, "version should be unchanged after idempotent re-run")
	assert.False(t, dirtyAfterSecond)
}

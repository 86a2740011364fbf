// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitforge/fitforge/internal/catalog"
	"github.com/fitforge/fitforge/internal/fitness"
	"github.com/fitforge/fitforge/pkg/errutil"
)

// mockPlanRepo implements fitness.WorkoutPlanRepository for testing.
type mockPlanRepo struct {
	createFunc    func(ctx context.Context, plan *fitness.WorkoutPlan) error
	getByNameFunc func(ctx context.Context, name string) (*fitness.WorkoutPlan, error)
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *fitness.WorkoutPlan) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, plan)
	}
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, _ ulid.ULID) (*fitness.WorkoutPlan, error) {
	return nil, fitness.ErrNotFound
}

func (m *mockPlanRepo) GetByName(ctx context.Context, name string) (*fitness.WorkoutPlan, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, fitness.ErrNotFound
}

// mockWorkoutRepo implements fitness.WorkoutRepository for testing.
type mockWorkoutRepo struct {
	createFunc   func(ctx context.Context, workout *fitness.Workout) error
	listFunc     func(ctx context.Context, planID ulid.ULID) ([]*fitness.Workout, error)
	createdNames []string
}

func (m *mockWorkoutRepo) Create(ctx context.Context, workout *fitness.Workout) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, workout); err != nil {
			return err
		}
	}
	m.createdNames = append(m.createdNames, workout.Name)
	return nil
}

func (m *mockWorkoutRepo) GetByID(_ context.Context, _ ulid.ULID) (*fitness.Workout, error) {
	return nil, fitness.ErrNotFound
}

func (m *mockWorkoutRepo) ListByPlan(ctx context.Context, planID ulid.ULID) ([]*fitness.Workout, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, planID)
	}
	return nil, nil
}

// captureLogs redirects the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestNewSeedCmd(t *testing.T) {
	cmd := NewSeedCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "seed", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)
}

func TestNewSeedCmd_TimeoutFlag(t *testing.T) {
	cmd := NewSeedCmd()

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout, "default timeout should be 30s")

	require.NoError(t, cmd.Flags().Set("timeout", "1m"))
	timeout, err = cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, timeout, "timeout should be settable to 1m")
}

func TestNewSeedCmd_FileFlag(t *testing.T) {
	cmd := NewSeedCmd()

	file, err := cmd.Flags().GetString("file")
	require.NoError(t, err)
	assert.Empty(t, file, "default should be the embedded catalog")
}

func TestRunSeed_MissingDatabaseURL(t *testing.T) {
	isolateConfig(t)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{timeout: 30 * time.Second}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestRunSeed_InvalidDatabaseURL(t *testing.T) {
	isolateConfig(t)
	t.Setenv("DATABASE_URL", "invalid://not-a-valid-url")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{timeout: 30 * time.Second}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestRunSeed_MissingCatalogFile(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cfg := &seedConfig{
		file:    filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		timeout: 30 * time.Second,
	}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_INVALID")
}

func TestRunSeed_InvalidCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- this\n- is\n- a list\n"), 0o600))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	// Catalog validation runs before any database access.
	cfg := &seedConfig{file: path, timeout: 30 * time.Second}
	err := runSeed(cmd, nil, cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_INVALID")
}

func TestEnsurePlan(t *testing.T) {
	ctx := context.Background()
	entry := catalog.PlanEntry{Name: "Strength Basics", Description: "Core lifts"}

	t.Run("creates new plan", func(t *testing.T) {
		repo := &mockPlanRepo{}

		plan, created, err := ensurePlan(ctx, repo, entry)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "Strength Basics", plan.Name)
		assert.Equal(t, "Core lifts", plan.Description)
	})

	t.Run("returns existing plan on duplicate", func(t *testing.T) {
		existing, err := fitness.NewWorkoutPlan("Strength Basics", "Core lifts")
		require.NoError(t, err)

		repo := &mockPlanRepo{
			createFunc: func(_ context.Context, _ *fitness.WorkoutPlan) error {
				return fitness.ErrDuplicate
			},
			getByNameFunc: func(_ context.Context, name string) (*fitness.WorkoutPlan, error) {
				assert.Equal(t, "Strength Basics", name)
				return existing, nil
			},
		}

		plan, created, err := ensurePlan(ctx, repo, entry)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, plan.ID, "the stored plan should be returned")
	})

	t.Run("warns on description drift", func(t *testing.T) {
		logBuf := captureLogs(t)

		existing, err := fitness.NewWorkoutPlan("Strength Basics", "An older description")
		require.NoError(t, err)

		repo := &mockPlanRepo{
			createFunc: func(_ context.Context, _ *fitness.WorkoutPlan) error {
				return fitness.ErrDuplicate
			},
			getByNameFunc: func(_ context.Context, _ string) (*fitness.WorkoutPlan, error) {
				return existing, nil
			},
		}

		_, created, err := ensurePlan(ctx, repo, entry)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Contains(t, logBuf.String(), "Seed plan description mismatch")
	})

	t.Run("invalid plan name", func(t *testing.T) {
		repo := &mockPlanRepo{}

		_, _, err := ensurePlan(ctx, repo, catalog.PlanEntry{Name: "   "})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SEED_FAILED")
	})

	t.Run("create failure", func(t *testing.T) {
		repo := &mockPlanRepo{
			createFunc: func(_ context.Context, _ *fitness.WorkoutPlan) error {
				return fmt.Errorf("connection refused")
			},
		}

		_, _, err := ensurePlan(ctx, repo, entry)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SEED_FAILED")
	})

	t.Run("load existing failure", func(t *testing.T) {
		repo := &mockPlanRepo{
			createFunc: func(_ context.Context, _ *fitness.WorkoutPlan) error {
				return fitness.ErrDuplicate
			},
			getByNameFunc: func(_ context.Context, _ string) (*fitness.WorkoutPlan, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}

		_, _, err := ensurePlan(ctx, repo, entry)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SEED_FAILED")
	})
}

func TestSeedWorkouts(t *testing.T) {
	ctx := context.Background()

	plan, err := fitness.NewWorkoutPlan("Strength Basics", "Core lifts")
	require.NoError(t, err)

	entries := []catalog.WorkoutEntry{
		{Name: "Push-ups", TargetMuscle: "chest", DurationMinutes: 10, Calories: 50},
		{Name: "Squats", TargetMuscle: "legs", DurationMinutes: 15, Calories: 80},
	}

	t.Run("creates all new workouts", func(t *testing.T) {
		repo := &mockWorkoutRepo{}

		created, skipped, err := seedWorkouts(ctx, repo, plan, entries)
		require.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.Equal(t, 0, skipped)
		assert.Equal(t, []string{"Push-ups", "Squats"}, repo.createdNames)
	})

	t.Run("skips workouts that already exist", func(t *testing.T) {
		repo := &mockWorkoutRepo{
			listFunc: func(_ context.Context, _ ulid.ULID) ([]*fitness.Workout, error) {
				return []*fitness.Workout{
					{PlanID: plan.ID, Name: "Push-ups", TargetMuscle: "chest", DurationMinutes: 10, Calories: 50},
				}, nil
			},
		}

		created, skipped, err := seedWorkouts(ctx, repo, plan, entries)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, skipped)
		assert.Equal(t, []string{"Squats"}, repo.createdNames)
	})

	t.Run("warns when existing workout drifted", func(t *testing.T) {
		logBuf := captureLogs(t)

		repo := &mockWorkoutRepo{
			listFunc: func(_ context.Context, _ ulid.ULID) ([]*fitness.Workout, error) {
				return []*fitness.Workout{
					{PlanID: plan.ID, Name: "Push-ups", TargetMuscle: "chest", DurationMinutes: 10, Calories: 999},
				}, nil
			},
		}

		_, skipped, err := seedWorkouts(ctx, repo, plan, entries)
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Contains(t, logBuf.String(), "Seed workout attributes mismatch")
	})

	t.Run("tolerates duplicate insert race", func(t *testing.T) {
		repo := &mockWorkoutRepo{
			createFunc: func(_ context.Context, workout *fitness.Workout) error {
				if workout.Name == "Squats" {
					return fitness.ErrDuplicate
				}
				return nil
			},
		}

		created, skipped, err := seedWorkouts(ctx, repo, plan, entries)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, skipped)
	})

	t.Run("list failure", func(t *testing.T) {
		repo := &mockWorkoutRepo{
			listFunc: func(_ context.Context, _ ulid.ULID) ([]*fitness.Workout, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}

		_, _, err := seedWorkouts(ctx, repo, plan, entries)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SEED_FAILED")
	})

	t.Run("create failure", func(t *testing.T) {
		repo := &mockWorkoutRepo{
			createFunc: func(_ context.Context, _ *fitness.Workout) error {
				return fmt.Errorf("connection refused")
			},
		}

		created, _, err := seedWorkouts(ctx, repo, plan, entries)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SEED_FAILED")
		assert.Equal(t, 0, created)
	})
}

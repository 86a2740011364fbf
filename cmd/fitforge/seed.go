// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/fitforge/fitforge/internal/catalog"
	"github.com/fitforge/fitforge/internal/fitness"
	fitpostgres "github.com/fitforge/fitforge/internal/fitness/postgres"
	"github.com/fitforge/fitforge/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the workout catalog",
		Long: `Loads a workout catalog and creates its plans and workouts.
This command is idempotent - plans and workouts that already exist are
verified and kept rather than duplicated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "catalog YAML file (default: embedded catalog)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	data := catalog.DefaultYAML()
	source := "embedded catalog"
	if cfg.file != "" {
		source = cfg.file
		var err error
		data, err = os.ReadFile(cfg.file)
		if err != nil {
			return oops.Code("SEED_INVALID").With("file", cfg.file).Wrap(err)
		}
	}

	if err := catalog.ValidateSchema(data); err != nil {
		return oops.Code("SEED_INVALID").With("operation", "validate catalog").With("source", source).Wrap(err)
	}
	cat, err := catalog.ParseCatalog(data)
	if err != nil {
		return oops.Code("SEED_INVALID").With("operation", "parse catalog").With("source", source).Wrap(err)
	}

	databaseURL, err := getDatabaseURL()
	if err != nil {
		return err
	}

	// Add timeout to prevent indefinite hangs
	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	st, err := store.Connect(ctx, store.Config{URL: databaseURL})
	if err != nil {
		return err
	}
	defer st.Close()

	cmd.Println("Running migrations...")
	if err := st.Migrate(); err != nil {
		return err
	}

	planRepo := fitpostgres.NewWorkoutPlanRepository(st.Pool())
	workoutRepo := fitpostgres.NewWorkoutRepository(st.Pool())

	var plansCreated, workoutsCreated, skipped int
	for _, planEntry := range cat.Plans {
		plan, created, err := ensurePlan(ctx, planRepo, planEntry)
		if err != nil {
			return err
		}
		if created {
			plansCreated++
			cmd.Printf("Created plan: %s\n", plan.Name)
		} else {
			skipped++
		}

		wc, ws, err := seedWorkouts(ctx, workoutRepo, plan, planEntry.Workouts)
		if err != nil {
			return err
		}
		workoutsCreated += wc
		skipped += ws
	}

	cmd.Printf("Seeded %d plans and %d workouts (%d already present)\n", plansCreated, workoutsCreated, skipped)
	slog.Info("catalog seeded",
		"source", source,
		"plans_created", plansCreated,
		"workouts_created", workoutsCreated,
		"skipped", skipped,
	)

	cmd.Println("Catalog seeding complete!")
	return nil
}

// ensurePlan creates the plan or returns the existing one when the name is
// already taken. An existing plan with a different description is kept but
// logged so seed drift is visible.
func ensurePlan(ctx context.Context, repo fitness.WorkoutPlanRepository, entry catalog.PlanEntry) (*fitness.WorkoutPlan, bool, error) {
	plan, err := fitness.NewWorkoutPlan(entry.Name, entry.Description)
	if err != nil {
		return nil, false, oops.Code("SEED_FAILED").With("plan", entry.Name).Wrap(err)
	}

	if err := repo.Create(ctx, plan); err != nil {
		if !errors.Is(err, fitness.ErrDuplicate) {
			return nil, false, oops.Code("SEED_FAILED").With("operation", "create plan").With("plan", plan.Name).Wrap(err)
		}

		existing, getErr := repo.GetByName(ctx, plan.Name)
		if getErr != nil {
			return nil, false, oops.Code("SEED_FAILED").With("operation", "load existing plan").With("plan", plan.Name).Wrap(getErr)
		}
		if existing.Description != plan.Description {
			slog.Warn("Seed plan description mismatch",
				"plan", plan.Name,
				"expected_length", len(plan.Description),
				"actual_length", len(existing.Description))
		}
		return existing, false, nil
	}

	return plan, true, nil
}

// seedWorkouts creates the plan's workouts that don't exist yet. Existing
// workouts are verified against the catalog entry and logged on mismatch.
func seedWorkouts(ctx context.Context, repo fitness.WorkoutRepository, plan *fitness.WorkoutPlan, entries []catalog.WorkoutEntry) (created, skipped int, err error) {
	existing, err := repo.ListByPlan(ctx, plan.ID)
	if err != nil {
		return 0, 0, oops.Code("SEED_FAILED").With("operation", "list existing workouts").With("plan", plan.Name).Wrap(err)
	}
	byName := make(map[string]*fitness.Workout, len(existing))
	for _, w := range existing {
		byName[w.Name] = w
	}

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if prior, ok := byName[name]; ok {
			skipped++
			if prior.TargetMuscle != entry.TargetMuscle ||
				prior.DurationMinutes != entry.DurationMinutes ||
				prior.Calories != entry.Calories {
				slog.Warn("Seed workout attributes mismatch",
					"plan", plan.Name,
					"workout", name)
			}
			continue
		}

		workout, err := fitness.NewWorkout(plan.ID, fitness.WorkoutAttrs{
			Name:            entry.Name,
			TargetMuscle:    entry.TargetMuscle,
			DurationMinutes: entry.DurationMinutes,
			Description:     entry.Description,
			Calories:        entry.Calories,
		})
		if err != nil {
			return created, skipped, oops.Code("SEED_FAILED").With("plan", plan.Name).With("workout", entry.Name).Wrap(err)
		}

		if err := repo.Create(ctx, workout); err != nil {
			// A concurrent seed may have won the insert; treat it as present.
			if errors.Is(err, fitness.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, oops.Code("SEED_FAILED").With("operation", "create workout").With("plan", plan.Name).With("workout", name).Wrap(err)
		}
		created++
	}

	return created, skipped, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/fitforge/fitforge/internal/config"
	"github.com/fitforge/fitforge/internal/store"
)

// NewMigrateCmd creates the migrate command with its subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long: `Manage the PostgreSQL schema migrations.

The connection string is read from the configuration file (database.url)
or the DATABASE_URL environment variable.`,
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStatusCmd())
	cmd.AddCommand(newMigrateForceCmd())

	return cmd
}

// getDatabaseURL resolves the database connection string for the data
// commands, which need a connection but not the full serve configuration.
func getDatabaseURL() (string, error) {
	cfg, err := config.Load(config.LoadOptions{Path: configFile})
	if err != nil {
		return "", oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.Database.URL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("database.url is required (set it in the config file or via DATABASE_URL)")
	}
	return cfg.Database.URL, nil
}

// parseForceVersion parses the version argument for the force subcommand.
// Sscanf semantics apply: parsing stops at the first non-digit, so "3abc"
// parses as 3. Empty or non-numeric input is rejected.
func parseForceVersion(arg string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(arg, "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", arg).Wrapf(err, "version must be an integer")
	}
	return version, nil
}

// closeMigrator closes the migrator, logging rather than failing the
// command when cleanup goes wrong.
func closeMigrator(m *store.Migrator) {
	if err := m.Close(); err != nil {
		slog.Warn("error closing migrator", "error", err)
	}
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := getDatabaseURL()
			if err != nil {
				return err
			}

			migrator, err := store.NewMigrator(url)
			if err != nil {
				return err
			}
			defer closeMigrator(migrator)

			cmd.Println("Running migrations...")
			if err := migrator.Up(); err != nil {
				return err
			}

			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Long: `Roll back all migrations to version 0.

WARNING: this drops every FitForge table and all data in it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := getDatabaseURL()
			if err != nil {
				return err
			}

			migrator, err := store.NewMigrator(url)
			if err != nil {
				return err
			}
			defer closeMigrator(migrator)

			cmd.Println("Rolling back all migrations...")
			if err := migrator.Down(); err != nil {
				return err
			}

			cmd.Println("All migrations rolled back")
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := getDatabaseURL()
			if err != nil {
				return err
			}

			migrator, err := store.NewMigrator(url)
			if err != nil {
				return err
			}
			defer closeMigrator(migrator)

			version, dirty, err := migrator.Version()
			if err != nil {
				return err
			}

			if version == 0 {
				cmd.Println("No migrations applied")
			} else {
				cmd.Printf("Current version: %s\n", migrationLabel(version))
			}
			if dirty {
				cmd.Println("WARNING: database is dirty; fix it manually, then run 'migrate force'")
			}

			pending, err := migrator.PendingMigrations()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				cmd.Println("Database is up to date")
				return nil
			}

			cmd.Printf("Pending migrations (%d):\n", len(pending))
			for _, v := range pending {
				cmd.Printf("  %s\n", migrationLabel(v))
			}
			return nil
		},
	}
}

func newMigrateForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long: `Set the recorded migration version without running any migrations.

Use only to recover from a dirty state after fixing the database manually.
Forcing a wrong version makes later runs skip or re-apply migrations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}

			url, err := getDatabaseURL()
			if err != nil {
				return err
			}

			migrator, err := store.NewMigrator(url)
			if err != nil {
				return err
			}
			defer closeMigrator(migrator)

			if err := migrator.Force(version); err != nil {
				return err
			}

			cmd.Printf("Migration version forced to %d\n", version)
			return nil
		},
	}
}

// migrationLabel renders a version as its migration name, falling back to
// the bare number for versions the embedded set doesn't know.
func migrationLabel(version uint) string {
	name, err := store.MigrationName(version)
	if err != nil || name == "" {
		return fmt.Sprintf("%06d", version)
	}
	return name
}

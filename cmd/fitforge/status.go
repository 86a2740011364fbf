package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitforge/fitforge/internal/store"
)

// Default timeout for status checks.
const defaultStatusTimeout = 10 * time.Second

// ComponentStatus holds the status information for one checked component.
type ComponentStatus struct {
	Component string `json:"component"`
	OK        bool   `json:"ok"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand with all flags configured.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		Long:  `Check that the database accepts connections and report the schema migration state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	// Register flags
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultStatusTimeout, "timeout for status checks")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	databaseURL, err := getDatabaseURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	statuses := []ComponentStatus{
		queryDatabaseStatus(ctx, databaseURL),
		queryMigrationStatus(databaseURL),
	}

	// Format and output the results
	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(statuses)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
	} else {
		output = formatStatusTable(statuses)
	}

	cmd.Println(output)
	return nil
}

// queryDatabaseStatus checks that the database accepts connections.
func queryDatabaseStatus(ctx context.Context, databaseURL string) ComponentStatus {
	status := ComponentStatus{Component: "database"}

	st, err := store.Connect(ctx, store.Config{URL: databaseURL})
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer st.Close()

	status.OK = true
	status.Detail = "connected"
	return status
}

// queryMigrationStatus reports the current schema version and pending count.
// A dirty schema is reported as not OK since it needs manual intervention.
func queryMigrationStatus(databaseURL string) ComponentStatus {
	status := ComponentStatus{Component: "migrations"}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to create migrator: %v", err)
		return status
	}
	defer closeMigrator(migrator)

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = fmt.Sprintf("failed to read version: %v", err)
		return status
	}

	pending, err := migrator.PendingMigrations()
	if err != nil {
		status.Error = fmt.Sprintf("failed to list pending migrations: %v", err)
		return status
	}

	status.OK = !dirty
	status.Detail = formatMigrationDetail(version, dirty, len(pending))
	return status
}

// formatMigrationDetail renders the migration state as one line.
func formatMigrationDetail(version uint, dirty bool, pending int) string {
	detail := "no migrations applied"
	if version != 0 {
		detail = "version " + migrationLabel(version)
	}
	if dirty {
		detail += " (dirty)"
	}
	if pending > 0 {
		detail += fmt.Sprintf(", %d pending", pending)
	} else {
		detail += ", up to date"
	}
	return detail
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(statuses []ComponentStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	// Header
	_, _ = fmt.Fprintln(w, "COMPONENT\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "---------\t------\t------")

	for _, status := range statuses {
		state := "ok"
		detail := status.Detail
		if !status.OK {
			state = "error"
			if status.Error != "" {
				detail = status.Error
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", status.Component, state, detail)
	}

	_ = w.Flush()
	return string(buf)
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(statuses []ComponentStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}

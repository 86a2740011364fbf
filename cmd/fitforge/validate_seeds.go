// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitforge/fitforge/internal/catalog"
)

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seeds [files...]",
		Short: "Validate workout catalogs without starting the server",
		Long: `Validates workout catalog YAML against the catalog schema.
With no arguments, the embedded default catalog is checked.
Does NOT start the server or require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch catalog errors early:
  fitforge validate-seeds seeds/catalog.yaml`,
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidateSeeds(args)
		},
	}
}

func runValidateSeeds(args []string) error {
	type source struct {
		name string
		data []byte
	}

	var sources []source
	if len(args) == 0 {
		sources = append(sources, source{name: "embedded catalog", data: catalog.DefaultYAML()})
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		sources = append(sources, source{name: path, data: data})
	}

	var failures []string
	for _, src := range sources {
		if err := validateCatalogData(src.data); err != nil {
			failures = append(failures, fmt.Sprintf("  %s: %v", src.name, err))
		}
	}

	if len(failures) > 0 {
		for _, f := range failures {
			slog.Error("catalog validation failed", "detail", f)
		}
		return fmt.Errorf("validation failed: %d of %d catalogs invalid", len(failures), len(sources))
	}

	slog.Info("all catalogs valid", "count", len(sources))
	return nil
}

// validateCatalogData runs both the schema check and the parse so structural
// and semantic problems are caught in one pass.
func validateCatalogData(data []byte) error {
	if err := catalog.ValidateSchema(data); err != nil {
		return err
	}
	_, err := catalog.ParseCatalog(data)
	return err
}

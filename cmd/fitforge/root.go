package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the FitForge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fitforge",
		Short: "FitForge - A fitness tracking backend",
		Long: `FitForge is a fitness tracking backend with user registration,
JWT-based authentication, coach enrollment, and workout plan tracking.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewValidateSeedsCmd())

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/mkoesel/provflow/cmd/provflow/handlers"
)

// Plan returns the command for previewing a deployment run.
//
// This command loads and validates the target descriptor and prints the
// ordered step list with each step's dependency checks, without executing
// anything.
func Plan() *cobra.Command {
	var configPath string
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the ordered step list without executing it",
		Long: `Show what 'provflow apply' would do, without touching the target.

The plan lists every step in execution order together with the dependency
checks that gate it, plus the resolved target endpoints.

Examples:
  # Preview using provflow.yaml in current directory
  provflow plan

  # Preview with a flag override in effect
  provflow plan --db-host 10.0.0.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: provflow.yaml)")
	cmd.Flags().StringVar(&opts.DBHost, "db-host", "", "Override the database host")
	cmd.Flags().IntVar(&opts.DBPort, "db-port", 0, "Override the database port")
	cmd.Flags().IntVar(&opts.AppPort, "app-port", 0, "Override the application port")
	cmd.Flags().StringVar(&opts.SeedFile, "seed-file", "", "Override the seed SQL script path")
	cmd.Flags().BoolVar(&opts.Unguarded, "unguarded", false, "Disable existence guards on non-idempotent steps")

	return cmd
}

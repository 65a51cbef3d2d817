package commands

import (
	"github.com/spf13/cobra"

	"github.com/mkoesel/provflow/cmd/provflow/handlers"
)

// Apply returns the command for running the deployment sequence.
//
// This command loads the target descriptor, verifies client tools, and runs
// every provisioning step in order. The run halts on the first failing step
// and the process exits non-zero naming it.
//
// Optional flags:
//
//	--config, -c: Path to target configuration YAML file (default: auto-detect provflow.yaml)
//	--db-host:    Override the database host
//	--db-port:    Override the database port
//	--app-port:   Override the application port
//	--seed-file:  Override the seed SQL script path
//	--unguarded:  Disable existence guards on non-idempotent steps
//	--tui:        Render run progress as a live terminal UI
func Apply() *cobra.Command {
	var configPath string
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run the deployment sequence against the target",
		Long: `Run the full deployment sequence against the target host.

Steps run strictly in order with at most one step in flight. Before each
step its dependency checks are polled until satisfied; a run halts on the
first failure and already completed steps are never rolled back.

If no config file is specified, it looks for provflow.yaml in the current
directory. Use 'provflow init' to create a configuration file.

Examples:
  # Deploy using provflow.yaml in current directory
  provflow apply

  # Deploy against a different database host
  provflow apply --db-host 10.0.0.5

  # Reproduce a single-shot run that fails on pre-existing resources
  provflow apply --unguarded`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: provflow.yaml)")
	cmd.Flags().StringVar(&opts.DBHost, "db-host", "", "Override the database host")
	cmd.Flags().IntVar(&opts.DBPort, "db-port", 0, "Override the database port")
	cmd.Flags().IntVar(&opts.AppPort, "app-port", 0, "Override the application port")
	cmd.Flags().StringVar(&opts.SeedFile, "seed-file", "", "Override the seed SQL script path")
	cmd.Flags().BoolVar(&opts.Unguarded, "unguarded", false, "Disable existence guards on non-idempotent steps")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Render run progress as a live terminal UI")

	return cmd
}

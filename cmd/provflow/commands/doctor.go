package commands

import (
	"github.com/spf13/cobra"

	"github.com/mkoesel/provflow/cmd/provflow/handlers"
)

// Doctor returns the command for diagnosing the deployment setup.
//
// This command validates the configuration, checks local client tools, and
// probes database reachability before anything is deployed.
//
// Optional flags:
//
//	--config, -c: Path to target configuration YAML file (default: auto-detect provflow.yaml)
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, client tools, and database reachability",
		Long: `Diagnose the deployment setup before running it.

Checks performed:
  - Configuration file parses and validates
  - Client tools (git, java, mvn) are on PATH
  - Database endpoint accepts TCP connections

Examples:
  # Diagnose the current setup
  provflow doctor

  # Get the report in JSON format
  provflow doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: provflow.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

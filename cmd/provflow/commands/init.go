package commands

import (
	"github.com/spf13/cobra"

	"github.com/mkoesel/provflow/cmd/provflow/handlers"
)

// Init returns the command for creating a starter configuration file.
func Init() *cobra.Command {
	var outputPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter provflow.yaml",
		Long: `Create a starter configuration file with commented defaults.

The generated file describes a local single-host deployment of the library
application. Edit it to point at a remote host or adjust ports, credentials,
and the seed script.

Examples:
  # Write provflow.yaml in the current directory
  provflow init

  # Write to a different path, overwriting if present
  provflow init -o staging.yaml --force`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", handlers.DefaultInitPath, "Path of the configuration file to write")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite the file if it already exists")

	return cmd
}

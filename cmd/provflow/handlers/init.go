package handlers

import (
	"fmt"
	"os"

	"github.com/mkoesel/provflow/internal/config"
)

// DefaultInitPath is where init writes the starter configuration.
const DefaultInitPath = config.DefaultConfigFile

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// writeFile writes data to a file.
	writeFile = os.WriteFile
)

const starterConfig = `# provflow target descriptor.
# Defaults below describe a local single-host deployment of the library app.

name: library

# Where steps execute: "local" runs commands on this machine,
# "ssh" runs them on a remote host.
runner: local

# Remote target, only used when runner is ssh.
# ssh:
#   host: 203.0.113.10
#   port: 22
#   user: deploy
#   key_file: ~/.ssh/id_ed25519

database:
  host: 127.0.0.1
  port: 3306
  name: library
  user: library_user
  password: library_pass
  # bind_address 0.0.0.0 lets the app tier reach the database over the network.
  bind_address: 0.0.0.0
  seed_file: seed.sql

app:
  port: 5000
  repo_url: https://github.com/example/library-app.git
  artifact: target/library-app.jar

# Existence guards make re-runs safe. Set to false (or pass --unguarded)
# to surface duplicate-resource errors instead of skipping.
guard: true
`

// Init writes a starter configuration file with commented defaults.
func Init(outputPath string, force bool) error {
	if outputPath == "" {
		outputPath = DefaultInitPath
	}

	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists, pass --force to overwrite", outputPath)
	}

	if err := writeFile(outputPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath)
	return nil
}

// printInitSuccess prints the next steps after writing the starter file.
func printInitSuccess(outputPath string) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s and point it at your target host\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Check the setup:")
	fmt.Println("     provflow doctor")
	fmt.Println()
	fmt.Println("  3. Deploy:")
	fmt.Println("     provflow apply")
	fmt.Println()
}

// Package main is the entry point for the provflow CLI.
//
// provflow deploys a two-tier application (MySQL database plus a Java
// service) onto a local or remote host through an ordered sequence of
// provisioning steps. Each step waits for its dependencies before running
// and a run halts on the first failure.
//
// Commands: init, plan, apply, doctor, version, completion.
//
// For detailed usage information, run:
//
//	provflow --help
package main

import (
	"fmt"
	"os"

	"github.com/mkoesel/provflow/cmd/provflow/commands"
	"github.com/mkoesel/provflow/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if step := provisioning.FailingStep(err); step != "" {
			fmt.Fprintf(os.Stderr, "failing step: %s\n", step)
		}
		os.Exit(1)
	}
}

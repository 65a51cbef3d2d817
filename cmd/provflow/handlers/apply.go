// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/platform/runner"
	"github.com/mkoesel/provflow/internal/provisioning"
	"github.com/mkoesel/provflow/internal/provisioning/steps"
	"github.com/mkoesel/provflow/internal/ui/tui"
	"github.com/mkoesel/provflow/internal/util/prerequisites"
)

// Options carries flag overrides that are folded into the target descriptor
// before a run.
type Options struct {
	DBHost    string
	DBPort    int
	AppPort   int
	SeedFile  string
	Unguarded bool
	TUI       bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// findConfigFile locates the default config file.
	findConfigFile = config.FindConfigFile

	// checkDefaultPrereqs runs client tool checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// readFile reads a file from disk.
	readFile = os.ReadFile

	// newLocalRunner creates a runner for the local host.
	newLocalRunner = func() (runner.Runner, error) {
		return runner.NewLocal(), nil
	}

	// newSSHRunner creates a runner for a remote host.
	newSSHRunner = func(cfg *runner.SSHConfig) (runner.Runner, error) {
		return runner.NewSSH(cfg)
	}

	// runSequence executes the step list against a run context.
	runSequence = func(ctx *provisioning.Context, stepList []provisioning.Step) (*provisioning.RunResult, error) {
		return provisioning.NewSequencer(stepList...).Run(ctx)
	}

	// runTUI drives the terminal UI for a run.
	runTUI = tui.RunApply

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// Apply runs the full deployment sequence against the configured target.
//
// The workflow:
//  1. Loads the target descriptor and folds in flag overrides
//  2. Verifies client tools when steps run on the local host
//  3. Builds the command runner (local shell or SSH)
//  4. Runs every provisioning step in declared order, halting on the
//     first failure; completed steps are never rolled back
//
// With opts.TUI set and stdout attached to a terminal, progress renders as a
// live step list; otherwise structured log lines are emitted and a summary is
// printed at the end.
func Apply(ctx context.Context, configPath string, opts Options) error {
	cfg, err := loadTarget(configPath, opts)
	if err != nil {
		return err
	}

	if err := checkPrerequisites(cfg); err != nil {
		return err
	}

	log.Printf("Deploying %s to %s", cfg.Name, targetHost(cfg))

	r, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	registry := steps.BuildRegistry(cfg, r)
	stepList := steps.Default()

	if opts.TUI && isTerminal() {
		return runTUI(ctx, cfg.Name, r.Host(), stepNames(stepList), func(runCtx context.Context, observer provisioning.Observer) error {
			seqCtx := provisioning.NewContext(runCtx, cfg, r, registry)
			seqCtx.Observer = observer
			_, err := runSequence(seqCtx, stepList)
			return err
		})
	}

	runCtx := provisioning.NewContext(ctx, cfg, r, registry)
	result, err := runSequence(runCtx, stepList)
	if result != nil {
		fmt.Print(tui.RenderSummary(result))
	}
	if err != nil {
		return err
	}

	printApplySuccess(cfg, r.Host())
	return nil
}

// loadTarget loads the target descriptor, folds in flag overrides, and
// re-validates the merged result. The returned config is not mutated after
// this point.
func loadTarget(configPath string, opts Options) (*config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if opts.DBHost != "" {
		cfg.Database.Host = opts.DBHost
	}
	if opts.DBPort != 0 {
		cfg.Database.Port = opts.DBPort
	}
	if opts.AppPort != 0 {
		cfg.App.Port = opts.AppPort
	}
	if opts.SeedFile != "" {
		cfg.Database.SeedFile = opts.SeedFile
	}
	if opts.Unguarded {
		unguarded := false
		cfg.Guard = &unguarded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig loads and validates the target configuration.
// If configPath is empty, it looks for provflow.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'provflow init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildRunner creates the command runner for the configured target.
func buildRunner(cfg *config.Config) (runner.Runner, error) {
	if cfg.Runner != "ssh" {
		return newLocalRunner()
	}

	key, err := readFile(cfg.SSH.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key %s: %w", cfg.SSH.KeyFile, err)
	}

	return newSSHRunner(&runner.SSHConfig{
		Host:       cfg.SSH.Host,
		Port:       cfg.SSH.Port,
		User:       cfg.SSH.User,
		PrivateKey: key,
	})
}

// checkPrerequisites verifies required client tools are available.
//
// Only local runs are checked: with an SSH runner the build and launch tools
// live on the remote host and the per-step cmd: checks verify them there.
// Enabled by default, can be disabled via prerequisites_check_enabled: false.
func checkPrerequisites(cfg *config.Config) error {
	if cfg.Runner == "ssh" || !cfg.CheckPrerequisites() {
		return nil
	}

	log.Println("Checking client tools...")
	results := checkDefaultPrereqs()

	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("  Found %s (%s)", r.Tool.Name, version)
		}
	}

	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}

// targetHost names where steps will execute before the runner exists.
func targetHost(cfg *config.Config) string {
	if cfg.Runner == "ssh" {
		return cfg.SSH.Host
	}
	return "localhost"
}

// stepNames returns the declared names of a step list, in order.
func stepNames(stepList []provisioning.Step) []string {
	names := make([]string, 0, len(stepList))
	for _, step := range stepList {
		names = append(names, step.Name())
	}
	return names
}

// printApplySuccess outputs completion message and the reachable endpoints.
func printApplySuccess(cfg *config.Config, host string) {
	fmt.Printf("\nDeployment complete!\n")
	fmt.Printf("Database: %s:%d (schema %s)\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	fmt.Printf("Application: http://%s:%d\n", host, cfg.App.Port)
}

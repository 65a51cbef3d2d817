package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/provisioning"
	"github.com/mkoesel/provflow/internal/provisioning/steps"
)

// Plan prints the ordered step list that Apply would execute, without
// touching the target. Flag overrides are folded in first so the preview
// matches what a subsequent apply with the same flags would do.
func Plan(_ context.Context, configPath string, opts Options) error {
	cfg, err := loadTarget(configPath, opts)
	if err != nil {
		return err
	}

	fmt.Print(renderPlan(cfg, steps.Default()))
	return nil
}

// renderPlan formats the run preview for a target descriptor.
func renderPlan(cfg *config.Config, stepList []provisioning.Step) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Deployment plan for %s\n", cfg.Name)
	fmt.Fprintf(&b, "  target:   %s (%s runner)\n", targetHost(cfg), cfg.Runner)
	fmt.Fprintf(&b, "  database: %s:%d schema=%s bind=%s\n",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, cfg.Database.BindAddress)
	fmt.Fprintf(&b, "  app:      port %d, datasource %s\n", cfg.App.Port, cfg.DatasourceURL())

	guardNote := "guarded (safe to re-run)"
	if !cfg.Guarded() {
		guardNote = "unguarded (fails on pre-existing resources)"
	}
	fmt.Fprintf(&b, "  mode:     %s\n", guardNote)

	b.WriteString("\nSteps in execution order:\n")
	for i, step := range stepList {
		fmt.Fprintf(&b, "  %d. %s", i+1, step.Name())
		if checks := step.Checks(); len(checks) > 0 {
			fmt.Fprintf(&b, "  (waits for %s)", strings.Join(checks, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRun 'provflow apply' to execute.\n")
	return b.String()
}

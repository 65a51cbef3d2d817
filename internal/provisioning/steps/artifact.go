package steps

import (
	"fmt"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// BuildArtifact clones or updates the application repository and builds the
// jar. A rebuild overwrites the previous artifact, so the step is
// idempotent.
type BuildArtifact struct{}

// Name implements provisioning.Step.
func (s *BuildArtifact) Name() string { return "build-artifact" }

// Checks implements provisioning.Step.
func (s *BuildArtifact) Checks() []string { return []string{"cmd:git", "cmd:mvn"} }

// Run implements provisioning.Step.
func (s *BuildArtifact) Run(ctx *provisioning.Context) error {
	app := ctx.Target.App
	if app.RepoURL == "" {
		return provisioning.ConfigError(s.Name(), "app.repo_url is not set")
	}
	if app.SourceDir == "" {
		return provisioning.ConfigError(s.Name(), "app.source_dir is not set")
	}

	clone := fmt.Sprintf(
		"if [ -d %[1]q/.git ]; then git -C %[1]q pull --ff-only; else git clone %[2]q %[1]q; fi",
		app.SourceDir, app.RepoURL,
	)

	ctx.Observer.Printf("[%s] syncing %s into %s", s.Name(), app.RepoURL, app.SourceDir)
	if _, err := ctx.Runner.Run(ctx, clone); err != nil {
		return fmt.Errorf("failed to sync repository: %w", err)
	}

	build := fmt.Sprintf("cd %q && mvn -q -DskipTests package", app.SourceDir)

	ctx.Observer.Printf("[%s] building artifact", s.Name())
	if _, err := ctx.Runner.Run(ctx, build); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	return nil
}

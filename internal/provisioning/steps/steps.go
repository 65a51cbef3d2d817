package steps

import (
	"github.com/mkoesel/provflow/internal/checks"
	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/platform/runner"
	"github.com/mkoesel/provflow/internal/provisioning"
)

// Default returns the full deployment sequence in its required order:
// database tier first, then the application tier that depends on it.
func Default() []provisioning.Step {
	return []provisioning.Step{
		&InstallPackages{},
		&PatchConfigValue{},
		&RestartService{},
		&CreateDatabaseAndUser{},
		&LoadSeedData{},
		&BuildArtifact{},
		&LaunchProcess{},
	}
}

// BuildRegistry wires the dependency checks the default sequence names,
// resolved against the target descriptor.
func BuildRegistry(cfg *config.Config, r runner.Runner) *checks.Registry {
	reg := checks.NewRegistry()
	reg.Register(checks.NewTCPCheck("db", cfg.Database.Host, cfg.Database.Port))
	reg.Register(checks.NewFileCheck("db-config", cfg.Database.ConfigFile, r))
	reg.Register(checks.NewFileCheck("artifact", cfg.ArtifactPath(), r))
	reg.Register(checks.NewCommandCheck("git", r))
	reg.Register(checks.NewCommandCheck("mvn", r))
	return reg
}

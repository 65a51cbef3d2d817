package steps

import (
	"fmt"
	"strings"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// InstallPackages installs the OS packages both tiers need. apt-get is a
// no-op for packages already present, so the step is idempotent.
type InstallPackages struct{}

// Name implements provisioning.Step.
func (s *InstallPackages) Name() string { return "install-packages" }

// Checks implements provisioning.Step.
func (s *InstallPackages) Checks() []string { return nil }

// Run implements provisioning.Step.
func (s *InstallPackages) Run(ctx *provisioning.Context) error {
	pkgs := ctx.Target.Packages
	if len(pkgs) == 0 {
		return provisioning.ConfigError(s.Name(), "no packages configured")
	}

	cmd := fmt.Sprintf(
		"sudo DEBIAN_FRONTEND=noninteractive apt-get update -q && sudo DEBIAN_FRONTEND=noninteractive apt-get install -y -q %s",
		strings.Join(pkgs, " "),
	)

	ctx.Observer.Printf("[%s] installing: %s", s.Name(), strings.Join(pkgs, ", "))
	_, err := ctx.Runner.Run(ctx, cmd)
	return err
}

// PatchConfigValue points the database's bind address at the configured
// value so the application tier can reach it. The replace is a regex edit,
// safe to re-run.
type PatchConfigValue struct{}

// Name implements provisioning.Step.
func (s *PatchConfigValue) Name() string { return "patch-config-value" }

// Checks implements provisioning.Step.
func (s *PatchConfigValue) Checks() []string { return []string{"file:db-config"} }

// Run implements provisioning.Step.
func (s *PatchConfigValue) Run(ctx *provisioning.Context) error {
	db := ctx.Target.Database
	if db.ConfigFile == "" {
		return provisioning.ConfigError(s.Name(), "database.config_file is not set")
	}
	if db.BindAddress == "" {
		return provisioning.ConfigError(s.Name(), "database.bind_address is not set")
	}

	cmd := fmt.Sprintf(
		`sudo sed -ri 's/^[[:space:]]*bind-address[[:space:]]*=.*/bind-address = %s/' %q`,
		db.BindAddress, db.ConfigFile,
	)

	ctx.Observer.Printf("[%s] setting bind-address = %s in %s", s.Name(), db.BindAddress, db.ConfigFile)
	_, err := ctx.Runner.Run(ctx, cmd)
	return err
}

// RestartService restarts and enables the database service so the patched
// configuration takes effect. systemctl restart is idempotent.
type RestartService struct{}

// Name implements provisioning.Step.
func (s *RestartService) Name() string { return "restart-service" }

// Checks implements provisioning.Step.
func (s *RestartService) Checks() []string { return nil }

// Run implements provisioning.Step.
func (s *RestartService) Run(ctx *provisioning.Context) error {
	service := ctx.Target.Database.Service
	if service == "" {
		return provisioning.ConfigError(s.Name(), "database.service is not set")
	}

	cmd := fmt.Sprintf("sudo systemctl restart %q && sudo systemctl enable %q", service, service)

	ctx.Observer.Printf("[%s] restarting %s", s.Name(), service)
	_, err := ctx.Runner.Run(ctx, cmd)
	return err
}

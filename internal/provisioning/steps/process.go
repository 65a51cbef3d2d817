package steps

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkoesel/provflow/internal/provisioning"
	"github.com/mkoesel/provflow/internal/util/netutil"
)

// appReadyTimeout bounds the post-launch wait for the application port.
const appReadyTimeout = 90 * time.Second

// LaunchProcess starts the application jar against the database tier and
// waits for it to serve its port.
//
// Launching twice binds the port twice, so the step is not idempotent.
// Guarded mode skips the launch when the application port already serves;
// unguarded mode launches unconditionally, matching the original scripts.
type LaunchProcess struct{}

// Name implements provisioning.Step.
func (s *LaunchProcess) Name() string { return "launch-process" }

// Checks implements provisioning.Step.
func (s *LaunchProcess) Checks() []string { return []string{"file:artifact", "tcp:db"} }

// Run implements provisioning.Step.
func (s *LaunchProcess) Run(ctx *provisioning.Context) error {
	app := ctx.Target.App
	if app.Artifact == "" {
		return provisioning.ConfigError(s.Name(), "app.artifact is not set")
	}

	host := ctx.Runner.Host()
	if host == "localhost" {
		host = "127.0.0.1"
	}

	if ctx.Target.Guarded() {
		if err := netutil.ProbeTCP(ctx, host, app.Port); err == nil {
			ctx.Observer.Printf("[%s] port %d already serving, skipping launch", s.Name(), app.Port)
			return nil
		}
	}

	cmd := s.launchCommand(ctx)
	ctx.Observer.Printf("[%s] launching %s on port %d", s.Name(), ctx.Target.ArtifactPath(), app.Port)
	if _, err := ctx.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to launch application: %w", err)
	}

	// Verify the app actually came up before declaring success.
	if err := netutil.WaitForPort(ctx, host, app.Port, ctx.Timeouts.CheckInterval, appReadyTimeout); err != nil {
		return fmt.Errorf("application did not start serving: %w", err)
	}

	return nil
}

// launchCommand assembles the java invocation. Schema handling stays in
// validation mode; the application must never migrate the schema itself.
func (s *LaunchProcess) launchCommand(ctx *provisioning.Context) string {
	target := ctx.Target
	app := target.App
	db := target.Database

	args := []string{
		fmt.Sprintf("--server.port=%d", app.Port),
		fmt.Sprintf("--spring.datasource.url=%q", target.DatasourceURL()),
		fmt.Sprintf("--spring.datasource.username=%q", db.User),
		fmt.Sprintf("--spring.datasource.password=%q", db.Password),
		"--spring.jpa.hibernate.ddl-auto=validate",
	}

	logFile := fmt.Sprintf("/tmp/%s.log", target.Name)

	return fmt.Sprintf("nohup java %s -jar %q %s > %q 2>&1 &",
		app.JavaOpts, target.ArtifactPath(), strings.Join(args, " "), logFile)
}

// Package runner abstracts command execution on the deployment target.
//
// Steps describe their effects as shell commands and hand them to a Runner,
// which executes them either on the local host or on a remote host over SSH.
// This keeps the step library identical across both deployment modes.
package runner

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a shell command on the deployment target and returns its
// combined output.
type Runner interface {
	// Run executes the command and returns combined stdout+stderr.
	Run(ctx context.Context, command string) (string, error)

	// Host returns the address commands run against, for logging.
	Host() string
}

// Local runs commands on the machine provflow itself runs on.
type Local struct{}

// NewLocal creates a runner that executes commands via the local shell.
func NewLocal() *Local {
	return &Local{}
}

// Run implements Runner.
func (l *Local) Run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) // #nosec G204

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("command failed: %w\nCommand: %s\nOutput: %s",
			err, command, string(output))
	}

	return string(output), nil
}

// Host implements Runner.
func (l *Local) Host() string {
	return "localhost"
}

package checks

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkoesel/provflow/internal/platform/runner"
	"github.com/mkoesel/provflow/internal/util/netutil"
)

// TCPCheck probes TCP reachability of a host:port pair.
//
// Connection refused and dial timeouts report NotYet (the service may still
// be starting); name resolution failures report Errored, since polling a
// name that does not resolve cannot succeed.
type TCPCheck struct {
	name string
	host string
	port int
}

// NewTCPCheck creates a reachability check named "tcp:<name>".
func NewTCPCheck(name, host string, port int) *TCPCheck {
	return &TCPCheck{name: "tcp:" + name, host: host, port: port}
}

// Name implements Check.
func (c *TCPCheck) Name() string { return c.name }

// Probe implements Check.
func (c *TCPCheck) Probe(ctx context.Context) (Status, error) {
	err := netutil.ProbeTCP(ctx, c.host, c.port)
	if err == nil {
		return Satisfied, nil
	}
	if errors.Is(err, netutil.ErrResolve) {
		return Errored, err
	}
	return NotYet, err
}

// FileCheck probes for the existence of a path on the deployment target.
// It runs through the target's Runner so it works for both local and
// remote deployments.
type FileCheck struct {
	name   string
	path   string
	runner runner.Runner
}

// NewFileCheck creates an existence check named "file:<name>".
func NewFileCheck(name, path string, r runner.Runner) *FileCheck {
	return &FileCheck{name: "file:" + name, path: path, runner: r}
}

// Name implements Check.
func (c *FileCheck) Name() string { return c.name }

// Probe implements Check.
func (c *FileCheck) Probe(ctx context.Context) (Status, error) {
	_, err := c.runner.Run(ctx, fmt.Sprintf("test -e %q", c.path))
	if err != nil {
		return NotYet, fmt.Errorf("%s does not exist", c.path)
	}
	return Satisfied, nil
}

// CommandCheck probes for a tool on the target's PATH. A missing tool
// reports Errored: polling will not install it.
type CommandCheck struct {
	name   string
	tool   string
	runner runner.Runner
}

// NewCommandCheck creates a tool presence check named "cmd:<tool>".
func NewCommandCheck(tool string, r runner.Runner) *CommandCheck {
	return &CommandCheck{name: "cmd:" + tool, tool: tool, runner: r}
}

// Name implements Check.
func (c *CommandCheck) Name() string { return c.name }

// Probe implements Check.
func (c *CommandCheck) Probe(ctx context.Context) (Status, error) {
	_, err := c.runner.Run(ctx, fmt.Sprintf("command -v %q", c.tool))
	if err != nil {
		return Errored, fmt.Errorf("%s not found on target", c.tool)
	}
	return Satisfied, nil
}

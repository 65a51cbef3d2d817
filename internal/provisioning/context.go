package provisioning

import (
	"context"

	"github.com/mkoesel/provflow/internal/checks"
	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/platform/runner"
)

// Context wraps all dependencies a step needs while running.
//
// The target descriptor is read-only; the only state mutated during a run is
// the Result, which the sequencer appends to as steps finish.
type Context struct {
	context.Context
	Target   *config.Config
	Runner   runner.Runner
	Checks   *checks.Registry
	Observer Observer
	Timeouts *config.Timeouts
	Result   *RunResult
}

// NewContext creates a provisioning context for one run.
func NewContext(ctx context.Context, cfg *config.Config, r runner.Runner, reg *checks.Registry) *Context {
	return &Context{
		Context:  ctx,
		Target:   cfg,
		Runner:   r,
		Checks:   reg,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
		Result:   NewRunResult(),
	}
}

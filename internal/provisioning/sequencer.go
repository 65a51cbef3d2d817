package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/mkoesel/provflow/internal/checks"
	"github.com/mkoesel/provflow/internal/config"
)

// Sequencer executes steps strictly in declared order, halting on the first
// failure. At most one step is in flight at a time; deployment correctness
// depends on ordering (the database must be seeded before the app starts).
type Sequencer struct {
	Steps []Step
}

// NewSequencer creates a sequencer over an ordered step list.
func NewSequencer(steps ...Step) *Sequencer {
	return &Sequencer{Steps: steps}
}

// Run executes every step in order. The returned RunResult always has one
// record per step: success, the single failure, and skipped entries for
// steps after the failure. The error identifies the failing step and kind.
//
// Partially applied steps are left as-is on failure or interrupt; there is
// no rollback.
func (s *Sequencer) Run(ctx *Context) (*RunResult, error) {
	result := ctx.Result
	if result == nil {
		result = NewRunResult()
		ctx.Result = result
	}

	if len(s.Steps) == 0 {
		return result, ConfigError("sequencer", "no steps to run")
	}

	start := time.Now()
	ctx.Observer.Printf("Starting run with %d steps...", len(s.Steps))

	var runErr error
	for i, step := range s.Steps {
		if runErr != nil {
			LogStepSkipped(ctx.Observer, step.Name())
			result.Add(Record{Step: step.Name(), Outcome: OutcomeSkipped})
			continue
		}

		ctx.Observer.Printf("[%s] step %d/%d", step.Name(), i+1, len(s.Steps))
		LogStepStart(ctx.Observer, step.Name())
		stepStart := time.Now()

		err := s.runStep(ctx, step)
		duration := time.Since(stepStart)

		if err != nil {
			LogStepFailed(ctx.Observer, step.Name(), err)
			result.Add(Record{Step: step.Name(), Outcome: OutcomeFailed, Duration: duration, Err: err})
			runErr = err
			continue
		}

		LogStepComplete(ctx.Observer, step.Name(), duration)
		result.Add(Record{Step: step.Name(), Outcome: OutcomeSuccess, Duration: duration})
	}

	if runErr != nil {
		return result, runErr
	}

	ctx.Observer.Printf("Run completed in %v", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// policyFor derives the check polling policy from the run's timeout
// configuration. Fixed-interval polling is the default; with
// RetryExponential set, polling backs off starting at RetryInitialDelay.
func policyFor(t *config.Timeouts) checks.Policy {
	policy := checks.DefaultPolicy()
	if t == nil {
		return policy
	}

	policy.Interval = t.CheckInterval
	policy.MaxAttempts = t.RetryMaxAttempts
	policy.Timeout = t.Dependency
	if t.RetryExponential {
		policy.Exponential = true
		policy.Interval = t.RetryInitialDelay
	}
	return policy
}

// runStep polls the step's dependency checks, then executes its action under
// the step timeout.
func (s *Sequencer) runStep(ctx *Context, step Step) error {
	policy := policyFor(ctx.Timeouts)

	for _, name := range step.Checks() {
		check, ok := ctx.Checks.Get(name)
		if !ok {
			return ConfigError(step.Name(), "unknown dependency check %q", name)
		}

		LogCheckWaiting(ctx.Observer, step.Name(), name)
		waitStart := time.Now()

		if err := checks.Wait(ctx, check, policy); err != nil {
			LogCheckFailed(ctx.Observer, step.Name(), name, err)
			return NewStepError(step.Name(), KindDependencyUnmet, err)
		}

		LogCheckSatisfied(ctx.Observer, step.Name(), name, time.Since(waitStart))
	}

	stepCtx, cancel := context.WithTimeout(ctx.Context, ctx.Timeouts.Step)
	defer cancel()

	err := step.Run(&Context{
		Context:  stepCtx,
		Target:   ctx.Target,
		Runner:   ctx.Runner,
		Checks:   ctx.Checks,
		Observer: ctx.Observer,
		Timeouts: ctx.Timeouts,
		Result:   ctx.Result,
	})
	if err == nil {
		return nil
	}

	// Steps that classify their own failures pass through unchanged.
	if KindOf(err) != "" {
		return err
	}
	return NewStepError(step.Name(), KindStepExecution, fmt.Errorf("%w", err))
}

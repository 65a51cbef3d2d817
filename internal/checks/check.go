// Package checks implements retryable dependency probes that gate
// provisioning steps.
//
// A check answers one question about the deployment target: is this port
// accepting connections, does this file exist, is this tool installed. Steps
// name the checks they depend on; the sequencer polls each named check until
// it is satisfied or its retry budget runs out.
package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/mkoesel/provflow/internal/util/retry"
)

// Status is the outcome of a single probe attempt.
type Status int

const (
	// Satisfied means the dependency is available.
	Satisfied Status = iota
	// NotYet means the dependency is not available but polling may help.
	NotYet
	// Errored means the probe failed in a way polling cannot fix.
	Errored
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case NotYet:
		return "not-yet"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Check is a named, repeatable dependency probe.
type Check interface {
	// Name returns the check's identifier, referenced by steps.
	Name() string

	// Probe performs a single probe attempt. The error carries detail for
	// NotYet and Errored results and is nil when Satisfied.
	Probe(ctx context.Context) (Status, error)
}

// Policy controls how a check is polled.
type Policy struct {
	// Interval between probe attempts.
	Interval time.Duration

	// MaxAttempts is the total probe budget, including the first attempt.
	MaxAttempts int

	// Timeout bounds the whole wait regardless of attempts.
	Timeout time.Duration

	// Exponential switches from fixed-interval polling to exponential
	// backoff starting at Interval.
	Exponential bool
}

// DefaultPolicy returns the polling policy used when a step does not
// override it.
func DefaultPolicy() Policy {
	return Policy{
		Interval:    5 * time.Second,
		MaxAttempts: 24,
		Timeout:     2 * time.Minute,
	}
}

// Wait polls the check according to the policy until it is satisfied.
// An Errored probe aborts immediately; NotYet keeps polling until the
// attempt budget or timeout is exhausted.
func Wait(ctx context.Context, c Check, p Policy) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	opts := []retry.Option{
		retry.WithMaxAttempts(p.MaxAttempts),
		retry.WithFixedDelay(p.Interval),
	}
	if p.Exponential {
		opts = []retry.Option{
			retry.WithMaxAttempts(p.MaxAttempts),
			retry.WithInitialDelay(p.Interval),
			retry.WithMaxDelay(p.Timeout / 2),
		}
	}

	err := retry.Do(ctx, func() error {
		status, probeErr := c.Probe(ctx)
		switch status {
		case Satisfied:
			return nil
		case Errored:
			return retry.Fatal(fmt.Errorf("check %s errored: %w", c.Name(), probeErr))
		default:
			if probeErr == nil {
				probeErr = fmt.Errorf("not satisfied")
			}
			return fmt.Errorf("check %s not satisfied: %w", c.Name(), probeErr)
		}
	}, opts...)

	if err != nil {
		return fmt.Errorf("dependency %s unmet: %w", c.Name(), err)
	}
	return nil
}

// Registry resolves check names declared by steps to check implementations.
type Registry struct {
	checks map[string]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds a check, replacing any previous check with the same name.
func (r *Registry) Register(c Check) {
	r.checks[c.Name()] = c
}

// Get returns the check registered under name.
func (r *Registry) Get(name string) (Check, bool) {
	c, ok := r.checks[name]
	return c, ok
}

// Names returns all registered check names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	return names
}

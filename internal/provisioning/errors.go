package provisioning

import (
	"errors"
	"fmt"
)

// Kind classifies why a step failed. Every kind is fatal to the run; only
// dependency checks retry, never failed steps.
type Kind string

const (
	// KindConfiguration marks a missing or invalid target descriptor field.
	KindConfiguration Kind = "configuration"
	// KindDependencyUnmet marks a dependency check that timed out.
	KindDependencyUnmet Kind = "dependency-unmet"
	// KindStepExecution marks a failed underlying command or action.
	KindStepExecution Kind = "step-execution"
	// KindDuplicateResource marks a non-idempotent step re-run against an
	// already provisioned resource.
	KindDuplicateResource Kind = "duplicate-resource"
)

// StepError reports which step failed, why, and the last underlying error.
type StepError struct {
	Step string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err with the step name and kind. A nil err yields nil.
func NewStepError(step string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Kind: kind, Err: err}
}

// ConfigError marks a configuration problem detected by a step or the
// sequencer before any action runs.
func ConfigError(step, format string, args ...interface{}) error {
	return &StepError{Step: step, Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

// DuplicateError marks a collision with an already provisioned resource.
func DuplicateError(step string, err error) error {
	return NewStepError(step, KindDuplicateResource, err)
}

// KindOf returns the failure kind carried by err, or an empty Kind when err
// is not a step error.
func KindOf(err error) Kind {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Kind
	}
	return ""
}

// FailingStep returns the name of the failing step, or an empty string when
// err is not a step error.
func FailingStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}

package provisioning

// Step defines a single named provisioning action.
//
// Steps declare their dependency checks by name; the sequencer resolves and
// polls them before Run is called. A step's side effects are external
// (package installs, file edits, process launches) and are not modeled
// beyond success or failure.
type Step interface {
	// Name returns the step's identifier, surfaced in results and errors.
	Name() string

	// Checks returns the names of dependency checks that must be satisfied
	// before the step runs.
	Checks() []string

	// Run executes the step's action.
	Run(ctx *Context) error
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	StepName   string
	StepChecks []string
	Fn         func(ctx *Context) error
}

// Name implements Step.
func (s StepFunc) Name() string { return s.StepName }

// Checks implements Step.
func (s StepFunc) Checks() []string { return s.StepChecks }

// Run implements Step.
func (s StepFunc) Run(ctx *Context) error { return s.Fn(ctx) }

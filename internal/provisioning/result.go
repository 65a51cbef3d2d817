package provisioning

import "time"

// Outcome is the terminal state of one step within a run.
type Outcome string

const (
	// OutcomeSuccess means the step completed.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the step failed and halted the run.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means a prior step failed before this one could run.
	OutcomeSkipped Outcome = "skipped"
)

// Record captures how a single step ended.
type Record struct {
	Step     string
	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// RunResult is the ordered outcome of a run. It is appended to while steps
// execute and read-only once the run ends.
type RunResult struct {
	Records []Record
	Started time.Time
}

// NewRunResult creates an empty run result stamped with the start time.
func NewRunResult() *RunResult {
	return &RunResult{Started: time.Now()}
}

// Add appends a record in execution order.
func (r *RunResult) Add(rec Record) {
	r.Records = append(r.Records, rec)
}

// Failed returns the failed record, if any. A run has at most one.
func (r *RunResult) Failed() *Record {
	for i := range r.Records {
		if r.Records[i].Outcome == OutcomeFailed {
			return &r.Records[i]
		}
	}
	return nil
}

// Succeeded reports whether every recorded step completed.
func (r *RunResult) Succeeded() bool {
	if len(r.Records) == 0 {
		return false
	}
	for _, rec := range r.Records {
		if rec.Outcome != OutcomeSuccess {
			return false
		}
	}
	return true
}

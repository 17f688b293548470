package runner

import (
	"time"

	"git.home.luguber.info/inful/doclint/internal/targets"
)

// Policy selects how the notebook loop reacts to a failing target.
type Policy string

const (
	// PolicyFailFast stops the notebook loop at the first failing notebook.
	// The directory-wide lint always runs regardless.
	PolicyFailFast Policy = "fail-fast"
	// PolicyKeepGoing lints every target and aggregates the failures.
	PolicyKeepGoing Policy = "keep-going"
)

// Outcome is the aggregated status of a run.
type Outcome string

const (
	OutcomePassed     Outcome = "passed"
	OutcomeViolations Outcome = "violations"
	OutcomeCanceled   Outcome = "canceled"
)

// TargetResult records one external tool invocation against one target.
type TargetResult struct {
	Target   string        `json:"target"`
	Kind     targets.Kind  `json:"kind"`
	ExitCode int           `json:"exit_code"`
	Passed   bool          `json:"passed"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// RunResult is the aggregated, ordered record of one lint run.
type RunResult struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	DocsRoot  string         `json:"docs_root"`
	Policy    Policy         `json:"policy"`
	Outcome   Outcome        `json:"outcome"`
	Results   []TargetResult `json:"results"`
	// NotebooksDiscovered counts notebooks found by discovery, including
	// ones fail-fast never reached.
	NotebooksDiscovered int `json:"notebooks_discovered"`
}

// Passed reports whether every executed target passed.
func (r *RunResult) Passed() bool {
	return r.Outcome == OutcomePassed
}

// FailedCount returns the number of failed targets.
func (r *RunResult) FailedCount() int {
	n := 0
	for _, tr := range r.Results {
		if !tr.Passed {
			n++
		}
	}
	return n
}

// TargetCount returns the number of executed targets.
func (r *RunResult) TargetCount() int {
	return len(r.Results)
}

// FirstFailure returns the first failed target in run order, or nil.
func (r *RunResult) FirstFailure() *TargetResult {
	for i := range r.Results {
		if !r.Results[i].Passed {
			return &r.Results[i]
		}
	}
	return nil
}

// PolicyFor maps the keep-going switch onto a Policy value.
func PolicyFor(keepGoing bool) Policy {
	if keepGoing {
		return PolicyKeepGoing
	}
	return PolicyFailFast
}

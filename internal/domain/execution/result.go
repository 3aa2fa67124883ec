package execution

import (
	"time"

	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
)

// PhaseResult captures the outcome of one phase.
type PhaseResult struct {
	name     phase.Name
	kind     phase.Kind
	source   string
	status   Status
	cleanup  bool
	reason   string
	err      error
	duration time.Duration
	trace    []Status
}

// NewPhaseResult creates a new PhaseResult.
func NewPhaseResult(entry phase.Entry, status Status, err error) PhaseResult {
	impl := entry.Implementation()
	return PhaseResult{
		name:    entry.Name(),
		kind:    impl.Kind,
		source:  impl.Source,
		status:  status,
		cleanup: entry.Definition().Cleanup,
		err:     err,
	}
}

// Name returns the phase name.
func (r PhaseResult) Name() phase.Name {
	return r.name
}

// Kind returns the tier the implementation was resolved from.
func (r PhaseResult) Kind() phase.Kind {
	return r.kind
}

// Source names the implementation provider.
func (r PhaseResult) Source() string {
	return r.source
}

// Status returns the final status of the phase.
func (r PhaseResult) Status() Status {
	return r.status
}

// Cleanup reports whether this was a cleanup phase.
func (r PhaseResult) Cleanup() bool {
	return r.cleanup
}

// Reason explains a skipped phase.
func (r PhaseResult) Reason() string {
	return r.reason
}

// Error returns any error that occurred during execution.
func (r PhaseResult) Error() error {
	return r.err
}

// Duration returns how long the phase body ran.
func (r PhaseResult) Duration() time.Duration {
	return r.duration
}

// Trace returns the state transitions of the phase, starting at Pending.
func (r PhaseResult) Trace() []Status {
	return append([]Status(nil), r.trace...)
}

// Success returns true if the phase completed successfully.
func (r PhaseResult) Success() bool {
	return r.status == StatusSucceeded
}

// Skipped returns true if the phase was skipped.
func (r PhaseResult) Skipped() bool {
	return r.status == StatusSkipped
}

// WithDuration returns a new PhaseResult with duration set.
func (r PhaseResult) WithDuration(d time.Duration) PhaseResult {
	r.duration = d
	return r
}

// WithReason returns a new PhaseResult with reason set.
func (r PhaseResult) WithReason(reason string) PhaseResult {
	r.reason = reason
	return r
}

// WithTrace returns a new PhaseResult with trace set.
func (r PhaseResult) WithTrace(trace []Status) PhaseResult {
	r.trace = append([]Status(nil), trace...)
	return r
}

// Summary provides aggregate statistics about a build.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

// Result is the outcome of one build attempt.
type Result struct {
	results []PhaseResult
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{results: make([]PhaseResult, 0)}
}

// Add appends a phase result.
func (r *Result) Add(pr PhaseResult) {
	r.results = append(r.results, pr)
}

// Phases returns every phase result in execution order.
func (r *Result) Phases() []PhaseResult {
	return r.results
}

// Lookup returns the results recorded for name in execution order.
func (r *Result) Lookup(name phase.Name) []PhaseResult {
	var out []PhaseResult
	for _, pr := range r.results {
		if pr.name == name {
			out = append(out, pr)
		}
	}
	return out
}

// Ran reports whether name was recorded at all.
func (r *Result) Ran(name phase.Name) bool {
	return len(r.Lookup(name)) > 0
}

// FirstFailure returns the first failed phase.
func (r *Result) FirstFailure() (PhaseResult, bool) {
	for _, pr := range r.results {
		if pr.status == StatusFailed {
			return pr, true
		}
	}
	return PhaseResult{}, false
}

// Succeeded reports whether no phase failed.
func (r *Result) Succeeded() bool {
	_, failed := r.FirstFailure()
	return !failed
}

// Summary returns aggregate statistics.
func (r *Result) Summary() Summary {
	s := Summary{Total: len(r.results)}
	for _, pr := range r.results {
		switch pr.status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusPending, StatusRunning:
		}
	}
	return s
}

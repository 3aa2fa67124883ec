package execution

// Status is the state of one phase during a build.
type Status string

const (
	// StatusPending indicates the phase has not started.
	StatusPending Status = statePending
	// StatusRunning indicates the phase body is executing.
	StatusRunning Status = stateRunning
	// StatusSucceeded indicates the phase body returned without error.
	StatusSucceeded Status = stateSucceeded
	// StatusFailed indicates the phase body failed or the phase was aborted
	// before it started.
	StatusFailed Status = stateFailed
	// StatusSkipped indicates the phase was not run (guard disabled or not
	// valid for the EAPI).
	StatusSkipped Status = stateSkipped
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	case StatusPending, StatusRunning:
		return false
	}
	return false
}

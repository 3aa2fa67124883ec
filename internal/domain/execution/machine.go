package execution

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State identifiers of the per-phase state machine.
const (
	statePending   = "pending"
	stateRunning   = "running"
	stateSucceeded = "succeeded"
	stateFailed    = "failed"
	stateSkipped   = "skipped"
)

// Events of the per-phase state machine.
const (
	EventRun     = "RUN"
	EventSucceed = "SUCCEED"
	EventFail    = "FAIL"
	EventAbort   = "ABORT"
	EventSkip    = "SKIP"
	EventNext    = "NEXT"
)

// machineContext is the statekit context. It counts phases entering
// Running so a body is never invoked twice for one entry.
type machineContext struct {
	runs int
}

// phaseMachine drives every phase of one build through
// Pending -> Running -> {Succeeded, Failed, Skipped}. NEXT returns a
// terminal state to Pending for the following phase.
type phaseMachine struct {
	interp *statekit.Interpreter[machineContext]
	state  *machineContext
	trace  []Status
}

func newPhaseMachine() (*phaseMachine, error) {
	state := &machineContext{}

	machine, err := statekit.NewMachine[machineContext]("ebuild-phase").
		WithInitial(statePending).
		WithContext(*state).
		WithAction("countRun", func(_ *machineContext, _ statekit.Event) {
			state.runs++
		}).
		State(statePending).
		On(EventRun).Target(stateRunning).
		On(EventSkip).Target(stateSkipped).
		On(EventAbort).Target(stateFailed).Done().
		State(stateRunning).
		OnEntry("countRun").
		On(EventSucceed).Target(stateSucceeded).
		On(EventFail).Target(stateFailed).Done().
		State(stateSucceeded).
		On(EventNext).Target(statePending).Done().
		State(stateFailed).
		On(EventNext).Target(statePending).Done().
		State(stateSkipped).
		On(EventNext).Target(statePending).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build phase state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &phaseMachine{interp: interp, state: state}, nil
}

// status returns the current state.
func (m *phaseMachine) status() Status {
	return Status(m.interp.State().Value)
}

// begin moves the machine to Pending for a new phase and starts its trace.
func (m *phaseMachine) begin() error {
	if m.status().IsTerminal() {
		if err := m.send(EventNext, StatusPending); err != nil {
			return err
		}
	}
	m.trace = []Status{StatusPending}
	return nil
}

// send delivers event and verifies the machine reached want.
func (m *phaseMachine) send(event string, want Status) error {
	m.interp.Send(statekit.Event{Type: statekit.EventType(event)})
	got := m.status()
	if got != want {
		return fmt.Errorf("phase state machine: %s from %s reached %s, want %s", event, m.lastStatus(), got, want)
	}
	if event != EventNext {
		m.trace = append(m.trace, got)
	}
	return nil
}

func (m *phaseMachine) lastStatus() Status {
	if len(m.trace) == 0 {
		return StatusPending
	}
	return m.trace[len(m.trace)-1]
}

// transitions returns a copy of the current phase's trace.
func (m *phaseMachine) transitions() []Status {
	return append([]Status(nil), m.trace...)
}

// runs returns how many times any phase entered Running.
func (m *phaseMachine) runs() int {
	return m.state.runs
}

func (m *phaseMachine) stop() {
	m.interp.Stop()
}

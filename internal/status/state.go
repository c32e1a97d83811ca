// Package status tracks the backend connection lifecycle shown in the
// status bar.
package status

import (
	"fmt"
	"slices"
	"sync"
)

// State is a connection lifecycle state.
type State string

const (
	Booting      State = "BOOTING"
	Pairing      State = "PAIRING"
	Connecting   State = "CONNECTING"
	Syncing      State = "SYNCING"
	Ready        State = "READY"
	Disconnected State = "DISCONNECTED"
	LoggedOut    State = "LOGGED_OUT"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Booting:      {Pairing, Connecting},
	Pairing:      {Connecting, Syncing, LoggedOut},
	Connecting:   {Pairing, Syncing, Disconnected, LoggedOut},
	Syncing:      {Ready, Disconnected, LoggedOut},
	Ready:        {Syncing, Disconnected, LoggedOut},
	Disconnected: {Connecting, Syncing, LoggedOut},
	LoggedOut:    {Pairing},
}

// TransitionError is returned for a transition the machine does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Machine tracks and enforces connection state transitions.
type Machine struct {
	mu       sync.RWMutex
	current  State
	onChange func(from, to State)
}

// NewMachine creates a machine in Booting. onChange, if set, runs after
// every accepted transition.
func NewMachine(onChange func(from, to State)) *Machine {
	return &Machine{
		current:  Booting,
		onChange: onChange,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. A transition to the current
// state is a no-op.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	from := m.current
	if from == to {
		m.mu.Unlock()
		return nil
	}
	if !slices.Contains(validTransitions[from], to) {
		m.mu.Unlock()
		return &TransitionError{From: from, To: to}
	}
	m.current = to
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(from, to)
	}
	return nil
}

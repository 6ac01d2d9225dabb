// Package stopwatch implements the elapsed-time state machine behind the lap
// timer. Machine.Transition maps (state, action) to the next state and holds
// no I/O references; the only impure input is the clock read on Start.
package stopwatch

import (
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// State is a snapshot of the stopwatch. The zero value is the initial state.
type State struct {
	// Lapse is the elapsed duration currently displayed. While running it is
	// the value of the last tick.
	Lapse time.Duration
	// Running is true between Start and Stop.
	Running bool
	// StartTime is when the current (or last) run started. Zero means unset.
	StartTime time.Time
	// Laps holds recorded lapse snapshots, oldest first.
	Laps []time.Duration
}

// Initial returns the state a fresh stopwatch starts in.
func Initial() State {
	return State{}
}

// Equal reports whether two states are identical. Nil and empty lap lists
// compare equal.
func (s State) Equal(o State) bool {
	return s.Lapse == o.Lapse &&
		s.Running == o.Running &&
		s.StartTime.Equal(o.StartTime) &&
		slices.Equal(s.Laps, o.Laps)
}

// Machine applies actions to states.
type Machine struct {
	clock clockwork.Clock
}

// New creates a Machine reading "now" from clock. A nil clock means the
// real wall clock.
func New(clock clockwork.Clock) *Machine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Machine{clock: clock}
}

// Clock returns the machine's time source.
func (m *Machine) Clock() clockwork.Clock {
	return m.clock
}

// Transition returns the state that results from applying action to state.
// It never fails: unrecognized actions reset to Initial.
func (m *Machine) Transition(state State, action Action) State {
	switch a := action.(type) {
	case Start:
		next := state
		next.Lapse = a.Lapse
		next.Running = true
		next.StartTime = m.clock.Now()
		return next

	case Stop:
		next := state
		next.Lapse = a.Lapse
		next.Running = false
		return next

	case Increment:
		next := state
		next.Lapse = a.Lapse
		next.Running = true
		return next

	case Lap:
		next := state
		// Copy so that states sharing the old backing array never observe the append.
		laps := make([]time.Duration, len(a.Laps), len(a.Laps)+1)
		copy(laps, a.Laps)
		next.Laps = append(laps, a.Lapse)
		return next

	case Clear:
		return Initial()

	default:
		return Initial()
	}
}

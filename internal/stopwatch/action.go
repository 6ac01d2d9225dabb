package stopwatch

import "time"

// Kind identifies an action for logging and event reporting.
type Kind int

const (
	// KindUnknown is any action the machine does not recognize.
	KindUnknown Kind = iota
	// KindStart begins (or resumes) a run.
	KindStart
	// KindStop freezes the lapse.
	KindStop
	// KindIncrement is a tick update while running.
	KindIncrement
	// KindLap records the current lapse.
	KindLap
	// KindClear resets the stopwatch.
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "START"
	case KindStop:
		return "STOP"
	case KindIncrement:
		return "INCREMENT"
	case KindLap:
		return "LAP"
	case KindClear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// Action is an input to Machine.Transition. The set of actions is closed:
// only the types in this package implement it.
type Action interface {
	Kind() Kind
	action()
}

// Start begins a run. Lapse is the lapse displayed before starting; a zero
// value starts from zero, anything else resumes from it.
type Start struct {
	Lapse time.Duration
}

// Stop freezes the stopwatch at Lapse.
type Stop struct {
	Lapse time.Duration
}

// Increment replaces the lapse with a freshly computed value while running.
type Increment struct {
	Lapse time.Duration
}

// Lap appends Lapse to Laps.
type Lap struct {
	Lapse time.Duration
	Laps  []time.Duration
}

// Clear resets the stopwatch to its initial state.
type Clear struct{}

// Unknown stands for an unrecognized input. It resets the stopwatch.
type Unknown struct {
	Name string
}

func (Start) Kind() Kind     { return KindStart }
func (Stop) Kind() Kind      { return KindStop }
func (Increment) Kind() Kind { return KindIncrement }
func (Lap) Kind() Kind       { return KindLap }
func (Clear) Kind() Kind     { return KindClear }
func (Unknown) Kind() Kind   { return KindUnknown }

func (Start) action()     {}
func (Stop) action()      {}
func (Increment) action() {}
func (Lap) action()       {}
func (Clear) action()     {}
func (Unknown) action()   {}

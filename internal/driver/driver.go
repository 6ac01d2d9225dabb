// Package driver bridges user input and tick sources to the stopwatch state
// machine. A Driver owns the single State of one view for that view's
// lifetime; front ends (the TUI and the headless runner) own one Driver each.
package driver

import (
	"time"

	"github.com/alexander-akhmetov/lapwatch/internal/debug"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

// Driver translates toggle, clear, lap and tick inputs into actions.
// It is a value type; copies share the Machine but not the state.
type Driver struct {
	machine  *stopwatch.Machine
	state    stopwatch.State
	baseline time.Duration
	run      int
	onEvent  event.Handler
}

// New creates a Driver in the initial state.
func New(machine *stopwatch.Machine) Driver {
	return Driver{
		machine: machine,
		state:   stopwatch.Initial(),
	}
}

// OnEvent registers h to receive an event for every dispatched action except
// tick increments.
func (d *Driver) OnEvent(h event.Handler) {
	d.onEvent = h
}

// State returns the current state.
func (d Driver) State() stopwatch.State {
	return d.state
}

// Running reports whether a run is in progress.
func (d Driver) Running() bool {
	return d.state.Running
}

// Run returns the generation of the current run. It changes every time the
// stopwatch enters Running, so a tick source tagged with an older value is
// stale. While stopped the value is that of the last run.
func (d Driver) Run() int {
	return d.run
}

// Baseline returns the lapse captured when the current run started.
func (d Driver) Baseline() time.Duration {
	return d.baseline
}

// Toggle stops a running stopwatch or starts a stopped one, carrying the
// current lapse.
func (d *Driver) Toggle() {
	if d.state.Running {
		d.Dispatch(stopwatch.Stop{Lapse: d.state.Lapse})
		return
	}
	d.Dispatch(stopwatch.Start{Lapse: d.state.Lapse})
}

// Clear resets the stopwatch.
func (d *Driver) Clear() {
	d.Dispatch(stopwatch.Clear{})
}

// Lap records the current lapse. Allowed while stopped.
func (d *Driver) Lap() {
	d.Dispatch(stopwatch.Lap{Lapse: d.state.Lapse, Laps: d.state.Laps})
}

// Tick recomputes the lapse against now as baseline + (now - StartTime),
// truncated to milliseconds. It returns false and does nothing when the
// stopwatch is not running.
func (d *Driver) Tick(now time.Time) bool {
	if !d.state.Running {
		return false
	}
	delta := now.Sub(d.state.StartTime).Truncate(time.Millisecond)
	d.Dispatch(stopwatch.Increment{Lapse: d.baseline + delta})
	return true
}

// Dispatch applies action and updates run bookkeeping.
func (d *Driver) Dispatch(action stopwatch.Action) {
	if action == nil {
		action = stopwatch.Unknown{}
	}
	wasRunning := d.state.Running
	d.state = d.machine.Transition(d.state, action)

	if d.state.Running && !wasRunning {
		d.run++
		d.baseline = d.state.Lapse
		debug.Logf("driver: run %d started at baseline %s", d.run, d.baseline)
	}
	if !d.state.Running && wasRunning {
		debug.Logf("driver: run %d ended by %s", d.run, action.Kind())
	}

	d.emit(action)
}

func (d *Driver) emit(action stopwatch.Action) {
	if d.onEvent == nil {
		return
	}
	switch a := action.(type) {
	case stopwatch.Start:
		d.onEvent(event.Start(d.state.Lapse))
	case stopwatch.Stop:
		d.onEvent(event.Stop(d.state.Lapse))
	case stopwatch.Lap:
		d.onEvent(event.Lap(len(d.state.Laps), a.Lapse))
	case stopwatch.Clear:
		d.onEvent(event.Clear())
	case stopwatch.Increment:
	case stopwatch.Unknown:
		d.onEvent(event.Reset(a.Name))
	default:
		d.onEvent(event.Reset(""))
	}
}

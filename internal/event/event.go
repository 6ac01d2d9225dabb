// Package event defines typed events emitted by the stopwatch driver,
// consumed by the session log and the headless printer.
package event

import (
	"fmt"
	"time"
)

// Kind identifies the type of event.
type Kind int

const (
	// KindStart is emitted when a run starts or resumes.
	KindStart Kind = iota
	// KindStop is emitted when a run is stopped.
	KindStop
	// KindLap is emitted when a lap is recorded.
	KindLap
	// KindClear is emitted when the stopwatch is cleared.
	KindClear
	// KindReset is emitted when an unrecognized input reset the stopwatch.
	KindReset
	// KindExport is emitted after laps were written to an export file.
	KindExport
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindLap:
		return "lap"
	case KindClear:
		return "clear"
	case KindReset:
		return "reset"
	case KindExport:
		return "export"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single typed event.
type Event struct {
	Kind  Kind
	Lapse time.Duration // lapse after the transition
	Lap   int           // 1-based lap number (KindLap)
	Text  string        // free-form detail (unknown input, export path)
}

// Handler is a callback that receives typed events.
type Handler func(Event)

// Start creates a KindStart event.
func Start(lapse time.Duration) Event { return Event{Kind: KindStart, Lapse: lapse} }

// Stop creates a KindStop event.
func Stop(lapse time.Duration) Event { return Event{Kind: KindStop, Lapse: lapse} }

// Lap creates a KindLap event for lap number n.
func Lap(n int, lapse time.Duration) Event { return Event{Kind: KindLap, Lap: n, Lapse: lapse} }

// Clear creates a KindClear event.
func Clear() Event { return Event{Kind: KindClear} }

// Reset creates a KindReset event for an unrecognized input.
func Reset(input string) Event { return Event{Kind: KindReset, Text: input} }

// Export creates a KindExport event.
func Export(path string) Event { return Event{Kind: KindExport, Text: path} }

// Fanout returns a Handler that forwards to every non-nil handler in order.
func Fanout(handlers ...Handler) Handler {
	return func(ev Event) {
		for _, h := range handlers {
			if h != nil {
				h(ev)
			}
		}
	}
}

// Package timing records startup checkpoints when LAPWATCH_DEBUG_TIMING=1.
// While the TUI owns the terminal, checkpoints are held and printed after it
// exits.
package timing

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Checkpoint is one labelled point in time relative to process start.
type Checkpoint struct {
	Label      string
	SinceLast  time.Duration
	SinceStart time.Duration
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("[TIMING] %s: +%dms (total: %dms)", c.Label, c.SinceLast.Milliseconds(), c.SinceStart.Milliseconds())
}

var (
	enabled = os.Getenv("LAPWATCH_DEBUG_TIMING") == "1"

	mu        sync.Mutex
	out       io.Writer = os.Stderr
	startTime           = time.Now()
	lastTime            = startTime
	holding   bool
	held      []Checkpoint
)

// Log records a checkpoint. It prints immediately unless Hold is active.
func Log(label string) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	c := Checkpoint{Label: label, SinceLast: now.Sub(lastTime), SinceStart: now.Sub(startTime)}
	lastTime = now
	if holding {
		held = append(held, c)
		return
	}
	fmt.Fprintln(out, c)
}

// Hold buffers checkpoints until Flush.
func Hold() {
	mu.Lock()
	defer mu.Unlock()
	holding = true
}

// Flush prints held checkpoints in order and stops holding.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range held {
		fmt.Fprintln(out, c)
	}
	held = nil
	holding = false
}

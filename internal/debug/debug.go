// Package debug provides debug logging utilities.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	enabled = os.Getenv("LAPWATCH_DEBUG") == "1"

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// Logf writes a debug message if LAPWATCH_DEBUG=1
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, msg)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled
}

// SetOutput redirects debug output and returns the previous writer. The TUI
// uses it to keep debug lines off the alternate screen.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

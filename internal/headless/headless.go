// Package headless runs the stopwatch without a terminal UI. Commands are
// read one per line and the state is printed as plain text, which makes the
// stopwatch usable from scripts and pipes.
package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/alexander-akhmetov/lapwatch/internal/debug"
	"github.com/alexander-akhmetov/lapwatch/internal/driver"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/format"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

const (
	DefaultTickInterval = 25 * time.Millisecond
	DefaultPrintEvery   = 40
)

// Config holds everything a Runner needs.
type Config struct {
	Clock        clockwork.Clock // default: real clock
	TickInterval time.Duration   // default: DefaultTickInterval
	PrintEvery   int             // status line cadence in ticks; <= 0 prints only after commands
	In           io.Reader       // default: os.Stdin
	Out          io.Writer       // default: os.Stdout
	OnEvent      event.Handler
}

// Runner drives one stopwatch from line commands.
type Runner struct {
	clock      clockwork.Clock
	interval   time.Duration
	printEvery int
	in         io.Reader
	out        io.Writer

	driver    driver.Driver
	ticker    clockwork.Ticker
	tickerRun int
	ticks     int
}

// New creates a Runner with a stopped stopwatch.
func New(cfg Config) *Runner {
	r := &Runner{
		clock:      cfg.Clock,
		interval:   cfg.TickInterval,
		printEvery: cfg.PrintEvery,
		in:         cfg.In,
		out:        cfg.Out,
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.interval <= 0 {
		r.interval = DefaultTickInterval
	}
	if r.in == nil {
		r.in = os.Stdin
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	r.driver = driver.New(stopwatch.New(r.clock))
	r.driver.OnEvent(cfg.OnEvent)
	return r
}

// State returns the current stopwatch state. Only safe to call when Run is
// not executing.
func (r *Runner) State() stopwatch.State {
	return r.driver.State()
}

type readResult struct {
	line string
	err  error
	eof  bool
}

// Run processes commands until quit, end of input or ctx cancellation and
// returns the final state. The ticker is released on every exit path.
func (r *Runner) Run(ctx context.Context) (stopwatch.State, error) {
	defer r.stopTicker()

	done := make(chan struct{})
	defer close(done)
	lines := r.readLines(done)

	r.printStatus()

	for {
		var tickC <-chan time.Time
		if r.ticker != nil {
			tickC = r.ticker.Chan()
		}

		select {
		case <-ctx.Done():
			debug.Logf("headless: context done: %v", ctx.Err())
			return r.driver.State(), nil

		case res := <-lines:
			if res.eof {
				return r.driver.State(), nil
			}
			if res.err != nil {
				return r.driver.State(), fmt.Errorf("read commands: %w", res.err)
			}
			if quit := r.handle(res.line); quit {
				return r.driver.State(), nil
			}

		case now := <-tickC:
			r.tick(now)
		}
	}
}

func (r *Runner) tick(now time.Time) {
	if !r.driver.Tick(now) {
		return
	}
	r.ticks++
	if r.printEvery > 0 && r.ticks%r.printEvery == 0 {
		r.printStatus()
	}
}

// readLines forwards input lines until EOF, a read error or done is closed.
// A reader blocked inside Read outlives Run until the next line arrives.
func (r *Runner) readLines(done <-chan struct{}) <-chan readResult {
	out := make(chan readResult)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case out <- readResult{line: scanner.Text()}:
			case <-done:
				return
			}
		}
		res := readResult{eof: true}
		if err := scanner.Err(); err != nil {
			res = readResult{err: err}
		}
		select {
		case out <- res:
		case <-done:
		}
	}()
	return out
}

// handle applies one command and reports whether the runner should quit.
func (r *Runner) handle(line string) bool {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		return false
	case "q", "quit":
		return true
	case "s", "t", "toggle":
		r.driver.Toggle()
	case "start":
		if !r.driver.Running() {
			r.driver.Toggle()
		}
	case "stop":
		if r.driver.Running() {
			r.driver.Toggle()
		}
	case "l", "lap":
		r.driver.Lap()
		laps := r.driver.State().Laps
		fmt.Fprintf(r.out, "#%d %s\n", len(laps), format.Clock(laps[len(laps)-1]))
	case "c", "clear":
		r.driver.Clear()
	default:
		r.driver.Dispatch(stopwatch.Unknown{Name: cmd})
	}
	r.syncTicker()
	r.printStatus()
	return false
}

// syncTicker keeps exactly one ticker alive per run and none while stopped.
func (r *Runner) syncTicker() {
	if !r.driver.Running() {
		r.stopTicker()
		return
	}
	if r.ticker != nil && r.tickerRun == r.driver.Run() {
		return
	}
	r.stopTicker()
	r.ticker = r.clock.NewTicker(r.interval)
	r.tickerRun = r.driver.Run()
	r.ticks = 0
}

func (r *Runner) stopTicker() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	r.ticker = nil
}

func (r *Runner) printStatus() {
	state := r.driver.State()
	word := "stopped"
	if state.Running {
		word = "running"
	}
	fmt.Fprintf(r.out, "%s %s laps=%d\n", word, format.Clock(state.Lapse), len(state.Laps))
}

package headless

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := strings.TrimSuffix(s.b.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

type result struct {
	state stopwatch.State
	err   error
}

type harness struct {
	t      *testing.T
	clock  *clockwork.FakeClock
	in     *io.PipeWriter
	out    *syncBuffer
	cancel context.CancelFunc
	done   chan result
	seen   int
}

func startRunner(t *testing.T, cfg Config) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	pr, pw := io.Pipe()
	out := &syncBuffer{}

	cfg.Clock = clock
	cfg.In = pr
	cfg.Out = out
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 25 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{t: t, clock: clock, in: pw, out: out, cancel: cancel, done: make(chan result, 1)}

	r := New(cfg)
	go func() {
		state, err := r.Run(ctx)
		h.done <- result{state: state, err: err}
	}()

	t.Cleanup(func() {
		cancel()
		_ = pw.Close()
	})
	return h
}

func (h *harness) send(cmd string) {
	h.t.Helper()
	_, err := fmt.Fprintln(h.in, cmd)
	require.NoError(h.t, err)
}

// expect waits for the next len(want) output lines and compares them.
func (h *harness) expect(want ...string) {
	h.t.Helper()
	need := h.seen + len(want)
	require.Eventually(h.t, func() bool {
		return len(h.out.lines()) >= need
	}, 2*time.Second, time.Millisecond, "waiting for %q", want)
	got := h.out.lines()[h.seen:need]
	assert.Equal(h.t, want, got)
	h.seen = need
}

func (h *harness) advance(d time.Duration) {
	h.t.Helper()
	h.clock.Advance(d)
}

func (h *harness) wait() result {
	h.t.Helper()
	select {
	case res := <-h.done:
		return res
	case <-time.After(2 * time.Second):
		h.t.Fatal("runner did not return")
		return result{}
	}
}

func TestNewDefaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, DefaultTickInterval, r.interval)
	assert.NotNil(t, r.clock)
	assert.NotNil(t, r.in)
	assert.NotNil(t, r.out)
	assert.True(t, stopwatch.Initial().Equal(r.State()))
}

func TestRunEndToEnd(t *testing.T) {
	h := startRunner(t, Config{PrintEvery: 1})
	h.expect("stopped 00:00.000 laps=0")

	h.send("s")
	h.expect("running 00:00.000 laps=0")

	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.025 laps=0")
	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.050 laps=0")

	h.send("l")
	h.expect("#1 00:00.050", "running 00:00.050 laps=1")

	h.send("stop")
	h.expect("stopped 00:00.050 laps=1")

	// Stopped: no ticker, so advancing prints nothing before the next command.
	h.advance(time.Second)
	h.send("lap")
	h.expect("#2 00:00.050", "stopped 00:00.050 laps=2")

	h.send("q")
	res := h.wait()
	require.NoError(t, res.err)
	assert.Equal(t, 50*time.Millisecond, res.state.Lapse)
	assert.False(t, res.state.Running)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, res.state.Laps)
}

func TestResumeCarriesBaseline(t *testing.T) {
	h := startRunner(t, Config{PrintEvery: 1})
	h.expect("stopped 00:00.000 laps=0")

	h.send("start")
	h.expect("running 00:00.000 laps=0")
	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.025 laps=0")

	h.send("t")
	h.expect("stopped 00:00.025 laps=0")
	h.advance(time.Minute)

	h.send("toggle")
	h.expect("running 00:00.025 laps=0")
	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.050 laps=0")
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	h := startRunner(t, Config{})
	h.expect("stopped 00:00.000 laps=0")

	h.send("stop")
	h.expect("stopped 00:00.000 laps=0")
	h.send("start")
	h.expect("running 00:00.000 laps=0")
	h.send("start")
	h.expect("running 00:00.000 laps=0")
}

func TestClearStopsTicker(t *testing.T) {
	h := startRunner(t, Config{PrintEvery: 1})
	h.expect("stopped 00:00.000 laps=0")

	h.send("s")
	h.expect("running 00:00.000 laps=0")
	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.025 laps=0")

	h.send("c")
	h.expect("stopped 00:00.000 laps=0")

	h.advance(time.Second)
	h.send("l")
	h.expect("#1 00:00.000", "stopped 00:00.000 laps=1")
}

func TestUnknownCommandResets(t *testing.T) {
	var events []event.Event
	h := startRunner(t, Config{PrintEvery: 1, OnEvent: func(ev event.Event) { events = append(events, ev) }})
	h.expect("stopped 00:00.000 laps=0")

	h.send("s")
	h.expect("running 00:00.000 laps=0")
	h.advance(25 * time.Millisecond)
	h.expect("running 00:00.025 laps=0")
	h.send("l")
	h.expect("#1 00:00.025", "running 00:00.025 laps=1")

	h.send("bogus")
	h.expect("stopped 00:00.000 laps=0")

	h.advance(time.Second)
	h.send("quit")
	res := h.wait()
	require.NoError(t, res.err)
	assert.True(t, stopwatch.Initial().Equal(res.state))

	require.Len(t, events, 3)
	assert.Equal(t, event.KindStart, events[0].Kind)
	assert.Equal(t, event.KindLap, events[1].Kind)
	assert.Equal(t, event.Reset("bogus"), events[2])
}

func TestBlankLinesIgnored(t *testing.T) {
	h := startRunner(t, Config{})
	h.expect("stopped 00:00.000 laps=0")

	h.send("")
	h.send("   ")
	h.send("L")
	h.expect("#1 00:00.000", "stopped 00:00.000 laps=1")
}

func TestPrintEvery(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	r := New(Config{Clock: clock, PrintEvery: 2, Out: &out})

	r.handle("s")
	defer r.stopTicker()
	start := clock.Now()
	for i := 1; i <= 4; i++ {
		r.tick(start.Add(time.Duration(i) * 25 * time.Millisecond))
	}

	assert.Equal(t, "running 00:00.000 laps=0\nrunning 00:00.050 laps=0\nrunning 00:00.100 laps=0\n", out.String())
}

func TestPrintEveryDisabled(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	r := New(Config{Clock: clock, Out: &out})

	r.handle("s")
	defer r.stopTicker()
	r.tick(clock.Now().Add(time.Second))

	assert.Equal(t, "running 00:00.000 laps=0\n", out.String())
	assert.Equal(t, time.Second, r.State().Lapse)
}

func TestTickIgnoredWhileStopped(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	r := New(Config{Clock: clock, PrintEvery: 1, Out: &out})

	r.tick(clock.Now().Add(time.Second))
	assert.Empty(t, out.String())
	assert.Nil(t, r.ticker)
}

func TestSyncTickerOnePerRun(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	r := New(Config{Clock: clock, Out: io.Discard})

	r.handle("s")
	first := r.ticker
	require.NotNil(t, first)
	assert.Equal(t, 1, r.tickerRun)

	r.handle("l")
	assert.Same(t, first, r.ticker, "lap keeps the current ticker")

	r.handle("s")
	assert.Nil(t, r.ticker)

	r.handle("s")
	require.NotNil(t, r.ticker)
	assert.Equal(t, 2, r.tickerRun)

	r.handle("nope")
	assert.Nil(t, r.ticker)
}

func TestEOFStops(t *testing.T) {
	h := startRunner(t, Config{})
	h.expect("stopped 00:00.000 laps=0")
	h.send("s")
	h.expect("running 00:00.000 laps=0")

	require.NoError(t, h.in.Close())
	res := h.wait()
	require.NoError(t, res.err)
	assert.True(t, res.state.Running)
}

func TestReadError(t *testing.T) {
	h := startRunner(t, Config{})
	h.expect("stopped 00:00.000 laps=0")

	_ = h.in.CloseWithError(errors.New("boom"))
	res := h.wait()
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read commands")
	assert.Contains(t, res.err.Error(), "boom")
}

func TestContextCancel(t *testing.T) {
	h := startRunner(t, Config{})
	h.expect("stopped 00:00.000 laps=0")
	h.send("s")
	h.expect("running 00:00.000 laps=0")

	h.cancel()
	res := h.wait()
	require.NoError(t, res.err)
	assert.True(t, res.state.Running)
}

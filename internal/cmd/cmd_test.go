package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/lapwatch/internal/config"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/export"
	"github.com/alexander-akhmetov/lapwatch/internal/sessionlog"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

var exportedAt = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func writeExport(t *testing.T, dir, name string, laps ...time.Duration) string {
	t.Helper()
	state := stopwatch.Initial()
	state.Laps = laps
	if len(laps) > 0 {
		state.Lapse = laps[len(laps)-1]
	}
	path := filepath.Join(dir, name)
	require.NoError(t, export.Write(path, export.FromState("abc", exportedAt, state)))
	return path
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"start", "laps", "logs", "config"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc1234", "2026-01-15")
	assert.Equal(t, "1.2.3 (abc1234, 2026-01-15)", rootCmd.Version)
}

func TestExportState(t *testing.T) {
	dir := t.TempDir()
	state := stopwatch.State{Lapse: 2 * time.Second, Laps: []time.Duration{time.Second, 2 * time.Second}}

	t.Run("generated name", func(t *testing.T) {
		path, err := exportState("", dir, "0123456789", exportedAt, state)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "20260115-103000-01234567.json"), path)

		doc, err := export.Read(path)
		require.NoError(t, err)
		assert.Equal(t, state.Laps, doc.Laps)
		assert.Equal(t, "0123456789", doc.SessionID)
	})

	t.Run("explicit path", func(t *testing.T) {
		want := filepath.Join(dir, "nested", "mine.json")
		path, err := exportState(want, dir, "s", exportedAt, state)
		require.NoError(t, err)
		assert.Equal(t, want, path)
		assert.FileExists(t, want)
	})
}

func TestShowLapsPlain(t *testing.T) {
	path := writeExport(t, t.TempDir(), "a.json", time.Second, 2500*time.Millisecond)
	doc, err := export.Read(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, showLaps(&buf, doc, true, "", 80))
	assert.Equal(t, "final 00:02.500\n#1   00:01.000  +00:01.000\n#2   00:02.500  +00:01.500\n", buf.String())
}

func TestShowLapsMarkdown(t *testing.T) {
	path := writeExport(t, t.TempDir(), "a.json", time.Second)
	doc, err := export.Read(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, showLaps(&buf, doc, false, "notty", 80))
	assert.Contains(t, buf.String(), "00:01.000")
	assert.Contains(t, buf.String(), "Laps for session abc")
}

func TestDiffLaps(t *testing.T) {
	dir := t.TempDir()
	a := writeExport(t, dir, "a.json", time.Second, 2*time.Second)
	b := writeExport(t, dir, "b.json", time.Second, 3*time.Second)
	same := writeExport(t, dir, "same.json", time.Second, 2*time.Second)

	t.Run("identical", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, diffLaps(&buf, a, same))
		assert.Equal(t, "No differences.\n", buf.String())
	})

	t.Run("different", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, diffLaps(&buf, a, b))
		out := buf.String()
		assert.Contains(t, out, "--- "+a)
		assert.Contains(t, out, "+++ "+b)
		assert.Contains(t, out, "-#2   00:02.000")
		assert.Contains(t, out, "+#2   00:03.000")
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		err := diffLaps(&buf, a, filepath.Join(dir, "nope.json"))
		require.Error(t, err)
	})

	t.Run("invalid export", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"version": 99}`), 0o600))
		var buf bytes.Buffer
		err := diffLaps(&buf, bad, a)
		require.ErrorIs(t, err, export.ErrInvalidExport)
	})
}

func newSessionLog(t *testing.T, dir, id string) *sessionlog.Logger {
	t.Helper()
	l, err := sessionlog.NewLogger(sessionlog.Config{LogsDir: dir, SessionID: id, Mode: "headless"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestListLogs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		dir := t.TempDir()
		var buf bytes.Buffer
		require.NoError(t, listLogs(&buf, dir, "", 10))
		assert.Contains(t, buf.String(), "No log files found.")
		assert.Contains(t, buf.String(), dir)
	})

	t.Run("lists and limits", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260115-100000-first.log",
			"20260115-110000-second.log",
			"20260115-120000-third.log",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
		}

		var buf bytes.Buffer
		require.NoError(t, listLogs(&buf, dir, "", 2))
		out := buf.String()
		assert.Contains(t, out, "showing 2")
		assert.Contains(t, out, "third")
		assert.Contains(t, out, "second")
		assert.NotContains(t, out, "first")
		assert.Less(t, strings.Index(out, "third"), strings.Index(out, "second"), "newest first")
	})

	t.Run("filter", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20260115-100000-alpha.log"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20260115-110000-beta.log"), []byte("x"), 0o600))

		var buf bytes.Buffer
		require.NoError(t, listLogs(&buf, dir, "alp", 10))
		assert.Contains(t, buf.String(), "alpha")
		assert.NotContains(t, buf.String(), "beta")
	})
}

func TestShowLog(t *testing.T) {
	dir := t.TempDir()
	l := newSessionLog(t, dir, "session-xyz")
	l.Event(event.Lap(1, time.Second))
	require.NoError(t, l.Close())

	t.Run("found", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, showLog(&buf, dir, "xyz"))
		out := buf.String()
		assert.Contains(t, out, "Log for session-xyz")
		assert.Contains(t, out, "Lap 1: 00:01.000")
	})

	t.Run("not found", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, showLog(&buf, dir, "other"))
		assert.Contains(t, buf.String(), "No logs found for session: other")
	})
}

func TestPrintConfig(t *testing.T) {
	cfg, err := config.LoadWithDirs(t.TempDir(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	printConfig(&buf, cfg)
	out := buf.String()
	assert.Contains(t, out, "# Lapwatch Configuration")
	assert.Contains(t, out, "  - embedded")
	assert.Contains(t, out, "(none detected)")
	assert.Contains(t, out, "tick_interval:  25ms")
	assert.Contains(t, out, "print_every:    40")
	assert.Contains(t, out, "session_log:    true")
}

func TestEventHandler(t *testing.T) {
	t.Run("without logger", func(t *testing.T) {
		h := eventHandler(nil)
		assert.NotPanics(t, func() { h(event.Clear()) })
	})

	t.Run("with logger", func(t *testing.T) {
		dir := t.TempDir()
		l := newSessionLog(t, dir, "ev")
		h := eventHandler(l)
		h(event.Start(0))
		h(event.Lap(1, 1500*time.Millisecond))
		require.NoError(t, l.Close())

		data, err := os.ReadFile(l.Path())
		require.NoError(t, err)
		assert.Contains(t, string(data), "Start at 00:00.000")
		assert.Contains(t, string(data), "Lap 1: 00:01.500")
	})
}

func TestLogWriter(t *testing.T) {
	dir := t.TempDir()
	l := newSessionLog(t, dir, "dbg")
	w := logWriter{l}

	n, err := w.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug: one")
	assert.Contains(t, string(data), "debug: two")
}

func TestRunHeadless(t *testing.T) {
	cfg, err := config.LoadWithDirs(t.TempDir(), "")
	require.NoError(t, err)

	var kinds []event.Kind
	var out bytes.Buffer
	final, err := runHeadless(context.Background(), cfg, strings.NewReader("l\nl\nq\n"), &out,
		func(ev event.Event) { kinds = append(kinds, ev.Kind) })
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{0, 0}, final.Laps)
	assert.Contains(t, out.String(), "#2 00:00.000")
	assert.Equal(t, []event.Kind{event.KindLap, event.KindLap}, kinds)
}

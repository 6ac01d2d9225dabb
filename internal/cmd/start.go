package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/lapwatch/internal/config"
	"github.com/alexander-akhmetov/lapwatch/internal/debug"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/export"
	"github.com/alexander-akhmetov/lapwatch/internal/headless"
	"github.com/alexander-akhmetov/lapwatch/internal/sessionlog"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
	"github.com/alexander-akhmetov/lapwatch/internal/timing"
	"github.com/alexander-akhmetov/lapwatch/internal/tui"
)

var (
	startTick     time.Duration
	startHeadless bool
	startExport   string
	startNoLog    bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the stopwatch",
	Long: `Run the stopwatch in the terminal.

Controls:
  space/s - Start or stop
  l       - Record a lap
  c       - Clear time and laps
  e       - Export laps
  ↑/↓     - Scroll laps
  q       - Quit

With --headless, commands are read one per line from stdin instead:
  s, t, toggle   start or stop
  start, stop    start or stop only if not already in that state
  l, lap         record a lap
  c, clear       clear time and laps
  q, quit        exit
Any other input resets the stopwatch.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().DurationVar(&startTick, "tick", 0, "Tick interval (overrides tick_interval)")
	startCmd.Flags().BoolVar(&startHeadless, "headless", false, "Read commands from stdin instead of running the TUI")
	startCmd.Flags().StringVar(&startExport, "export", "", "Write the laps to this file on exit")
	startCmd.Flags().BoolVar(&startNoLog, "no-log", false, "Do not write a session log")
}

func runStart(cmd *cobra.Command, _ []string) error {
	timing.Log("runStart: begin")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(startTick, startNoLog)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	timing.Log("runStart: config loaded")

	sessionID := uuid.NewString()
	mode := "tui"
	if startHeadless {
		mode = "headless"
	}

	var logger *sessionlog.Logger
	if cfg.SessionLog {
		logger, err = sessionlog.NewLogger(sessionlog.Config{
			LogsDir:   cfg.ResolvedLogsDir(),
			SessionID: sessionID,
			Mode:      mode,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create session log: %v\n", err)
		} else {
			defer logger.Close()
			logger.Section("Events")
			// Debug output would corrupt the alternate screen.
			if !startHeadless && debug.Enabled() {
				prev := debug.SetOutput(logWriter{logger})
				defer debug.SetOutput(prev)
			}
		}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	onEvent := eventHandler(logger)
	exportsDir := cfg.ResolvedExportsDir()

	var final stopwatch.State
	if startHeadless {
		final, err = runHeadless(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), onEvent)
	} else {
		timing.Log("runStart: starting TUI")
		timing.Hold()
		final, err = tui.Run(ctx, tui.Options{
			TickInterval: cfg.TickInterval,
			Exporter: func(state stopwatch.State) (string, error) {
				return exportState("", exportsDir, sessionID, time.Now(), state)
			},
			OnEvent: onEvent,
		})
	}
	timing.Log("runStart: stopwatch returned")
	timing.Flush()

	if logger != nil {
		logger.Exit(final)
	}
	if err != nil {
		if logger != nil {
			logger.Errorf("%v", err)
		}
		return err
	}

	if startExport == "" && !cfg.ExportOnExit {
		return nil
	}
	path, err := exportState(startExport, exportsDir, sessionID, time.Now(), final)
	if err != nil {
		return err
	}
	onEvent(event.Export(path))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported laps to %s\n", path)
	return nil
}

func runHeadless(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, onEvent event.Handler) (stopwatch.State, error) {
	r := headless.New(headless.Config{
		TickInterval: cfg.TickInterval,
		PrintEvery:   cfg.PrintEvery,
		In:           in,
		Out:          out,
		OnEvent:      onEvent,
	})
	return r.Run(ctx)
}

// eventHandler logs every event to the debug log and, when logger is set,
// to the session log.
func eventHandler(logger *sessionlog.Logger) event.Handler {
	handlers := []event.Handler{func(ev event.Event) {
		debug.Logf("event: %s lapse=%s lap=%d text=%q", ev.Kind, ev.Lapse, ev.Lap, ev.Text)
	}}
	if logger != nil {
		handlers = append(handlers, logger.Event)
	}
	return event.Fanout(handlers...)
}

// exportState writes state to path, or to a generated file name in dir
// when path is empty, and returns where it was written.
func exportState(path, dir, sessionID string, now time.Time, state stopwatch.State) (string, error) {
	doc := export.FromState(sessionID, now, state)
	if path == "" {
		path = filepath.Join(dir, doc.FileName())
	}
	if err := export.Write(path, doc); err != nil {
		return "", fmt.Errorf("export laps: %w", err)
	}
	return path, nil
}

// logWriter sends debug output to the session log.
type logWriter struct {
	l *sessionlog.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		w.l.Printf("debug: %s", line)
	}
	return len(p), nil
}

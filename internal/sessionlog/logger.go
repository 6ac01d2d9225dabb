// Package sessionlog writes a timestamped log file for every stopwatch
// session. Files live in the logs directory as
// YYYYMMDD-HHMMSS-<session-id>.log and are never read back by the stopwatch.
package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/format"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

// timestampFormat is the format for log timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// Logger writes timestamped session events to a log file.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	startTime time.Time
	sessionID string
	logPath   string
}

// Config holds logger configuration.
type Config struct {
	LogsDir   string // Directory for log files
	SessionID string // Session identifier
	Mode      string // "tui" or "headless"
}

// NewLogger creates a logger that writes to a timestamped log file.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.LogsDir == "" {
		return nil, fmt.Errorf("logs dir not set")
	}
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	now := time.Now()
	sanitizedID := sanitizeFilename(cfg.SessionID)
	logPath := filepath.Join(cfg.LogsDir, fmt.Sprintf("%s-%s.log", now.Format(filenameTimeFormat), sanitizedID))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{
		file:      f,
		startTime: now,
		sessionID: cfg.SessionID,
		logPath:   logPath,
	}

	l.writef("# Lapwatch Session Log\n")
	l.writef("Session: %s\n", cfg.SessionID)
	if cfg.Mode != "" {
		l.writef("Mode: %s\n", cfg.Mode)
	}
	l.writef("Started: %s\n", now.Format(timestampFormat))
	l.writef("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.logPath
}

// SessionID returns the session identifier.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Printf writes a timestamped message to the log.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)
	l.writef("[%s] %s\n", timestamp, msg)
}

// Section writes a section header to the log.
func (l *Logger) Section(title string) {
	l.writef("\n--- %s ---\n", title)
}

// Event logs a driver event. It satisfies event.Handler.
func (l *Logger) Event(ev event.Event) {
	switch ev.Kind {
	case event.KindStart:
		l.Printf("Start at %s", format.Clock(ev.Lapse))
	case event.KindStop:
		l.Printf("Stop at %s", format.Clock(ev.Lapse))
	case event.KindLap:
		l.Printf("Lap %d: %s", ev.Lap, format.Clock(ev.Lapse))
	case event.KindClear:
		l.Printf("Clear")
	case event.KindReset:
		if ev.Text != "" {
			l.Printf("Reset (unrecognized input %q)", ev.Text)
		} else {
			l.Printf("Reset")
		}
	case event.KindExport:
		l.Printf("Exported laps to %s", ev.Text)
	default:
		l.Printf("%s", ev.Kind)
	}
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)
	l.writef("[%s] ERROR: %s\n", timestamp, msg)
}

// Exit logs the final stopwatch state and the session duration.
func (l *Logger) Exit(state stopwatch.State) {
	l.writef("\n%s\n", strings.Repeat("-", 60))
	l.writef("Final time: %s\n", format.Clock(state.Lapse))
	if state.Running {
		l.writef("Still running at exit\n")
	}
	l.writef("Laps: %d\n", len(state.Laps))
	for i, lap := range state.Laps {
		l.writef("  #%d  %s\n", i+1, format.Clock(lap))
	}
	l.writef("Duration: %s\n", l.elapsed())
	l.writef("Completed: %s\n", time.Now().Format(timestampFormat))
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (l *Logger) writef(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

func (l *Logger) elapsed() string {
	return time.Since(l.startTime).Round(time.Second).String()
}

// sanitizeFilename converts a session ID to a safe filename component.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, " ", "-")

	// Keep only alphanumeric, dashes, underscores, and dots
	var clean strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			clean.WriteRune(r)
		}
	}
	result := clean.String()

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if len(result) > 100 {
		result = result[:100]
		result = strings.TrimRight(result, "-")
	}

	if result == "" {
		return "unnamed"
	}
	return result
}

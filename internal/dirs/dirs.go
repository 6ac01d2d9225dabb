// Package dirs provides XDG Base Directory Specification compliant paths
// for all lapwatch directories.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "lapwatch"

// ConfigDir returns the lapwatch configuration directory.
// Resolution order: XDG_CONFIG_HOME/lapwatch > ~/.config/lapwatch.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the lapwatch state directory.
// Resolution order: LAPWATCH_STATE_DIR > XDG_STATE_HOME/lapwatch > ~/.local/state/lapwatch.
func StateDir() string {
	if dir := os.Getenv("LAPWATCH_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", appName)
	}
	return filepath.Join(home, ".local", "state", appName)
}

// LogsDir returns the session logs directory (StateDir/logs).
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// ExportsDir returns the lap exports directory (StateDir/exports).
func ExportsDir() string {
	return filepath.Join(StateDir(), "exports")
}

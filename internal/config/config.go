// Package config provides unified configuration management for lapwatch.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → .env → env vars → local file → CLI flags
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/lapwatch/internal/dirs"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// LocalDirName is the per-project override directory looked up in the cwd.
const LocalDirName = ".lapwatch"

// Config holds all configuration settings for lapwatch.
// Fields ending in *Set track whether that field was explicitly set in config.
// This allows distinguishing explicit false/0 from "not set", enabling proper
// merge behavior where local config can override global config with zero values.
type Config struct {
	// Stopwatch settings
	TickInterval time.Duration `yaml:"tick_interval"`
	PrintEvery   int           `yaml:"print_every"` // headless: status line every N ticks

	// Output settings
	LogsDir      string `yaml:"logs_dir"`    // Directory for session logs (default: <state>/logs)
	ExportsDir   string `yaml:"exports_dir"` // Directory for lap exports (default: <state>/exports)
	SessionLog   bool   `yaml:"session_log"`
	ExportOnExit bool   `yaml:"export_on_exit"`
	Theme        string `yaml:"theme"` // glamour style for `laps show`

	// Set tracking for merge behavior
	TickIntervalSet bool `yaml:"-"`
	PrintEverySet   bool `yaml:"-"`
	SessionLogSet   bool `yaml:"-"`
	ExportOnExitSet bool `yaml:"-"`

	// Private: track where config was loaded from
	configDir string
	localDir  string
	sources   []string // ordered list of sources that contributed to this config
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ResolvedLogsDir returns LogsDir or the XDG default.
func (c *Config) ResolvedLogsDir() string {
	if c.LogsDir != "" {
		return c.LogsDir
	}
	return dirs.LogsDir()
}

// ResolvedExportsDir returns ExportsDir or the XDG default.
func (c *Config) ResolvedExportsDir() string {
	if c.ExportsDir != "" {
		return c.ExportsDir
	}
	return dirs.ExportsDir()
}

// Load loads all configuration from the default locations.
// It auto-detects .lapwatch/ in the current working directory for local overrides.
// It installs defaults if needed.
func Load() (*Config, error) {
	globalDir := dirs.ConfigDir()

	// Auto-detect local config directory in cwd
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, LocalDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}

	return LoadWithDirs(globalDir, localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// Local config (.lapwatch/) overrides global config (~/.config/lapwatch/) per-field.
// If localDir is empty, only global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// 1. Start with embedded defaults
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	// 2. Merge global config
	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	// 3. Apply .env from the local dir, then the process environment
	dotenv, err := loadDotEnv(localDir)
	if err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv(envLookup(dotenv))

	// 4. Merge local config (highest file precedence)
	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	return cfg, nil
}

// InstallDefaults creates the config directory and installs default config if not exists.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// Validate reports settings the stopwatch cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.PrintEvery <= 0 {
		errs = append(errs, fmt.Errorf("print_every must be positive, got %d", c.PrintEvery))
	}
	return errors.Join(errs...)
}

// loadEmbedded loads config from the embedded defaults.
func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

// loadFile loads config from a file path.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

// parseConfig parses YAML config data into a Config struct.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	// Parse into a map to detect which fields were explicitly set
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if _, ok := raw["tick_interval"]; ok {
		cfg.TickIntervalSet = true
	}
	if _, ok := raw["print_every"]; ok {
		cfg.PrintEverySet = true
	}
	if _, ok := raw["session_log"]; ok {
		cfg.SessionLogSet = true
	}
	if _, ok := raw["export_on_exit"]; ok {
		cfg.ExportOnExitSet = true
	}

	return cfg, nil
}

// loadDotEnv reads <localDir>/.env. A missing file yields an empty map.
func loadDotEnv(localDir string) (map[string]string, error) {
	if localDir == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(filepath.Join(localDir, ".env"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return vars, nil
}

// envLookup returns a lookup that prefers the process environment over dotenv.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	if v := get("LAPWATCH_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.TickInterval = d
			c.TickIntervalSet = true
			c.sources = append(c.sources, "env:LAPWATCH_TICK_INTERVAL")
		}
	}

	if v := get("LAPWATCH_PRINT_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PrintEvery = n
			c.PrintEverySet = true
			c.sources = append(c.sources, "env:LAPWATCH_PRINT_EVERY")
		}
	}

	if v := get("LAPWATCH_LOGS_DIR"); v != "" {
		c.LogsDir = v
		c.sources = append(c.sources, "env:LAPWATCH_LOGS_DIR")
	}

	if v := get("LAPWATCH_EXPORTS_DIR"); v != "" {
		c.ExportsDir = v
		c.sources = append(c.sources, "env:LAPWATCH_EXPORTS_DIR")
	}

	if v := get("LAPWATCH_SESSION_LOG"); v != "" {
		c.SessionLog = v == "true" || v == "1"
		c.SessionLogSet = true
		c.sources = append(c.sources, "env:LAPWATCH_SESSION_LOG")
	}

	if v := get("LAPWATCH_EXPORT_ON_EXIT"); v != "" {
		c.ExportOnExit = v == "true" || v == "1"
		c.ExportOnExitSet = true
		c.sources = append(c.sources, "env:LAPWATCH_EXPORT_ON_EXIT")
	}

	if v := get("LAPWATCH_THEME"); v != "" {
		c.Theme = v
		c.sources = append(c.sources, "env:LAPWATCH_THEME")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.TickIntervalSet {
		c.TickInterval = src.TickInterval
		c.TickIntervalSet = true
	}
	if src.PrintEverySet {
		c.PrintEvery = src.PrintEvery
		c.PrintEverySet = true
	}
	if src.LogsDir != "" {
		c.LogsDir = src.LogsDir
	}
	if src.ExportsDir != "" {
		c.ExportsDir = src.ExportsDir
	}
	if src.SessionLogSet {
		c.SessionLog = src.SessionLog
		c.SessionLogSet = true
	}
	if src.ExportOnExitSet {
		c.ExportOnExit = src.ExportOnExit
		c.ExportOnExitSet = true
	}
	if src.Theme != "" {
		c.Theme = src.Theme
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(tickInterval time.Duration, noLog bool) {
	if tickInterval > 0 {
		c.TickInterval = tickInterval
		c.TickIntervalSet = true
		c.sources = append(c.sources, "cli:tick")
	}
	if noLog {
		c.SessionLog = false
		c.SessionLogSet = true
		c.sources = append(c.sources, "cli:no-log")
	}
}

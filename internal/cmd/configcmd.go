package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/lapwatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lapwatch configuration",
	Long:  `View and manage lapwatch configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/lapwatch/config.yaml)
  3. .env in the local config directory
  4. Environment variables (LAPWATCH_*)
  5. Local config (.lapwatch/config.yaml)
  6. CLI flags (highest precedence)`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	printConfig(cmd.OutOrStdout(), cfg)
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "# Lapwatch Configuration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(w, "  - %s\n", src)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Directories")
	fmt.Fprintf(w, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(w, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(w, "  Local config:  (none detected)\n")
	}
	fmt.Fprintf(w, "  Logs:          %s\n", cfg.ResolvedLogsDir())
	fmt.Fprintf(w, "  Exports:       %s\n", cfg.ResolvedExportsDir())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Stopwatch Settings")
	fmt.Fprintf(w, "  tick_interval:  %s\n", cfg.TickInterval)
	fmt.Fprintf(w, "  print_every:    %d\n", cfg.PrintEvery)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Output Settings")
	fmt.Fprintf(w, "  session_log:    %t\n", cfg.SessionLog)
	fmt.Fprintf(w, "  export_on_exit: %t\n", cfg.ExportOnExit)
	fmt.Fprintf(w, "  theme:          %s\n", cfg.Theme)
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/lapwatch/internal/config"
	"github.com/alexander-akhmetov/lapwatch/internal/sessionlog"
)

var (
	logsList   bool
	logsRecent int
)

var logsCmd = &cobra.Command{
	Use:   "logs [session-id]",
	Short: "Show session logs",
	Long: `Show session logs written by 'lapwatch start'.

Without arguments, lists recent log files. With a session ID (or any
substring of one), prints the most recent matching log.

Options:
  --list, -l    List recent log files
  --recent N    Number of log files to list (default: 10)

Examples:
  lapwatch logs               # List recent logs
  lapwatch logs 3f2a          # Show the latest log for session 3f2a...
  lapwatch logs -l --recent 5 # List the five most recent logs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsList, "list", "l", false, "List recent log files")
	logsCmd.Flags().IntVar(&logsRecent, "recent", 10, "Number of recent logs to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logsDir := cfg.ResolvedLogsDir()

	if logsList || len(args) == 0 {
		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		return listLogs(cmd.OutOrStdout(), logsDir, filter, logsRecent)
	}
	return showLog(cmd.OutOrStdout(), logsDir, args[0])
}

// listLogs prints up to recent log files, newest first.
func listLogs(w io.Writer, logsDir, filter string, recent int) error {
	logs, err := sessionlog.FindLogs(logsDir, filter)
	if err != nil {
		return fmt.Errorf("failed to find logs: %w", err)
	}

	if len(logs) == 0 {
		fmt.Fprintln(w, "No log files found.")
		fmt.Fprintf(w, "Log directory: %s\n", logsDir)
		return nil
	}

	if recent <= 0 {
		recent = len(logs)
	}
	fmt.Fprintf(w, "Recent log files (showing %d):\n", min(recent, len(logs)))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for i, lf := range logs {
		if i >= recent {
			break
		}
		fmt.Fprintf(w, "  %s  %s\n", lf.Timestamp.Format("2006-01-02 15:04:05"), lf.SessionID)
		fmt.Fprintf(w, "    %s\n", lf.Path)
	}
	return nil
}

// showLog prints the most recent log matching sessionID.
func showLog(w io.Writer, logsDir, sessionID string) error {
	lf, err := sessionlog.FindLatestLog(logsDir, sessionID)
	if err != nil {
		return fmt.Errorf("failed to find log: %w", err)
	}
	if lf == nil {
		fmt.Fprintf(w, "No logs found for session: %s\n", sessionID)
		fmt.Fprintln(w, "Tip: Use 'lapwatch logs -l' to list all logs")
		return nil
	}

	fmt.Fprintf(w, "Log for %s (%s):\n", lf.SessionID, lf.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	data, err := os.ReadFile(lf.Path)
	if err != nil {
		return fmt.Errorf("failed to read log: %w", err)
	}
	_, err = w.Write(data)
	return err
}

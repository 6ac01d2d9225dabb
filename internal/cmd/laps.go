package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/lapwatch/internal/config"
	"github.com/alexander-akhmetov/lapwatch/internal/export"
)

var lapsPlain bool

var lapsCmd = &cobra.Command{
	Use:   "laps",
	Short: "Inspect lap exports",
	Long:  `View and compare lap lists exported by 'lapwatch start'.`,
}

var lapsShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show an exported lap list",
	Long: `Show an exported lap list as a table with the time of every lap and
the split since the previous one.

The table is rendered as markdown using the configured theme unless --plain
is given or stdout is not a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runLapsShow,
}

var lapsDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two exported lap lists",
	Args:  cobra.ExactArgs(2),
	RunE:  runLapsDiff,
}

func init() {
	lapsShowCmd.Flags().BoolVar(&lapsPlain, "plain", false, "Print plain text instead of rendered markdown")
	lapsCmd.AddCommand(lapsShowCmd)
	lapsCmd.AddCommand(lapsDiffCmd)
}

func runLapsShow(cmd *cobra.Command, args []string) error {
	doc, err := export.Read(args[0])
	if err != nil {
		return err
	}

	plain := lapsPlain
	width := 80
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		plain = true
	} else if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}

	theme := ""
	if !plain {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		theme = cfg.Theme
	}
	return showLaps(cmd.OutOrStdout(), doc, plain, theme, width)
}

func showLaps(w io.Writer, doc export.Document, plain bool, theme string, width int) error {
	if plain {
		_, err := io.WriteString(w, export.Plain(doc))
		return err
	}
	out, err := export.RenderMarkdown(export.Markdown(doc), theme, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func runLapsDiff(cmd *cobra.Command, args []string) error {
	return diffLaps(cmd.OutOrStdout(), args[0], args[1])
}

func diffLaps(w io.Writer, aPath, bPath string) error {
	a, err := export.Read(aPath)
	if err != nil {
		return err
	}
	b, err := export.Read(bPath)
	if err != nil {
		return err
	}

	diff := export.Diff(aPath, a, bPath, b)
	if diff == "" {
		fmt.Fprintln(w, "No differences.")
		return nil
	}
	_, err = io.WriteString(w, diff)
	return err
}

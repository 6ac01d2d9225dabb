package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/lapwatch/internal/format"
)

// Splits returns the duration between consecutive laps; the first split is
// the first lap itself.
func Splits(laps []time.Duration) []time.Duration {
	splits := make([]time.Duration, len(laps))
	var prev time.Duration
	for i, lap := range laps {
		splits[i] = lap - prev
		prev = lap
	}
	return splits
}

// Plain renders doc as aligned text, one lap per line.
func Plain(d Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "final %s\n", format.Clock(d.Final))
	splits := Splits(d.Laps)
	for i, lap := range d.Laps {
		fmt.Fprintf(&b, "#%-3d %s  +%s\n", i+1, format.Clock(lap), format.Clock(splits[i]))
	}
	return b.String()
}

// Markdown renders doc as a markdown document with a lap table.
func Markdown(d Document) string {
	var b strings.Builder

	title := "Laps"
	if d.SessionID != "" {
		title = "Laps for session " + d.SessionID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if !d.ExportedAt.IsZero() {
		fmt.Fprintf(&b, "Exported %s.\n\n", d.ExportedAt.Local().Format("2006-01-02 15:04:05"))
	}
	state := "stopped"
	if d.Running {
		state = "running"
	}
	fmt.Fprintf(&b, "**Final time:** `%s` (%s)\n\n", format.Clock(d.Final), state)

	if len(d.Laps) == 0 {
		b.WriteString("_No laps recorded._\n")
		return b.String()
	}

	b.WriteString("| # | Time | Split |\n|---:|---:|---:|\n")
	splits := Splits(d.Laps)
	for i, lap := range d.Laps {
		fmt.Fprintf(&b, "| %d | %s | +%s |\n", i+1, format.Clock(lap), format.Clock(splits[i]))
	}
	return b.String()
}

// RenderMarkdown renders markdown for the terminal with the given glamour
// style, wrapping at width.
func RenderMarkdown(md, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 40)),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Diff returns a unified diff between the plain renderings of a and b, or
// an empty string when they are identical.
func Diff(aLabel string, a Document, bLabel string, b Document) string {
	return udiff.Unified(aLabel, bLabel, Plain(a), Plain(b))
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/lapwatch/internal/format"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("⏱ LAPWATCH"))
	b.WriteString("\n")
	b.WriteString(m.stateIndicator())
	b.WriteString("\n\n")

	b.WriteString(timerBoxStyle.Render(timeStyle.Render(format.Clock(m.driver.State().Lapse))))
	b.WriteString("\n\n")

	b.WriteString(m.renderButtons())
	b.WriteString("\n\n")

	laps := m.driver.State().Laps
	header := labelStyle.Render(fmt.Sprintf("Laps (%d)", len(laps)))
	b.WriteString(lapBoxStyle.Width(m.lapViewport.Width + 2).Render(header + "\n" + m.lapViewport.View()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) stateIndicator() string {
	if m.driver.Running() {
		return runningStyle.Render(m.spinner.View() + " Running")
	}
	return stoppedStyle.Render("⏹ Stopped")
}

// renderButtons draws the three controls. The toggle reads "Start" when
// stopped and "Stop" when running; Lap is always available.
func (m Model) renderButtons() string {
	toggle := startButtonStyle.Render("Start")
	if m.driver.Running() {
		toggle = stopButtonStyle.Render("Stop")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		toggle,
		buttonStyle.Render("Clear"),
		buttonStyle.Render("Lap"),
	)
}

// renderLaps renders one row per lap, oldest first.
func renderLaps(laps []time.Duration) string {
	if len(laps) == 0 {
		return labelStyle.Render("no laps yet")
	}
	rows := make([]string, len(laps))
	for i, lap := range laps {
		rows[i] = labelStyle.Render(fmt.Sprintf("#%-3d ", i+1)) + valueStyle.Render(format.Clock(lap))
	}
	return strings.Join(rows, "\n")
}

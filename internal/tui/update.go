package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/lapwatch/internal/debug"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
	"github.com/alexander-akhmetov/lapwatch/internal/timing"
)

// fixedLines is the number of rows the view uses outside the lap viewport.
const fixedLines = 14

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// tickCmd schedules the next tick for run. Ticks are one-shot; the chain
// continues only while Update keeps rescheduling it.
func (m Model) tickCmd(run int) tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{run: run, at: t}
	})
}

func exportCmd(exporter Exporter, state stopwatch.State) tea.Cmd {
	return func() tea.Msg {
		path, err := exporter(state)
		return exportDoneMsg{path: path, err: err}
	}
}

// dispatch runs fn against the driver and starts a tick chain if fn began
// a new run.
func (m *Model) dispatch(fn func()) tea.Cmd {
	prevRun := m.driver.Run()
	fn()
	m.status = ""
	m.refreshLaps()
	if m.driver.Running() && m.driver.Run() != prevRun {
		return m.tickCmd(m.driver.Run())
	}
	return nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		cmd := m.dispatch(m.driver.Toggle)
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		cmd := m.dispatch(m.driver.Clear)
		return m, cmd

	case key.Matches(msg, m.keys.Lap):
		cmd := m.dispatch(m.driver.Lap)
		m.lapViewport.GotoBottom()
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		if m.exporter == nil {
			m.status = "export disabled"
			return m, nil
		}
		m.status = "exporting..."
		return m, exportCmd(m.exporter, m.driver.State())

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.lapViewport, cmd = m.lapViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tickMsg:
		// Ticks from an earlier run, or arriving after Stop/Clear, are dropped
		// without rescheduling.
		if msg.run != m.driver.Run() || !m.driver.Running() {
			return m, nil
		}
		m.driver.Tick(m.clock.Now())
		return m, m.tickCmd(msg.run)

	case exportDoneMsg:
		if msg.err != nil {
			debug.Logf("tui: export failed: %v", msg.err)
			m.status = fmt.Sprintf("export failed: %v", msg.err)
			return m, nil
		}
		m.status = "exported to " + msg.path
		if m.onEvent != nil {
			m.onEvent(event.Export(msg.path))
		}
		return m, nil

	case tea.WindowSizeMsg:
		timing.Log("Update: WindowSizeMsg received")
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		lapWidth := max(20, min(48, m.width-4))
		lapHeight := max(3, m.height-fixedLines)

		if !m.ready {
			m.lapViewport = viewport.New(lapWidth, lapHeight)
			m.ready = true
		} else {
			m.lapViewport.Width = lapWidth
			m.lapViewport.Height = lapHeight
		}
		m.refreshLaps()

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshLaps() {
	if !m.ready {
		return
	}
	atBottom := m.lapViewport.AtBottom()
	m.lapViewport.SetContent(renderLaps(m.driver.State().Laps))
	if atBottom {
		m.lapViewport.GotoBottom()
	}
}

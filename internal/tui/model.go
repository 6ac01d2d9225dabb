package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/alexander-akhmetov/lapwatch/internal/driver"
	"github.com/alexander-akhmetov/lapwatch/internal/event"
	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
)

// DefaultTickInterval is the cadence at which the elapsed time is recomputed.
const DefaultTickInterval = 25 * time.Millisecond

// Exporter writes the current laps somewhere and returns where.
type Exporter func(state stopwatch.State) (string, error)

// Options configures a Model.
type Options struct {
	Clock        clockwork.Clock // default: real clock
	TickInterval time.Duration   // default: DefaultTickInterval
	Exporter     Exporter        // nil disables the export key
	OnEvent      event.Handler   // receives driver events and exports
}

// Model is the bubbletea model for the stopwatch view.
type Model struct {
	driver       driver.Driver
	clock        clockwork.Clock
	tickInterval time.Duration
	exporter     Exporter
	onEvent      event.Handler

	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	lapViewport viewport.Model

	width  int
	height int
	ready  bool
	status string
}

// NewModel creates a stopped stopwatch view.
func NewModel(opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	d := driver.New(stopwatch.New(clock))
	d.OnEvent(opts.OnEvent)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		driver:       d,
		clock:        clock,
		tickInterval: interval,
		exporter:     opts.Exporter,
		onEvent:      opts.OnEvent,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      s,
	}
}

// State returns the stopwatch state shown by the model.
func (m Model) State() stopwatch.State {
	return m.driver.State()
}

// tickMsg is one firing of the tick source for run generation run.
type tickMsg struct {
	run int
	at  time.Time
}

// exportDoneMsg reports the result of an export.
type exportDoneMsg struct {
	path string
	err  error
}

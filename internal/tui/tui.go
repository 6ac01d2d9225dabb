// Package tui implements the terminal stopwatch view using bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/lapwatch/internal/stopwatch"
	"github.com/alexander-akhmetov/lapwatch/internal/timing"
)

// Run mounts a stopwatch view on the terminal and blocks until the user
// quits or ctx is cancelled. It returns the final stopwatch state. Any
// pending tick dies with the program.
func Run(ctx context.Context, opts Options) (stopwatch.State, error) {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	timing.Log("tui: program starting")
	final, err := p.Run()

	state := model.State()
	if fm, ok := final.(Model); ok {
		state = fm.State()
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return state, fmt.Errorf("run tui: %w", err)
	}
	return state, nil
}

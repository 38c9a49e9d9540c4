package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/finanmaster/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// RunOptions controls how the program is attached to the terminal.
type RunOptions struct {
	// Record writes every frame to a temporary directory.
	Record bool
	// NoAltScreen keeps the dashboard in the normal buffer.
	NoAltScreen bool
}

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled. It returns common.ErrAuthRequired when the session expired,
// so the caller can point at the login command.
func Run(ctx context.Context, deps Deps, run RunOptions, opts ...Option) error {
	if deps.Gateway == nil {
		return fmt.Errorf("dashboard: gateway is required")
	}

	m := New(deps, opts...)
	rec := NewRecorder(run.Record)
	defer rec.Close()

	var root tea.Model = m
	if rec.Enabled() {
		root = recording{rec: rec, model: m}
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !run.NoAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(root, programOpts...).Run()
	if rec.Enabled() {
		fmt.Fprintf(os.Stderr, "Gravação salva em %s\n", rec.Dir())
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard: %w", err)
	}

	switch fm := final.(type) {
	case Model:
		if fm.authRequired {
			return common.ErrAuthRequired
		}
	case recording:
		if fm.model.authRequired {
			return common.ErrAuthRequired
		}
	}
	return nil
}

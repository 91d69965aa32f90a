package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

// Options configures a TUI session.
type Options struct {
	Settings scenario.Settings
	Beeper   scenario.Beeper
	ImageURL string
	// LogOutput receives logrus output while the TUI owns the screen.
	// Nil discards it.
	LogOutput io.Writer
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	ctrl := scenario.NewController(opts.Settings, scenario.WithBeeper(opts.Beeper))
	model := NewModel(ctrl, opts.ImageURL)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Silence external logs during TUI to avoid corrupting the view.
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(out)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

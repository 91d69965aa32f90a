package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(x)

	case tea.MouseMsg:
		return m.handleMouse(x)

	case taskDueMsg:
		if !m.ctrl.Fire(x.ID) {
			// Cancelled by a reset; the timer outlived its session.
			return m, nil
		}
		return m, m.sync()

	case spinner.TickMsg:
		// Let the spinner chain lapse outside SCANNING; sync restarts it.
		if m.snap.State != scenario.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd

	case revealFrameMsg:
		if x.Gen != m.revealGen || !m.snap.Revealed {
			return m, nil
		}
		m.stepBounce()
		return m, m.nextRevealFrame()
	}

	return m, nil
}

package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// Any other key dismisses the reveal, same as a click.
	if m.snap.Revealed {
		return m.reset()
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.helpVisible = false
		return m, nil

	case key.Matches(msg, m.keys.Abort):
		return m.reset()

	case key.Matches(msg, m.keys.Start):
		return m.start()

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.terminal, cmd = m.terminal.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleMouse resets on any click during the reveal and starts the analysis
// when the start button is clicked.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) { // nolint:ireturn
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.snap.Revealed {
		return m.reset()
	}
	if m.snap.State == scenario.Idle && msg.Button == tea.MouseButtonLeft {
		if z := m.zones.Get(startZoneID); z != nil && z.InBounds(msg) {
			return m.start()
		}
	}
	return m, nil
}

func (m Model) start() (Model, tea.Cmd) {
	if !m.ctrl.StartAnalysis() {
		return m, nil
	}
	return m, m.sync()
}

func (m Model) reset() (Model, tea.Cmd) {
	m.ctrl.Reset()
	return m, m.sync()
}

// sync pulls a fresh snapshot from the controller and returns the commands
// the change calls for: one timer per newly armed task, the spinner when a
// scan begins and the bounce when the reveal appears.
func (m *Model) sync() tea.Cmd {
	prev := m.snap
	m.snap = m.ctrl.Snapshot()

	var cmds []tea.Cmd
	for _, task := range m.ctrl.TakeScheduled() {
		id := task.ID
		cmds = append(cmds, tea.Tick(task.Delay, func(_ time.Time) tea.Msg {
			return taskDueMsg{ID: id}
		}))
	}

	if !sameEntries(prev.Entries, m.snap.Entries) {
		m.refreshTerminal()
	}

	if m.snap.State == scenario.Scanning && prev.State != scenario.Scanning {
		cmds = append(cmds, m.spinner.Tick)
	}

	if m.snap.Revealed && !prev.Revealed {
		m.revealGen++
		m.bouncePos, m.bounceVel, m.bounceTo = 0, 0, bounceHeight
		cmds = append(cmds, m.nextRevealFrame())
	}
	if !m.snap.Revealed && prev.Revealed {
		// Invalidate in-flight frames.
		m.revealGen++
	}

	return tea.Batch(cmds...)
}

func (m Model) nextRevealFrame() tea.Cmd {
	gen := m.revealGen
	return tea.Tick(revealFrameInterval, func(_ time.Time) tea.Msg {
		return revealFrameMsg{Gen: gen}
	})
}

// stepBounce moves the reveal spring one frame and flips its target once it
// settles, so the banner keeps bouncing.
func (m *Model) stepBounce() {
	m.bouncePos, m.bounceVel = m.spring.Update(m.bouncePos, m.bounceVel, m.bounceTo)
	if math.Abs(m.bouncePos-m.bounceTo) < bounceSettleDelta && math.Abs(m.bounceVel) < bounceSettleDelta {
		if m.bounceTo == 0 {
			m.bounceTo = bounceHeight
		} else {
			m.bounceTo = 0
		}
	}
}

// bounceOffset is the reveal's current vertical offset in lines.
func (m Model) bounceOffset() int {
	off := int(math.Round(m.bouncePos))
	if off < 0 {
		return 0
	}
	return off
}

// refreshTerminal rewrites the log panel and scrolls to the newest entry.
func (m *Model) refreshTerminal() {
	lines := make([]string, 0, len(m.snap.Entries))
	for _, e := range m.snap.Entries {
		lines = append(lines, renderEntry(e, m.terminal.Width))
	}
	m.terminal.SetContent(strings.Join(lines, "\n"))
	m.terminal.GotoBottom()
}

// resize fits the log panel to the window.
func (m *Model) resize() {
	w := terminalMaxWidth
	if m.width > 0 && m.width-2 < w {
		w = m.width - 2
	}
	if w < terminalMinWidth {
		w = terminalMinWidth
	}
	m.terminal.Width = w - terminalChrome
	bar := w
	if bar > countdownBarMax {
		bar = countdownBarMax
	}
	m.progress.Width = bar
	m.refreshTerminal()
}

func sameEntries(a, b []feed.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/schedule"
	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

var epoch = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	clk   *schedule.ManualClock
	model Model
	armed []schedule.Task
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := schedule.NewManualClock(epoch)
	ctrl := scenario.NewController(scenario.DefaultSettings(), scenario.WithClock(clk.Now))
	return &harness{t: t, clk: clk, model: NewModel(ctrl, "https://example.com/monkey.jpg")}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	require.True(h.t, ok)
	h.model = m
	return cmd
}

// advance delivers every timer due within d the way tea.Tick would, and
// remembers each task ever armed so tests can replay stale ones.
func (h *harness) advance(d time.Duration) {
	h.t.Helper()
	until := h.clk.Now().Add(d)
	for {
		task, ok := h.model.ctrl.NextTask()
		if !ok || task.Due.After(until) {
			break
		}
		h.armed = append(h.armed, task)
		h.clk.Set(task.Due)
		h.send(taskDueMsg{ID: task.ID})
	}
	h.clk.Set(until)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func leftClick() tea.MouseMsg {
	return tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestModel_EnterStartsAnalysis(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.model.View(), "START SYSTEM ANALYSIS")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "timers and spinner are armed")
	assert.Equal(t, scenario.Scanning, h.model.Snapshot().State)
	assert.Contains(t, h.model.View(), "Analyzing bitstreams")

	// A second start is ignored.
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, len(scenario.DefaultScript()), h.model.ctrl.PendingTasks())
}

func TestModel_FullRunThenClickResets(t *testing.T) {
	h := newHarness(t)
	initial := h.model.Snapshot()

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.advance(4500 * time.Millisecond)
	snap := h.model.Snapshot()
	require.Len(t, snap.Entries, 6)
	assert.Equal(t, feed.Error, snap.Entries[5].Severity)
	assert.Contains(t, h.model.terminal.View(), "CRITICAL ERROR: SYSTEM COMPROMISED")

	h.advance(time.Second)
	require.Equal(t, scenario.Countdown, h.model.Snapshot().State)
	assert.Contains(t, h.model.View(), "CRITICAL SYSTEM PURGE INITIATED")

	h.advance(5 * time.Second)
	snap = h.model.Snapshot()
	require.Equal(t, scenario.Prank, snap.State)
	require.True(t, snap.Revealed)
	view := h.model.View()
	assert.Contains(t, view, revealTitle)
	assert.Contains(t, view, "https://example.com/monkey.jpg")

	h.send(leftClick())
	assert.Equal(t, initial, h.model.Snapshot())
	assert.Contains(t, h.model.View(), "START SYSTEM ANALYSIS")
}

func TestModel_AnyKeyDismissesReveal(t *testing.T) {
	h := newHarness(t)
	h.send(keyRunes("s"))
	h.advance(time.Minute)
	require.True(t, h.model.Snapshot().Revealed)

	h.send(keyRunes("x"))
	assert.Equal(t, scenario.Idle, h.model.Snapshot().State)
}

func TestModel_StaleTimersAfterAbortAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.advance(800 * time.Millisecond)
	require.Len(t, h.model.Snapshot().Entries, 1)
	stale := h.model.ctrl.Pending()
	require.Len(t, stale, 5)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, scenario.Idle, h.model.Snapshot().State)
	require.Empty(t, h.model.Snapshot().Entries)

	// Restart, then let the first session's timers land late.
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	for _, task := range append(h.armed, stale...) {
		assert.Nil(t, h.send(taskDueMsg{ID: task.ID}))
	}
	assert.Empty(t, h.model.Snapshot().Entries)

	h.advance(800 * time.Millisecond)
	entries := h.model.Snapshot().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "Kernel integrity check: PASSED", entries[0].Message)
}

func TestModel_QuitFromAnyState(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	cmd := h.send(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Shutting down...\n", h.model.View())
}

func TestModel_HelpToggle(t *testing.T) {
	h := newHarness(t)
	h.send(keyRunes("?"))
	assert.Contains(t, h.model.View(), "toggle this help")
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, h.model.View(), "toggle this help")
}

func TestModel_RevealFramesBounceAndStopAfterReset(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.advance(time.Minute)
	require.True(t, h.model.Snapshot().Revealed)
	gen := h.model.revealGen

	maxOffset := 0
	for i := 0; i < revealFPS*2; i++ {
		cmd := h.send(revealFrameMsg{Gen: gen})
		require.NotNil(t, cmd)
		if off := h.model.bounceOffset(); off > maxOffset {
			maxOffset = off
		}
	}
	assert.Positive(t, maxOffset)

	h.send(leftClick())
	assert.Nil(t, h.send(revealFrameMsg{Gen: gen}), "frames from a dismissed reveal are dropped")
}

func TestModel_WindowResizeFitsTerminal(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 50, Height: 30})
	assert.Equal(t, 48-terminalChrome, h.model.terminal.Width)
	assert.Equal(t, 48, h.model.progress.Width)

	h.send(tea.WindowSizeMsg{Width: 200, Height: 60})
	assert.Equal(t, terminalMaxWidth-terminalChrome, h.model.terminal.Width)
	assert.Equal(t, countdownBarMax, h.model.progress.Width)
}

func TestRenderEntry(t *testing.T) {
	e := feed.Entry{ID: "1", Message: "TRACING ORIGIN...", Severity: feed.Warn, Timestamp: "10:00:01"}
	line := renderEntry(e, 0)
	assert.Contains(t, line, "10:00:01")
	assert.Contains(t, line, "WARN:")
	assert.Contains(t, line, "TRACING ORIGIN...")

	short := renderEntry(feed.Entry{Message: strings.Repeat("x", 100), Severity: feed.Info, Timestamp: "10:00:01"}, 40)
	assert.Contains(t, short, "…")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "…", truncate("abcd", 1))
	assert.Empty(t, truncate("abcd", 0))
}

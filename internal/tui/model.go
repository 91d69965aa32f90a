package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

// Model is the root Bubble Tea model. It only reads controller state through
// snapshots; every mutation goes through the controller.
type Model struct {
	ctrl *scenario.Controller
	snap scenario.Snapshot

	width    int
	height   int
	quitting bool

	// ui state
	helpVisible bool
	imageURL    string

	spinner  spinner.Model
	progress progress.Model
	terminal viewport.Model
	zones    *zone.Manager

	// reveal bounce
	spring    harmonica.Spring
	bouncePos float64
	bounceVel float64
	bounceTo  float64
	revealGen int

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model around an IDLE controller.
func NewModel(ctrl *scenario.Controller, imageURL string) Model { // nolint:ireturn
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styleOK

	bar := progress.New(progress.WithSolidFill(colorDanger), progress.WithoutPercentage())
	bar.Width = countdownBarMax

	vp := viewport.New(terminalMaxWidth-terminalChrome, terminalHeight)

	m := Model{
		ctrl:     ctrl,
		snap:     ctrl.Snapshot(),
		imageURL: imageURL,
		spinner:  sp,
		progress: bar,
		terminal: vp,
		zones:    zone.New(),
		spring:   harmonica.NewSpring(harmonica.FPS(revealFPS), bounceFrequency, bounceDamping),
		bounceTo: bounceHeight,
		keys:     newKeyMap(),
	}
	m.refreshTerminal()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Snapshot returns the state last rendered.
func (m Model) Snapshot() scenario.Snapshot {
	return m.snap
}

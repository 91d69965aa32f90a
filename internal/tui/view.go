package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

const (
	colorBrand  = "#22C55E"
	colorDanger = "#DC2626"
)

//nolint:gochecknoglobals // shared styles.
var (
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBrand))
	styleDanger = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDanger)).Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	styleSubtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("22")).
			Padding(1, 2)

	styleButton = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#16A34A")).
			Padding(1, 4)

	styleTerminal = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("22")).
			Padding(0, 1)
)

const (
	appTitle    = "Security Analyzer v4.0.2"
	appSubtitle = "Enterprise Grade Device Forensics & Threat Mitigation"
	appFooter   = "© 2024 CYBER_SEC_PROTOCOLS // ENCRYPTION: AES-256"

	revealTitle = "WKWKWK MONYET!"
	revealHint  = "Lu kena prank! Click anywhere to exit"
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.snap.Revealed {
		return m.place(renderReveal(m))
	}

	var b strings.Builder
	if m.helpVisible {
		b.WriteString(renderHelp())
		b.WriteString("\n\n")
	}
	b.WriteString(renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderPanel())
	b.WriteString("\n\n")
	b.WriteString(renderFooter())

	return m.zones.Scan(m.place(b.String()))
}

// place centers content in the window once its size is known.
func (m Model) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderPanel() string {
	switch m.snap.State {
	case scenario.Idle:
		return m.renderIdle()
	case scenario.Scanning:
		return lipgloss.JoinVertical(lipgloss.Center,
			m.renderTerminal(),
			"",
			m.spinner.View()+" "+styleOK.Render("Analyzing bitstreams... |"),
		)
	case scenario.Countdown:
		return lipgloss.JoinVertical(lipgloss.Center,
			m.renderTerminal(),
			"",
			renderCountdown(m),
		)
	default:
		return ""
	}
}

func (m Model) renderIdle() string {
	prompt := styleOK.Render("Press enter or click below to begin a comprehensive security audit of this terminal.")
	button := m.zones.Mark(startZoneID, styleButton.Render("START SYSTEM ANALYSIS"))
	body := lipgloss.JoinVertical(lipgloss.Center, prompt, "", button)
	return lipgloss.JoinVertical(lipgloss.Center,
		styleCard.Render(body),
		"",
		styleMuted.Render("Authorized personnel only. Data usage rates may apply."),
	)
}

func (m Model) renderTerminal() string {
	title := styleOK.Render("Starting Deep System Analysis...")
	return styleTerminal.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.terminal.View()))
}

func renderCountdown(m Model) string {
	pct := 0.0
	if m.snap.CountdownStart > 0 {
		pct = float64(m.snap.Countdown) / float64(m.snap.CountdownStart)
	}
	digit := styleDanger.Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color(colorDanger)).Padding(0, 3).
		Render(fmt.Sprintf("%d", m.snap.Countdown))
	return lipgloss.JoinVertical(lipgloss.Center,
		styleDanger.Render("CRITICAL SYSTEM PURGE INITIATED"),
		"",
		digit,
		"",
		m.progress.ViewAs(pct),
	)
}

func renderReveal(m Model) string {
	lines := []string{
		strings.Repeat("\n", m.bounceOffset()) + styleDanger.Render(revealTitle),
		"",
		styleDanger.Render(monkeyArt),
		"",
	}
	if m.imageURL != "" {
		lines = append(lines, styleMuted.Render(m.imageURL), "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(revealHint))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		styleOK.Render("[ ✓ ]"),
		styleTitle.Render(appTitle),
		styleSubtitle.Render(appSubtitle),
	)
}

func renderFooter() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		styleMuted.Render(appFooter),
		styleMuted.Render("enter: start • ↑/↓: scroll • ctrl+r: abort • h/?: help • q: quit"),
	)
}

func renderHelp() string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	content := []string{
		"Help",
		"",
		"enter/space/s: start system analysis",
		"↑/↓ or j/k: scroll the analysis log",
		"ctrl+r: abort and return to the start screen",
		"h/?: toggle this help",
		"q/ctrl+c: quit",
	}
	return border.Render(strings.Join(content, "\n"))
}

const monkeyArt = `       .-"-.
     _/.-.-.\_
    ( ( o o ) )
     |/  "  \|
      \'---'/
      /'"""'\
     /,_____,\`

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
)

// severityStyle colors the SEVERITY: tag of a log line.
func severityStyle(s feed.Severity) lipgloss.Style {
	switch s {
	case feed.Error:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case feed.Warn:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	case feed.Success:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	}
}

// renderEntry renders "[ts] SEVERITY: message" truncated to width cells.
func renderEntry(e feed.Entry, width int) string {
	ts := styleMuted.Render("[" + e.Timestamp + "]")
	tag := severityStyle(e.Severity).Render(e.Severity.Label() + ":")
	msg := e.Message
	used := lipgloss.Width(ts) + 1 + lipgloss.Width(tag) + 1
	if width > 0 && used+lipgloss.Width(msg) > width {
		msg = truncate(msg, width-used)
	}
	return ts + " " + tag + " " + lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Render(msg)
}

// truncate shortens s to at most n cells, ending with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// Package console renders the prank as plain text for non-interactive runs.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/scenario"
)

const reportWidth = 60

// Options configures a headless session.
type Options struct {
	Settings scenario.Settings
	Beeper   scenario.Beeper
	ImageURL string
}

// countdownPrinter prints the remaining count before delegating the beep.
type countdownPrinter struct {
	w    io.Writer
	ctrl *scenario.Controller
	next scenario.Beeper
}

func (p *countdownPrinter) Beep() {
	fmt.Fprintf(p.w, "  %s\n", danger.Render(fmt.Sprintf("%d", p.ctrl.Countdown())))
	if p.next != nil {
		p.next.Beep()
	}
}

//nolint:gochecknoglobals // shared styles.
var (
	muted  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	brand  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	danger = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
)

// Run plays one full session on the wall clock, printing every log line,
// the countdown and the reveal to w.
func Run(ctx context.Context, w io.Writer, opts Options) error {
	beeper := &countdownPrinter{w: w, next: opts.Beeper}
	ctrl := scenario.NewController(opts.Settings,
		scenario.WithBeeper(beeper),
		scenario.WithEntryHook(func(e feed.Entry) {
			fmt.Fprintln(w, FormatEntry(e))
		}),
		scenario.WithTransitionHook(func(_, to scenario.State) {
			printTransition(w, to, opts)
		}),
	)
	beeper.ctrl = ctrl

	printBanner(w)
	return scenario.Run(ctx, ctrl)
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, brand.Render("Security Analyzer v4.0.2"))
	fmt.Fprintln(w, muted.Render("Enterprise Grade Device Forensics & Threat Mitigation"))
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
}

func printTransition(w io.Writer, to scenario.State, opts Options) {
	switch to {
	case scenario.Scanning:
		fmt.Fprintln(w, brand.Render("Starting Deep System Analysis..."))
	case scenario.Countdown:
		fmt.Fprintln(w)
		fmt.Fprintln(w, danger.Render("CRITICAL SYSTEM PURGE INITIATED"))
		fmt.Fprintf(w, "  %s\n", danger.Render(fmt.Sprintf("%d", opts.Settings.CountdownStart)))
	case scenario.Prank:
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("=", reportWidth))
		fmt.Fprintln(w, danger.Render("WKWKWK MONYET!"))
		if opts.ImageURL != "" {
			fmt.Fprintln(w, opts.ImageURL)
		}
		fmt.Fprintln(w, "Lu kena prank!")
		fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	case scenario.Idle:
	}
}

// FormatEntry renders a feed entry with a colored severity tag.
func FormatEntry(e feed.Entry) string {
	return fmt.Sprintf("%s %s %s", muted.Render("["+e.Timestamp+"]"), severityColor(e.Severity).Render(e.Severity.Label()+":"), e.Message)
}

func severityColor(s feed.Severity) lipgloss.Style {
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

// PrintTimeline writes the scripted run with offsets, as text or JSON.
func PrintTimeline(w io.Writer, events []scenario.Event, jsonOutput bool) error {
	if jsonOutput {
		out, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, "SCENARIO TIMELINE")
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	for _, ev := range events {
		offset := fmt.Sprintf("+%6.3fs", ev.Offset.Seconds())
		switch ev.Kind {
		case scenario.EventLog:
			fmt.Fprintf(w, "%s  %-8s %s\n", offset, ev.Severity.Label(), ev.Message)
		case scenario.EventTransition:
			fmt.Fprintf(w, "%s  %-8s %s -> %s\n", offset, "STATE", ev.From, ev.To)
		case scenario.EventBeep:
			fmt.Fprintf(w, "%s  %-8s countdown %d\n", offset, "BEEP", ev.Countdown)
		}
	}
	return nil
}

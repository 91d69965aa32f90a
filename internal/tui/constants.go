package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// terminal panel (log feed) geometry.
	terminalHeight   = 10
	terminalMaxWidth = 72
	terminalMinWidth = 30
	// chrome around the terminal panel: border (2) + padding (2).
	terminalChrome = 4

	countdownBarMax = 60

	// reveal bounce animation.
	revealFPS         = 30
	bounceHeight      = 2.0
	bounceFrequency   = 6.0
	bounceDamping     = 0.35
	bounceSettleDelta = 0.05

	startZoneID = "start-analysis"

	revealFrameInterval = time.Second / revealFPS
)

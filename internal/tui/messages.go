package tui

import "github.com/ensigniasec/sec-analyzer/internal/schedule"

// Message types for Bubble Tea update loop.

// taskDueMsg fires when a controller timer elapses. Cancelled tasks are
// ignored by the controller.
type taskDueMsg struct{ ID schedule.TaskID }

// revealFrameMsg advances the reveal bounce. Frames from an earlier reveal
// carry a stale generation and are dropped.
type revealFrameMsg struct{ Gen int }

package scenario

import (
	"time"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/schedule"
)

// EventKind tags a Timeline event.
type EventKind string

const (
	EventLog        EventKind = "log"
	EventTransition EventKind = "transition"
	EventBeep       EventKind = "beep"
)

// Event is one observable effect of a full run.
type Event struct {
	Offset    time.Duration `json:"offset"`
	Kind      EventKind     `json:"kind"`
	From      State         `json:"from"`
	To        State         `json:"to"`
	Severity  feed.Severity `json:"severity,omitempty"`
	Message   string        `json:"message,omitempty"`
	Countdown int           `json:"countdown"`
}

type beepFunc func()

func (f beepFunc) Beep() { f() }

// Timeline plays settings on a virtual clock and returns every effect with its
// offset from the start, ending at the reveal.
func Timeline(settings Settings) []Event {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := schedule.NewManualClock(start)
	var (
		events []Event
		c      *Controller
	)
	offset := func() time.Duration { return clk.Now().Sub(start) }
	c = NewController(settings,
		WithClock(clk.Now),
		WithEntryHook(func(e feed.Entry) {
			events = append(events, Event{Offset: offset(), Kind: EventLog, Severity: e.Severity, Message: e.Message, Countdown: c.Countdown()})
		}),
		WithTransitionHook(func(from, to State) {
			events = append(events, Event{Offset: offset(), Kind: EventTransition, From: from, To: to, Countdown: c.Countdown()})
		}),
		WithBeeper(beepFunc(func() {
			events = append(events, Event{Offset: offset(), Kind: EventBeep, Countdown: c.Countdown()})
		})),
	)
	c.StartAnalysis()
	for c.State() != Prank {
		if Simulate(c, clk, settings.Duration()+time.Second) == 0 {
			break
		}
	}
	return events
}

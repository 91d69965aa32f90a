package scenario

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
	"github.com/ensigniasec/sec-analyzer/internal/schedule"
)

// Beeper plays the countdown alert. Implementations must not block.
type Beeper interface {
	Beep()
}

type noBeep struct{}

func (noBeep) Beep() {}

// Timer payloads.
type (
	stepEvent     struct{ index int }
	escalateEvent struct{}
	tickEvent     struct{}
)

// Snapshot is a read-only copy of the controller state for rendering.
type Snapshot struct {
	State          State        `json:"state"`
	Countdown      int          `json:"countdown"`
	CountdownStart int          `json:"countdown_start"`
	Revealed       bool         `json:"revealed"`
	Entries        []feed.Entry `json:"entries"`
}

// Controller sequences the fake scan, the countdown and the reveal. It is the
// only writer of its state and feed. Not safe for concurrent use.
type Controller struct {
	settings Settings
	now      func() time.Time
	queue    *schedule.Queue
	feed     *feed.Feed
	beeper   Beeper
	log      *logrus.Entry

	state     State
	countdown int
	revealed  bool

	onTransition func(from, to State)
	onEntry      func(feed.Entry)
}

// Option mutates Controller configuration.
type Option func(*Controller)

// WithClock sets the time source for timers and log timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBeeper sets the countdown alert.
func WithBeeper(b Beeper) Option {
	return func(c *Controller) {
		if b != nil {
			c.beeper = b
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTransitionHook registers fn to observe every state change.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(c *Controller) { c.onTransition = fn }
}

// WithEntryHook registers fn to observe every appended log entry.
func WithEntryHook(fn func(feed.Entry)) Option {
	return func(c *Controller) { c.onEntry = fn }
}

// NewController returns an IDLE controller with an empty feed.
func NewController(settings Settings, opts ...Option) *Controller {
	c := &Controller{
		settings: settings,
		now:      time.Now,
		beeper:   noBeep{},
		log:      logrus.WithField("component", "scenario"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.queue = schedule.NewQueue(c.now)
	c.feed = feed.New(feed.WithCapacity(settings.FeedCapacity), feed.WithClock(c.now))
	c.countdown = settings.CountdownStart
	return c
}

// StartAnalysis begins the fake scan. It only has an effect from IDLE and
// reports whether the scan started.
func (c *Controller) StartAnalysis() bool {
	if c.state != Idle {
		c.log.Debugf("start ignored in state %s", c.state)
		return false
	}
	c.transition(Scanning)
	for i, st := range c.settings.Script {
		c.queue.Schedule(st.Delay, stepEvent{index: i})
	}
	// An empty script escalates straight away.
	if len(c.settings.Script) == 0 {
		c.queue.Schedule(c.settings.EscalationDelay, escalateEvent{})
	}
	return true
}

// Reset cancels every pending timer and restores the initial snapshot.
func (c *Controller) Reset() {
	if n := c.queue.CancelAll(); n > 0 {
		c.log.Debugf("reset cancelled %d pending timers", n)
	}
	c.feed.Clear()
	c.countdown = c.settings.CountdownStart
	c.revealed = false
	if c.state != Idle {
		c.transition(Idle)
	}
}

// Fire delivers the scheduled task id. Tasks cancelled by a reset or a
// transition are ignored and Fire reports false.
func (c *Controller) Fire(id schedule.TaskID) bool {
	task, ok := c.queue.Claim(id)
	if !ok {
		return false
	}
	switch ev := task.Payload.(type) {
	case stepEvent:
		c.fireStep(ev.index)
	case escalateEvent:
		c.escalate()
	case tickEvent:
		c.tick()
	default:
		c.log.Warnf("dropping task %d with unknown payload %T", id, task.Payload)
		return false
	}
	return true
}

func (c *Controller) fireStep(index int) {
	if c.state != Scanning || index >= len(c.settings.Script) {
		return
	}
	st := c.settings.Script[index]
	c.append(st.Message, st.Severity)
	if index == len(c.settings.Script)-1 {
		c.queue.Schedule(c.settings.EscalationDelay, escalateEvent{})
	}
}

func (c *Controller) escalate() {
	if c.state != Scanning {
		return
	}
	c.transition(Countdown)
	c.countdown = c.settings.CountdownStart
	if c.countdown <= 0 {
		c.reveal()
		return
	}
	c.queue.Schedule(c.settings.TickInterval, tickEvent{})
}

func (c *Controller) tick() {
	if c.state != Countdown || c.countdown <= 0 {
		return
	}
	c.countdown--
	c.beeper.Beep()
	if c.countdown > 0 {
		c.queue.Schedule(c.settings.TickInterval, tickEvent{})
		return
	}
	c.reveal()
}

func (c *Controller) reveal() {
	c.transition(Prank)
	c.revealed = true
}

func (c *Controller) append(message string, sev feed.Severity) {
	e := c.feed.Append(message, sev)
	c.log.WithField("severity", e.Severity).Debug(e.Message)
	if c.onEntry != nil {
		c.onEntry(e)
	}
}

// transition moves to next, cancelling leftover timers whenever an active
// state is left.
func (c *Controller) transition(next State) {
	prev := c.state
	if prev.active() {
		if n := c.queue.CancelAll(); n > 0 {
			c.log.Debugf("leaving %s cancelled %d pending timers", prev, n)
		}
	}
	c.state = next
	c.log.Debugf("state %s -> %s", prev, next)
	if c.onTransition != nil {
		c.onTransition(prev, next)
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Countdown returns the remaining countdown value.
func (c *Controller) Countdown() int { return c.countdown }

// Revealed reports whether the reveal overlay is shown.
func (c *Controller) Revealed() bool { return c.revealed }

// Entries returns a copy of the log feed.
func (c *Controller) Entries() []feed.Entry { return c.feed.Entries() }

// Settings returns the controller's timing configuration.
func (c *Controller) Settings() Settings { return c.settings }

// Snapshot copies the state the display needs.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:          c.state,
		Countdown:      c.countdown,
		CountdownStart: c.settings.CountdownStart,
		Revealed:       c.revealed,
		Entries:        c.feed.Entries(),
	}
}

// NextTask returns the earliest pending timer.
func (c *Controller) NextTask() (schedule.Task, bool) { return c.queue.Next() }

// Pending returns armed timers in due order.
func (c *Controller) Pending() []schedule.Task { return c.queue.Pending() }

// PendingTasks returns the number of armed timers.
func (c *Controller) PendingTasks() int { return c.queue.Len() }

// TakeScheduled drains timers armed since the previous call so a host can
// start one real timer for each.
func (c *Controller) TakeScheduled() []schedule.Task { return c.queue.TakeScheduled() }

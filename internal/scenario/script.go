package scenario

import (
	"errors"
	"fmt"
	"time"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
)

// ErrInvalidScript reports a script that cannot be scheduled in order.
var ErrInvalidScript = errors.New("invalid script")

// Step is one scripted log line, fired Delay after the analysis starts.
type Step struct {
	Message  string        `json:"message"`
	Severity feed.Severity `json:"severity"`
	Delay    time.Duration `json:"delay"`
}

// Script is the ordered list of fake scan events.
type Script []Step

// DefaultScript returns the stock "deep system analysis".
func DefaultScript() Script {
	return Script{
		{Message: "Kernel integrity check: PASSED", Severity: feed.Info, Delay: 800 * time.Millisecond},
		{Message: "Firewall status: ACTIVE", Severity: feed.Info, Delay: 1500 * time.Millisecond},
		{Message: "Port scan: 65,535 ports analyzed", Severity: feed.Info, Delay: 2200 * time.Millisecond},
		{Message: "WARNING: UNKNOWN ENTITY DETECTED", Severity: feed.Warn, Delay: 3000 * time.Millisecond},
		{Message: "TRACING ORIGIN...", Severity: feed.Warn, Delay: 3800 * time.Millisecond},
		{Message: "CRITICAL ERROR: SYSTEM COMPROMISED", Severity: feed.Error, Delay: 4500 * time.Millisecond},
	}
}

// Validate checks that the script is non-empty and its delays are positive and
// strictly increasing, which keeps firing order equal to script order.
func (s Script) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	var prev time.Duration
	for i, st := range s {
		if st.Delay <= 0 {
			return fmt.Errorf("%w: step %d has non-positive delay %s", ErrInvalidScript, i+1, st.Delay)
		}
		if i > 0 && st.Delay <= prev {
			return fmt.Errorf("%w: step %d delay %s is not after %s", ErrInvalidScript, i+1, st.Delay, prev)
		}
		if st.Severity != "" && !st.Severity.Valid() {
			return fmt.Errorf("%w: step %d has unknown severity %q", ErrInvalidScript, i+1, st.Severity)
		}
		prev = st.Delay
	}
	return nil
}

// Settings tunes the controller's timing and sizes.
type Settings struct {
	Script          Script
	EscalationDelay time.Duration // last step to COUNTDOWN
	CountdownStart  int
	TickInterval    time.Duration
	FeedCapacity    int
}

// DefaultSettings returns the stock timings: six steps over 4.5s, one second
// of suspense, then a five second countdown.
func DefaultSettings() Settings {
	return Settings{
		Script:          DefaultScript(),
		EscalationDelay: time.Second,
		CountdownStart:  5,
		TickInterval:    time.Second,
		FeedCapacity:    feed.DefaultCapacity,
	}
}

// Scaled returns a copy with every duration multiplied by factor.
// Non-positive factors return s unchanged.
func (s Settings) Scaled(factor float64) Settings {
	if factor <= 0 || factor == 1 {
		return s
	}
	scale := func(d time.Duration) time.Duration {
		out := time.Duration(float64(d) * factor)
		if out < time.Microsecond {
			out = time.Microsecond
		}
		return out
	}
	out := s
	out.Script = make(Script, len(s.Script))
	for i, st := range s.Script {
		st.Delay = scale(st.Delay)
		out.Script[i] = st
	}
	out.EscalationDelay = scale(s.EscalationDelay)
	out.TickInterval = scale(s.TickInterval)
	return out
}

// Duration is the total time from start to reveal.
func (s Settings) Duration() time.Duration {
	if len(s.Script) == 0 {
		return 0
	}
	return s.Script[len(s.Script)-1].Delay + s.EscalationDelay + time.Duration(s.CountdownStart)*s.TickInterval
}

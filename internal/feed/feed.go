package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of most recent entries a Feed retains.
const DefaultCapacity = 20

// timestampLayout mirrors a locale "HH:MM:SS" time string.
const timestampLayout = "15:04:05"

// Severity classifies a log entry for display.
type Severity string

const (
	Info    Severity = "info"
	Warn    Severity = "warn"
	Error   Severity = "error"
	Success Severity = "success"
)

// Severities lists every known severity in display priority order.
func Severities() []Severity {
	return []Severity{Info, Warn, Error, Success}
}

// ParseSeverity maps text (case-insensitive) to a Severity. Empty text is Info.
func ParseSeverity(s string) (Severity, error) {
	if strings.TrimSpace(s) == "" {
		return Info, nil
	}
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.Valid() {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case Info, Warn, Error, Success:
		return true
	default:
		return false
	}
}

// Label is the upper-case tag rendered in front of a message.
func (s Severity) Label() string {
	return strings.ToUpper(string(s))
}

// Entry is a single immutable line of the security log.
type Entry struct {
	ID        string   `json:"id"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Timestamp string   `json:"timestamp"`
}

// Feed is an append-only log bounded to its most recent entries.
// Oldest entries are dropped first once capacity is reached.
type Feed struct {
	entries  []Entry
	capacity int
	now      func() time.Time
}

// Option mutates Feed configuration.
type Option func(*Feed)

// WithCapacity overrides DefaultCapacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(f *Feed) {
		if n < 1 {
			return
		}
		f.capacity = n
	}
}

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		if now == nil {
			return
		}
		f.now = now
	}
}

// New constructs an empty Feed.
func New(opts ...Option) *Feed {
	f := &Feed{
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.entries = make([]Entry, 0, f.capacity)
	return f
}

// Append records a message and truncates the feed to its capacity.
// An empty severity is recorded as Info.
func (f *Feed) Append(message string, severity Severity) Entry {
	if severity == "" {
		severity = Info
	}
	e := Entry{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Timestamp: f.now().Format(timestampLayout),
	}
	f.entries = append(f.entries, e)
	if over := len(f.entries) - f.capacity; over > 0 {
		// Shift in place so the backing array does not grow without bound.
		n := copy(f.entries, f.entries[over:])
		clear(f.entries[n:])
		f.entries = f.entries[:n]
	}
	return e
}

// Clear removes every entry.
func (f *Feed) Clear() {
	clear(f.entries)
	f.entries = f.entries[:0]
}

// Entries returns a copy of the feed, oldest first.
func (f *Feed) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of retained entries.
func (f *Feed) Len() int { return len(f.entries) }

// Cap returns the maximum number of retained entries.
func (f *Feed) Cap() int { return f.capacity }

// Format renders an entry as a single terminal line.
func Format(e Entry) string {
	return fmt.Sprintf("[%s] %s: %s", e.Timestamp, e.Severity.Label(), e.Message)
}

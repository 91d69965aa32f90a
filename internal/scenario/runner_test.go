//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
)

func TestRun_ReachesReveal(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		beeps       int
		transitions []State
	)
	c := NewController(DefaultSettings().Scaled(0.001),
		WithBeeper(beepFunc(func() { beeps++ })),
		WithTransitionHook(func(_, to State) { transitions = append(transitions, to) }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Run(ctx, c))

	assert.Equal(t, Prank, c.State())
	assert.True(t, c.Revealed())
	assert.Len(t, c.Entries(), 6)
	assert.Equal(t, 5, beeps)
	assert.Equal(t, []State{Scanning, Countdown, Prank}, transitions)
}

func TestRun_CancelResets(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(DefaultSettings())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Run(ctx, c)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Idle, c.State())
	assert.Zero(t, c.PendingTasks())
	assert.Empty(t, c.Entries())
}

func TestRun_NotIdle(t *testing.T) {
	c := NewController(DefaultSettings())
	require.True(t, c.StartAnalysis())
	assert.ErrorIs(t, Run(context.Background(), c), ErrNotIdle)
}

func TestTimeline_DefaultSettings(t *testing.T) {
	events := Timeline(DefaultSettings())

	var logs, beeps []Event
	var transitions []string
	for _, ev := range events {
		switch ev.Kind {
		case EventLog:
			logs = append(logs, ev)
		case EventBeep:
			beeps = append(beeps, ev)
		case EventTransition:
			transitions = append(transitions, ev.To.String())
		}
	}

	require.Len(t, logs, 6)
	assert.Equal(t, 800*time.Millisecond, logs[0].Offset)
	assert.Equal(t, 4500*time.Millisecond, logs[5].Offset)
	assert.Equal(t, feed.Error, logs[5].Severity)

	require.Len(t, beeps, 5)
	for i, b := range beeps {
		assert.Equal(t, 5500*time.Millisecond+time.Duration(i+1)*time.Second, b.Offset)
		assert.Equal(t, 4-i, b.Countdown)
	}

	assert.Equal(t, []string{"SCANNING", "COUNTDOWN", "PRANK"}, transitions)
	last := events[len(events)-1]
	assert.Equal(t, EventTransition, last.Kind)
	assert.Equal(t, Prank, last.To)
	assert.Equal(t, DefaultSettings().Duration(), last.Offset)
}

func TestSettings_Scaled(t *testing.T) {
	base := DefaultSettings()
	fast := base.Scaled(0.5)

	assert.Equal(t, 400*time.Millisecond, fast.Script[0].Delay)
	assert.Equal(t, 500*time.Millisecond, fast.EscalationDelay)
	assert.Equal(t, 500*time.Millisecond, fast.TickInterval)
	assert.Equal(t, 800*time.Millisecond, base.Script[0].Delay, "original untouched")
	assert.Equal(t, base, base.Scaled(0))
	assert.Equal(t, 10500*time.Millisecond, base.Duration())
}

func TestScript_Validate(t *testing.T) {
	require.NoError(t, DefaultScript().Validate())

	tests := []struct {
		name   string
		script Script
	}{
		{name: "empty", script: Script{}},
		{name: "zero delay", script: Script{{Message: "a", Delay: 0}}},
		{name: "not increasing", script: Script{
			{Message: "a", Delay: time.Second},
			{Message: "b", Delay: time.Second},
		}},
		{name: "bad severity", script: Script{{Message: "a", Delay: time.Second, Severity: "fatal"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.script.Validate(), ErrInvalidScript)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "IDLE", Idle.String())
	assert.Equal(t, "PRANK", Prank.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
	b, err := Countdown.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "COUNTDOWN", string(b))
}

package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/ensigniasec/sec-analyzer/internal/schedule"
)

var (
	// ErrNotIdle is returned when a run is requested while a scenario is in progress.
	ErrNotIdle = errors.New("scenario already running")
	// ErrStalled is returned when no timer is pending before the reveal.
	ErrStalled = errors.New("scenario stalled before reveal")
)

// Run starts the analysis and fires each timer on the wall clock until the
// reveal. Cancelling ctx resets the controller and returns ctx.Err().
// The controller must use the real clock.
func Run(ctx context.Context, c *Controller) error {
	if !c.StartAnalysis() {
		return ErrNotIdle
	}
	for c.State() != Prank {
		task, ok := c.NextTask()
		if !ok {
			return ErrStalled
		}
		if wait := time.Until(task.Due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				c.Reset()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			c.Reset()
			return err
		}
		c.Fire(task.ID)
	}
	return nil
}

// Simulate fires, in due order, every timer that falls within d of clk's
// current time, moving clk to each task's due time before firing it. The clock
// ends exactly d later. It returns the number of timers fired.
func Simulate(c *Controller, clk *schedule.ManualClock, d time.Duration) int {
	until := clk.Now().Add(d)
	fired := 0
	for {
		task, ok := c.NextTask()
		if !ok || task.Due.After(until) {
			break
		}
		clk.Set(task.Due)
		if c.Fire(task.ID) {
			fired++
		}
	}
	clk.Set(until)
	return fired
}

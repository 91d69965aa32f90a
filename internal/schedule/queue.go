// Package schedule keeps a registry of pending timer tasks.
//
// Timers never run callbacks on their own. A host (the TUI update loop or the
// headless runner) waits for a task's due time and then claims it by id; a task
// cancelled in the meantime can no longer be claimed, so late firings are
// dropped instead of corrupting a newer session.
package schedule

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task. IDs are never reused by a Queue.
type TaskID uint64

// Task is a scheduled-task record.
type Task struct {
	ID      TaskID
	Due     time.Time
	Delay   time.Duration
	Payload any
}

// Queue is a cancellable registry of scheduled tasks. It is not safe for
// concurrent use; callers serialize access the same way they serialize state.
type Queue struct {
	now     func() time.Time
	lastID  TaskID
	pending map[TaskID]Task
	outbox  []TaskID
}

// NewQueue returns an empty Queue reading time from now (time.Now if nil).
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{
		now:     now,
		pending: make(map[TaskID]Task),
	}
}

// Schedule registers payload to fire after delay. Negative delays are treated as zero.
func (q *Queue) Schedule(delay time.Duration, payload any) Task {
	if delay < 0 {
		delay = 0
	}
	q.lastID++
	t := Task{
		ID:      q.lastID,
		Due:     q.now().Add(delay),
		Delay:   delay,
		Payload: payload,
	}
	q.pending[t.ID] = t
	q.outbox = append(q.outbox, t.ID)
	return t
}

// Claim removes and returns the task with id. It reports false when the task
// already fired or was cancelled.
func (q *Queue) Claim(id TaskID) (Task, bool) {
	t, ok := q.pending[id]
	if !ok {
		return Task{}, false
	}
	delete(q.pending, id)
	return t, true
}

// Cancel drops a single task.
func (q *Queue) Cancel(id TaskID) bool {
	if _, ok := q.pending[id]; !ok {
		return false
	}
	delete(q.pending, id)
	return true
}

// CancelAll drops every pending task and returns how many were dropped.
func (q *Queue) CancelAll() int {
	n := len(q.pending)
	clear(q.pending)
	q.outbox = q.outbox[:0]
	return n
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int { return len(q.pending) }

// Pending returns pending tasks ordered by due time, then id.
func (q *Queue) Pending() []Task {
	out := make([]Task, 0, len(q.pending))
	for _, t := range q.pending {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Due.Equal(out[j].Due) {
			return out[i].ID < out[j].ID
		}
		return out[i].Due.Before(out[j].Due)
	})
	return out
}

// Next returns the earliest pending task without claiming it.
func (q *Queue) Next() (Task, bool) {
	var (
		next  Task
		found bool
	)
	for _, t := range q.pending {
		if !found || t.Due.Before(next.Due) || (t.Due.Equal(next.Due) && t.ID < next.ID) {
			next = t
			found = true
		}
	}
	return next, found
}

// TakeScheduled drains tasks scheduled since the previous call that are still
// pending, in scheduling order. Hosts use it to arm one timer per new task.
func (q *Queue) TakeScheduled() []Task {
	if len(q.outbox) == 0 {
		return nil
	}
	out := make([]Task, 0, len(q.outbox))
	for _, id := range q.outbox {
		if t, ok := q.pending[id]; ok {
			out = append(out, t)
		}
	}
	q.outbox = q.outbox[:0]
	return out
}

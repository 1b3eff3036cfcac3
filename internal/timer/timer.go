// Package timer provides fire-once, re-armable timers that run on the
// caller's event loop. Timers never fire on their own goroutine: the loop
// asks the Queue for the next deadline, waits however it likes, and calls
// Fire with the current time.
package timer

import (
	"sort"
	"time"
)

// Queue holds every running timer ordered by deadline.
type Queue struct {
	now     func() time.Time
	running []*Timer
	seq     uint64
}

// NewQueue creates a queue. A nil now falls back to time.Now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now}
}

// Now returns the queue's notion of the current time.
func (q *Queue) Now() time.Time {
	return q.now()
}

// NewTimer returns a stopped fire-once timer bound to q.
func (q *Queue) NewTimer() *Timer {
	return &Timer{queue: q, once: true}
}

// Next reports the earliest deadline among running timers.
func (q *Queue) Next() (time.Time, bool) {
	if len(q.running) == 0 {
		return time.Time{}, false
	}
	return q.running[0].deadline, true
}

// Len is the number of running timers.
func (q *Queue) Len() int {
	return len(q.running)
}

// Fire runs the command of every timer whose deadline is not after now, in
// deadline order, and returns how many fired. Timers started by a command
// during Fire wait for the next call.
func (q *Queue) Fire(now time.Time) int {
	q.seq++
	cur := q.seq
	var due []*Timer
	for _, t := range q.running {
		if t.deadline.After(now) {
			break
		}
		due = append(due, t)
	}
	fired := 0
	for _, t := range due {
		// an earlier command may have stopped or re-armed this timer
		if !t.timing || t.deadline.After(now) || t.armedSeq == cur {
			continue
		}
		q.remove(t)
		t.timing = false
		if !t.once {
			t.arm(now)
		}
		fired++
		if t.command != nil {
			t.command()
		}
	}
	return fired
}

func (q *Queue) insert(t *Timer) {
	idx := sort.Search(len(q.running), func(i int) bool {
		return q.running[i].deadline.After(t.deadline)
	})
	q.running = append(q.running, nil)
	copy(q.running[idx+1:], q.running[idx:])
	q.running[idx] = t
}

func (q *Queue) remove(t *Timer) {
	for i, r := range q.running {
		if r == t {
			q.running = append(q.running[:i], q.running[i+1:]...)
			return
		}
	}
}

// Timer calls its command once its timeout elapses after Start, unless it
// is stopped first. Starting a running timer re-arms it from now.
type Timer struct {
	queue    *Queue
	timeout  time.Duration
	command  func()
	once     bool
	timing   bool
	start    time.Time
	deadline time.Time
	armedSeq uint64
}

// SetTimeout sets the delay used by the next Start.
func (t *Timer) SetTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.timeout = d
}

// Timeout returns the configured delay.
func (t *Timer) Timeout() time.Duration {
	return t.timeout
}

// SetCommand sets the callback run on expiry.
func (t *Timer) SetCommand(fn func()) {
	t.command = fn
}

// FireOnce selects between one-shot and self re-arming behaviour.
func (t *Timer) FireOnce(once bool) {
	t.once = once
}

// Start arms the timer, replacing any pending expiry.
func (t *Timer) Start() {
	if t.queue == nil {
		return
	}
	if t.timing {
		t.queue.remove(t)
	}
	t.arm(t.queue.now())
}

func (t *Timer) arm(now time.Time) {
	t.start = now
	t.deadline = now.Add(t.timeout)
	t.timing = true
	t.armedSeq = t.queue.seq
	t.queue.insert(t)
}

// Stop cancels a pending expiry. Stopping an idle timer is a no-op.
func (t *Timer) Stop() {
	if !t.timing {
		return
	}
	t.timing = false
	if t.queue != nil {
		t.queue.remove(t)
	}
}

// IsTiming reports whether an expiry is pending.
func (t *Timer) IsTiming() bool {
	return t.timing
}

// Deadline is the pending expiry time; zero when idle.
func (t *Timer) Deadline() time.Time {
	if !t.timing {
		return time.Time{}
	}
	return t.deadline
}

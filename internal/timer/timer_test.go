package timer

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestQueue() (*Queue, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return NewQueue(clock.Now), clock
}

func TestTimerFiresOnceAfterTimeout(t *testing.T) {
	q, clock := newTestQueue()
	fired := 0
	tm := q.NewTimer()
	tm.SetTimeout(200 * time.Millisecond)
	tm.SetCommand(func() { fired++ })
	tm.Start()

	if n := q.Fire(clock.advance(100 * time.Millisecond)); n != 0 || fired != 0 {
		t.Fatalf("expected nothing to fire before the deadline, fired %d", fired)
	}
	if n := q.Fire(clock.advance(100 * time.Millisecond)); n != 1 || fired != 1 {
		t.Fatalf("expected exactly one expiry, got n=%d fired=%d", n, fired)
	}
	if tm.IsTiming() {
		t.Fatalf("expected fire-once timer to be idle after expiry")
	}
	q.Fire(clock.advance(time.Second))
	if fired != 1 {
		t.Fatalf("expected no repeat, fired %d", fired)
	}
}

func TestStopCancelsPendingExpiry(t *testing.T) {
	q, clock := newTestQueue()
	fired := false
	tm := q.NewTimer()
	tm.SetTimeout(50 * time.Millisecond)
	tm.SetCommand(func() { fired = true })
	tm.Start()
	tm.Stop()
	tm.Stop()
	q.Fire(clock.advance(time.Second))
	if fired {
		t.Fatalf("expected stopped timer not to fire")
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}
}

func TestRestartRearmsFromNow(t *testing.T) {
	q, clock := newTestQueue()
	fired := 0
	tm := q.NewTimer()
	tm.SetTimeout(100 * time.Millisecond)
	tm.SetCommand(func() { fired++ })
	tm.Start()
	clock.advance(80 * time.Millisecond)
	tm.Start()
	q.Fire(clock.advance(40 * time.Millisecond))
	if fired != 0 {
		t.Fatalf("expected re-armed timer to wait a full timeout")
	}
	q.Fire(clock.advance(60 * time.Millisecond))
	if fired != 1 {
		t.Fatalf("expected one expiry after re-arm, got %d", fired)
	}
	if q.Len() != 0 {
		t.Fatalf("expected restart not to leave duplicates, got %d", q.Len())
	}
}

func TestFireOrdersByDeadline(t *testing.T) {
	q, clock := newTestQueue()
	var order []string
	for _, tc := range []struct {
		name string
		d    time.Duration
	}{{"slow", 30 * time.Millisecond}, {"fast", 10 * time.Millisecond}, {"mid", 20 * time.Millisecond}} {
		name := tc.name
		tm := q.NewTimer()
		tm.SetTimeout(tc.d)
		tm.SetCommand(func() { order = append(order, name) })
		tm.Start()
	}
	next, ok := q.Next()
	if !ok || !next.Equal(clock.now.Add(10*time.Millisecond)) {
		t.Fatalf("expected next deadline in 10ms, got %v/%v", next, ok)
	}
	q.Fire(clock.advance(time.Second))
	want := []string{"fast", "mid", "slow"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestCommandStoppingLaterTimer(t *testing.T) {
	q, clock := newTestQueue()
	second := q.NewTimer()
	secondFired := false
	second.SetTimeout(20 * time.Millisecond)
	second.SetCommand(func() { secondFired = true })

	first := q.NewTimer()
	first.SetTimeout(10 * time.Millisecond)
	first.SetCommand(second.Stop)

	first.Start()
	second.Start()
	q.Fire(clock.advance(time.Second))
	if secondFired {
		t.Fatalf("expected second timer to be cancelled by the first command")
	}
}

func TestTimerStartedDuringFireWaits(t *testing.T) {
	q, clock := newTestQueue()
	fired := 0
	tm := q.NewTimer()
	tm.SetTimeout(0)
	tm.SetCommand(func() {
		fired++
		tm.Start()
	})
	tm.Start()
	q.Fire(clock.advance(time.Millisecond))
	if fired != 1 {
		t.Fatalf("expected a re-armed timer to wait for the next Fire, got %d", fired)
	}
	q.Fire(clock.advance(time.Millisecond))
	if fired != 2 {
		t.Fatalf("expected second expiry on the next Fire, got %d", fired)
	}
}

func TestRepeatingTimerRearmsItself(t *testing.T) {
	q, clock := newTestQueue()
	fired := 0
	tm := q.NewTimer()
	tm.FireOnce(false)
	tm.SetTimeout(10 * time.Millisecond)
	tm.SetCommand(func() { fired++ })
	tm.Start()
	for i := 0; i < 3; i++ {
		q.Fire(clock.advance(10 * time.Millisecond))
	}
	if fired != 3 {
		t.Fatalf("expected three expiries, got %d", fired)
	}
	if !tm.IsTiming() {
		t.Fatalf("expected repeating timer to stay armed")
	}
}

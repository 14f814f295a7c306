package app

import (
	"sync"
	"time"
)

// Timer drives the countdown for one challenge run. It moves through three
// states: disabled (never started), running (deadline in the future) and
// expired (deadline passed). The expiry callback fires at most once per
// timer instance, even if ticks keep arriving while it runs.
type Timer struct {
	deadline time.Time
	interval time.Duration
	now      func() time.Time
	onExpire func()

	stop       chan struct{}
	stopOnce   sync.Once
	expireOnce sync.Once
}

// NewTimer builds a timer that checks the deadline once per second.
func NewTimer(deadline time.Time, onExpire func()) *Timer {
	return newTimerWithClock(deadline, time.Second, time.Now, onExpire)
}

// newTimerWithClock allows deterministic clocks and short intervals in tests.
func newTimerWithClock(deadline time.Time, interval time.Duration, now func() time.Time, onExpire func()) *Timer {
	return &Timer{
		deadline: deadline,
		interval: interval,
		now:      now,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Start begins ticking in a background goroutine. If the deadline is already
// in the past the expiry fires on the first tick.
func (t *Timer) Start() {
	go t.run()
}

func (t *Timer) run() {
	// Initial check so a deadline that passed while the client was away
	// expires without waiting a full interval.
	if t.expireIfDue() {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.expireIfDue() {
				return
			}
		}
	}
}

func (t *Timer) expireIfDue() bool {
	if t.Remaining() > 0 {
		return false
	}
	t.expireOnce.Do(t.onExpire)
	return true
}

// Stop cancels future ticks. Safe to call from any state, any number of
// times, including from inside the expiry callback.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Remaining returns the time left before the deadline, rounded to the
// nearest second and never negative.
func (t *Timer) Remaining() time.Duration {
	remaining := t.deadline.Sub(t.now()).Round(time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

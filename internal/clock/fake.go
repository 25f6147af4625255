package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	events []*fakeEvent
}

type fakeEvent struct {
	clock   *Fake
	id      int
	at      time.Time
	period  time.Duration
	f       func()
	stopped bool
}

func (e *fakeEvent) Stop() bool {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()
	if e.stopped {
		return false
	}
	e.stopped = true
	return true
}

// NewFake returns a Fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	return c.schedule(d, 0, f)
}

func (c *Fake) Every(d time.Duration, f func()) Timer {
	return c.schedule(d, d, f)
}

func (c *Fake) schedule(d, period time.Duration, f func()) *fakeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	e := &fakeEvent{clock: c, id: c.seq, at: c.now.Add(d), period: period, f: f}
	c.events = append(c.events, e)
	return e
}

// Advance moves the clock forward by d, firing every callback that falls
// due in timestamp order. Callbacks run without the clock's lock held and
// may schedule or stop other timers.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		f := next.f
		c.mu.Unlock()

		f()
	}
}

// Pending returns the number of live timers.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if !e.stopped {
			n++
		}
	}
	return n
}

// nextDue returns the earliest live event due at or before target and
// drops stopped events. Must be called with c.mu held.
func (c *Fake) nextDue(target time.Time) *fakeEvent {
	live := c.events[:0]
	var best *fakeEvent
	for _, e := range c.events {
		if e.stopped {
			continue
		}
		live = append(live, e)
		if e.at.After(target) {
			continue
		}
		if best == nil || e.at.Before(best.at) || (e.at.Equal(best.at) && e.id < best.id) {
			best = e
		}
	}
	c.events = live
	return best
}

// Package clock abstracts time for the timer-driven engines. Everything
// scheduled through a Clock is cancellable with a single Stop call, and
// the Fake clock lets tests drive timers deterministically.
package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback. Stop cancels it and reports whether it
// was still pending.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Callbacks run on their own goroutine for the
// real clock and synchronously inside Advance for the fake one, so
// receivers must guard their state.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f every d until stopped.
	Every(d time.Duration, f func()) Timer
}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Every(d time.Duration, f func()) Timer {
	t := &realTicker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go t.loop(f)
	return t
}

type realTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *realTicker) loop(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			f()
		}
	}
}

func (t *realTicker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

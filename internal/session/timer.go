package session

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/profile"
)

const (
	// TimerTick is the elapsed-time resolution.
	TimerTick = time.Second
	// CheckpointEvery is how many ticks pass between saves.
	CheckpointEvery = 10
)

// Timer counts a session's elapsed seconds while it is open. It saves a
// checkpoint every CheckpointEvery ticks and the final value on Close.
type Timer struct {
	m *Manager
	c profile.Category

	mu      sync.Mutex
	seconds int
	ticks   int
	paused  bool
	closed  bool
	ticker  clock.Timer
}

// StartTimer resumes timing from the session's stored elapsed time. A
// missing or submitted session yields a timer that never ticks.
func (m *Manager) StartTimer(c profile.Category) *Timer {
	t := &Timer{m: m, c: c}
	s := m.Get(c)
	if s == nil {
		t.closed = true
		return t
	}
	t.seconds = s.ElapsedTime
	if s.IsSubmitted {
		t.closed = true
		return t
	}
	t.ticker = m.clk.Every(TimerTick, t.tick)
	return t
}

func (t *Timer) tick() {
	t.mu.Lock()
	if t.closed || t.paused {
		t.mu.Unlock()
		return
	}
	s := t.m.Get(t.c)
	if s == nil || s.IsSubmitted {
		t.stopLocked()
		t.mu.Unlock()
		return
	}
	t.seconds++
	t.ticks++
	seconds, checkpoint := t.seconds, t.ticks%CheckpointEvery == 0
	t.mu.Unlock()

	if checkpoint {
		if _, err := t.m.SaveElapsed(context.Background(), t.c, seconds); err != nil {
			t.m.logger.Warn("saving elapsed time failed", "category", t.c.Slug(), "error", err)
		}
	}
}

// Elapsed returns the counted seconds.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seconds
}

func (t *Timer) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

func (t *Timer) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
}

// Close stops the timer and saves the elapsed time unless the session
// has been submitted or cleared meanwhile.
func (t *Timer) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.stopLocked()
	seconds := t.seconds
	t.mu.Unlock()

	s := t.m.Get(t.c)
	if s == nil || s.IsSubmitted {
		return nil
	}
	_, err := t.m.SaveElapsed(ctx, t.c, seconds)
	return err
}

func (t *Timer) stopLocked() {
	t.closed = true
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

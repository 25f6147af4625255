package clock

import (
	"sync"
	"time"
)

// Stopwatch measures elapsed running time across start/stop cycles.
type Stopwatch struct {
	clk Clock

	mu      sync.Mutex
	running bool
	started time.Time
	total   time.Duration
}

// NewStopwatch returns a stopped stopwatch reading zero.
func NewStopwatch(clk Clock) *Stopwatch {
	return &Stopwatch{clk: clk}
}

// Start begins timing. It is a no-op when already running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.started = s.clk.Now()
}

// Stop pauses timing and reports whether the stopwatch was running.
func (s *Stopwatch) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.total += s.clk.Now().Sub(s.started)
	s.running = false
	return true
}

// Reset stops the stopwatch and zeroes it.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.total = 0
}

// Elapsed returns the accumulated running time.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.total + s.clk.Now().Sub(s.started)
	}
	return s.total
}

// Running reports whether the stopwatch is timing.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

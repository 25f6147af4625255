package games

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/clock"
)

const (
	CountdownTick = 100 * time.Millisecond
	StopwatchTick = 50 * time.Millisecond
	FeedbackDelay = 1000 * time.Millisecond
)

// RacePhase is where a running race is in its question cycle.
type RacePhase int

const (
	RaceReady RacePhase = iota
	RaceAsking
	RaceFeedback
	RaceFinished
	RaceStopped
)

func (p RacePhase) String() string {
	switch p {
	case RaceAsking:
		return "asking"
	case RaceFeedback:
		return "feedback"
	case RaceFinished:
		return "finished"
	case RaceStopped:
		return "stopped"
	default:
		return "ready"
	}
}

// RaceState is a point-in-time copy of a runner.
type RaceState struct {
	Phase    RacePhase
	Question RaceQuestion
	Progress float64
	TimeLeft time.Duration
	Elapsed  time.Duration
	Last     RaceResult
	// FinishTime and NewBest are set once the race is finished.
	FinishTime time.Duration
	NewBest    bool
}

// RaceRunner drives a Race on a clock. The per-question countdown
// restarts for every question; the stopwatch runs from Start until the
// finish line and stops exactly once.
type RaceRunner struct {
	race     *Race
	clk      clock.Clock
	logger   *slog.Logger
	onChange func(RaceState)

	mu        sync.Mutex
	phase     RacePhase
	gen       int
	remaining time.Duration
	stopwatch *clock.Stopwatch
	elapsed   time.Duration
	last      RaceResult
	finish    time.Duration
	newBest   bool

	countdown clock.Timer
	swTicker  clock.Timer
	feedback  clock.Timer
}

// NewRaceRunner wraps race. onChange, when non-nil, is called after
// every transition and tick, outside the runner's lock.
func NewRaceRunner(race *Race, clk clock.Clock, logger *slog.Logger, onChange func(RaceState)) *RaceRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &RaceRunner{
		race:      race,
		clk:       clk,
		logger:    logger,
		onChange:  onChange,
		remaining: QuestionTime,
		stopwatch: clock.NewStopwatch(clk),
	}
}

// Start begins the stopwatch and the first question's countdown.
func (r *RaceRunner) Start() {
	r.mu.Lock()
	if r.phase != RaceReady {
		r.mu.Unlock()
		return
	}
	r.stopwatch.Start()
	r.swTicker = r.clk.Every(StopwatchTick, r.tickStopwatch)
	r.askLocked()
	s := r.stateLocked()
	r.mu.Unlock()
	r.notify(s)
}

// askLocked presents the current question and restarts the countdown.
func (r *RaceRunner) askLocked() {
	r.gen++
	gen := r.gen
	r.phase = RaceAsking
	r.remaining = QuestionTime
	r.countdown = r.clk.Every(CountdownTick, func() { r.tickCountdown(gen) })
}

func (r *RaceRunner) tickStopwatch() {
	r.mu.Lock()
	if !r.stopwatch.Running() {
		r.mu.Unlock()
		return
	}
	r.elapsed = r.stopwatch.Elapsed()
	s := r.stateLocked()
	r.mu.Unlock()
	r.notify(s)
}

func (r *RaceRunner) tickCountdown(gen int) {
	r.mu.Lock()
	if r.gen != gen || r.phase != RaceAsking {
		r.mu.Unlock()
		return
	}
	if r.remaining <= CountdownTick {
		r.remaining = 0
		r.answerLocked(context.Background(), "")
	} else {
		r.remaining -= CountdownTick
	}
	s := r.stateLocked()
	r.mu.Unlock()
	r.notify(s)
}

// Answer submits option for the current question. It is ignored outside
// the asking phase.
func (r *RaceRunner) Answer(ctx context.Context, option string) (RaceResult, error) {
	r.mu.Lock()
	if r.phase != RaceAsking {
		res := RaceResult{Progress: r.race.Progress(), Finished: r.race.Finished()}
		r.mu.Unlock()
		return res, nil
	}
	res, err := r.answerLocked(ctx, option)
	s := r.stateLocked()
	r.mu.Unlock()
	r.notify(s)
	return res, err
}

func (r *RaceRunner) answerLocked(ctx context.Context, option string) (RaceResult, error) {
	stopTimer(&r.countdown)
	taken := QuestionTime - r.remaining
	res, err := r.race.Answer(ctx, option, taken)
	if err != nil {
		r.logger.Warn("recording race answer failed", "word", r.race.Question().Word.Word, "error", err)
	}
	r.last = res
	r.phase = RaceFeedback

	gen := r.gen
	if res.Finished {
		r.stopwatch.Stop()
		stopTimer(&r.swTicker)
		r.finish = r.stopwatch.Elapsed()
		r.elapsed = r.finish
		best, rerr := r.race.RecordFinish(ctx, r.finish)
		if rerr != nil {
			r.logger.Warn("recording race time failed", "key", r.race.Key(), "error", rerr)
		}
		r.newBest = best
	}
	r.feedback = r.clk.AfterFunc(FeedbackDelay, func() { r.afterFeedback(gen) })
	return res, err
}

func (r *RaceRunner) afterFeedback(gen int) {
	r.mu.Lock()
	if r.gen != gen || r.phase != RaceFeedback {
		r.mu.Unlock()
		return
	}
	r.feedback = nil
	if r.race.Finished() {
		r.phase = RaceFinished
	} else {
		r.race.Next()
		r.askLocked()
	}
	s := r.stateLocked()
	r.mu.Unlock()
	r.notify(s)
}

// State returns a copy of the runner's state.
func (r *RaceRunner) State() RaceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *RaceRunner) stateLocked() RaceState {
	return RaceState{
		Phase:      r.phase,
		Question:   r.race.Question(),
		Progress:   r.race.Progress(),
		TimeLeft:   r.remaining,
		Elapsed:    r.elapsed,
		Last:       r.last,
		FinishTime: r.finish,
		NewBest:    r.newBest,
	}
}

// Stop cancels every timer. A stopped runner ignores input and never
// records a finish.
func (r *RaceRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	stopTimer(&r.countdown)
	stopTimer(&r.swTicker)
	stopTimer(&r.feedback)
	r.stopwatch.Stop()
	if r.race.Finished() {
		r.phase = RaceFinished
	} else {
		r.phase = RaceStopped
	}
}

func (r *RaceRunner) notify(s RaceState) {
	if r.onChange != nil {
		r.onChange(s)
	}
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

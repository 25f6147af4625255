package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/vocab"
)

// ErrorDelay is how long a mismatch stays on screen.
const ErrorDelay = 500 * time.Millisecond

// BatchSource supplies a fresh word set when a training grid is cleared.
type BatchSource interface {
	NextBatch(ctx context.Context) ([]vocab.Word, []vocab.ShortDef, error)
}

// MatchingState is a point-in-time copy of a runner's grid.
type MatchingState struct {
	Round    int
	Words    []Tile
	Defs     []Tile
	Matched  map[string]bool
	Selected *Selection
	ErrorKey string
	Done     bool
}

// MatchingRunner drives a Matching grid on a clock: mismatches clear
// themselves after ErrorDelay, and with a BatchSource a completed grid
// is replaced by a new one.
type MatchingRunner struct {
	clk     clock.Clock
	rewards Rewards
	rec     Recorder
	source  BatchSource
	rng     *rand.Rand
	logger  *slog.Logger

	mu      sync.Mutex
	game    *Matching
	round   int
	pending clock.Timer
	closed  bool
}

// MatchingConfig configures a MatchingRunner.
type MatchingConfig struct {
	Clock   clock.Clock
	Rewards Rewards
	Rec     Recorder
	// Source enables reseeding. Nil means a finished grid stays finished.
	Source BatchSource
	Rng    *rand.Rand
	Logger *slog.Logger
}

// NewMatchingRunner starts round 1 over words.
func NewMatchingRunner(cfg MatchingConfig, words []vocab.Word, shortDefs []vocab.ShortDef) *MatchingRunner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &MatchingRunner{
		clk:     cfg.Clock,
		rewards: cfg.Rewards,
		rec:     cfg.Rec,
		source:  cfg.Source,
		rng:     cfg.Rng,
		logger:  cfg.Logger,
	}
	r.game = NewMatching(words, shortDefs, r.rewards, r.rec, r.rng)
	r.round = 1
	return r
}

// Select forwards a tile pick to the current grid.
func (r *MatchingRunner) Select(ctx context.Context, id string, side Side) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Ignored, nil
	}

	out, err := r.game.Select(ctx, id, side)
	switch out {
	case Mismatched:
		round := r.round
		r.pending = r.clk.AfterFunc(ErrorDelay, func() { r.clearError(round) })
	case Completed:
		if r.source != nil {
			if rerr := r.reseedLocked(ctx); rerr != nil {
				r.logger.Warn("reseeding matching grid failed", "round", r.round, "error", rerr)
			}
		}
	}
	return out, err
}

func (r *MatchingRunner) clearError(round int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.round != round {
		return
	}
	r.game.ClearError()
	r.pending = nil
}

func (r *MatchingRunner) reseedLocked(ctx context.Context) error {
	words, defs, err := r.source.NextBatch(ctx)
	if err != nil {
		return fmt.Errorf("next batch: %w", err)
	}
	if len(words) == 0 {
		return errors.New("next batch: no words")
	}
	r.stopPendingLocked()
	r.game = NewMatching(words, defs, r.rewards, r.rec, r.rng)
	r.round++
	return nil
}

// State returns a copy of the current grid.
func (r *MatchingRunner) State() MatchingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.game
	s := MatchingState{
		Round:    r.round,
		Words:    append([]Tile(nil), g.words...),
		Defs:     append([]Tile(nil), g.defs...),
		Matched:  make(map[string]bool, len(g.matched)),
		ErrorKey: g.errorKey,
		Done:     g.done,
	}
	for id := range g.matched {
		s.Matched[id] = true
	}
	if sel, ok := g.Selected(); ok {
		s.Selected = &sel
	}
	return s
}

// Stop cancels the pending error timer. The runner ignores input
// afterwards.
func (r *MatchingRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.stopPendingLocked()
}

func (r *MatchingRunner) stopPendingLocked() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// Package daily runs the daily vocabulary progression: which stage the
// learner is on and browsing, the once-per-stage completion bonus, stage
// advancement with a fresh review seed, starring, and the cumulative test.
package daily

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/state"
	"github.com/abhisek/examprep/internal/vocab"
)

// CompletionXP is the one-time bonus for marking a stage done.
const CompletionXP = 450

var (
	// ErrAdvanceLocked is returned by Advance unless the learner is on
	// the newest stage and has marked it done.
	ErrAdvanceLocked = errors.New("daily: finish the current stage before advancing")
	// ErrNotEnoughWords is returned when a test would have fewer than
	// MinTestWords words.
	ErrNotEnoughWords = errors.New("daily: at least 4 words are needed for a test")
)

// Mode selects between the stage word set and the starred review set.
type Mode int

const (
	StageMode Mode = iota
	StarredMode
)

// View is what the learner sees for the stage being browsed.
type View struct {
	Stage     int
	MaxStage  int
	Completed bool
	Seed      int
	Mode      Mode
	Words     []vocab.Word
	// LastDone is the YYYY-MM-DD date the newest stage was marked done.
	LastDone string
}

// ReadOnly reports whether the view is a past stage.
func (v View) ReadOnly() bool { return v.Stage < v.MaxStage }

// Service is the daily progression engine.
type Service struct {
	st      *state.Store
	tracker *progress.Tracker
	clk     clock.Clock

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService returns a Service. A nil rng draws from a time-seeded source.
func NewService(st *state.Store, tracker *progress.Tracker, clk clock.Clock, rng *rand.Rand) *Service {
	if rng == nil {
		now := uint64(clk.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	return &Service{st: st, tracker: tracker, clk: clk, rng: rng}
}

// View computes the word set for the browsed stage, or the starred set.
func (s *Service) View(pool []vocab.Word, mode Mode) View {
	var v View
	s.st.Read(func(p *profile.Profile) {
		v = View{
			Stage:     int(p.LastViewedDay),
			MaxStage:  int(p.DailyVocabDay),
			Completed: p.DailyVocabCompleted,
			Seed:      int(p.DailyVocabSeed),
			Mode:      mode,
			LastDone:  p.LastDailyVocabDate,
		}
		if mode == StarredMode {
			v.Words = vocab.StarredReview(pool, p.StarredSet())
		} else {
			v.Words = vocab.DailyBatch(pool, v.Stage, v.Seed, p.StarredSet())
		}
	})
	return v
}

// Browse moves the browsed stage to stage, clamped to [1, max]. It
// returns the stage now being browsed.
func (s *Service) Browse(ctx context.Context, stage int) (int, error) {
	var got int
	_, err := s.st.Update(ctx, func(p *profile.Profile) bool {
		got = min(max(stage, 1), int(p.DailyVocabDay))
		if int(p.LastViewedDay) == got {
			return false
		}
		p.LastViewedDay = profile.Count(got)
		return true
	})
	return got, err
}

// Prev browses the previous stage.
func (s *Service) Prev(ctx context.Context) (int, error) {
	return s.shift(ctx, -1)
}

// Next browses the next unlocked stage.
func (s *Service) Next(ctx context.Context) (int, error) {
	return s.shift(ctx, 1)
}

func (s *Service) shift(ctx context.Context, delta int) (int, error) {
	var cur int
	s.st.Read(func(p *profile.Profile) { cur = int(p.LastViewedDay) })
	return s.Browse(ctx, cur+delta)
}

// MarkDone completes the newest stage and awards CompletionXP. It
// reports false, changing nothing, when the stage is already done or a
// past stage is being browsed.
func (s *Service) MarkDone(ctx context.Context) (bool, error) {
	today := s.clk.Now().Format("2006-01-02")
	return s.st.Update(ctx, func(p *profile.Profile) bool {
		if p.DailyVocabCompleted || p.LastViewedDay < p.DailyVocabDay {
			return false
		}
		p.DailyVocabCompleted = true
		p.LastDailyVocabDate = today
		progress.AwardXP(p, CompletionXP)
		return true
	})
}

// Advance unlocks the next stage and draws a new review seed. It returns
// the new stage.
func (s *Service) Advance(ctx context.Context) (int, error) {
	seed := s.drawSeed()
	var stage int
	changed, err := s.st.Update(ctx, func(p *profile.Profile) bool {
		if !p.DailyVocabCompleted || p.LastViewedDay != p.DailyVocabDay {
			return false
		}
		p.DailyVocabDay++
		p.DailyVocabCompleted = false
		p.DailyVocabSeed = profile.Count(seed)
		p.LastViewedDay = p.DailyVocabDay
		stage = int(p.DailyVocabDay)
		return true
	})
	if err != nil {
		return stage, err
	}
	if !changed {
		return 0, ErrAdvanceLocked
	}
	return stage, nil
}

// ToggleStar flips word's starred state and returns the new state.
func (s *Service) ToggleStar(ctx context.Context, word string) (bool, error) {
	return s.tracker.ToggleStar(ctx, word)
}

// RaceBoard returns the leaderboard slot for a race over the current
// view. Starred-mode races are not recorded and return ok=false.
func (s *Service) RaceBoard(v View) (board progress.Board, key string, ok bool) {
	if v.Mode == StarredMode {
		return 0, "", false
	}
	return progress.DailyBoard, profile.StageKey(v.Stage), true
}

func (s *Service) drawSeed() int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(profile.MaxSeed)
}

func (s *Service) shuffle(words []vocab.Word) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
}

func (s *Service) coin() bool {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.IntN(2) == 0
}

package progress

import (
	"context"

	"github.com/abhisek/examprep/internal/mistakes"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/state"
)

// Board selects a race leaderboard.
type Board int

const (
	// DailyBoard is keyed by daily stage number.
	DailyBoard Board = iota
	// SessionBoard is keyed by training word-set fingerprint.
	SessionBoard
)

// Tracker applies scoring operations to the shared profile. Each method
// is one atomic, persisted mutation.
type Tracker struct {
	st *state.Store
}

// NewTracker returns a Tracker over st.
func NewTracker(st *state.Store) *Tracker {
	return &Tracker{st: st}
}

func (t *Tracker) RecordAnswer(ctx context.Context, correct bool, c profile.Category) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		RecordAnswer(p, correct, string(c))
		return true
	})
	return err
}

func (t *Tracker) AwardXP(ctx context.Context, amount int) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		before := p.XP
		AwardXP(p, amount)
		return p.XP != before
	})
	return err
}

func (t *Tracker) BoostMastery(ctx context.Context, word string, delta int) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		before, had := p.WordMastery[word]
		after := UpdateWordMastery(p, word, delta)
		return !had || int(before) != after
	})
	return err
}

func (t *Tracker) LogMistake(ctx context.Context, q profile.Question) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		return mistakes.Log(p, q)
	})
	return err
}

func (t *Tracker) ResolveMistake(ctx context.Context, id string) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		return mistakes.Resolve(p, id)
	})
	return err
}

// RecordPracticeResults logs every mistake and applies the session result
// in a single update.
func (t *Tracker) RecordPracticeResults(ctx context.Context, category profile.Category, score, total int, missed, questions []profile.Question) error {
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		changed := false
		for _, q := range missed {
			changed = mistakes.Log(p, q) || changed
		}
		return RecordPracticeResults(p, category, score, total, missed, questions) || changed
	})
	return err
}

// RecordRaceTime applies a min-wins update to the chosen board and
// reports whether ms became the new best.
func (t *Tracker) RecordRaceTime(ctx context.Context, board Board, key string, ms int64) (bool, error) {
	return t.st.Update(ctx, func(p *profile.Profile) bool {
		return RecordBestTime(records(p, board), key, ms)
	})
}

// BestTime returns the recorded best for key on board, in milliseconds.
func BestTime(p *profile.Profile, board Board, key string) (int64, bool) {
	ms, ok := records(p, board)[key]
	return int64(ms), ok && ms > 0
}

func records(p *profile.Profile, board Board) map[string]profile.Count {
	if board == DailyBoard {
		return p.DailyRaceRecords
	}
	return p.SessionRaceRecords
}

// ToggleStar flips the starred state of word and returns the new state.
func (t *Tracker) ToggleStar(ctx context.Context, word string) (bool, error) {
	var starred bool
	_, err := t.st.Update(ctx, func(p *profile.Profile) bool {
		starred = ToggleStar(p, word)
		return true
	})
	return starred, err
}

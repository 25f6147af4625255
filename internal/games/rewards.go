// Package games holds the vocabulary mini-game engines: a word/definition
// matching grid and a timed race. The engines are plain state machines;
// the runners drive them on a clock.Clock.
package games

import (
	"context"
	"strings"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
)

// Rewards are the XP amounts one game context pays out.
type Rewards struct {
	// Venue names the context in logged mistakes.
	Venue        string
	MatchXP      int
	CompletionXP int
	RaceXP       int
}

var (
	// DailyRewards apply to games over the daily word set.
	DailyRewards = Rewards{Venue: "Daily", MatchXP: 67, CompletionXP: 0, RaceXP: 20}
	// TrainingRewards apply to games over a learning-center training batch.
	TrainingRewards = Rewards{Venue: "Training", MatchXP: 10, CompletionXP: 400, RaceXP: 50}
)

func (r Rewards) idPrefix() string {
	if r.Venue == "" {
		return "game"
	}
	return strings.ToLower(r.Venue)
}

// Recorder is the profile side of the games. *progress.Tracker
// satisfies it.
type Recorder interface {
	RecordAnswer(ctx context.Context, correct bool, c profile.Category) error
	AwardXP(ctx context.Context, amount int) error
	BoostMastery(ctx context.Context, word string, delta int) error
	LogMistake(ctx context.Context, q profile.Question) error
	RecordRaceTime(ctx context.Context, board progress.Board, key string, ms int64) (bool, error)
}

var _ Recorder = (*progress.Tracker)(nil)

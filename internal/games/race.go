package games

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/vocab"
)

const (
	// QuestionTime is the per-question countdown.
	QuestionTime = 5 * time.Second

	FinishLine     = 100.0
	BaseGain       = 5.0
	TurboBonus     = 3.0
	SpeedBonus     = 1.5
	TurboThreshold = 1500 * time.Millisecond
	SpeedThreshold = 3 * time.Second
	// MasteryBoost is added to a word's mastery on a correct race answer.
	MasteryBoost = 5

	raceOptions = 4
)

// ErrNoWords is returned when a race is built over an empty word set.
var ErrNoWords = errors.New("games: race needs at least one word")

// Boost labels how fast a correct answer was.
type Boost int

const (
	NoBoost Boost = iota
	SpeedBoost
	TurboBoost
)

func (b Boost) String() string {
	switch b {
	case TurboBoost:
		return "turbo"
	case SpeedBoost:
		return "speed"
	default:
		return "none"
	}
}

// BoostFor classifies an answer time and returns the distance gained by
// a correct answer.
func BoostFor(taken time.Duration) (Boost, float64) {
	switch {
	case taken < TurboThreshold:
		return TurboBoost, BaseGain + TurboBonus
	case taken < SpeedThreshold:
		return SpeedBoost, BaseGain + SpeedBonus
	default:
		return NoBoost, BaseGain
	}
}

// RaceQuestion shows a definition and asks which word it belongs to.
type RaceQuestion struct {
	Word    vocab.Word
	Options []string
	Answer  int
}

// Definition is the prompt.
func (q RaceQuestion) Definition() string { return q.Word.Definition }

// RaceResult describes one answered question.
type RaceResult struct {
	Accepted bool
	Correct  bool
	TimedOut bool
	Boost    Boost
	Gain     float64
	Progress float64
	Finished bool
}

// Race is the state of one timed race. Progress only moves forward and
// finishing is final.
type Race struct {
	rewards Rewards
	rec     Recorder
	rng     *rand.Rand
	board   progress.Board
	key     string

	words    []vocab.Word
	index    int
	question RaceQuestion
	answered bool
	progress float64
	finished bool
}

// RaceConfig configures a race.
type RaceConfig struct {
	Rewards Rewards
	Rec     Recorder
	Rng     *rand.Rand
	Board   progress.Board
	// Key is the leaderboard slot. Empty means the finish time is not
	// recorded.
	Key string
}

// NewRace returns a race over a shuffled copy of words. The first
// question is ready immediately.
func NewRace(cfg RaceConfig, words []vocab.Word) (*Race, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Race{
		rewards: cfg.Rewards,
		rec:     cfg.Rec,
		rng:     cfg.Rng,
		board:   cfg.Board,
		key:     cfg.Key,
		words:   slices.Clone(words),
	}
	r.rng.Shuffle(len(r.words), func(i, j int) { r.words[i], r.words[j] = r.words[j], r.words[i] })
	r.question = r.buildQuestion(0)
	return r, nil
}

func (r *Race) buildQuestion(idx int) RaceQuestion {
	current := r.words[idx%len(r.words)]
	others := make([]string, 0, len(r.words)-1)
	for _, w := range r.words {
		if w.Word != current.Word {
			others = append(others, w.Word)
		}
	}
	r.rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	options := append([]string{current.Word}, others[:min(raceOptions-1, len(others))]...)
	r.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return RaceQuestion{Word: current, Options: options, Answer: slices.Index(options, current.Word)}
}

func (r *Race) Question() RaceQuestion { return r.question }
func (r *Race) Progress() float64      { return r.progress }
func (r *Race) Finished() bool         { return r.finished }
func (r *Race) Key() string            { return r.key }

// Answer scores option for the current question. An empty option is a
// timeout. taken is the time spent on the question. A question is
// answered at most once; call Next to move on.
func (r *Race) Answer(ctx context.Context, option string, taken time.Duration) (RaceResult, error) {
	if r.finished || r.answered {
		return RaceResult{Progress: r.progress, Finished: r.finished}, nil
	}
	r.answered = true

	q := r.question
	correct := option == q.Word.Word
	res := RaceResult{Accepted: true, Correct: correct, TimedOut: option == ""}
	errs := []error{r.rec.RecordAnswer(ctx, correct, profile.Vocabulary)}

	if correct {
		res.Boost, res.Gain = BoostFor(taken)
		r.progress = min(FinishLine, r.progress+res.Gain)
		errs = append(errs,
			r.rec.AwardXP(ctx, r.rewards.RaceXP),
			r.rec.BoostMastery(ctx, q.Word.Word, MasteryBoost),
		)
		r.finished = r.progress >= FinishLine
	} else {
		errs = append(errs, r.rec.LogMistake(ctx, r.missQuestion(q)))
	}

	res.Progress = r.progress
	res.Finished = r.finished
	return res, errors.Join(errs...)
}

// Next moves to the following question once the current one has been
// answered. It reports false when the race is finished.
func (r *Race) Next() bool {
	if r.finished {
		return false
	}
	if !r.answered {
		return true
	}
	r.index++
	r.answered = false
	r.question = r.buildQuestion(r.index)
	return true
}

// RecordFinish stores elapsed as a best time for the race key. It
// reports whether it became the new best; races without a key record
// nothing.
func (r *Race) RecordFinish(ctx context.Context, elapsed time.Duration) (bool, error) {
	if !r.finished || r.key == "" {
		return false, nil
	}
	return r.rec.RecordRaceTime(ctx, r.board, r.key, elapsed.Milliseconds())
}

func (r *Race) missQuestion(q RaceQuestion) profile.Question {
	return profile.Question{
		ID:            fmt.Sprintf("%s-race-err-%s", r.rewards.idPrefix(), uuid.NewString()),
		Category:      profile.Vocabulary,
		QuestionText:  fmt.Sprintf("Which word matches the definition: %q?", q.Word.Definition),
		Options:       slices.Clone(q.Options),
		CorrectAnswer: q.Answer,
		Explanation:   fmt.Sprintf("Missed in %s Raceway. Word: %s. Definition: %s", r.rewards.Venue, q.Word.Word, q.Word.Definition),
	}
}

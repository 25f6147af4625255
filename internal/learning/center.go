// Package learning is the learning center: the training word batch with
// its games, the spelling drill, lesson quick-checks and search over the
// word list and the root dataset.
package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/games"
	"github.com/abhisek/examprep/internal/lessons"
	"github.com/abhisek/examprep/internal/mistakes"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/state"
	"github.com/abhisek/examprep/internal/vocab"
	"github.com/abhisek/examprep/internal/wordbank"
)

const (
	// BatchSize is the number of words in a training batch.
	BatchSize = 20
	// SpellingXP is awarded for a correct spelling answer.
	SpellingXP = 20
	// QuickCheckXP is awarded for a correct lesson quick-check.
	QuickCheckXP = 40
)

// ErrEmptyPool is returned when a batch is requested from an empty word
// list.
var ErrEmptyPool = errors.New("learning: word list is empty")

// Center ties the training batch to the shared profile.
type Center struct {
	st      *state.Store
	tracker *progress.Tracker
	words   *wordbank.Generator
	roots   []vocab.RootWord
	clk     clock.Clock
	logger  *slog.Logger

	pool []vocab.Word
}

// Config collects a Center's collaborators.
type Config struct {
	Store   *state.Store
	Tracker *progress.Tracker
	Words   *wordbank.Generator
	Roots   []vocab.RootWord
	Clock   clock.Clock
	Logger  *slog.Logger
}

// New returns a Center drawing training batches from pool.
func New(cfg Config, pool []vocab.Word) *Center {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Center{
		st:      cfg.Store,
		tracker: cfg.Tracker,
		words:   cfg.Words,
		roots:   cfg.Roots,
		clk:     cfg.Clock,
		logger:  cfg.Logger,
		pool:    slices.Clone(pool),
	}
}

// Pool returns the word list batches are drawn from.
func (c *Center) Pool() []vocab.Word { return slices.Clone(c.pool) }

// Batch returns the persisted training batch, drawing and saving a new
// one when none exists.
func (c *Center) Batch(ctx context.Context) ([]vocab.Word, error) {
	var active []vocab.Word
	c.st.Read(func(p *profile.Profile) { active = slices.Clone(p.ActiveSessionWords) })
	if len(active) > 0 {
		return active, nil
	}
	return c.NewBatch(ctx)
}

// NewBatch draws BatchSize random words from the pool and saves them as
// the active training batch.
func (c *Center) NewBatch(ctx context.Context) ([]vocab.Word, error) {
	if len(c.pool) == 0 {
		return nil, ErrEmptyPool
	}
	batch := c.words.Sample(c.pool, BatchSize)
	_, err := c.st.Update(ctx, func(p *profile.Profile) bool {
		p.ActiveSessionWords = slices.Clone(batch)
		return true
	})
	if err != nil {
		return batch, fmt.Errorf("save training batch: %w", err)
	}
	return batch, nil
}

// Shuffle reorders the active batch in place and saves it.
func (c *Center) Shuffle(ctx context.Context) ([]vocab.Word, error) {
	batch, err := c.Batch(ctx)
	if err != nil {
		return nil, err
	}
	batch = c.words.Sample(batch, len(batch))
	_, err = c.st.Update(ctx, func(p *profile.Profile) bool {
		p.ActiveSessionWords = slices.Clone(batch)
		return true
	})
	return batch, err
}

// NextBatch draws a new batch with its matching-tile definitions. It
// lets a training matching grid reseed itself when cleared.
func (c *Center) NextBatch(ctx context.Context) ([]vocab.Word, []vocab.ShortDef, error) {
	batch, err := c.NewBatch(ctx)
	if err != nil && len(batch) == 0 {
		return nil, nil, err
	}
	if err != nil {
		c.logger.Warn("training batch not saved", "error", err)
	}
	return batch, c.words.ShortDefinitions(ctx, batch), nil
}

var _ games.BatchSource = (*Center)(nil)

// ShortDefinitions returns matching-tile definitions for words.
func (c *Center) ShortDefinitions(ctx context.Context, words []vocab.Word) []vocab.ShortDef {
	return c.words.ShortDefinitions(ctx, words)
}

// RaceKey is the session leaderboard key of a training batch.
func RaceKey(words []vocab.Word) string {
	return vocab.Fingerprint(words)
}

// AnswerSpelling scores one spelling drill answer. Both outcomes count
// toward the Spelling category; a correct answer pays SpellingXP and a
// wrong one is logged as a mistake.
func (c *Center) AnswerSpelling(ctx context.Context, q profile.Question, option int) (bool, error) {
	correct := q.IsCorrect(option)
	_, err := c.st.Update(ctx, func(p *profile.Profile) bool {
		progress.RecordAnswer(p, correct, string(profile.Spelling))
		if correct {
			progress.AwardXP(p, SpellingXP)
		} else {
			mistakes.Log(p, q)
		}
		return true
	})
	return correct, err
}

// AnswerQuickCheck scores a lesson quick-check. Both outcomes count
// toward Grammar; a correct answer pays QuickCheckXP and a wrong one logs
// the quick-check as a mistake.
func (c *Center) AnswerQuickCheck(ctx context.Context, l lessons.Lesson, option int) (bool, error) {
	qc := l.QuickCheck
	correct := qc.IsCorrect(option)
	_, err := c.st.Update(ctx, func(p *profile.Profile) bool {
		progress.RecordAnswer(p, correct, string(profile.Grammar))
		if correct {
			progress.AwardXP(p, QuickCheckXP)
			return true
		}
		mistakes.Log(p, profile.Question{
			ID:            fmt.Sprintf("ela-lesson-%s-%d", topicSlug(l.Topic), c.clk.Now().UnixMilli()),
			Category:      profile.Grammar,
			QuestionText:  qc.Question,
			Options:       slices.Clone(qc.Options),
			CorrectAnswer: qc.CorrectAnswer,
			Explanation:   qc.Explanation,
		})
		return true
	})
	return correct, err
}

func topicSlug(topic string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(topic) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SearchWords matches query against the pool.
func (c *Center) SearchWords(query string) []vocab.Word {
	return vocab.Search(c.pool, query)
}

// SearchRoots matches query against the root dataset.
func (c *Center) SearchRoots(query string) []vocab.RootWord {
	return vocab.SearchRoots(c.roots, query)
}

package games

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/vocab"
)

// Side is the column a matching tile sits in.
type Side int

const (
	WordSide Side = iota
	DefinitionSide
)

func (s Side) String() string {
	if s == DefinitionSide {
		return "definition"
	}
	return "word"
}

// Tile is one cell of the matching grid. Both tiles of a pair share the
// word as their ID.
type Tile struct {
	ID   string
	Side Side
	Text string
}

// Selection is the tile picked first in a pairing attempt.
type Selection struct {
	ID   string
	Side Side
}

// Outcome is what a single tile selection did.
type Outcome int

const (
	Ignored Outcome = iota
	Selected
	Matched
	Mismatched
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	case Completed:
		return "completed"
	default:
		return "ignored"
	}
}

// Matching is the state of one matching grid.
type Matching struct {
	rewards Rewards
	rec     Recorder

	words    []Tile
	defs     []Tile
	byWord   map[string]vocab.Word
	selected *Selection
	matched  map[string]bool
	errorKey string
	done     bool
}

// NewMatching lays out a grid for words. Definition tiles show the short
// definition when one is given for the word, the full definition
// otherwise. Both columns are shuffled with rng when it is non-nil.
func NewMatching(words []vocab.Word, shortDefs []vocab.ShortDef, rewards Rewards, rec Recorder, rng *rand.Rand) *Matching {
	short := make(map[string]string, len(shortDefs))
	for _, sd := range shortDefs {
		short[sd.Word] = sd.ShortDef
	}

	m := &Matching{
		rewards: rewards,
		rec:     rec,
		byWord:  make(map[string]vocab.Word, len(words)),
		matched: make(map[string]bool),
	}
	for _, w := range words {
		if _, dup := m.byWord[w.Word]; dup {
			continue
		}
		m.byWord[w.Word] = w
		def := short[w.Word]
		if def == "" {
			def = w.Definition
		}
		m.words = append(m.words, Tile{ID: w.Word, Side: WordSide, Text: w.Word})
		m.defs = append(m.defs, Tile{ID: w.Word, Side: DefinitionSide, Text: def})
	}
	if rng != nil {
		rng.Shuffle(len(m.words), func(i, j int) { m.words[i], m.words[j] = m.words[j], m.words[i] })
		rng.Shuffle(len(m.defs), func(i, j int) { m.defs[i], m.defs[j] = m.defs[j], m.defs[i] })
	}
	return m
}

// Tiles returns the word column and the definition column.
func (m *Matching) Tiles() (words, defs []Tile) {
	return m.words, m.defs
}

// Selected returns the pending first pick, if any.
func (m *Matching) Selected() (Selection, bool) {
	if m.selected == nil {
		return Selection{}, false
	}
	return *m.selected, true
}

// ErrorKey is "<firstID>-<secondID>" while a mismatch is displayed and
// empty otherwise.
func (m *Matching) ErrorKey() string { return m.errorKey }

func (m *Matching) IsMatched(id string) bool { return m.matched[id] }
func (m *Matching) MatchedCount() int        { return len(m.matched) }
func (m *Matching) PairCount() int           { return len(m.byWord) }
func (m *Matching) Done() bool               { return m.done }

// Select picks the tile id on side. Picks on matched tiles, unknown
// tiles, or while a mismatch is displayed are ignored. Recorder failures
// are returned but never undo the transition.
func (m *Matching) Select(ctx context.Context, id string, side Side) (Outcome, error) {
	if _, ok := m.byWord[id]; !ok || m.done || m.matched[id] || m.errorKey != "" {
		return Ignored, nil
	}
	if m.selected == nil || m.selected.Side == side {
		m.selected = &Selection{ID: id, Side: side}
		return Selected, nil
	}

	first := *m.selected
	if first.ID == id {
		m.matched[id] = true
		m.selected = nil
		err := errors.Join(
			m.rec.AwardXP(ctx, m.rewards.MatchXP),
			m.rec.RecordAnswer(ctx, true, profile.Vocabulary),
		)
		if len(m.matched) < len(m.byWord) {
			return Matched, err
		}
		m.done = true
		return Completed, errors.Join(err, m.rec.AwardXP(ctx, m.rewards.CompletionXP))
	}

	m.errorKey = first.ID + "-" + id
	return Mismatched, errors.Join(
		m.rec.RecordAnswer(ctx, false, profile.Vocabulary),
		m.rec.LogMistake(ctx, m.mismatchQuestion(m.byWord[first.ID])),
	)
}

// ClearError ends a displayed mismatch and drops the selection.
func (m *Matching) ClearError() {
	m.errorKey = ""
	m.selected = nil
}

func (m *Matching) mismatchQuestion(w vocab.Word) profile.Question {
	return profile.Question{
		ID:            fmt.Sprintf("%s-match-err-%s", m.rewards.idPrefix(), uuid.NewString()),
		Category:      profile.Vocabulary,
		QuestionText:  fmt.Sprintf("Match the definition for: %q", w.Word),
		Options:       []string{w.Definition, "Incorrect Match"},
		CorrectAnswer: 0,
		Explanation:   fmt.Sprintf("Mismatched in %s Matching. Definition of %s: %s", m.rewards.Venue, w.Word, w.Definition),
	}
}

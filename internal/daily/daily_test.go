package daily

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/state"
	"github.com/abhisek/examprep/internal/store"
	"github.com/abhisek/examprep/internal/vocab"
)

func makePool(n int) []vocab.Word {
	pool := make([]vocab.Word, n)
	for i := range pool {
		pool[i] = vocab.Word{
			Word:         fmt.Sprintf("word%03d", i),
			PartOfSpeech: "noun",
			Definition:   fmt.Sprintf("definition %d", i),
		}
	}
	return pool
}

func newService(t *testing.T) (*Service, *state.Store) {
	t.Helper()
	st := state.Open(context.Background(), state.NewBlobPersister(store.NewMemoryKV(), state.ProfileKey), nil)
	clk := clock.NewFake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	return NewService(st, progress.NewTracker(st), clk, rand.New(rand.NewPCG(3, 4))), st
}

func TestView_DefaultStage(t *testing.T) {
	svc, _ := newService(t)
	v := svc.View(makePool(100), StageMode)

	assert.Equal(t, 1, v.Stage)
	assert.Equal(t, 1, v.MaxStage)
	assert.False(t, v.ReadOnly())
	assert.Len(t, v.Words, vocab.WordsPerDay+vocab.ReviewWordsCount)
}

func TestMarkDone_AwardsOnce(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	done, err := svc.MarkDone(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = svc.MarkDone(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	p := st.Snapshot()
	assert.Equal(t, profile.Count(CompletionXP), p.XP)
	assert.True(t, p.DailyVocabCompleted)
	assert.Equal(t, "2026-03-14", p.LastDailyVocabDate)
}

func TestAdvance_RequiresCompletion(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	_, err := svc.Advance(ctx)
	assert.ErrorIs(t, err, ErrAdvanceLocked)

	_, err = svc.MarkDone(ctx)
	require.NoError(t, err)
	seedBefore := st.Snapshot().DailyVocabSeed

	stage, err := svc.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stage)

	p := st.Snapshot()
	assert.Equal(t, profile.Count(2), p.DailyVocabDay)
	assert.Equal(t, profile.Count(2), p.LastViewedDay)
	assert.False(t, p.DailyVocabCompleted)
	assert.Less(t, int(p.DailyVocabSeed), profile.MaxSeed)
	// Seeds are drawn from a million values; a repeat would mean Advance
	// kept the old one.
	assert.NotEqual(t, seedBefore, p.DailyVocabSeed)
}

func TestBrowsing_PastStageIsReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	for range 2 {
		_, err := svc.MarkDone(ctx)
		require.NoError(t, err)
		_, err = svc.Advance(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, profile.Count(3), st.Snapshot().DailyVocabDay)

	stage, err := svc.Prev(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stage)
	assert.True(t, svc.View(makePool(60), StageMode).ReadOnly())

	done, err := svc.MarkDone(ctx)
	require.NoError(t, err)
	assert.False(t, done, "past stage cannot be marked done")

	_, err = svc.Advance(ctx)
	assert.ErrorIs(t, err, ErrAdvanceLocked)

	stage, err = svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stage)
	stage, err = svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stage, "cannot browse past the newest stage")

	for range 5 {
		stage, err = svc.Prev(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, stage)
}

func TestView_StarredMode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	pool := makePool(40)

	_, err := svc.ToggleStar(ctx, "word007")
	require.NoError(t, err)
	_, err = svc.ToggleStar(ctx, "word002")
	require.NoError(t, err)

	v := svc.View(pool, StarredMode)
	assert.Equal(t, []string{"word002", "word007"}, vocab.Names(v.Words))

	_, _, ok := svc.RaceBoard(v)
	assert.False(t, ok)

	board, key, ok := svc.RaceBoard(svc.View(pool, StageMode))
	assert.True(t, ok)
	assert.Equal(t, progress.DailyBoard, board)
	assert.Equal(t, "1", key)
}

func TestCumulativeTest_NeedsFourWords(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CumulativeTest(makePool(3), StageMode)
	assert.ErrorIs(t, err, ErrNotEnoughWords)

	_, err = svc.CumulativeTest(makePool(50), StarredMode)
	assert.ErrorIs(t, err, ErrNotEnoughWords)
}

func TestCumulativeTest_Shape(t *testing.T) {
	svc, _ := newService(t)
	pool := makePool(100)

	qs, err := svc.CumulativeTest(pool, StageMode)
	require.NoError(t, err)
	assert.Len(t, qs, vocab.WordsPerDay)

	unlocked := map[string]bool{}
	defs := map[string]bool{}
	for _, w := range vocab.Unlocked(pool, 1) {
		unlocked[w.Word] = true
		defs[w.Definition] = true
	}

	ids := map[string]bool{}
	for _, q := range qs {
		require.True(t, q.Valid(), q.ID)
		assert.Len(t, q.Options, 4)
		assert.Equal(t, profile.Vocabulary, q.Category)
		assert.False(t, ids[q.ID], "duplicate id %s", q.ID)
		ids[q.ID] = true
		for _, opt := range q.Options {
			assert.True(t, unlocked[opt] || defs[opt], "option %q outside the unlocked pool", opt)
		}
	}
}

func TestCumulativeTest_CapsAtTwenty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for range 3 {
		_, err := svc.MarkDone(ctx)
		require.NoError(t, err)
		_, err = svc.Advance(ctx)
		require.NoError(t, err)
	}
	qs, err := svc.CumulativeTest(makePool(200), StageMode)
	require.NoError(t, err)
	assert.Len(t, qs, TestSize)
}

func TestSubmitTest(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	qs, err := svc.CumulativeTest(makePool(30), StageMode)
	require.NoError(t, err)

	answers := map[string]int{}
	for i, q := range qs {
		switch {
		case i < 10:
			answers[q.ID] = q.CorrectAnswer
		case i < 13:
			answers[q.ID] = (q.CorrectAnswer + 1) % len(q.Options)
		}
	}

	score, err := svc.SubmitTest(ctx, qs, answers)
	require.NoError(t, err)
	assert.Equal(t, 10, score)

	p := st.Snapshot()
	assert.Equal(t, profile.Count(10*TestXPPerCorrect), p.XP)
	assert.Equal(t, profile.Count(len(qs)), p.CategoryAttempted[profile.Vocabulary])
	assert.Equal(t, profile.Count(10), p.CategoryCorrect[profile.Vocabulary])
	assert.Len(t, p.IncorrectQuestions, len(qs)-10)
}

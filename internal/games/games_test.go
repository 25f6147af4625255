package games

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/vocab"
)

type answer struct {
	correct bool
	cat     profile.Category
}

type raceTime struct {
	board progress.Board
	key   string
	ms    int64
}

type fakeRecorder struct {
	mu       sync.Mutex
	answers  []answer
	xp       []int
	mastery  map[string]int
	mistakes []profile.Question
	times    []raceTime
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{mastery: map[string]int{}}
}

func (f *fakeRecorder) RecordAnswer(_ context.Context, correct bool, c profile.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answer{correct, c})
	return nil
}

func (f *fakeRecorder) AwardXP(_ context.Context, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.xp = append(f.xp, amount)
	return nil
}

func (f *fakeRecorder) BoostMastery(_ context.Context, word string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mastery[word] += delta
	return nil
}

func (f *fakeRecorder) LogMistake(_ context.Context, q profile.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mistakes = append(f.mistakes, q)
	return nil
}

func (f *fakeRecorder) RecordRaceTime(_ context.Context, board progress.Board, key string, ms int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = append(f.times, raceTime{board, key, ms})
	return true, nil
}

func (f *fakeRecorder) totalXP() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, x := range f.xp {
		n += x
	}
	return n
}

func makeWords(n int) []vocab.Word {
	words := make([]vocab.Word, n)
	for i := range words {
		words[i] = vocab.Word{Word: fmt.Sprintf("w%02d", i), Definition: fmt.Sprintf("meaning of w%02d", i)}
	}
	return words
}

func testRng() *rand.Rand { return rand.New(rand.NewPCG(11, 13)) }

func TestMatching_MatchAwardsAndRecords(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	m := NewMatching(makeWords(3), nil, DailyRewards, rec, testRng())

	out, err := m.Select(ctx, "w01", WordSide)
	require.NoError(t, err)
	assert.Equal(t, Selected, out)

	out, err = m.Select(ctx, "w01", DefinitionSide)
	require.NoError(t, err)
	assert.Equal(t, Matched, out)
	assert.True(t, m.IsMatched("w01"))
	assert.Equal(t, []int{DailyRewards.MatchXP}, rec.xp)
	assert.Equal(t, []answer{{true, profile.Vocabulary}}, rec.answers)

	_, selected := m.Selected()
	assert.False(t, selected)

	out, _ = m.Select(ctx, "w01", WordSide)
	assert.Equal(t, Ignored, out, "matched tiles are inert")
}

func TestMatching_MismatchBlocksUntilCleared(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	m := NewMatching(makeWords(3), nil, TrainingRewards, rec, nil)

	_, err := m.Select(ctx, "w02", DefinitionSide)
	require.NoError(t, err)
	out, err := m.Select(ctx, "w00", WordSide)
	require.NoError(t, err)
	assert.Equal(t, Mismatched, out)
	assert.Equal(t, "w02-w00", m.ErrorKey())

	require.Len(t, rec.mistakes, 1)
	mistake := rec.mistakes[0]
	assert.Contains(t, mistake.QuestionText, `"w02"`)
	assert.Equal(t, []string{"meaning of w02", "Incorrect Match"}, mistake.Options)
	assert.Equal(t, 0, mistake.CorrectAnswer)
	assert.Equal(t, []answer{{false, profile.Vocabulary}}, rec.answers)
	assert.Empty(t, rec.xp)

	out, _ = m.Select(ctx, "w01", WordSide)
	assert.Equal(t, Ignored, out)

	m.ClearError()
	assert.Empty(t, m.ErrorKey())
	_, selected := m.Selected()
	assert.False(t, selected)

	out, _ = m.Select(ctx, "w01", WordSide)
	assert.Equal(t, Selected, out)
}

func TestMatching_SameSideReplacesSelection(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	m := NewMatching(makeWords(3), nil, DailyRewards, rec, nil)

	_, _ = m.Select(ctx, "w00", WordSide)
	out, _ := m.Select(ctx, "w01", WordSide)
	assert.Equal(t, Selected, out)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, Selection{ID: "w01", Side: WordSide}, sel)
	assert.Empty(t, rec.answers)

	out, _ = m.Select(ctx, "w01", DefinitionSide)
	assert.Equal(t, Matched, out)
}

func TestMatching_CompletionBonus(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	words := makeWords(3)
	m := NewMatching(words, nil, TrainingRewards, rec, testRng())

	var out Outcome
	for _, w := range words {
		_, _ = m.Select(ctx, w.Word, DefinitionSide)
		out, _ = m.Select(ctx, w.Word, WordSide)
	}
	assert.Equal(t, Completed, out)
	assert.True(t, m.Done())
	assert.Equal(t, 3*TrainingRewards.MatchXP+TrainingRewards.CompletionXP, rec.totalXP())
}

func TestMatching_ShortDefinitionsLabelTiles(t *testing.T) {
	words := makeWords(2)
	m := NewMatching(words, []vocab.ShortDef{{Word: "w00", ShortDef: "short"}}, DailyRewards, newFakeRecorder(), nil)
	_, defs := m.Tiles()
	assert.Equal(t, "short", defs[0].Text)
	assert.Equal(t, "meaning of w01", defs[1].Text)
}

type staticSource struct{ words []vocab.Word }

func (s staticSource) NextBatch(context.Context) ([]vocab.Word, []vocab.ShortDef, error) {
	return s.words, nil, nil
}

func TestMatchingRunner_ClearsErrorAfterDelay(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Unix(0, 0))
	r := NewMatchingRunner(MatchingConfig{Clock: clk, Rewards: DailyRewards, Rec: newFakeRecorder()}, makeWords(3), nil)

	_, _ = r.Select(ctx, "w00", WordSide)
	out, _ := r.Select(ctx, "w01", DefinitionSide)
	require.Equal(t, Mismatched, out)

	clk.Advance(ErrorDelay - time.Millisecond)
	assert.Equal(t, "w00-w01", r.State().ErrorKey)

	clk.Advance(time.Millisecond)
	st := r.State()
	assert.Empty(t, st.ErrorKey)
	assert.Nil(t, st.Selected)
}

func TestMatchingRunner_ReseedsFinishedGrid(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Unix(0, 0))
	next := makeWords(5)[3:]
	r := NewMatchingRunner(MatchingConfig{
		Clock:   clk,
		Rewards: TrainingRewards,
		Rec:     newFakeRecorder(),
		Source:  staticSource{words: next},
	}, makeWords(2), nil)

	for _, id := range []string{"w00", "w01"} {
		_, _ = r.Select(ctx, id, WordSide)
		_, _ = r.Select(ctx, id, DefinitionSide)
	}

	st := r.State()
	assert.Equal(t, 2, st.Round)
	assert.False(t, st.Done)
	assert.Empty(t, st.Matched)
	assert.ElementsMatch(t, []string{"w03", "w04"}, []string{st.Words[0].ID, st.Words[1].ID})
}

func TestMatchingRunner_StopCancelsTimer(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Unix(0, 0))
	r := NewMatchingRunner(MatchingConfig{Clock: clk, Rewards: DailyRewards, Rec: newFakeRecorder()}, makeWords(3), nil)

	_, _ = r.Select(ctx, "w00", WordSide)
	_, _ = r.Select(ctx, "w01", DefinitionSide)
	require.Equal(t, 1, clk.Pending())

	r.Stop()
	assert.Equal(t, 0, clk.Pending())
	out, _ := r.Select(ctx, "w02", WordSide)
	assert.Equal(t, Ignored, out)
}

func TestBoostFor(t *testing.T) {
	tests := []struct {
		taken time.Duration
		boost Boost
		gain  float64
	}{
		{0, TurboBoost, 8},
		{1499 * time.Millisecond, TurboBoost, 8},
		{1500 * time.Millisecond, SpeedBoost, 6.5},
		{2999 * time.Millisecond, SpeedBoost, 6.5},
		{3 * time.Second, NoBoost, 5},
		{5 * time.Second, NoBoost, 5},
	}
	for _, tt := range tests {
		t.Run(tt.taken.String(), func(t *testing.T) {
			boost, gain := BoostFor(tt.taken)
			assert.Equal(t, tt.boost, boost)
			assert.InDelta(t, tt.gain, gain, 1e-9)
		})
	}
}

func newRace(t *testing.T, rec Recorder, key string, n int) *Race {
	t.Helper()
	r, err := NewRace(RaceConfig{Rewards: TrainingRewards, Rec: rec, Rng: testRng(), Board: progress.SessionBoard, Key: key}, makeWords(n))
	require.NoError(t, err)
	return r
}

func TestNewRace_Empty(t *testing.T) {
	_, err := NewRace(RaceConfig{Rec: newFakeRecorder()}, nil)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestRace_QuestionShape(t *testing.T) {
	r := newRace(t, newFakeRecorder(), "k", 6)
	q := r.Question()
	assert.Len(t, q.Options, 4)
	assert.Equal(t, q.Word.Word, q.Options[q.Answer])
	assert.Equal(t, "meaning of "+q.Word.Word, q.Definition())

	small := newRace(t, newFakeRecorder(), "k", 2)
	assert.Len(t, small.Question().Options, 2)
}

func TestRace_CorrectAnswer(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	r := newRace(t, rec, "k", 6)
	word := r.Question().Word.Word

	res, err := r.Answer(ctx, word, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.True(t, res.Correct)
	assert.Equal(t, SpeedBoost, res.Boost)
	assert.InDelta(t, 6.5, r.Progress(), 1e-9)
	assert.Equal(t, []int{TrainingRewards.RaceXP}, rec.xp)
	assert.Equal(t, MasteryBoost, rec.mastery[word])

	again, _ := r.Answer(ctx, word, time.Second)
	assert.False(t, again.Accepted, "a question is answered once")
	assert.InDelta(t, 6.5, r.Progress(), 1e-9)
}

func TestRace_WrongAnswerLogsMistake(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	r := newRace(t, rec, "k", 6)
	q := r.Question()

	res, err := r.Answer(ctx, "", QuestionTime)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.True(t, res.TimedOut)
	assert.Zero(t, r.Progress())
	assert.Empty(t, rec.xp)

	require.Len(t, rec.mistakes, 1)
	m := rec.mistakes[0]
	assert.Equal(t, q.Options, m.Options)
	assert.Equal(t, q.Answer, m.CorrectAnswer)
	assert.Contains(t, m.Explanation, "Word: "+q.Word.Word)
	assert.Equal(t, []answer{{false, profile.Vocabulary}}, rec.answers)
}

func TestRace_FinishAndRecord(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	r := newRace(t, rec, "w00|w01", 4)

	answers := 0
	for !r.Finished() {
		_, err := r.Answer(ctx, r.Question().Word.Word, time.Second)
		require.NoError(t, err)
		answers++
		r.Next()
	}
	assert.Equal(t, 13, answers)
	assert.Equal(t, FinishLine, r.Progress())
	assert.False(t, r.Next())

	best, err := r.RecordFinish(ctx, 4321*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, best)
	assert.Equal(t, []raceTime{{progress.SessionBoard, "w00|w01", 4321}}, rec.times)
}

func TestRace_NoKeyRecordsNothing(t *testing.T) {
	ctx := context.Background()
	rec := newFakeRecorder()
	r := newRace(t, rec, "", 4)
	for !r.Finished() {
		_, _ = r.Answer(ctx, r.Question().Word.Word, 0)
		r.Next()
	}
	best, err := r.RecordFinish(ctx, time.Second)
	require.NoError(t, err)
	assert.False(t, best)
	assert.Empty(t, rec.times)
}

func newRunner(t *testing.T, key string) (*RaceRunner, *clock.Fake, *fakeRecorder) {
	t.Helper()
	rec := newFakeRecorder()
	clk := clock.NewFake(time.Unix(1000, 0))
	return NewRaceRunner(newRace(t, rec, key, 5), clk, nil, nil), clk, rec
}

func TestRaceRunner_TimeoutAdvances(t *testing.T) {
	r, clk, rec := newRunner(t, "k")
	r.Start()
	first := r.State().Question.Word.Word

	clk.Advance(QuestionTime - CountdownTick)
	st := r.State()
	assert.Equal(t, RaceAsking, st.Phase)
	assert.Equal(t, CountdownTick, st.TimeLeft)

	clk.Advance(CountdownTick)
	st = r.State()
	assert.Equal(t, RaceFeedback, st.Phase)
	assert.True(t, st.Last.TimedOut)
	require.Len(t, rec.mistakes, 1)
	assert.Contains(t, rec.mistakes[0].Explanation, first)

	clk.Advance(FeedbackDelay)
	st = r.State()
	assert.Equal(t, RaceAsking, st.Phase)
	assert.Equal(t, QuestionTime, st.TimeLeft, "countdown restarts per question")
	r.Stop()
}

func TestRaceRunner_InputIgnoredDuringFeedback(t *testing.T) {
	ctx := context.Background()
	r, clk, rec := newRunner(t, "k")
	r.Start()

	_, err := r.Answer(ctx, "nope")
	require.NoError(t, err)
	res, err := r.Answer(ctx, r.State().Question.Word.Word)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Len(t, rec.answers, 1)

	clk.Advance(FeedbackDelay)
	assert.Equal(t, RaceAsking, r.State().Phase)
	r.Stop()
}

func TestRaceRunner_FullRace(t *testing.T) {
	ctx := context.Background()
	r, clk, rec := newRunner(t, "w00|w01|w02|w03|w04")
	r.Start()

	for {
		clk.Advance(time.Second)
		res, err := r.Answer(ctx, r.State().Question.Word.Word)
		require.NoError(t, err)
		require.True(t, res.Correct)
		assert.Equal(t, TurboBoost, res.Boost)
		if res.Finished {
			break
		}
		clk.Advance(FeedbackDelay)
	}

	// 13 answers one second in, 12 feedback pauses between them.
	want := 25 * time.Second
	st := r.State()
	assert.Equal(t, RaceFeedback, st.Phase)
	assert.Equal(t, want, st.FinishTime)
	assert.True(t, st.NewBest)
	assert.Equal(t, []raceTime{{progress.SessionBoard, "w00|w01|w02|w03|w04", want.Milliseconds()}}, rec.times)

	clk.Advance(FeedbackDelay)
	st = r.State()
	assert.Equal(t, RaceFinished, st.Phase)
	assert.Equal(t, want, st.Elapsed, "stopwatch stops at the finish line")
	assert.Equal(t, 0, clk.Pending())
}

func TestRaceRunner_StopCancelsEverything(t *testing.T) {
	r, clk, rec := newRunner(t, "k")
	r.Start()
	require.Equal(t, 2, clk.Pending())

	r.Stop()
	assert.Equal(t, 0, clk.Pending())
	assert.Equal(t, RaceStopped, r.State().Phase)

	clk.Advance(time.Minute)
	assert.Empty(t, rec.answers)
	assert.Empty(t, rec.times)
}

package problemgen

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/profile"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	b, err := LoadBank()
	require.NoError(t, err)
	return b
}

func newTestGenerator(t *testing.T, p llm.Provider) *Generator {
	t.Helper()
	return New(p, testBank(t), DefaultConfig(), nil, rand.New(rand.NewPCG(1, 2)))
}

func rawQ(cat, text string, correct int, opts ...string) questionOutput {
	if len(opts) == 0 {
		opts = []string{"alpha", "beta", "gamma", "delta"}
	}
	return questionOutput{
		Category:      cat,
		QuestionText:  text,
		Options:       opts,
		CorrectAnswer: correct,
		Explanation:   "Because.",
	}
}

func TestLoadBank(t *testing.T) {
	b := testBank(t)
	assert.Len(t, b.Spelling, 50)
	assert.Equal(t, "fs-1", b.Spelling[0].ID)
	assert.Equal(t, profile.Spelling, b.Spelling[0].Category)
	require.NotEmpty(t, b.Reading)

	for _, q := range b.ReadingPassage(0) {
		assert.NotEmpty(t, q.Passage)
		assert.Equal(t, profile.Reading, q.Category)
	}
	for _, c := range []profile.Category{profile.Reading, profile.Vocabulary, profile.Grammar, profile.Math} {
		for _, q := range b.ByCategory(c) {
			assert.True(t, q.Valid(), q.ID)
			assert.Equal(t, c, q.Category, q.ID)
		}
	}
}

func TestGenerator_NilProviderServesFallback(t *testing.T) {
	g := newTestGenerator(t, nil)
	ctx := context.Background()

	qs, err := g.Questions(ctx, profile.Math, 4)
	require.NoError(t, err)
	assert.Len(t, qs, 4)
	for _, q := range qs {
		assert.Equal(t, profile.Math, q.Category)
	}

	spelling, err := g.SpellingTest(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, spelling, 25)
	ids := map[string]bool{}
	for _, q := range spelling {
		assert.False(t, ids[q.ID], "duplicate %s", q.ID)
		ids[q.ID] = true
		assert.Equal(t, 0, q.CorrectAnswer)
	}

	reading, err := g.ReadingTest(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reading)
	assert.NotEmpty(t, reading[0].Passage)

	ela, err := g.MockELA(ctx)
	require.NoError(t, err)
	cats := map[profile.Category]bool{}
	for _, q := range ela {
		cats[q.Category] = true
	}
	assert.True(t, cats[profile.Reading] && cats[profile.Vocabulary] && cats[profile.Grammar])

	math, err := g.MockMath(ctx)
	require.NoError(t, err)
	assert.Len(t, math, 10)
}

func TestGenerator_FallbackDoesNotAliasBank(t *testing.T) {
	g := newTestGenerator(t, nil)
	first := g.bank.Math[0].ID
	qs, _ := g.Questions(context.Background(), profile.Math, 10)
	qs[0].QuestionText = "changed"
	assert.Equal(t, first, g.bank.Math[0].ID)
	assert.NotEqual(t, "changed", g.bank.Math[0].QuestionText)
}

func TestGenerator_UsesProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(batchOutput{Questions: []questionOutput{
		rawQ("math", "Which is a synonym of candid?", 1),
		rawQ("grammar", "Pick the verb.", 2),
	}}))
	g := newTestGenerator(t, mock)

	qs, err := g.Questions(context.Background(), profile.Vocabulary, 10)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, profile.Vocabulary, q.Category)
		assert.True(t, strings.HasPrefix(q.ID, "q-"))
	}
	assert.NotEqual(t, qs[0].ID, qs[1].ID)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Same(t, BatchSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "Write 10 vocabulary")
}

func TestGenerator_DropsInvalidQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(batchOutput{Questions: []questionOutput{
		rawQ("math", "What is 7 + 5?", 0, "12", "13", "11", "14"),
		rawQ("math", "What is 6 * 7?", 0, "40", "42", "48", "36"),
		rawQ("math", "", 0),
		rawQ("math", "Out of range?", 7),
	}}))
	g := newTestGenerator(t, mock)

	qs, err := g.Generate(context.Background(), GenerateInput{Kind: KindCategory, Category: profile.Math, Count: 10})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "What is 7 + 5?", qs[0].QuestionText)
}

func TestGenerator_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"empty set", llm.MockJSON(batchOutput{})},
		{"all invalid", llm.MockJSON(batchOutput{Questions: []questionOutput{rawQ("grammar", "", 0)}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, llm.NewMockProvider(tt.resp))
			qs, err := g.Questions(context.Background(), profile.Grammar, 3)
			require.NoError(t, err)
			require.Len(t, qs, 3)
			for _, q := range qs {
				assert.True(t, strings.HasPrefix(q.ID, "fg-"), q.ID)
			}
		})
	}
}

func TestGenerator_ReadingSharesPassage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(batchOutput{
		Passage: "The tide came in slowly.",
		Questions: []questionOutput{
			rawQ("reading", "What came in?", 0),
			rawQ("reading", "How did it come in?", 1),
		},
	}))
	g := newTestGenerator(t, mock)

	qs, err := g.ReadingTest(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, "The tide came in slowly.", q.Passage)
		assert.Equal(t, profile.Reading, q.Category)
	}
}

func TestGenerator_MockELAKeepsCategories(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(batchOutput{Questions: []questionOutput{
		rawQ("reading", "Main idea?", 0),
		rawQ("vocabulary", "Meaning of lucid?", 0),
		rawQ("grammar", "Fix the comma.", 0),
	}}))
	g := newTestGenerator(t, mock)

	qs, err := g.MockELA(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, profile.Reading, qs[0].Category)
	assert.Equal(t, profile.Vocabulary, qs[1].Category)
	assert.Equal(t, profile.Grammar, qs[2].Category)
}

func TestGenerator_PromptListsPriorQuestions(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockJSON(batchOutput{Questions: []questionOutput{rawQ("grammar", "Pick the subject.", 0)}}),
		llm.MockJSON(batchOutput{Questions: []questionOutput{rawQ("grammar", "Pick the object.", 0)}}),
	)
	g := newTestGenerator(t, mock)
	ctx := context.Background()

	_, err := g.Questions(ctx, profile.Grammar, 1)
	require.NoError(t, err)
	_, err = g.Questions(ctx, profile.Grammar, 1)
	require.NoError(t, err)

	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Already asked recently:\nNone")
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "1. Pick the subject.")
}

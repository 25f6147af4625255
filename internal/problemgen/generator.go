package problemgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/profile"
)

// ErrEmptySet is returned by Generate when no question survives
// validation.
var ErrEmptySet = errors.New("problemgen: no valid questions")

// Generator produces question sets. With a nil provider every call is
// served from the bank.
type Generator struct {
	provider llm.Provider
	config   Config
	bank     *Bank
	logger   *slog.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	recent recentList
}

// New creates a Generator. A nil rng gets a time-seeded source.
func New(provider llm.Provider, bank *Bank, cfg Config, logger *slog.Logger, rng *rand.Rand) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Generator{
		provider: provider,
		config:   cfg,
		bank:     bank,
		logger:   logger,
		rng:      rng,
		recent:   recentList{n: cfg.MaxPriorQuestions},
	}
}

// Questions returns n questions for category c. Reading and Mock are
// routed to their dedicated shapes.
func (g *Generator) Questions(ctx context.Context, c profile.Category, n int) ([]profile.Question, error) {
	switch c {
	case profile.Reading:
		return g.ReadingTest(ctx)
	case profile.Mock:
		return g.MockELA(ctx)
	case profile.Spelling:
		return g.SpellingTest(ctx, n)
	}
	return g.serve(ctx, GenerateInput{Kind: KindCategory, Category: c, Count: n}, func() []profile.Question {
		return g.sample(g.bank.ByCategory(c), n)
	}), nil
}

// ReadingTest returns one passage with its questions.
func (g *Generator) ReadingTest(ctx context.Context) ([]profile.Question, error) {
	in := GenerateInput{Kind: KindReading, Category: profile.Reading, Count: g.config.ReadingQuestions}
	return g.serve(ctx, in, func() []profile.Question {
		return g.bank.ReadingPassage(g.intn(max(len(g.bank.Reading), 1)))
	}), nil
}

// MockELA returns the language arts half of a mock exam.
func (g *Generator) MockELA(ctx context.Context) ([]profile.Question, error) {
	in := GenerateInput{Kind: KindMockELA, Category: profile.Mock, Count: g.config.MockELAQuestions}
	return g.serve(ctx, in, g.bank.MockELA), nil
}

// MockMath returns the math half of a mock exam.
func (g *Generator) MockMath(ctx context.Context) ([]profile.Question, error) {
	in := GenerateInput{Kind: KindMockMath, Category: profile.Math, Count: g.config.MockMathQuestions}
	return g.serve(ctx, in, func() []profile.Question {
		return g.sample(g.bank.ByCategory(profile.Math), g.config.MockMathQuestions)
	}), nil
}

// SpellingTest returns n spelling questions. The fallback draws a
// shuffled sample from the spelling pool.
func (g *Generator) SpellingTest(ctx context.Context, n int) ([]profile.Question, error) {
	if n <= 0 {
		n = g.config.SpellingSample
	}
	in := GenerateInput{Kind: KindSpelling, Category: profile.Spelling, Count: n}
	return g.serve(ctx, in, func() []profile.Question {
		return g.sample(g.bank.ByCategory(profile.Spelling), n)
	}), nil
}

// serve tries the provider and falls back on any failure.
func (g *Generator) serve(ctx context.Context, in GenerateInput, fallback func() []profile.Question) []profile.Question {
	if g.provider != nil {
		qs, err := g.Generate(ctx, in)
		if err == nil {
			return qs
		}
		g.logger.Warn("question generation failed, serving fallback", "kind", in.Kind, "category", in.Category, "error", err)
	}
	return fallback()
}

// Generate asks the provider for one set and validates it. Questions
// failing validation are dropped; an empty result is ErrEmptySet.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) ([]profile.Question, error) {
	g.mu.Lock()
	in.PriorQuestions = g.recent.snapshot()
	g.mu.Unlock()

	ctx = llm.WithPurpose(ctx, "questions-"+string(in.Kind))
	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, g.config)}},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	var out batchOutput
	if err := llm.Decode(ctx, g.provider, req, &out); err != nil {
		return nil, fmt.Errorf("generate %s set: %w", in.Kind, err)
	}

	var qs []profile.Question
	for _, raw := range out.Questions {
		q := toQuestion(raw, out.Passage, in)
		if verr := validate(q, g.config.Validators); verr != nil {
			g.logger.Debug("dropping generated question", "kind", in.Kind, "reason", verr)
			continue
		}
		qs = append(qs, q)
	}
	if len(qs) == 0 {
		return nil, ErrEmptySet
	}
	if in.Count > 0 && len(qs) > in.Count && in.Kind != KindMockELA {
		qs = qs[:in.Count]
	}

	texts := make([]string, len(qs))
	for i, q := range qs {
		texts[i] = q.QuestionText
	}
	g.mu.Lock()
	g.recent.add(texts...)
	g.mu.Unlock()
	return qs, nil
}

// toQuestion assigns an id and settles the category: a single-category
// set always uses the requested category.
func toQuestion(raw questionOutput, passage string, in GenerateInput) profile.Question {
	c := profile.NormalizeCategory(raw.Category)
	switch in.Kind {
	case KindCategory, KindReading, KindSpelling, KindMockMath:
		c = in.Category
	}
	if p := strings.TrimSpace(raw.Passage); p != "" {
		passage = p
	}
	return profile.Question{
		ID:            "q-" + uuid.NewString(),
		Category:      c,
		Passage:       passage,
		QuestionText:  strings.TrimSpace(raw.QuestionText),
		Options:       raw.Options,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   strings.TrimSpace(raw.Explanation),
	}
}

// sample shuffles qs and returns at most n of them; n <= 0 keeps all.
func (g *Generator) sample(qs []profile.Question, n int) []profile.Question {
	g.mu.Lock()
	g.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	g.mu.Unlock()
	if n > 0 && n < len(qs) {
		qs = qs[:n]
	}
	return qs
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

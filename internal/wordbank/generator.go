package wordbank

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/vocab"
)

// ShortDefWords is how many leading definition words the fallback short
// definition keeps.
const ShortDefWords = 5

// Config holds word generation settings.
type Config struct {
	ListSize    int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{ListSize: 30, MaxTokens: 4096, Temperature: 0.8}
}

// Generator serves vocabulary content from the provider, falling back to
// the embedded list.
type Generator struct {
	provider llm.Provider
	cfg      Config
	fallback []vocab.Word
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator loads the embedded list. A nil provider serves only the
// fallback; a nil rng gets a time-seeded source.
func NewGenerator(provider llm.Provider, cfg Config, logger *slog.Logger, rng *rand.Rand) (*Generator, error) {
	words, err := Words()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>3))
	}
	return &Generator{provider: provider, cfg: cfg, fallback: words, logger: logger, rng: rng}, nil
}

// Fallback returns a copy of the embedded list.
func (g *Generator) Fallback() []vocab.Word {
	return slices.Clone(g.fallback)
}

type wordListOutput struct {
	Words []vocab.Word `json:"words"`
}

// VocabularyList returns a generated list, or the embedded list when
// generation fails or yields no usable word.
func (g *Generator) VocabularyList(ctx context.Context) []vocab.Word {
	if g.provider == nil {
		return g.Fallback()
	}
	words, err := g.generateList(ctx)
	if err != nil {
		g.logger.Warn("vocabulary generation failed, serving fallback", "error", err)
		return g.Fallback()
	}
	return words
}

func (g *Generator) generateList(ctx context.Context) ([]vocab.Word, error) {
	ctx = llm.WithPurpose(ctx, "vocabulary-list")
	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildListMessage(g.cfg.ListSize)}},
		Schema:      WordListSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}
	var out wordListOutput
	if err := llm.Decode(ctx, g.provider, req, &out); err != nil {
		return nil, fmt.Errorf("generate vocabulary list: %w", err)
	}

	seen := make(map[string]bool, len(out.Words))
	var words []vocab.Word
	for _, w := range out.Words {
		w.Word = strings.TrimSpace(w.Word)
		key := strings.ToLower(w.Word)
		if w.Word == "" || strings.TrimSpace(w.Definition) == "" || seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("generate vocabulary list: no usable words")
	}
	return words, nil
}

type shortDefOutput struct {
	Definitions []vocab.ShortDef `json:"definitions"`
}

// ShortDefinitions returns one compact definition per word, in input
// order. Words the provider skipped, and every word when generation
// fails, get FallbackShortDef.
func (g *Generator) ShortDefinitions(ctx context.Context, words []vocab.Word) []vocab.ShortDef {
	if len(words) == 0 {
		return nil
	}
	generated := map[string]string{}
	if g.provider != nil {
		ctx = llm.WithPurpose(ctx, "short-definitions")
		req := llm.Request{
			System:      systemPrompt,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildShortDefMessage(words)}},
			Schema:      ShortDefSchema,
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: 0.3,
		}
		var out shortDefOutput
		if err := llm.Decode(ctx, g.provider, req, &out); err != nil {
			g.logger.Warn("short definition generation failed, serving fallback", "error", err)
		} else {
			for _, d := range out.Definitions {
				if def := strings.TrimSpace(d.ShortDef); def != "" {
					generated[strings.ToLower(strings.TrimSpace(d.Word))] = def
				}
			}
		}
	}

	defs := make([]vocab.ShortDef, len(words))
	for i, w := range words {
		def, ok := generated[strings.ToLower(w.Word)]
		if !ok {
			def = FallbackShortDef(w)
		}
		defs[i] = vocab.ShortDef{Word: w.Word, ShortDef: def}
	}
	return defs
}

// FallbackShortDef is the first ShortDefWords words of the definition
// followed by "...".
func FallbackShortDef(w vocab.Word) string {
	fields := strings.Split(w.Definition, " ")
	if len(fields) > ShortDefWords {
		fields = fields[:ShortDefWords]
	}
	return strings.Join(fields, " ") + "..."
}

// Sample returns n distinct words drawn at random from pool, or all of
// pool shuffled when it is smaller.
func (g *Generator) Sample(pool []vocab.Word, n int) []vocab.Word {
	out := slices.Clone(pool)
	g.mu.Lock()
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	g.mu.Unlock()
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

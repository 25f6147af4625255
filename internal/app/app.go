// Package app is the composition root: it opens the database, loads the
// profile and wires every service the commands use.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/daily"
	"github.com/abhisek/examprep/internal/learning"
	"github.com/abhisek/examprep/internal/lessons"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/mistakes"
	"github.com/abhisek/examprep/internal/problemgen"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/session"
	"github.com/abhisek/examprep/internal/state"
	"github.com/abhisek/examprep/internal/store"
	"github.com/abhisek/examprep/internal/vocab"
	"github.com/abhisek/examprep/internal/wordbank"
)

// App holds the wired services for one process.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	Store    *store.Store
	State    *state.Store
	Tracker  *progress.Tracker
	Provider llm.Provider

	Questions *problemgen.Generator
	Sessions  *session.Manager
	Daily     *daily.Service
	Lessons   *lessons.Service
	Words     *wordbank.Generator
	Roots     []vocab.RootWord

	// Pool is the daily vocabulary list. It is the embedded list so stage
	// contents stay stable between runs.
	Pool []vocab.Word

	learnOnce sync.Once
	learning  *learning.Center
}

// Option adjusts how Open wires the App.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock drives timers and timestamps from clk instead of the wall
// clock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

// Open wires an App over the database at dbPath.
func Open(ctx context.Context, cfg config.Config, dbPath string, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a, err := wire(ctx, cfg, s, o.clock, logger)
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return a, nil
}

func wire(ctx context.Context, cfg config.Config, s *store.Store, clk clock.Clock, logger *slog.Logger) (*App, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, s.EventRepo(), logger)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	st := state.Open(ctx, state.NewBlobPersister(s.KV(), state.ProfileKey), logger)
	tracker := progress.NewTracker(st)

	bank, err := problemgen.LoadBank()
	if err != nil {
		return nil, err
	}
	pgCfg := problemgen.DefaultConfig()
	pgCfg.SpellingSample = cfg.SpellingCount
	questions := problemgen.New(provider, bank, pgCfg, logger, nil)

	words, err := wordbank.NewGenerator(provider, wordbank.DefaultConfig(), logger, nil)
	if err != nil {
		return nil, err
	}
	roots, err := wordbank.Roots()
	if err != nil {
		return nil, err
	}
	lsn, err := lessons.NewService(ctx, provider, s.KV(), lessons.DefaultConfig(), logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Clock:     clk,
		Store:     s,
		State:     st,
		Tracker:   tracker,
		Provider:  provider,
		Questions: questions,
		Sessions: session.NewManager(session.Config{
			Store:               st,
			Source:              questions,
			Clock:               clk,
			Logger:              logger,
			QuestionsPerSession: cfg.QuestionsPerSession,
			SpellingCount:       cfg.SpellingCount,
		}),
		Daily:   daily.NewService(st, tracker, clk, nil),
		Lessons: lsn,
		Words:   words,
		Roots:   roots,
		Pool:    words.Fallback(),
	}, nil
}

// Learning returns the learning center. Its word list is fetched from the
// provider on first use, falling back to the embedded list.
func (a *App) Learning(ctx context.Context) *learning.Center {
	a.learnOnce.Do(func() {
		pool := a.Words.VocabularyList(ctx)
		a.learning = learning.New(learning.Config{
			Store:   a.State,
			Tracker: a.Tracker,
			Words:   a.Words,
			Roots:   a.Roots,
			Clock:   a.Clock,
			Logger:  a.Logger,
		}, pool)
	})
	return a.learning
}

// Corrector returns a mistake corrector that pays out through the
// tracker.
func (a *App) Corrector() *mistakes.Corrector {
	return mistakes.NewCorrector(a.Clock, a.Tracker, a.Logger)
}

// Reset clears the profile and the lesson registry.
func (a *App) Reset(ctx context.Context) error {
	return errors.Join(a.State.Reset(ctx), a.Lessons.Reset(ctx))
}

// Close releases the database.
func (a *App) Close() error {
	return a.Store.Close()
}

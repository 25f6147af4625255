// Package session manages the in-progress practice session of each
// category: at most one per category, persisted write-through on every
// change so an interrupted session resumes where it left off.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/abhisek/examprep/internal/clock"
	"github.com/abhisek/examprep/internal/mistakes"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/progress"
	"github.com/abhisek/examprep/internal/state"
)

const (
	DefaultQuestionsPerSession = 10
	DefaultSpellingCount       = 20
)

var (
	// ErrNoSession is returned when an operation needs a session the
	// category does not have.
	ErrNoSession = errors.New("session: no active session")
	// ErrSubmitted is returned by Submit for a session already scored.
	ErrSubmitted = errors.New("session: already submitted")
	// ErrNoQuestions is returned when a question source yields nothing.
	ErrNoQuestions = errors.New("session: question source returned no questions")
)

// QuestionSource supplies question sets for new sessions.
type QuestionSource interface {
	Questions(ctx context.Context, c profile.Category, n int) ([]profile.Question, error)
	ReadingTest(ctx context.Context) ([]profile.Question, error)
	MockELA(ctx context.Context) ([]profile.Question, error)
	MockMath(ctx context.Context) ([]profile.Question, error)
	SpellingTest(ctx context.Context, n int) ([]profile.Question, error)
}

// Config configures a Manager.
type Config struct {
	Store  *state.Store
	Source QuestionSource
	Clock  clock.Clock
	Logger *slog.Logger

	QuestionsPerSession int
	SpellingCount       int
}

// Manager owns the activeSessions map of the profile.
type Manager struct {
	st     *state.Store
	source QuestionSource
	clk    clock.Clock
	logger *slog.Logger

	perSession    int
	spellingCount int
}

// NewManager returns a Manager. Zero counts take the defaults.
func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.QuestionsPerSession <= 0 {
		cfg.QuestionsPerSession = DefaultQuestionsPerSession
	}
	if cfg.SpellingCount <= 0 {
		cfg.SpellingCount = DefaultSpellingCount
	}
	return &Manager{
		st:            cfg.Store,
		source:        cfg.Source,
		clk:           cfg.Clock,
		logger:        cfg.Logger,
		perSession:    cfg.QuestionsPerSession,
		spellingCount: cfg.SpellingCount,
	}
}

// Get returns a copy of the category's session, or nil.
func (m *Manager) Get(c profile.Category) *profile.Session {
	var s *profile.Session
	m.st.Read(func(p *profile.Profile) { s = p.Session(c).Clone() })
	return s
}

// Start installs a fresh session for c, replacing any existing one.
func (m *Manager) Start(ctx context.Context, c profile.Category, questions []profile.Question, passage string) error {
	sess := m.newSession(questions, passage)
	_, err := m.st.Update(ctx, func(p *profile.Profile) bool {
		p.ActiveSessions[c] = sess
		return true
	})
	return err
}

func (m *Manager) newSession(questions []profile.Question, passage string) *profile.Session {
	return &profile.Session{
		Questions:   append([]profile.Question(nil), questions...),
		UserAnswers: map[string]int{},
		Passage:     passage,
		StartTime:   m.clk.Now().UnixMilli(),
	}
}

// Update replaces the session's answers and, when highlights is non-nil,
// its highlights. It reports false when c has no session.
func (m *Manager) Update(ctx context.Context, c profile.Category, answers map[string]int, highlights []profile.Highlight) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil {
			return false
		}
		s.UserAnswers = maps.Clone(answers)
		if s.UserAnswers == nil {
			s.UserAnswers = map[string]int{}
		}
		if highlights != nil {
			s.Highlights = normalizeHighlights(highlights)
		}
		return true
	})
}

// SaveElapsed stores the session's elapsed seconds.
func (m *Manager) SaveElapsed(ctx context.Context, c profile.Category, seconds int) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil || s.ElapsedTime == seconds {
			return false
		}
		s.ElapsedTime = max(seconds, 0)
		return true
	})
}

// Complete marks the session submitted with score. A submitted session
// stays for review until cleared or replaced.
func (m *Manager) Complete(ctx context.Context, c profile.Category, score int) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil {
			return false
		}
		s.IsSubmitted = true
		s.Score = score
		return true
	})
}

// Clear removes the category's session.
func (m *Manager) Clear(ctx context.Context, c profile.Category) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		if _, ok := p.ActiveSessions[c]; !ok {
			return false
		}
		delete(p.ActiveSessions, c)
		return true
	})
}

// Begin clears any session for c and starts a new one over a freshly
// generated question set. A mock exam starts in its ELA phase.
func (m *Manager) Begin(ctx context.Context, c profile.Category) (*profile.Session, error) {
	if _, err := m.Clear(ctx, c); err != nil {
		return nil, err
	}

	var (
		questions []profile.Question
		err       error
	)
	switch c {
	case profile.Reading:
		questions, err = m.source.ReadingTest(ctx)
	case profile.Mock:
		questions, err = m.source.MockELA(ctx)
	case profile.Spelling:
		questions, err = m.source.SpellingTest(ctx, m.spellingCount)
	default:
		questions, err = m.source.Questions(ctx, c, m.perSession)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s questions: %w", c.Slug(), err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	sess := m.newSession(questions, "")
	if c == profile.Mock {
		sess.MockStage = profile.MockELA
	}
	if _, err := m.st.Update(ctx, func(p *profile.Profile) bool {
		p.ActiveSessions[c] = sess
		return true
	}); err != nil {
		return sess.Clone(), err
	}
	m.logger.Debug("session started", "category", c.Slug(), "questions", len(questions))
	return sess.Clone(), nil
}

// Answer records option for one question. It reports false when there
// is no open session or the question is not part of it.
func (m *Manager) Answer(ctx context.Context, c profile.Category, questionID string, option int) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil || s.IsSubmitted {
			return false
		}
		q, ok := s.Question(questionID)
		if !ok || option < 0 || option >= len(q.Options) {
			return false
		}
		if cur, had := s.UserAnswers[questionID]; had && cur == option {
			return false
		}
		s.UserAnswers[questionID] = option
		return true
	})
}

// Result is the outcome of a Submit.
type Result struct {
	// Score and Total cover the whole exam for a finished mock.
	Score int
	Total int
	// Stage is the mock phase that was submitted; empty for other
	// categories.
	Stage profile.MockStage
	// Done is false when a mock exam moved on to its math phase.
	Done     bool
	Mistakes []profile.Question
}

// Submit scores the category's session. Scoring, the mistake log and the
// progression counters are updated in one persisted step. Submitting the
// ELA phase of a mock exam instead restarts the session in place with
// the math questions and carries the ELA score forward.
func (m *Manager) Submit(ctx context.Context, c profile.Category) (Result, error) {
	sess := m.Get(c)
	if sess == nil {
		return Result{}, ErrNoSession
	}
	if sess.IsSubmitted {
		return Result{}, ErrSubmitted
	}
	if c == profile.Mock && sess.MockStage != profile.MockMath {
		return m.advanceMock(ctx, sess)
	}

	var res Result
	_, err := m.st.Update(ctx, func(p *profile.Profile) bool {
		live := p.Session(c)
		if live == nil || live.IsSubmitted || live.StartTime != sess.StartTime {
			return false
		}
		res = score(live)
		if c == profile.Mock {
			res.Stage = profile.MockMath
			res.Score += live.ELAScore
			res.Total += live.ELATotalQuestions
		}
		for _, q := range res.Mistakes {
			mistakes.Log(p, q)
		}
		progress.RecordPracticeResults(p, c, res.Score, res.Total, res.Mistakes, live.Questions)
		live.IsSubmitted = true
		live.Score = res.Score
		return true
	})
	if err != nil {
		return res, err
	}
	if !res.Done {
		return res, ErrNoSession
	}
	m.logger.Debug("session submitted", "category", c.Slug(), "score", res.Score, "total", res.Total)
	return res, nil
}

func (m *Manager) advanceMock(ctx context.Context, ela *profile.Session) (Result, error) {
	res := score(ela)
	res.Stage = profile.MockELA
	res.Done = false
	res.Mistakes = nil

	math, err := m.source.MockMath(ctx)
	if err != nil {
		return res, fmt.Errorf("generate mock math questions: %w", err)
	}
	if len(math) == 0 {
		return res, ErrNoQuestions
	}

	next := m.newSession(math, "")
	next.MockStage = profile.MockMath
	next.ELAScore = res.Score
	next.ELATotalQuestions = res.Total
	next.ElapsedTime = ela.ElapsedTime

	changed, err := m.st.Update(ctx, func(p *profile.Profile) bool {
		live := p.Session(profile.Mock)
		if live == nil || live.IsSubmitted || live.StartTime != ela.StartTime || live.MockStage == profile.MockMath {
			return false
		}
		p.ActiveSessions[profile.Mock] = next
		return true
	})
	if err != nil {
		return res, err
	}
	if !changed {
		return res, ErrNoSession
	}
	return res, nil
}

func score(s *profile.Session) Result {
	missed := s.Mistakes()
	return Result{
		Score:    len(s.Questions) - len(missed),
		Total:    len(s.Questions),
		Done:     true,
		Mistakes: missed,
	}
}

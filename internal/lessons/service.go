package lessons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/store"
)

// ErrUnknownTopic is returned for a topic with no cached, fallback or
// generated lesson.
var ErrUnknownTopic = errors.New("lessons: no lesson for topic")

// Service serves lessons from the registry, the fallback set and the
// provider, in that order.
type Service struct {
	provider  llm.Provider
	kv        store.KV
	cfg       Config
	logger    *slog.Logger
	fallbacks map[string]Lesson

	mu       sync.Mutex
	registry map[string]Lesson
	syncing  bool
	lastSync SyncResult
}

// SyncResult describes the most recent background sync.
type SyncResult struct {
	Done   bool
	Synced int
	Err    error
}

// NewService loads the registry from kv. A missing or corrupt blob starts
// an empty registry.
func NewService(ctx context.Context, provider llm.Provider, kv store.KV, cfg Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fb, err := Fallbacks()
	if err != nil {
		return nil, err
	}
	s := &Service{
		provider:  provider,
		kv:        kv,
		cfg:       cfg,
		logger:    logger,
		fallbacks: fb,
		registry:  make(map[string]Lesson),
	}

	var reg map[string]Lesson
	switch err := store.GetJSON(ctx, kv, RegistryKey, &reg); {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		logger.Warn("lesson registry unreadable, starting empty", "error", err)
	default:
		for topic, l := range reg {
			if l.Valid() {
				s.registry[topic] = l
			}
		}
	}
	return s, nil
}

// Cached reports whether topic has a generated lesson in the registry.
func (s *Service) Cached(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.registry[topic]
	return ok
}

// Lesson returns the lesson for topic. Registry entries win over the
// fallback set; topics with neither are generated and cached.
func (s *Service) Lesson(ctx context.Context, topic string) (Lesson, error) {
	s.mu.Lock()
	l, ok := s.registry[topic]
	s.mu.Unlock()
	if ok {
		return l, nil
	}
	if l, ok := s.fallbacks[topic]; ok {
		return l, nil
	}
	if s.provider == nil {
		return Lesson{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}

	l, err := s.Generate(ctx, topic)
	if err != nil {
		return Lesson{}, fmt.Errorf("%w: %q: %w", ErrUnknownTopic, topic, err)
	}
	if err := s.store(ctx, l); err != nil {
		s.logger.Warn("lesson registry save failed", "topic", topic, "error", err)
	}
	return l, nil
}

// Generate asks the provider for a lesson on topic without caching it.
func (s *Service) Generate(ctx context.Context, topic string) (Lesson, error) {
	if s.provider == nil {
		return Lesson{}, llm.ErrNoProvider
	}
	ctx = llm.WithPurpose(ctx, "lesson")

	track, ok := TrackOf(topic)
	if !ok {
		track = GrammarTrack
	}
	req := llm.Request{
		System:      lessonSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildLessonUserMessage(topic, track)}},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var l Lesson
	if err := llm.Decode(ctx, s.provider, req, &l); err != nil {
		return Lesson{}, fmt.Errorf("generate lesson: %w", err)
	}
	l.Topic = topic
	if !l.Valid() {
		return Lesson{}, fmt.Errorf("generate lesson: incomplete lesson for %q", topic)
	}
	return l, nil
}

func (s *Service) store(ctx context.Context, l Lesson) error {
	s.mu.Lock()
	s.registry[l.Topic] = l
	snapshot := make(map[string]Lesson, len(s.registry))
	for k, v := range s.registry {
		snapshot[k] = v
	}
	s.mu.Unlock()
	return store.PutJSON(ctx, s.kv, RegistryKey, snapshot)
}

// Sync generates every grammar topic missing from the registry, one at a
// time, saving after each. Failures are logged and skipped. It returns
// the number of lessons added.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.provider == nil {
		return 0, nil
	}
	synced := 0
	for _, topic := range GrammarTopics {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		if s.Cached(topic) {
			continue
		}
		l, err := s.Generate(ctx, topic)
		if err != nil {
			s.logger.Warn("lesson sync failed", "topic", topic, "error", err)
			continue
		}
		if err := s.store(ctx, l); err != nil {
			return synced, fmt.Errorf("save lesson registry: %w", err)
		}
		synced++
		s.logger.Debug("lesson synced", "topic", topic)
	}
	return synced, nil
}

// StartSync runs Sync in the background. A sync already in flight is not
// restarted.
func (s *Service) StartSync(ctx context.Context) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.lastSync = SyncResult{}
	s.mu.Unlock()

	go func() {
		n, err := s.Sync(ctx)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.syncing = false
		s.lastSync = SyncResult{Done: true, Synced: n, Err: err}
	}()
}

// SyncStatus returns the result of the last background sync. Done is
// false while a sync is running or before the first one.
func (s *Service) SyncStatus() SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Reset clears the registry and deletes its blob.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.registry = make(map[string]Lesson)
	s.mu.Unlock()
	if err := s.kv.Delete(ctx, RegistryKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clear lesson registry: %w", err)
	}
	return nil
}

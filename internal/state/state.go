// Package state owns the live learner profile. Every component reads and
// writes the profile through a *Store handle; mutations are atomic
// read-modify-write operations followed by a synchronous save.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/store"
)

// ProfileKey is the blob key the profile is stored under.
const ProfileKey = "examprep-profile"

// Persister loads and saves the profile. Load returns (nil, nil) when no
// profile has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*profile.Profile, error)
	Save(ctx context.Context, p *profile.Profile) error
}

// BlobPersister stores the profile as one JSON blob in a KV table.
type BlobPersister struct {
	kv  store.KV
	key string
}

// NewBlobPersister returns a persister writing under key.
func NewBlobPersister(kv store.KV, key string) *BlobPersister {
	return &BlobPersister{kv: kv, key: key}
}

func (b *BlobPersister) Load(ctx context.Context) (*profile.Profile, error) {
	var p profile.Profile
	err := store.GetJSON(ctx, b.kv, b.key, &p)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	profile.Sanitize(&p)
	return &p, nil
}

func (b *BlobPersister) Save(ctx context.Context, p *profile.Profile) error {
	return store.PutJSON(ctx, b.kv, b.key, p)
}

// Store is the handle to the live profile.
type Store struct {
	mu        sync.Mutex
	p         *profile.Profile
	persister Persister
	logger    *slog.Logger
}

// Open loads the profile through persister. A missing, unreadable or
// corrupt blob yields a fresh default profile; the failure is logged and
// never returned.
func Open(ctx context.Context, persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{persister: persister, logger: logger}

	p, err := persister.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("stored profile unreadable, starting fresh", "error", err)
		p = profile.Default()
	case p == nil:
		p = profile.Default()
	}
	s.p = p
	return s
}

// Snapshot returns a deep copy of the current profile.
func (s *Store) Snapshot() *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Clone()
}

// Read calls fn with the live profile under the lock. fn must not retain
// or modify the profile.
func (s *Store) Read(fn func(p *profile.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.p)
}

// Update applies fn to the live profile under the lock and, when fn
// reports a change, saves the result before releasing the lock. A failed
// save is returned but the in-memory mutation is kept, so the next
// successful save persists it.
func (s *Store) Update(ctx context.Context, fn func(p *profile.Profile) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.p) {
		return false, nil
	}
	if err := s.persister.Save(ctx, s.p); err != nil {
		s.logger.Error("saving profile failed", "error", err)
		return true, fmt.Errorf("save profile: %w", err)
	}
	return true, nil
}

// Reset replaces the profile with a fresh default and saves it.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.Update(ctx, func(p *profile.Profile) bool {
		*p = *profile.Default()
		return true
	})
	return err
}

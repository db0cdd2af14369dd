package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	wstrings "wayfarer/pkg/platform/strings"
)

// InMemoryStore mirrors the Postgres social graph store for tests.
type InMemoryStore struct {
	mu           sync.RWMutex
	follows      map[uuid.UUID][]string
	interactions map[uuid.UUID][]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		follows:      make(map[uuid.UUID][]string),
		interactions: make(map[uuid.UUID][]string),
	}
}

func (s *InMemoryStore) FollowedCreators(_ context.Context, memberID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.follows[memberID]))
	copy(out, s.follows[memberID])
	return out, nil
}

func (s *InMemoryStore) RecentInteractionText(_ context.Context, memberID uuid.UUID, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := s.interactions[memberID]
	if limit > 0 && len(texts) > limit {
		texts = texts[:limit]
	}
	out := make([]string, len(texts))
	copy(out, texts)
	return out, nil
}

func (s *InMemoryStore) SetFollow(_ context.Context, memberID uuid.UUID, creator string, following bool) error {
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.follows[memberID])+1)
	for _, f := range s.follows[memberID] {
		if f != key {
			kept = append(kept, f)
		}
	}
	if following {
		kept = append(kept, key)
	}
	s.follows[memberID] = kept
	return nil
}

// RecordInteraction prepends one interaction keyword surface, newest first.
func (s *InMemoryStore) RecordInteraction(memberID uuid.UUID, keywords string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions[memberID] = append([]string{keywords}, s.interactions[memberID]...)
}

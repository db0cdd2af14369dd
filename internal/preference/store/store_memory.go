package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"wayfarer/internal/preference"
	"wayfarer/pkg/platform/sentinel"
	wstrings "wayfarer/pkg/platform/strings"
)

// InMemoryStore holds preferences under one mutex, so SyncFollow is a single
// critical section rather than a read-modify-write race.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]preference.Preference
}

// NewInMemory builds an empty in-memory preference store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[uuid.UUID]preference.Preference)}
}

func (s *InMemoryStore) Get(_ context.Context, memberID uuid.UUID) (preference.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pref, ok := s.prefs[memberID]
	if !ok {
		return preference.Preference{}, sentinel.ErrNotFound
	}
	return clone(pref), nil
}

func (s *InMemoryStore) Put(_ context.Context, pref preference.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[pref.MemberID] = clone(pref.Normalized())
	return nil
}

func (s *InMemoryStore) SyncFollow(_ context.Context, memberID uuid.UUID, creator string, following bool) error {
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pref, ok := s.prefs[memberID]
	if !ok {
		pref = preference.Preference{MemberID: memberID}
	}

	followed := make([]string, 0, len(pref.Followed)+1)
	for _, f := range pref.Followed {
		if f != key {
			followed = append(followed, f)
		}
	}
	if following {
		followed = append(followed, key)
	}
	pref.Followed = followed
	s.prefs[memberID] = pref
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, memberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.prefs, memberID)
	return nil
}

func clone(p preference.Preference) preference.Preference {
	out := preference.Preference{MemberID: p.MemberID}
	out.Followed = append(out.Followed, p.Followed...)
	out.Keywords = append(out.Keywords, p.Keywords...)
	return out
}

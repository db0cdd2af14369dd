package profiles

import (
	"context"
	"strings"
	"sync"

	"wayfarer/internal/catalog"
)

// Profile is the live row shape held by the in-memory store.
type Profile struct {
	Username      string
	DisplayName   string
	Bio           string
	FollowerCount int64
	Keywords      string
	Public        bool
}

// InMemoryStore mirrors the Postgres reader for tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	profiles    []Profile
	unavailable bool
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

func (s *InMemoryStore) Add(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, p)
}

func (s *InMemoryStore) List(_ context.Context, q catalog.Query) ([]catalog.Item, catalog.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return nil, catalog.Unavailable, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var items []catalog.Item
	for _, p := range s.profiles {
		if !p.Public {
			continue
		}
		if needle != "" && !profileMatches(p, needle) {
			continue
		}
		key, ok := catalog.ProfileKey(p.Username)
		if !ok {
			continue
		}
		items = append(items, catalog.Item{
			Type:       catalog.TypeProfile,
			Key:        key,
			Title:      p.DisplayName,
			Summary:    p.Bio,
			Popularity: p.FollowerCount,
			Origin:     catalog.OriginLive,
			OwnerID:    key,
			Keywords:   p.Keywords,
		})
		if len(items) == limit {
			break
		}
	}
	return items, catalog.Available, nil
}

func profileMatches(p Profile, needle string) bool {
	return strings.Contains(strings.ToLower(p.Username), needle) ||
		strings.Contains(strings.ToLower(p.DisplayName), needle) ||
		strings.Contains(strings.ToLower(p.Bio), needle) ||
		strings.Contains(strings.ToLower(p.Keywords), needle)
}

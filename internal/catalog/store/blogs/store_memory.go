package blogs

import (
	"context"
	"strings"
	"sync"

	"wayfarer/internal/catalog"
)

// Blog is the live row shape held by the in-memory store.
type Blog struct {
	Slug           string
	Title          string
	Summary        string
	ReadCount      int64
	AuthorUsername string
	Keywords       string
	Published      bool
}

// InMemoryStore mirrors the Postgres reader for tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	blogs       []Blog
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

func (s *InMemoryStore) Add(b Blog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs = append(s.blogs, b)
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
	for _, b := range s.blogs {
		if !b.Published {
			continue
		}
		if needle != "" && !blogMatches(b, needle) {
			continue
		}
		key, ok := catalog.BlogKey(b.Slug)
		if !ok {
			continue
		}
		owner, _ := catalog.ProfileKey(b.AuthorUsername)
		items = append(items, catalog.Item{
			Type:       catalog.TypeBlog,
			Key:        key,
			Title:      b.Title,
			Summary:    b.Summary,
			Popularity: b.ReadCount,
			Origin:     catalog.OriginLive,
			OwnerID:    owner,
			Keywords:   b.Keywords,
		})
		if len(items) == limit {
			break
		}
	}
	return items, catalog.Available, nil
}

func blogMatches(b Blog, needle string) bool {
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Summary), needle) ||
		strings.Contains(strings.ToLower(b.Keywords), needle)
}

package trips

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wayfarer/internal/catalog"
)

// Trip is the live row shape held by the in-memory store.
type Trip struct {
	ID           int64
	Title        string
	Summary      string
	TrafficScore int64
	HostID       uuid.UUID
	HostUsername string
	Keywords     string
	Published    bool
	StartsAt     time.Time
	EndsAt       time.Time
}

// InMemoryStore mirrors the Postgres reader for tests and for running
// without a database. Availability is settable so callers can exercise the
// unprovisioned-table state deterministically.
type InMemoryStore struct {
	mu          sync.RWMutex
	trips       []Trip
	bookmarks   map[uuid.UUID]map[int64]struct{}
	unavailable bool
	clock       func() time.Time
}

// NewInMemory builds an empty in-memory trip store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		bookmarks: make(map[uuid.UUID]map[int64]struct{}),
		clock:     time.Now,
	}
}

// SetClock overrides the time source for tests.
func (s *InMemoryStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// SetUnavailable toggles the unprovisioned-table state.
func (s *InMemoryStore) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

// Add inserts a trip row.
func (s *InMemoryStore) Add(t Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = append(s.trips, t)
}

// Bookmark records a saved-trip relation for a member.
func (s *InMemoryStore) Bookmark(memberID uuid.UUID, tripID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookmarks[memberID] == nil {
		s.bookmarks[memberID] = make(map[int64]struct{})
	}
	s.bookmarks[memberID][tripID] = struct{}{}
}

// List mirrors PostgresStore.List over the in-memory rows.
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
	now := s.clock()
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var items []catalog.Item
	for _, t := range s.trips {
		if !t.Published || !s.inTab(t, q, now) {
			continue
		}
		if needle != "" && !tripMatches(t, needle) {
			continue
		}
		key, _ := catalog.ProfileKey(t.HostUsername)
		items = append(items, catalog.Item{
			Type:       catalog.TypeTrip,
			Key:        strconv.FormatInt(t.ID, 10),
			Title:      t.Title,
			Summary:    t.Summary,
			Popularity: t.TrafficScore,
			Origin:     catalog.OriginLive,
			OwnerID:    key,
			Keywords:   t.Keywords,
		})
		if len(items) == limit {
			break
		}
	}
	return items, catalog.Available, nil
}

func (s *InMemoryStore) inTab(t Trip, q catalog.Query, now time.Time) bool {
	switch q.Tab {
	case catalog.TabHosting:
		return t.HostID == q.ViewerID
	case catalog.TabSaved:
		_, saved := s.bookmarks[q.ViewerID][t.ID]
		return saved
	case catalog.TabPast:
		return t.EndsAt.Before(now)
	default:
		return !t.StartsAt.Before(now)
	}
}

func tripMatches(t Trip, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Summary), needle) ||
		strings.Contains(strings.ToLower(t.Keywords), needle)
}

// TabCounts mirrors PostgresStore.TabCounts.
func (s *InMemoryStore) TabCounts(_ context.Context, viewerID uuid.UUID) (map[catalog.TripTab]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[catalog.TripTab]int{}
	if s.unavailable {
		return counts, nil
	}
	now := s.clock()
	for _, t := range s.trips {
		if !t.Published {
			continue
		}
		if !t.StartsAt.Before(now) {
			counts[catalog.TabUpcoming]++
		}
		if t.EndsAt.Before(now) {
			counts[catalog.TabPast]++
		}
		if viewerID != uuid.Nil && t.HostID == viewerID {
			counts[catalog.TabHosting]++
		}
		if _, saved := s.bookmarks[viewerID][t.ID]; saved && viewerID != uuid.Nil {
			counts[catalog.TabSaved]++
		}
	}
	return counts, nil
}

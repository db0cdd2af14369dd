package surface

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wayfarer/internal/catalog"
	"wayfarer/internal/preference"
	"wayfarer/internal/rank"
	"wayfarer/internal/rank/metrics"
	"wayfarer/internal/viewer"
)

// Limits are the per-surface display truncation limits.
type Limits struct {
	Home   int
	Search int
	Trips  int
	Blogs  int
}

// DefaultLimits match the rendered page sizes.
var DefaultLimits = Limits{Home: 6, Search: 20, Trips: 20, Blogs: 12}

// PreferenceSource resolves a member's personalization profile.
type PreferenceSource interface {
	GetOrInfer(ctx context.Context, memberID uuid.UUID) (preference.Preference, error)
}

// TripCounter provides the tab-scoped counts the Trips-list payload reports.
type TripCounter interface {
	TabCounts(ctx context.Context, viewerID uuid.UUID) (map[catalog.TripTab]int, error)
}

// Service builds the four surface payloads.
type Service struct {
	catalog *catalog.Adapter
	prefs   PreferenceSource
	trips   TripCounter
	metrics *metrics.Metrics
	limits  Limits
}

// New validates dependencies and builds the surface service. The trip
// counter may be nil when the trips surface is not served.
func New(adapter *catalog.Adapter, prefs PreferenceSource, trips TripCounter, m *metrics.Metrics, limits Limits) (*Service, error) {
	if adapter == nil {
		return nil, fmt.Errorf("catalog adapter is required")
	}
	if prefs == nil {
		return nil, fmt.Errorf("preference source is required")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics are required")
	}
	if limits.Home <= 0 || limits.Search <= 0 || limits.Trips <= 0 || limits.Blogs <= 0 {
		return nil, fmt.Errorf("surface limits must be positive")
	}
	return &Service{catalog: adapter, prefs: prefs, trips: trips, metrics: m, limits: limits}, nil
}

// preferenceFor resolves the viewer's preference. Guests rank without one;
// a member with no row gets the inferred fallback from the preference
// service. Storage failures propagate as hard errors.
func (s *Service) preferenceFor(ctx context.Context, v viewer.Viewer) (preference.Preference, error) {
	if !v.IsMember() {
		return preference.Preference{}, nil
	}
	return s.prefs.GetOrInfer(ctx, v.MemberID)
}

// section fetches, merges, and ranks one content type.
func (s *Service) section(ctx context.Context, surfaceName string, t catalog.Type, q catalog.Query, v viewer.Viewer, pref preference.Preference, labels rank.Labels, limit int) (Section, rank.SourceLabel, error) {
	start := time.Now()

	fetched, err := s.catalog.Fetch(ctx, t, q)
	if err != nil {
		return Section{}, "", err
	}

	merged := rank.Merge(fetched.Live, fetched.Demo)
	result := rank.Rank(merged, v, pref, labels)
	if len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}

	source := rank.Source(fetched)
	s.metrics.ObserveRanking(surfaceName, result.Mode, result.Reason, start)
	s.metrics.ObserveSource(surfaceName, string(source))

	return Section{Items: result.Items, Mode: result.Mode, Reason: result.Reason}, source, nil
}

// Home assembles the three ranked home sections concurrently.
func (s *Service) Home(ctx context.Context, v viewer.Viewer) (HomePayload, error) {
	pref, err := s.preferenceFor(ctx, v)
	if err != nil {
		return HomePayload{}, fmt.Errorf("home: %w", err)
	}

	var payload HomePayload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sec, _, err := s.section(gctx, "home", catalog.TypeTrip, catalog.Query{Limit: s.limits.Home, ViewerID: v.MemberID}, v, pref, rank.HomeLabels, s.limits.Home)
		payload.Trips = sec
		return err
	})
	g.Go(func() error {
		sec, _, err := s.section(gctx, "home", catalog.TypeProfile, catalog.Query{Limit: s.limits.Home}, v, pref, rank.HomeLabels, s.limits.Home)
		payload.Profiles = sec
		return err
	})
	g.Go(func() error {
		sec, _, err := s.section(gctx, "home", catalog.TypeBlog, catalog.Query{Limit: s.limits.Home}, v, pref, rank.HomeLabels, s.limits.Home)
		payload.Blogs = sec
		return err
	})
	if err := g.Wait(); err != nil {
		return HomePayload{}, fmt.Errorf("home: %w", err)
	}
	return payload, nil
}

// Search assembles ranked results for the selected content types.
func (s *Service) Search(ctx context.Context, v viewer.Viewer, query, rawType string) (SearchPayload, error) {
	active := ParseSearchType(rawType)
	pref, err := s.preferenceFor(ctx, v)
	if err != nil {
		return SearchPayload{}, fmt.Errorf("search: %w", err)
	}

	payload := SearchPayload{
		Query:      query,
		ActiveType: string(active),
		HasQuery:   query != "",
	}
	q := catalog.Query{Text: query, Limit: s.limits.Search, ViewerID: v.MemberID}

	g, gctx := errgroup.WithContext(ctx)
	if active == SearchAll || active == SearchTrips {
		g.Go(func() error {
			sec, _, err := s.section(gctx, "search", catalog.TypeTrip, q, v, pref, rank.SearchLabels, s.limits.Search)
			payload.Trips = &sec
			return err
		})
	}
	if active == SearchAll || active == SearchUsers {
		g.Go(func() error {
			sec, _, err := s.section(gctx, "search", catalog.TypeProfile, q, v, pref, rank.SearchLabels, s.limits.Search)
			payload.Users = &sec
			return err
		})
	}
	if active == SearchAll || active == SearchBlogs {
		g.Go(func() error {
			sec, _, err := s.section(gctx, "search", catalog.TypeBlog, q, v, pref, rank.SearchLabels, s.limits.Search)
			payload.Blogs = &sec
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return SearchPayload{}, fmt.Errorf("search: %w", err)
	}
	return payload, nil
}

// Trips assembles the tab-scoped trips list plus per-tab counts.
func (s *Service) Trips(ctx context.Context, v viewer.Viewer, rawTab string) (TripsPayload, error) {
	tab := ParseTripTab(rawTab, v.IsMember())
	pref, err := s.preferenceFor(ctx, v)
	if err != nil {
		return TripsPayload{}, fmt.Errorf("trips: %w", err)
	}

	q := catalog.Query{Limit: s.limits.Trips, Tab: tab, ViewerID: v.MemberID}
	sec, source, err := s.section(ctx, "trips", catalog.TypeTrip, q, v, pref, rank.TripsLabels, s.limits.Trips)
	if err != nil {
		return TripsPayload{}, fmt.Errorf("trips: %w", err)
	}

	payload := TripsPayload{
		Section: sec,
		Tab:     string(tab),
		Source:  string(source),
		Counts:  map[string]int{},
	}
	if s.trips != nil {
		counts, err := s.trips.TabCounts(ctx, v.MemberID)
		if err != nil {
			return TripsPayload{}, fmt.Errorf("trips: %w", err)
		}
		for tab, n := range counts {
			payload.Counts[string(tab)] = n
		}
	}
	return payload, nil
}

// Blogs assembles the ranked blogs list.
func (s *Service) Blogs(ctx context.Context, v viewer.Viewer) (BlogsPayload, error) {
	pref, err := s.preferenceFor(ctx, v)
	if err != nil {
		return BlogsPayload{}, fmt.Errorf("blogs: %w", err)
	}

	sec, source, err := s.section(ctx, "blogs", catalog.TypeBlog, catalog.Query{Limit: s.limits.Blogs}, v, pref, rank.BlogsLabels, s.limits.Blogs)
	if err != nil {
		return BlogsPayload{}, fmt.Errorf("blogs: %w", err)
	}
	return BlogsPayload{Section: sec, Source: string(source)}, nil
}

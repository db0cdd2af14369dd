package surface

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wayfarer/internal/catalog"
	"wayfarer/internal/catalog/demo"
	blogstore "wayfarer/internal/catalog/store/blogs"
	profilestore "wayfarer/internal/catalog/store/profiles"
	tripstore "wayfarer/internal/catalog/store/trips"
	prefservice "wayfarer/internal/preference/service"
	prefstore "wayfarer/internal/preference/store"
	rankmetrics "wayfarer/internal/rank/metrics"
	socialstore "wayfarer/internal/social/store"
	"wayfarer/internal/viewer"
)

// promauto registers against the default registry, so the package shares one
// metrics instance across the suite.
var testMetrics = rankmetrics.New()

// =============================================================================
// Surface Service Test Suite
// =============================================================================
// The builders themselves are thin; these tests pin the composed behavior the
// pages depend on: live/demo merging per surface, source labels, parameter
// normalization, and mode/reason pass-through.

type SurfaceServiceSuite struct {
	suite.Suite
	trips    *tripstore.InMemoryStore
	profiles *profilestore.InMemoryStore
	blogs    *blogstore.InMemoryStore
	prefs    *prefservice.Service
	graph    *socialstore.InMemoryStore
	service  *Service
}

func TestSurfaceServiceSuite(t *testing.T) {
	suite.Run(t, new(SurfaceServiceSuite))
}

func (s *SurfaceServiceSuite) SetupTest() {
	demoCatalog, err := demo.Load()
	s.Require().NoError(err)

	s.trips = tripstore.NewInMemory()
	s.profiles = profilestore.NewInMemory()
	s.blogs = blogstore.NewInMemory()
	s.graph = socialstore.NewInMemory()

	s.prefs, err = prefservice.New(prefstore.NewInMemory(), s.graph)
	s.Require().NoError(err)

	adapter, err := catalog.NewAdapter(map[catalog.Type]catalog.Source{
		catalog.TypeTrip:    {Live: s.trips, Demo: demoCatalog.Reader(catalog.TypeTrip)},
		catalog.TypeProfile: {Live: s.profiles, Demo: demoCatalog.Reader(catalog.TypeProfile)},
		catalog.TypeBlog:    {Live: s.blogs, Demo: demoCatalog.Reader(catalog.TypeBlog)},
	})
	s.Require().NoError(err)

	s.service, err = New(adapter, s.prefs, s.trips, testMetrics, DefaultLimits)
	s.Require().NoError(err)
}

func (s *SurfaceServiceSuite) addTrip(id int64, title string, traffic int64, host string, upcoming bool) {
	starts := time.Now().Add(72 * time.Hour)
	ends := starts.Add(120 * time.Hour)
	if !upcoming {
		starts = time.Now().Add(-240 * time.Hour)
		ends = time.Now().Add(-120 * time.Hour)
	}
	s.trips.Add(tripstore.Trip{
		ID: id, Title: title, TrafficScore: traffic,
		HostUsername: host, Published: true,
		StartsAt: starts, EndsAt: ends,
	})
}

// =============================================================================
// Search: the demo-fallback scenario
// =============================================================================

func (s *SurfaceServiceSuite) TestSearchGuestBlogDemoFallback() {
	// Live blog catalog has no match; the demo catalog has exactly one blog
	// about Kyoto. The guest must still get a single-result page.
	payload, err := s.service.Search(context.Background(), viewer.Guest(), "kyoto", "blogs")
	s.Require().NoError(err)

	s.Equal("kyoto", payload.Query)
	s.True(payload.HasQuery)
	s.Equal("blogs", payload.ActiveType)
	s.Nil(payload.Trips)
	s.Nil(payload.Users)

	s.Require().NotNil(payload.Blogs)
	s.Require().Len(payload.Blogs.Items, 1)
	s.Equal("Kyoto in Autumn", payload.Blogs.Items[0].Title)
	s.Equal(int64(120), payload.Blogs.Items[0].Popularity)
	s.Equal("guest", payload.Blogs.Mode)
	s.Equal("guest-most-searched", payload.Blogs.Reason)
}

func (s *SurfaceServiceSuite) TestSearchTypeNormalization() {
	payload, err := s.service.Search(context.Background(), viewer.Guest(), "", "podcasts")
	s.Require().NoError(err)

	s.Equal("all", payload.ActiveType)
	s.False(payload.HasQuery)
	s.NotNil(payload.Trips)
	s.NotNil(payload.Users)
	s.NotNil(payload.Blogs)
}

func (s *SurfaceServiceSuite) TestSearchLiveBeatsDemoOnCollision() {
	s.blogs.Add(blogstore.Blog{
		Slug: "Kyoto-In-Autumn", Title: "Kyoto in Autumn, Revisited",
		ReadCount: 7, AuthorUsername: "mei", Published: true,
		Keywords: "kyoto japan autumn",
	})

	payload, err := s.service.Search(context.Background(), viewer.Guest(), "kyoto", "blogs")
	s.Require().NoError(err)
	s.Require().NotNil(payload.Blogs)
	s.Require().Len(payload.Blogs.Items, 1)
	s.Equal(catalog.OriginLive, payload.Blogs.Items[0].Origin)
	s.Equal("Kyoto in Autumn, Revisited", payload.Blogs.Items[0].Title)
}

// =============================================================================
// Blogs list
// =============================================================================

func (s *SurfaceServiceSuite) TestBlogsSourceLabels() {
	ctx := context.Background()

	s.Run("empty live store reports demo-fallback", func() {
		payload, err := s.service.Blogs(ctx, viewer.Guest())
		s.Require().NoError(err)
		s.Equal("demo-fallback", payload.Source)
		s.NotEmpty(payload.Items)
		s.Equal("guest-most-read", payload.Reason)
	})

	s.Run("unavailable live store reports synthetic-fallback", func() {
		s.blogs.SetUnavailable(true)
		defer s.blogs.SetUnavailable(false)

		payload, err := s.service.Blogs(ctx, viewer.Guest())
		s.Require().NoError(err)
		s.Equal("synthetic-fallback", payload.Source)
		s.NotEmpty(payload.Items)
	})

	s.Run("live rows report live-db", func() {
		s.blogs.Add(blogstore.Blog{
			Slug: "rainy-season-luang-prabang", Title: "Rainy Season in Luang Prabang",
			ReadCount: 44, AuthorUsername: "nok", Published: true,
		})
		payload, err := s.service.Blogs(ctx, viewer.Guest())
		s.Require().NoError(err)
		s.Equal("live-db", payload.Source)
	})
}

// =============================================================================
// Trips list
// =============================================================================

func (s *SurfaceServiceSuite) TestTripsTabs() {
	ctx := context.Background()
	memberID := uuid.New()
	m := viewer.Member(memberID, "wanderer")

	s.addTrip(1, "Lofoten by Kayak", 50, "eleni", true)
	s.addTrip(2, "Alps Winter Circuit", 20, "mateo", false)
	s.trips.Add(tripstore.Trip{
		ID: 3, Title: "Hosting My Own", TrafficScore: 5, HostID: memberID,
		HostUsername: "wanderer", Published: true,
		StartsAt: time.Now().Add(24 * time.Hour), EndsAt: time.Now().Add(48 * time.Hour),
	})
	s.trips.Bookmark(memberID, 1)

	s.Run("unknown tab normalizes to upcoming", func() {
		payload, err := s.service.Trips(ctx, viewer.Guest(), "bogus")
		s.Require().NoError(err)
		s.Equal("upcoming", payload.Tab)
	})

	s.Run("member-scoped tab falls back to upcoming for guests", func() {
		payload, err := s.service.Trips(ctx, viewer.Guest(), "saved")
		s.Require().NoError(err)
		s.Equal("upcoming", payload.Tab)
	})

	s.Run("hosting tab only lists the member's trips", func() {
		payload, err := s.service.Trips(ctx, m, "hosting")
		s.Require().NoError(err)
		s.Equal("hosting", payload.Tab)
		s.Require().Len(payload.Items, 1)
		s.Equal("3", payload.Items[0].Key)
		s.Equal("live-db", payload.Source)
	})

	s.Run("saved tab lists bookmarks", func() {
		payload, err := s.service.Trips(ctx, m, "saved")
		s.Require().NoError(err)
		s.Require().Len(payload.Items, 1)
		s.Equal("1", payload.Items[0].Key)
	})

	s.Run("counts cover every tab scope", func() {
		payload, err := s.service.Trips(ctx, m, "upcoming")
		s.Require().NoError(err)
		s.Equal(2, payload.Counts["upcoming"])
		s.Equal(1, payload.Counts["past"])
		s.Equal(1, payload.Counts["hosting"])
		s.Equal(1, payload.Counts["saved"])
	})
}

// =============================================================================
// Home
// =============================================================================

func (s *SurfaceServiceSuite) TestHome() {
	ctx := context.Background()

	s.Run("guest home is fully populated from the demo catalog", func() {
		payload, err := s.service.Home(ctx, viewer.Guest())
		s.Require().NoError(err)
		s.NotEmpty(payload.Trips.Items)
		s.NotEmpty(payload.Profiles.Items)
		s.NotEmpty(payload.Blogs.Items)
		s.Equal("guest-trending", payload.Trips.Reason)
		s.Equal("guest", payload.Blogs.Mode)
	})

	s.Run("member follow boost reorders home trips", func() {
		memberID := uuid.New()
		s.Require().NoError(s.graph.SetFollow(ctx, memberID, "youssef", true))

		payload, err := s.service.Home(ctx, viewer.Member(memberID, "wanderer"))
		s.Require().NoError(err)
		s.Require().NotEmpty(payload.Trips.Items)
		// Demo trip 9004 is youssef's and last by raw traffic.
		s.Equal("9004", payload.Trips.Items[0].Key)
		s.Equal("member-like-minded", payload.Trips.Reason)
		s.Equal("member", payload.Trips.Mode)
	})

	s.Run("truncates to the home limit", func() {
		for i := int64(100); i < 120; i++ {
			s.addTrip(i, "Filler Trip", i, "eleni", true)
		}
		payload, err := s.service.Home(ctx, viewer.Guest())
		s.Require().NoError(err)
		s.LessOrEqual(len(payload.Trips.Items), DefaultLimits.Home)
	})
}

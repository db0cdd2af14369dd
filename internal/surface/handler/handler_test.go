package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wayfarer/internal/platform/middleware"
	"wayfarer/internal/surface"
	"wayfarer/internal/viewer"
)

type stubSurfaces struct {
	home    surface.HomePayload
	search  surface.SearchPayload
	trips   surface.TripsPayload
	blogs   surface.BlogsPayload
	err     error
	gotTab  string
	gotQ    string
	gotType string
}

func (s *stubSurfaces) Home(_ context.Context, _ viewer.Viewer) (surface.HomePayload, error) {
	return s.home, s.err
}

func (s *stubSurfaces) Search(_ context.Context, _ viewer.Viewer, query, rawType string) (surface.SearchPayload, error) {
	s.gotQ, s.gotType = query, rawType
	return s.search, s.err
}

func (s *stubSurfaces) Trips(_ context.Context, _ viewer.Viewer, rawTab string) (surface.TripsPayload, error) {
	s.gotTab = rawTab
	return s.trips, s.err
}

func (s *stubSurfaces) Blogs(_ context.Context, _ viewer.Viewer) (surface.BlogsPayload, error) {
	return s.blogs, s.err
}

type stubFollows struct {
	memberID  uuid.UUID
	creator   string
	following bool
	calls     int
	err       error
}

func (s *stubFollows) SetFollow(_ context.Context, memberID uuid.UUID, creator string, following bool) error {
	s.calls++
	s.memberID, s.creator, s.following = memberID, creator, following
	return s.err
}

func newTestRouter(surfaces Surfaces, follows FollowAction) chi.Router {
	h := New(surfaces, follows, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func TestHandleHome(t *testing.T) {
	surfaces := &stubSurfaces{home: surface.HomePayload{
		Trips: surface.Section{Mode: "guest", Reason: "guest-trending"},
	}}
	router := newTestRouter(surfaces, &stubFollows{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
	var payload surface.HomePayload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Trips.Reason != "guest-trending" {
		t.Fatalf("expected guest-trending reason, got %q", payload.Trips.Reason)
	}
}

func TestHandleSearchPassesRawParams(t *testing.T) {
	surfaces := &stubSurfaces{search: surface.SearchPayload{Query: "kyoto", ActiveType: "blogs"}}
	router := newTestRouter(surfaces, &stubFollows{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=kyoto&type=blogs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if surfaces.gotQ != "kyoto" || surfaces.gotType != "blogs" {
		t.Fatalf("expected raw params forwarded, got q=%q type=%q", surfaces.gotQ, surfaces.gotType)
	}
}

func TestHandleTripsForwardsTab(t *testing.T) {
	surfaces := &stubSurfaces{trips: surface.TripsPayload{Tab: "upcoming"}}
	router := newTestRouter(surfaces, &stubFollows{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips?tab=saved", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if surfaces.gotTab != "saved" {
		t.Fatalf("expected raw tab forwarded, got %q", surfaces.gotTab)
	}
}

func TestHandleSurfaceError(t *testing.T) {
	surfaces := &stubSurfaces{err: errors.New("pg down")}
	router := newTestRouter(surfaces, &stubFollows{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "internal error" {
		t.Fatalf("expected generic error body, got %q", body["error"])
	}
}

func TestHandleFollow(t *testing.T) {
	memberID := uuid.New()
	member := viewer.Member(memberID, "wanderer")

	followReq := func(v viewer.Viewer, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/follows", bytes.NewBufferString(body))
		return req.WithContext(middleware.WithViewer(req.Context(), v))
	}

	t.Run("guest is rejected", func(t *testing.T) {
		follows := &stubFollows{}
		router := newTestRouter(&stubSurfaces{}, follows)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, followReq(viewer.Guest(), `{"creator":"mei","following":true}`))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if follows.calls != 0 {
			t.Fatalf("expected no follow call, got %d", follows.calls)
		}
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		router := newTestRouter(&stubSurfaces{}, &stubFollows{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, followReq(member, `{"creator":`))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty creator is rejected", func(t *testing.T) {
		router := newTestRouter(&stubSurfaces{}, &stubFollows{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, followReq(member, `{"creator":"","following":true}`))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("member follow succeeds", func(t *testing.T) {
		follows := &stubFollows{}
		router := newTestRouter(&stubSurfaces{}, follows)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, followReq(member, `{"creator":"@Mei","following":true}`))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if follows.calls != 1 {
			t.Fatalf("expected one follow call, got %d", follows.calls)
		}
		if follows.memberID != memberID || follows.creator != "@Mei" || !follows.following {
			t.Fatalf("unexpected follow call: %v %q %v", follows.memberID, follows.creator, follows.following)
		}
	})

	t.Run("action failure maps to 500", func(t *testing.T) {
		router := newTestRouter(&stubSurfaces{}, &stubFollows{err: errors.New("pg down")})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, followReq(member, `{"creator":"mei","following":true}`))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

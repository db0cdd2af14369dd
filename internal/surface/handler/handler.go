// Package handler is the thin HTTP layer over the surface service and the
// follow action. It owns parameter extraction and status codes; ranking
// semantics stay in internal/surface and internal/rank.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wayfarer/internal/platform/middleware"
	"wayfarer/internal/surface"
	"wayfarer/internal/viewer"
)

// Surfaces is the read side consumed by the handler.
type Surfaces interface {
	Home(ctx context.Context, v viewer.Viewer) (surface.HomePayload, error)
	Search(ctx context.Context, v viewer.Viewer, query, rawType string) (surface.SearchPayload, error)
	Trips(ctx context.Context, v viewer.Viewer, rawTab string) (surface.TripsPayload, error)
	Blogs(ctx context.Context, v viewer.Viewer) (surface.BlogsPayload, error)
}

// FollowAction is the write side consumed by the handler.
type FollowAction interface {
	SetFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error
}

// Handler serves the surface endpoints.
type Handler struct {
	surfaces Surfaces
	follows  FollowAction
	logger   *slog.Logger
}

// New builds the surface handler.
func New(surfaces Surfaces, follows FollowAction, logger *slog.Logger) *Handler {
	return &Handler{surfaces: surfaces, follows: follows, logger: logger}
}

// Routes mounts the surface endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/home", h.handleHome)
	r.Get("/search", h.handleSearch)
	r.Get("/trips", h.handleTrips)
	r.Get("/blogs", h.handleBlogs)
	r.Post("/follows", h.handleFollow)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetViewer(r.Context())
	payload, err := h.surfaces.Home(r.Context(), v)
	if err != nil {
		h.fail(w, r, "home", err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetViewer(r.Context())
	q := r.URL.Query()
	payload, err := h.surfaces.Search(r.Context(), v, q.Get("q"), q.Get("type"))
	if err != nil {
		h.fail(w, r, "search", err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleTrips(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetViewer(r.Context())
	payload, err := h.surfaces.Trips(r.Context(), v, r.URL.Query().Get("tab"))
	if err != nil {
		h.fail(w, r, "trips", err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleBlogs(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetViewer(r.Context())
	payload, err := h.surfaces.Blogs(r.Context(), v)
	if err != nil {
		h.fail(w, r, "blogs", err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

type followRequest struct {
	Creator   string `json:"creator"`
	Following bool   `json:"following"`
}

func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	v := middleware.GetViewer(r.Context())
	if !v.IsMember() {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "members only"})
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Creator == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "creator is required"})
		return
	}

	if err := h.follows.SetFollow(r.Context(), v.MemberID, req.Creator, req.Following); err != nil {
		h.fail(w, r, "follow", err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", "err", err)
	}
}

// fail maps any surface error to a generic 500. The core performs no
// retries and no partial-result suppression: a storage fault is a hard
// failure.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("surface request failed", "op", op, "path", r.URL.Path, "err", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

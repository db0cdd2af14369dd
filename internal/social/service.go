// Package social exposes the follow/unfollow action. The write is two-step:
// the follow edge lands in the graph store, then the preference row is
// synced before the action returns, so ranking sees the new graph on the
// very next request.
package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	wstrings "wayfarer/pkg/platform/strings"
)

// GraphWriter writes follow edges.
type GraphWriter interface {
	SetFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error
}

// PreferenceSyncer mirrors follow-graph changes into the preference store.
type PreferenceSyncer interface {
	SyncFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error
}

// FollowMetrics records applied follow syncs.
type FollowMetrics interface {
	IncrementFollowSyncs()
}

// Service is the follow action.
type Service struct {
	graph   GraphWriter
	prefs   PreferenceSyncer
	metrics FollowMetrics
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches follow-sync instrumentation.
func WithMetrics(m FollowMetrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New validates dependencies and builds the follow service.
func New(graph GraphWriter, prefs PreferenceSyncer, opts ...Option) (*Service, error) {
	if graph == nil {
		return nil, fmt.Errorf("graph writer is required")
	}
	if prefs == nil {
		return nil, fmt.Errorf("preference syncer is required")
	}
	s := &Service{graph: graph, prefs: prefs}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SetFollow applies one follow or unfollow. Idempotent: following an
// already-followed creator or unfollowing a stranger succeeds without
// effect.
func (s *Service) SetFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error {
	if memberID == uuid.Nil {
		return fmt.Errorf("follow: member id is required")
	}
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return fmt.Errorf("follow: creator identifier is required")
	}

	if err := s.graph.SetFollow(ctx, memberID, key, following); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if err := s.prefs.SyncFollow(ctx, memberID, key, following); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementFollowSyncs()
	}
	return nil
}

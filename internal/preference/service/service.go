// Package service implements the preference-store contract the ranking
// policy consumes: persisted preferences when a row exists, an inferred
// transient fallback when it does not, and the synchronous follow-sync write
// path that keeps the persisted set aligned with the follow graph.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wayfarer/internal/preference"
	prefstore "wayfarer/internal/preference/store"
	"wayfarer/pkg/platform/sentinel"
	wstrings "wayfarer/pkg/platform/strings"
)

// interactionWindow bounds how many recent interactions feed keyword
// inference.
const interactionWindow = 25

// interestVocabulary is the fixed keyword vocabulary inference draws from.
// Inferred keywords are the intersection of this set with the member's
// recent interaction text; arbitrary tokens never enter a preference through
// inference.
var interestVocabulary = []string{
	"beach", "islands", "sailing", "diving", "surfing",
	"hiking", "trekking", "mountains", "camping", "skiing",
	"food", "markets", "cooking", "wine", "coffee",
	"temples", "museums", "culture", "history", "architecture",
	"desert", "safari", "wildlife", "stargazing",
	"photography", "festivals", "roadtrip", "backpacking",
}

// SocialGraph is the live read side of the follow graph, consumed for
// inference when no preference row exists.
type SocialGraph interface {
	FollowedCreators(ctx context.Context, memberID uuid.UUID) ([]string, error)
	RecentInteractionText(ctx context.Context, memberID uuid.UUID, limit int) ([]string, error)
}

// Service exposes GetOrInfer and SyncFollow over a preference store and the
// social graph.
type Service struct {
	store prefstore.Store
	graph SocialGraph
	vocab map[string]struct{}
}

// New validates dependencies and builds the service. The graph may be nil,
// in which case inference degrades to the empty preference.
func New(store prefstore.Store, graph SocialGraph) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	return &Service{
		store: store,
		graph: graph,
		vocab: wstrings.ToSet(interestVocabulary),
	}, nil
}

// GetOrInfer returns the stored preference if one exists. Without a row it
// returns a transient preference inferred from the member's live follow
// edges plus the vocabulary tokens found in their recent interactions. A
// member with zero follows and zero activity gets an empty, valid
// preference, never an error; genuine storage failures propagate.
func (s *Service) GetOrInfer(ctx context.Context, memberID uuid.UUID) (preference.Preference, error) {
	pref, err := s.store.Get(ctx, memberID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return preference.Preference{}, fmt.Errorf("load preference: %w", err)
	}
	return s.infer(ctx, memberID)
}

func (s *Service) infer(ctx context.Context, memberID uuid.UUID) (preference.Preference, error) {
	pref := preference.Preference{MemberID: memberID}
	if s.graph == nil {
		return pref, nil
	}

	followed, err := s.graph.FollowedCreators(ctx, memberID)
	if err != nil {
		return preference.Preference{}, fmt.Errorf("infer follows: %w", err)
	}
	pref.Followed = wstrings.DedupeAndTrimLower(followed)

	texts, err := s.graph.RecentInteractionText(ctx, memberID, interactionWindow)
	if err != nil {
		return preference.Preference{}, fmt.Errorf("infer keywords: %w", err)
	}
	var keywords []string
	for _, text := range texts {
		for _, tok := range wstrings.Tokenize(text) {
			if _, ok := s.vocab[tok]; ok {
				keywords = append(keywords, tok)
			}
		}
	}
	pref.Keywords = wstrings.DedupeAndTrimLower(keywords)
	return pref, nil
}

// SyncFollow applies one follow-graph change to the persisted preference
// row. The follow action calls this synchronously before returning, so
// personalization reflects the graph with no eventual-consistency window.
func (s *Service) SyncFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error {
	if memberID == uuid.Nil {
		return fmt.Errorf("sync follow: member id is required")
	}
	if err := s.store.SyncFollow(ctx, memberID, creator, following); err != nil {
		return fmt.Errorf("sync follow: %w", err)
	}
	return nil
}

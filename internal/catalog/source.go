package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TripTab scopes the trips-list surface. Only the live trip reader
// interprets it; other readers ignore it.
type TripTab string

const (
	TabUpcoming TripTab = "upcoming"
	TabHosting  TripTab = "hosting"
	TabPast     TripTab = "past"
	TabSaved    TripTab = "saved"
)

// Query carries the read parameters a surface passes down to both sources.
// Text filters by case-insensitive substring over display fields and the
// keyword surface. Tab and ViewerID only apply to member-scoped trip tabs.
type Query struct {
	Text     string
	Limit    int
	Tab      TripTab
	ViewerID uuid.UUID
}

// Reader is one backing source for one content type.
type Reader interface {
	List(ctx context.Context, q Query) ([]Item, Availability, error)
}

// Source pairs the live relational reader with the static demo reader for
// one content type.
type Source struct {
	Live Reader
	Demo Reader
}

// Fetched is the raw two-source read handed to the merge engine.
type Fetched struct {
	Live             []Item
	Demo             []Item
	LiveAvailability Availability
}

// Adapter exposes a uniform fetch over the registered sources. The source
// table is fixed at construction; there is no global registry.
type Adapter struct {
	sources map[Type]Source
}

// NewAdapter builds an adapter over an explicit source table.
func NewAdapter(sources map[Type]Source) (*Adapter, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("catalog adapter requires at least one source")
	}
	for t, s := range sources {
		if s.Demo == nil {
			return nil, fmt.Errorf("catalog adapter: %s source has no demo reader", t)
		}
	}
	return &Adapter{sources: sources}, nil
}

// Fetch reads both sources for a content type. A live source that reports
// Unavailable (or that was never registered) degrades to an empty live list;
// demo reads are static and always succeed. Genuine storage errors from an
// available live source propagate.
func (a *Adapter) Fetch(ctx context.Context, t Type, q Query) (Fetched, error) {
	src, ok := a.sources[t]
	if !ok {
		return Fetched{}, fmt.Errorf("catalog adapter: unknown content type %q", t)
	}

	f := Fetched{LiveAvailability: Unavailable}
	if src.Live != nil {
		live, avail, err := src.Live.List(ctx, q)
		if err != nil {
			return Fetched{}, fmt.Errorf("fetch live %s: %w", t, err)
		}
		f.Live = live
		f.LiveAvailability = avail
	}

	demo, _, err := src.Demo.List(ctx, q)
	if err != nil {
		return Fetched{}, fmt.Errorf("fetch demo %s: %w", t, err)
	}
	f.Demo = demo
	return f, nil
}

// Types lists the registered content types.
func (a *Adapter) Types() []Type {
	types := make([]Type, 0, len(a.sources))
	for t := range a.sources {
		types = append(types, t)
	}
	return types
}

// Package rank holds the merge engine and the two-mode ranking policy shared
// by every surface. Merge is pure set combination; Rank is pure ordering.
// Neither touches a store.
package rank

import "wayfarer/internal/catalog"

// Merge combines live and demo result sets for one content type: all live
// items in input order, then demo items in input order whose canonical key
// does not collide with any live key. Keys are pre-normalized by the
// catalog, so collision is plain string equality. No scoring happens here.
func Merge(live, demo []catalog.Item) []catalog.Item {
	if len(live) == 0 {
		out := make([]catalog.Item, len(demo))
		copy(out, demo)
		return out
	}

	liveKeys := make(map[string]struct{}, len(live))
	out := make([]catalog.Item, 0, len(live)+len(demo))
	for _, item := range live {
		liveKeys[item.Key] = struct{}{}
		out = append(out, item)
	}
	for _, item := range demo {
		if _, taken := liveKeys[item.Key]; taken {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SourceLabel names which branch produced a merged set, for the surfaces
// that report it:
//   - live rows present           -> "live-db"
//   - live readable but empty     -> "demo-fallback"
//   - live source not provisioned -> "synthetic-fallback"
type SourceLabel string

const (
	SourceLive      SourceLabel = "live-db"
	SourceDemo      SourceLabel = "demo-fallback"
	SourceSynthetic SourceLabel = "synthetic-fallback"
)

// Source derives the label from the fetch that fed Merge.
func Source(f catalog.Fetched) SourceLabel {
	if len(f.Live) > 0 {
		return SourceLive
	}
	if f.LiveAvailability == catalog.Unavailable {
		return SourceSynthetic
	}
	return SourceDemo
}

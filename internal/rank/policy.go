package rank

import (
	"sort"

	"wayfarer/internal/catalog"
	"wayfarer/internal/preference"
	"wayfarer/internal/viewer"
	wstrings "wayfarer/pkg/platform/strings"
)

// Labels is the surface-specific (mode, reason) vocabulary. The algorithm is
// identical across surfaces; only the reported reason differs.
type Labels struct {
	GuestReason  string
	MemberReason string
}

// Per-surface label sets. Reasons are diagnostic and pass through the
// surface payloads unchanged.
var (
	HomeLabels   = Labels{GuestReason: "guest-trending", MemberReason: "member-like-minded"}
	SearchLabels = Labels{GuestReason: "guest-most-searched", MemberReason: "member-personalized"}
	TripsLabels  = Labels{GuestReason: "guest-trending", MemberReason: "member-like-minded"}
	BlogsLabels  = Labels{GuestReason: "guest-most-read", MemberReason: "member-like-minded"}
)

// Result is the transient outcome of ranking one merged candidate set.
type Result struct {
	Items  []catalog.Item
	Mode   string
	Reason string
}

// Rank orders a merged candidate set for the viewer.
//
// Guests get popularity descending, ties broken by title ascending (ordinal
// compare). Members get the same base order reshuffled into four buckets by
// two independent boosts: followed-creator match and interest-keyword match.
// Any boosted item outranks any non-boosted item regardless of raw
// popularity. An empty preference degrades to the guest ordering, but the
// reason still reports the member label: it records that the personalized
// ranking ran, not that personalization data existed.
func Rank(items []catalog.Item, v viewer.Viewer, pref preference.Preference, labels Labels) Result {
	ranked := make([]catalog.Item, len(items))
	copy(ranked, items)

	if !v.IsMember() {
		sortByPopularity(ranked)
		return Result{Items: ranked, Mode: string(viewer.ModeGuest), Reason: labels.GuestReason}
	}

	followed := wstrings.ToSet(pref.Followed)
	keywords := wstrings.ToSet(pref.Keywords)

	weight := func(it catalog.Item) int {
		w := 0
		if _, ok := followed[it.OwnerID]; ok && it.OwnerID != "" {
			w += 2
		}
		if wstrings.TokensIntersect(it.Keywords, keywords) {
			w++
		}
		return w
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := weight(ranked[i]), weight(ranked[j])
		if wi != wj {
			return wi > wj
		}
		return lessPopular(ranked[i], ranked[j])
	})
	return Result{Items: ranked, Mode: string(viewer.ModeMember), Reason: labels.MemberReason}
}

func sortByPopularity(items []catalog.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessPopular(items[i], items[j])
	})
}

// lessPopular is the shared base comparison: popularity descending, then
// title ascending.
func lessPopular(a, b catalog.Item) bool {
	if a.Popularity != b.Popularity {
		return a.Popularity > b.Popularity
	}
	return a.Title < b.Title
}

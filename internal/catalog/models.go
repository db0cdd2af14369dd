// Package catalog defines the common content shape shared by the live
// relational readers and the static demo catalog, plus the source adapter
// that fronts both. Ranking only ever sees Items, never the underlying rows.
package catalog

import (
	"strconv"

	wstrings "wayfarer/pkg/platform/strings"
)

// Type enumerates the rankable content types.
type Type string

const (
	TypeTrip    Type = "trip"
	TypeProfile Type = "user"
	TypeBlog    Type = "blog"
)

// Origin tags which backing source produced an item.
type Origin string

const (
	OriginLive Origin = "live"
	OriginDemo Origin = "demo"
)

// Availability describes the state of a live backing source. It is a
// first-class value rather than an inferred nil/error condition so callers
// and tests can exercise each state deterministically.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Item is the polymorphic content shape. Key is the canonical identity used
// for dedupe across sources; Popularity is the type-specific signal (traffic
// score for trips, follower count for users, read count for blogs).
type Item struct {
	Type       Type   `json:"type"`
	Key        string `json:"key"`
	Title      string `json:"title"`
	Summary    string `json:"summary,omitempty"`
	Popularity int64  `json:"popularity"`
	Origin     Origin `json:"origin"`

	// OwnerID is the creator identifier matched against a member's followed
	// set. Empty for items with no attributable creator.
	OwnerID string `json:"owner_id,omitempty"`

	// Keywords is the free-text surface searched against interest keywords
	// and free-text queries. Not exposed in payloads.
	Keywords string `json:"-"`
}

// TripKey renders a numeric trip id as its canonical decimal string. A
// non-numeric or negative input yields no key: these strings also arrive from
// user-triggered free text, so a bad id means "matches nothing", not an
// error.
func TripKey(raw string) (string, bool) {
	n, err := strconv.ParseInt(wstrings.NormalizeKey(raw), 10, 64)
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.FormatInt(n, 10), true
}

// ProfileKey canonicalizes a username: lowercase, trimmed, leading "@"
// stripped.
func ProfileKey(username string) (string, bool) {
	k := wstrings.NormalizeKey(username)
	return k, k != ""
}

// BlogKey canonicalizes a blog slug to lowercase.
func BlogKey(slug string) (string, bool) {
	k := wstrings.NormalizeKey(slug)
	return k, k != ""
}

// Key canonicalizes raw identity input for the given type.
func Key(t Type, raw string) (string, bool) {
	switch t {
	case TypeTrip:
		return TripKey(raw)
	case TypeProfile:
		return ProfileKey(raw)
	case TypeBlog:
		return BlogKey(raw)
	default:
		return "", false
	}
}

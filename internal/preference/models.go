// Package preference holds the per-member personalization profile: the
// followed-creator set and the interest-keyword set the ranking policy
// boosts on. One row per member, kept in sync with the follow graph.
package preference

import (
	"github.com/google/uuid"

	wstrings "wayfarer/pkg/platform/strings"
)

// Preference is a member's personalization profile. All entries are
// lowercase and trimmed; both slices carry set semantics (no duplicates).
// The zero value is a valid empty preference.
type Preference struct {
	MemberID uuid.UUID
	Followed []string
	Keywords []string
}

// Empty reports whether the preference carries no personalization data.
// Ranking still runs on an empty preference; it degrades to the guest order.
func (p Preference) Empty() bool {
	return len(p.Followed) == 0 && len(p.Keywords) == 0
}

// Normalized returns a copy with both sets lowercased, trimmed, and deduped.
// Write paths call this before persisting; read paths trust stored values.
func (p Preference) Normalized() Preference {
	return Preference{
		MemberID: p.MemberID,
		Followed: wstrings.DedupeAndTrimLower(p.Followed),
		Keywords: wstrings.DedupeAndTrimLower(p.Keywords),
	}
}

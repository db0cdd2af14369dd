// Package viewer classifies the requesting identity into one of two
// capability sets: guest or member. Ranking mode, preference lookups, and
// member-scoped trip tabs all branch on the result.
package viewer

import (
	"github.com/google/uuid"

	wstrings "wayfarer/pkg/platform/strings"
)

// Mode is the viewer capability set.
type Mode string

const (
	ModeGuest  Mode = "guest"
	ModeMember Mode = "member"
)

// Viewer is the resolved request identity. Zero value is a guest.
type Viewer struct {
	MemberID uuid.UUID
	Username string
	Mode     Mode
}

// Guest returns the anonymous viewer.
func Guest() Viewer {
	return Viewer{Mode: ModeGuest}
}

// Member builds a member viewer with a normalized username.
func Member(id uuid.UUID, username string) Viewer {
	if id == uuid.Nil {
		return Guest()
	}
	return Viewer{
		MemberID: id,
		Username: wstrings.NormalizeKey(username),
		Mode:     ModeMember,
	}
}

// IsMember reports whether the viewer carries member capabilities.
func (v Viewer) IsMember() bool {
	return v.Mode == ModeMember && v.MemberID != uuid.Nil
}

// Package store persists member preferences. Three implementations share
// one contract: in-memory for tests and db-less runs, Postgres for the
// standard deployment, Redis for deployments that already run one for
// sessions. Every implementation must apply SyncFollow as an atomic
// set-membership operation so concurrent follow/unfollow calls from the same
// member cannot lose an update.
package store

import (
	"context"

	"github.com/google/uuid"

	"wayfarer/internal/preference"
)

// Store is the preference persistence contract. Get returns
// sentinel.ErrNotFound (possibly wrapped) when no row exists; SyncFollow is
// idempotent and creates the row on first write.
type Store interface {
	Get(ctx context.Context, memberID uuid.UUID) (preference.Preference, error)
	Put(ctx context.Context, pref preference.Preference) error
	SyncFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error
	Delete(ctx context.Context, memberID uuid.UUID) error
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wayfarer/internal/preference"
	"wayfarer/pkg/platform/sentinel"
	wstrings "wayfarer/pkg/platform/strings"
)

// PostgresStore persists preferences in a member_preferences row keyed by
// member id, with text[] columns for both sets.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a Postgres-backed preference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, memberID uuid.UUID) (preference.Preference, error) {
	pref := preference.Preference{MemberID: memberID}
	err := s.db.QueryRowContext(ctx,
		`SELECT followed, keywords FROM member_preferences WHERE member_id = $1`,
		memberID).Scan(pq.Array(&pref.Followed), pq.Array(&pref.Keywords))
	if errors.Is(err, sql.ErrNoRows) {
		return preference.Preference{}, sentinel.ErrNotFound
	}
	if err != nil {
		return preference.Preference{}, fmt.Errorf("get preference: %w", err)
	}
	return pref, nil
}

// Put replaces the full row. Used by explicit preference edits, not by the
// follow path.
func (s *PostgresStore) Put(ctx context.Context, pref preference.Preference) error {
	norm := pref.Normalized()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member_preferences (member_id, followed, keywords)
		VALUES ($1, $2, $3)
		ON CONFLICT (member_id) DO UPDATE SET
			followed = EXCLUDED.followed,
			keywords = EXCLUDED.keywords,
			updated_at = now()
	`, norm.MemberID, pq.Array(norm.Followed), pq.Array(norm.Keywords))
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

// SyncFollow adds or removes one creator from the followed set in a single
// upsert statement. Membership is adjusted inside the statement, so two
// concurrent calls for the same member serialize on the row instead of
// racing through a fetch-mutate-save cycle.
func (s *PostgresStore) SyncFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error {
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return nil
	}

	var query string
	if following {
		query = `
			INSERT INTO member_preferences (member_id, followed)
			VALUES ($1, ARRAY[$2::text])
			ON CONFLICT (member_id) DO UPDATE SET
				followed = CASE
					WHEN $2 = ANY (member_preferences.followed) THEN member_preferences.followed
					ELSE array_append(member_preferences.followed, $2)
				END,
				updated_at = now()
		`
	} else {
		query = `
			INSERT INTO member_preferences (member_id, followed)
			VALUES ($1, '{}')
			ON CONFLICT (member_id) DO UPDATE SET
				followed = array_remove(member_preferences.followed, $2),
				updated_at = now()
		`
	}
	if _, err := s.db.ExecContext(ctx, query, memberID, key); err != nil {
		return fmt.Errorf("sync follow: %w", err)
	}
	return nil
}

// Delete removes the row; called only when the member account is deleted.
func (s *PostgresStore) Delete(ctx context.Context, memberID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM member_preferences WHERE member_id = $1`, memberID); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

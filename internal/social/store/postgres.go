// Package store reads and writes the social graph relations the
// personalization core depends on: follow edges and recent content
// interactions. Full social CRUD (comments, DMs, reviews) lives elsewhere;
// this package carries only what preference inference and follow sync need.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	pgplatform "wayfarer/internal/platform/postgres"
	wstrings "wayfarer/pkg/platform/strings"
)

// PostgresStore backs the follow graph with the follows and
// member_interactions tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs the Postgres-backed social graph store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FollowedCreators returns the member's directly-followed creator
// identifiers, read live. A missing follows table reads as zero follows.
func (s *PostgresStore) FollowedCreators(ctx context.Context, memberID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT creator_username FROM follows WHERE member_id = $1 ORDER BY created_at`, memberID)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list followed creators: %w", err)
	}
	defer rows.Close()

	var creators []string
	for rows.Next() {
		var creator string
		if err := rows.Scan(&creator); err != nil {
			return nil, fmt.Errorf("scan followed creator: %w", err)
		}
		creators = append(creators, creator)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list followed creators: %w", err)
	}
	return wstrings.DedupeAndTrimLower(creators), nil
}

// RecentInteractionText returns the keyword surfaces of the member's most
// recent content interactions, newest first.
func (s *PostgresStore) RecentInteractionText(ctx context.Context, memberID uuid.UUID, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT keywords FROM member_interactions WHERE member_id = $1 ORDER BY created_at DESC LIMIT $2`,
		memberID, limit)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return texts, nil
}

// SetFollow writes or removes one follow edge. Idempotent.
func (s *PostgresStore) SetFollow(ctx context.Context, memberID uuid.UUID, creator string, following bool) error {
	key := wstrings.NormalizeKey(creator)
	if key == "" {
		return nil
	}

	var err error
	if following {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO follows (member_id, creator_username)
			VALUES ($1, $2)
			ON CONFLICT (member_id, creator_username) DO NOTHING
		`, memberID, key)
	} else {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM follows WHERE member_id = $1 AND creator_username = $2`, memberID, key)
	}
	if err != nil {
		return fmt.Errorf("set follow: %w", err)
	}
	return nil
}

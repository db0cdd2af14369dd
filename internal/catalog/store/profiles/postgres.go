// Package profiles reads the live member-profile catalog.
package profiles

import (
	"context"
	"database/sql"
	"fmt"

	"wayfarer/internal/catalog"
	pgplatform "wayfarer/internal/platform/postgres"
)

const defaultLimit = 50

// PostgresStore reads public profiles from the relational store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns public profiles as catalog items. The canonical key is the
// lowercase username; the profile is its own owner for follow-boost matching.
func (s *PostgresStore) List(ctx context.Context, q catalog.Query) ([]catalog.Item, catalog.Availability, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT username, display_name, bio, follower_count, keywords
		FROM profiles
		WHERE public`
	args := []any{}
	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		query += " AND (username ILIKE $1 OR display_name ILIKE $1 OR bio ILIKE $1 OR keywords ILIKE $1)"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY username LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return nil, catalog.Unavailable, nil
		}
		return nil, catalog.Unavailable, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			username, name, bio, kw string
			followers               int64
		)
		if err := rows.Scan(&username, &name, &bio, &followers, &kw); err != nil {
			return nil, catalog.Unavailable, fmt.Errorf("scan profile: %w", err)
		}
		key, ok := catalog.ProfileKey(username)
		if !ok {
			continue
		}
		items = append(items, catalog.Item{
			Type:       catalog.TypeProfile,
			Key:        key,
			Title:      name,
			Summary:    bio,
			Popularity: followers,
			Origin:     catalog.OriginLive,
			OwnerID:    key,
			Keywords:   kw,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.Unavailable, fmt.Errorf("list profiles: %w", err)
	}
	return items, catalog.Available, nil
}

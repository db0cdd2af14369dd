// Package blogs reads the live blog catalog.
package blogs

import (
	"context"
	"database/sql"
	"fmt"

	"wayfarer/internal/catalog"
	pgplatform "wayfarer/internal/platform/postgres"
)

const defaultLimit = 50

// PostgresStore reads published blogs from the relational store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns published blogs as catalog items keyed by lowercase slug.
func (s *PostgresStore) List(ctx context.Context, q catalog.Query) ([]catalog.Item, catalog.Availability, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT slug, title, summary, read_count, author_username, keywords
		FROM blogs
		WHERE published`
	args := []any{}
	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		query += " AND (title ILIKE $1 OR summary ILIKE $1 OR keywords ILIKE $1)"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY slug LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return nil, catalog.Unavailable, nil
		}
		return nil, catalog.Unavailable, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			slug, title, summary, author, kw string
			reads                            int64
		)
		if err := rows.Scan(&slug, &title, &summary, &reads, &author, &kw); err != nil {
			return nil, catalog.Unavailable, fmt.Errorf("scan blog: %w", err)
		}
		key, ok := catalog.BlogKey(slug)
		if !ok {
			continue
		}
		owner, _ := catalog.ProfileKey(author)
		items = append(items, catalog.Item{
			Type:       catalog.TypeBlog,
			Key:        key,
			Title:      title,
			Summary:    summary,
			Popularity: reads,
			Origin:     catalog.OriginLive,
			OwnerID:    owner,
			Keywords:   kw,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.Unavailable, fmt.Errorf("list blogs: %w", err)
	}
	return items, catalog.Available, nil
}

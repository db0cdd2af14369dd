// Package trips reads the live trip catalog. Only published trips are
// eligible for public listing; member-scoped tabs additionally filter by the
// viewer's hosting and bookmark relations.
package trips

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"wayfarer/internal/catalog"
	pgplatform "wayfarer/internal/platform/postgres"
)

const defaultLimit = 50

// PostgresStore reads trips from the relational store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs the live trip reader.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns published trips as catalog items, scoped by tab and filtered
// by the free-text query. A missing trips table degrades to an empty,
// unavailable result instead of an error.
func (s *PostgresStore) List(ctx context.Context, q catalog.Query) ([]catalog.Item, catalog.Availability, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT t.id, t.title, t.summary, t.traffic_score, t.host_username, t.keywords
		FROM trips t`
	args := []any{}
	where := ` WHERE t.published`

	switch q.Tab {
	case catalog.TabHosting:
		args = append(args, q.ViewerID)
		where += fmt.Sprintf(" AND t.host_id = $%d", len(args))
	case catalog.TabSaved:
		args = append(args, q.ViewerID)
		query += fmt.Sprintf(" JOIN trip_bookmarks b ON b.trip_id = t.id AND b.member_id = $%d", len(args))
	case catalog.TabPast:
		where += " AND t.ends_at < now()"
	default:
		where += " AND t.starts_at >= now()"
	}

	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.summary ILIKE $%d OR t.keywords ILIKE $%d)", n, n, n)
	}

	args = append(args, limit)
	query += where + fmt.Sprintf(" ORDER BY t.id LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return nil, catalog.Unavailable, nil
		}
		return nil, catalog.Unavailable, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var (
			id                       int64
			title, summary, host, kw string
			traffic                  int64
		)
		if err := rows.Scan(&id, &title, &summary, &traffic, &host, &kw); err != nil {
			return nil, catalog.Unavailable, fmt.Errorf("scan trip: %w", err)
		}
		key, _ := catalog.ProfileKey(host)
		items = append(items, catalog.Item{
			Type:       catalog.TypeTrip,
			Key:        strconv.FormatInt(id, 10),
			Title:      title,
			Summary:    summary,
			Popularity: traffic,
			Origin:     catalog.OriginLive,
			OwnerID:    key,
			Keywords:   kw,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, catalog.Unavailable, fmt.Errorf("list trips: %w", err)
	}
	return items, catalog.Available, nil
}

// TabCounts returns the tab-scoped counts the trips-list payload reports.
// Guests only see the public tabs; member relations count as zero for them.
func (s *PostgresStore) TabCounts(ctx context.Context, viewerID uuid.UUID) (map[catalog.TripTab]int, error) {
	counts := map[catalog.TripTab]int{}

	query := `
		SELECT
			count(*) FILTER (WHERE starts_at >= now()),
			count(*) FILTER (WHERE ends_at < now())
		FROM trips WHERE published`
	var upcoming, past int
	if err := s.db.QueryRowContext(ctx, query).Scan(&upcoming, &past); err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return counts, nil
		}
		return nil, fmt.Errorf("count trips: %w", err)
	}
	counts[catalog.TabUpcoming] = upcoming
	counts[catalog.TabPast] = past

	if viewerID == uuid.Nil {
		return counts, nil
	}

	var hosting int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM trips WHERE published AND host_id = $1`, viewerID).Scan(&hosting)
	if err != nil {
		return nil, fmt.Errorf("count hosted trips: %w", err)
	}
	counts[catalog.TabHosting] = hosting

	var saved int
	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM trip_bookmarks b JOIN trips t ON t.id = b.trip_id AND t.published WHERE b.member_id = $1`,
		viewerID).Scan(&saved)
	if err != nil {
		if pgplatform.IsUndefinedTable(err) {
			return counts, nil
		}
		return nil, fmt.Errorf("count saved trips: %w", err)
	}
	counts[catalog.TabSaved] = saved
	return counts, nil
}

//go:build integration

// Package containers manages throwaway backing services for integration
// tests. Containers are shared across suites within a test binary; Ryuk
// reaps them when the run ends.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema provisions every table the stores read and write. Kept in one
// place so each suite starts from the same shape.
const schema = `
CREATE TABLE IF NOT EXISTS member_preferences (
    member_id  UUID PRIMARY KEY,
    followed   TEXT[] NOT NULL DEFAULT '{}',
    keywords   TEXT[] NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS follows (
    member_id        UUID NOT NULL,
    creator_username TEXT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (member_id, creator_username)
);

CREATE TABLE IF NOT EXISTS member_interactions (
    id         BIGSERIAL PRIMARY KEY,
    member_id  UUID NOT NULL,
    keywords   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trips (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT NOT NULL,
    summary       TEXT NOT NULL DEFAULT '',
    traffic_score BIGINT NOT NULL DEFAULT 0,
    host_id       UUID,
    host_username TEXT NOT NULL DEFAULT '',
    keywords      TEXT NOT NULL DEFAULT '',
    published     BOOLEAN NOT NULL DEFAULT false,
    starts_at     TIMESTAMPTZ NOT NULL,
    ends_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_bookmarks (
    member_id UUID NOT NULL,
    trip_id   BIGINT NOT NULL REFERENCES trips (id),
    PRIMARY KEY (member_id, trip_id)
);

CREATE TABLE IF NOT EXISTS profiles (
    username       TEXT PRIMARY KEY,
    display_name   TEXT NOT NULL DEFAULT '',
    bio            TEXT NOT NULL DEFAULT '',
    follower_count BIGINT NOT NULL DEFAULT 0,
    keywords       TEXT NOT NULL DEFAULT '',
    public         BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS blogs (
    slug            TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    summary         TEXT NOT NULL DEFAULT '',
    read_count      BIGINT NOT NULL DEFAULT 0,
    author_username TEXT NOT NULL DEFAULT '',
    keywords        TEXT NOT NULL DEFAULT '',
    published       BOOLEAN NOT NULL DEFAULT false
);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection pool and the provisioned schema.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	DB        *sql.DB
}

var (
	postgresOnce sync.Once
	postgresErr  error
	postgres     *PostgresContainer
)

// GetPostgres returns the shared Postgres container, starting it on first
// use. Suites share the instance and isolate through TruncateTables.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	postgresOnce.Do(func() {
		postgres, postgresErr = startPostgres()
	})
	if postgresErr != nil {
		t.Fatalf("failed to start postgres container: %v", postgresErr)
	}
	return postgres
}

func startPostgres() (*PostgresContainer, error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("wayfarer_test"),
		tcpostgres.WithUsername("wayfarer"),
		tcpostgres.WithPassword("wayfarer"),
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithSQLDriver("postgres"),
	)
	if err != nil {
		return nil, fmt.Errorf("run container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("open pool: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("provision schema: %w", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateTables empties the named tables. Call between tests to isolate
// suites that share the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// DropTable removes a table so availability fallbacks can be exercised
// against a real undefined_table error.
func (p *PostgresContainer) DropTable(ctx context.Context, table string) error {
	if _, err := p.DB.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	return nil
}

// RecreateSchema reapplies the schema DDL, restoring any dropped tables.
func (p *PostgresContainer) RecreateSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return nil
}

// Package postgres owns the database handle and the SQLSTATE checks shared
// by the live readers and the preference store.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Open connects with the pool settings this service wants. Callers own Close.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// IsUndefinedTable reports whether err is SQLSTATE 42P01 (undefined_table).
// A live table that has not been provisioned yet is a normal catalog state,
// not a storage fault; readers translate it into Availability=Unavailable.
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}

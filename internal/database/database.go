package database

import (
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotConfigured is returned when no DATABASE_URL was given. Round history
// and the admin API are disabled in that case.
var ErrNotConfigured = errors.New("database URL not configured")

// Connect establishes a connection to PostgreSQL
func Connect(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, ErrNotConfigured
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	// Round inserts are small and frequent; a handful of connections is plenty
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

package database

import (
	"fmt"
	"sort"

	"pairquiz/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver
)

// NewSQLXPostgresDB opens and pings a Postgres connection.
func NewSQLXPostgresDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Get().Info("Connected to Postgres")
	return db, nil
}

// sortMigrationFiles keeps migrations in lexical order; filenames carry a
// numeric prefix so lexical order is application order.
func sortMigrationFiles(names []string) {
	sort.Strings(names)
}

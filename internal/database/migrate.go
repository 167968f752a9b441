package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pairquiz/internal/logger"

	_ "github.com/lib/pq" // Ensure pq driver is registered
	"go.uber.org/zap"
)

// RunMigrations applies every .up.sql file under dir in filename order.
// Migrations are written idempotently (IF NOT EXISTS), so re-running the
// full set against an existing database is safe.
func RunMigrations(db *sql.DB, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".up.sql") {
			names = append(names, file.Name())
		}
	}
	sortMigrationFiles(names)

	appLogger := logger.Get()
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		appLogger.Info("Executed migration", zap.String("file", name))
	}

	appLogger.Info("Migrations completed")
	return nil
}

// NewMigrateDB opens a plain database/sql handle for migrations.
func NewMigrateDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}
	return db, nil
}

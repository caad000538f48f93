// pkg/db/migrate.go
package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending up migration for the connection's dialect.
// Running it against an up to date schema is a no-op.
func Migrate(conn *sqlx.DB, cfg Config) error {
	dialect := cfg.Dialect()

	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var driver database.Driver
	switch dialect {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(conn.DB, &sqlite3.Config{})
	default:
		driver, err = postgres.WithInstance(conn.DB, &postgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// pkg/db/db.go
package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver registered as "postgres"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registered as "sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Config holds database connection configuration.
type Config struct {
	Driver   string
	Path     string // SQLite database file, ":memory:" for a throwaway database
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Dialect returns the SQL dialect spoken by the configured driver.
// Both Postgres drivers share one dialect.
func (c Config) Dialect() string {
	if c.Driver == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}

// DSN builds the driver specific connection string.
func (c Config) DSN() string {
	switch c.Driver {
	case DriverSQLite:
		// Foreign keys are off by default in SQLite. Immediate transactions make writers
		// queue on the busy timeout instead of failing on lock upgrade.
		q := url.Values{}
		q.Set("_foreign_keys", "on")
		q.Set("_busy_timeout", "5000")
		q.Set("_txlock", "immediate")
		return fmt.Sprintf("file:%s?%s", c.Path, q.Encode())
	case DriverPgx:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode)
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
}

// Open initializes and returns a new database connection for the configured driver.
// It uses sqlx for enhanced database operations.
func Open(cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres, DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if cfg.Driver == DriverSQLite && cfg.Path == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	// Ping the database to verify the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

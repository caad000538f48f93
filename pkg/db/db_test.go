package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigDSN(t *testing.T) {
	lite := Config{Driver: DriverSQLite, Path: "/tmp/app.db"}
	assert.Equal(t, DriverSQLite, lite.Dialect())
	assert.Contains(t, lite.DSN(), "file:/tmp/app.db?")
	assert.Contains(t, lite.DSN(), "_foreign_keys=on")
	assert.Contains(t, lite.DSN(), "_txlock=immediate")

	pq := Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "app", SSLMode: "disable"}
	assert.Equal(t, DriverPostgres, pq.Dialect())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=app sslmode=disable", pq.DSN())

	pgx := Config{Driver: DriverPgx, Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "app", SSLMode: "require"}
	assert.Equal(t, DriverPostgres, pgx.Dialect())
	assert.Equal(t, "postgres://u:p%40ss@db:5432/app?sslmode=require", pgx.DSN())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	assert.EqualError(t, err, `unsupported database driver "oracle"`)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "m.db")}
	conn, err := Open(cfg)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn, cfg))
	require.NoError(t, Migrate(conn, cfg), "migrating twice is a no-op")

	var tables []string
	require.NoError(t, conn.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'contacts', 'transactions') ORDER BY name`))
	assert.Equal(t, []string{"contacts", "transactions", "users"}, tables)

	_, err = conn.Exec(`INSERT INTO users (id, username, normalized_username, credit_minor, created_at, updated_at)
		VALUES ('u1', 'neg', 'NEG', -1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "credit cannot go below zero")
}

func TestTransactionHelpers(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "tx.db")}
	conn, err := Open(cfg)
	require.NoError(t, err)
	defer conn.Close()

	tx, err := BeginTx(context.Background(), conn)
	require.NoError(t, err)
	require.NoError(t, CommitTx(tx))
	assert.NoError(t, RollbackTx(tx), "already committed, must not complain")
}

type failingTx struct{ err error }

func (f failingTx) Commit() error   { return nil }
func (f failingTx) Rollback() error { return f.err }

func TestNewRollbackTxFuncLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rollback := NewRollbackTxFunc(zap.New(core))

	rollback(failingTx{err: sql.ErrTxDone})
	assert.Zero(t, logs.Len(), "finished transactions are not an error")

	rollback(failingTx{err: errors.New("connection reset")})
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Error rolling back transaction", entry.Message)
	assert.Equal(t, "connection reset", entry.ContextMap()["error"])
}

// internal/repository/sqlstore/errors.go
package sqlstore

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/omer1kenan/backend/internal/util"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique constraint failures.
const pgUniqueViolation = "23505"

// isUniqueViolation recognises unique constraint failures from every supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// mapWriteError turns driver specific constraint errors into application errors.
func mapWriteError(err error) error {
	if isUniqueViolation(err) {
		return util.ErrDuplicateEntry
	}
	return err
}

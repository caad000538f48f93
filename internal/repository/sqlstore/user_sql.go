// internal/repository/sqlstore/user_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/util"
)

const userColumns = `id, username, normalized_username, email, password_hash, credit_minor, created_at, updated_at`

// userRow carries the stored minor units next to the domain fields.
type userRow struct {
	domain.User
	CreditMinor int64 `db:"credit_minor"`
}

func (row *userRow) toDomain() *domain.User {
	u := row.User
	u.Credit = domain.FromMinorUnits(row.CreditMinor)
	return &u
}

// UserRepository implements repository.UserRepository on top of database/sql.
// Queries are written with '?' placeholders and rebound per driver.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := q.Rebind(`INSERT INTO users (` + userColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		user.ID,
		user.UserName,
		user.NormalizedUserName,
		user.Email,
		user.PasswordHash,
		domain.MinorUnits(user.Credit),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if err = mapWriteError(err); errors.Is(err, util.ErrDuplicateEntry) {
			return fmt.Errorf("%w: username '%s' is already taken", err, user.UserName)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	var row userRow
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	err := q.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return row.toDomain(), nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var row userRow
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE normalized_username = ?`)
	err := q.GetContext(ctx, &row, query, domain.NormalizeUserName(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username '%s': %w", username, err)
	}
	return row.toDomain(), nil
}

// ListUsers returns all users, oldest first.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toDomain())
	}
	return users, nil
}

// UpdateUser stores the mutable fields of user and bumps updated_at.
func (r *UserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := q.Rebind(`UPDATE users
              SET username = ?, normalized_username = ?, email = ?, credit_minor = ?, updated_at = ?
              WHERE id = ?`)
	res, err := q.ExecContext(ctx, query,
		user.UserName,
		user.NormalizedUserName,
		user.Email,
		domain.MinorUnits(user.Credit),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if err = mapWriteError(err); errors.Is(err, util.ErrDuplicateEntry) {
			return fmt.Errorf("%w: username '%s' is already taken", err, user.UserName)
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return expectAffected(res, util.ErrUserNotFound)
}

// UpdatePasswordHash replaces the stored password hash of a user.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, q repository.DBExecutor, id, hash string) error {
	query := q.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`)
	res, err := q.ExecContext(ctx, query, hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", id, err)
	}
	return expectAffected(res, util.ErrUserNotFound)
}

// DeleteUser removes the user. Foreign keys cascade to contacts and transactions.
func (r *UserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id string) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return expectAffected(res, util.ErrUserNotFound)
}

// DebitCredit atomically subtracts amount from the user's credit.
// The WHERE clause makes check and update a single statement, so two concurrent
// debits can never both pass against the same balance. Arithmetic is on integer
// minor units.
func (r *UserRepository) DebitCredit(ctx context.Context, q repository.DBExecutor, id string, amount decimal.Decimal) error {
	units := domain.MinorUnits(amount)
	if units <= 0 {
		return fmt.Errorf("%w: %s is below the smallest storable amount", util.ErrInvalidAmount, amount)
	}
	query := q.Rebind(`UPDATE users
              SET credit_minor = credit_minor - ?, updated_at = ?
              WHERE id = ? AND credit_minor >= ?`)
	res, err := q.ExecContext(ctx, query, units, time.Now().UTC(), id, units)
	if err != nil {
		return fmt.Errorf("failed to debit credit of user %s: %w", id, err)
	}
	return expectAffected(res, util.ErrInsufficientCredit)
}

// expectAffected returns notFound when a write touched no rows.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

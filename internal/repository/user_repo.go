// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/omer1kenan/backend/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id string) (*domain.User, error)
	// GetUserByUsername retrieves a user by username, ignoring case.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// ListUsers returns every user ordered by creation time.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// UpdateUser overwrites username, email and credit of an existing user.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, q DBExecutor, id, hash string) error
	// DeleteUser removes a user. Contacts and transactions go with it.
	DeleteUser(ctx context.Context, q DBExecutor, id string) error
	// DebitCredit subtracts amount from the user's credit only if enough credit is left.
	// It returns util.ErrInsufficientCredit when the balance would go negative.
	DebitCredit(ctx context.Context, q DBExecutor, id string, amount decimal.Decimal) error
}

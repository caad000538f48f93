// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"github.com/omer1kenan/backend/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record to the database using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransaction retrieves one of the user's transactions with its contact attached.
	GetTransaction(ctx context.Context, q DBExecutor, userID string, id int64) (*domain.Transaction, error)
	// ListTransactionsByUser retrieves the user's transaction history, oldest first.
	ListTransactionsByUser(ctx context.Context, q DBExecutor, userID string) ([]domain.Transaction, error)
	// ListTransactionsByContact retrieves the user's transactions with a single contact.
	ListTransactionsByContact(ctx context.Context, q DBExecutor, userID string, contactID int64) ([]domain.Transaction, error)
	DeleteTransactionsByUser(ctx context.Context, q DBExecutor, userID string) error
}

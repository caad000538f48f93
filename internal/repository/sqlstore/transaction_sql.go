// internal/repository/sqlstore/transaction_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/util"
)

// transactionSelect joins the contact so reads return it embedded.
// The contact is NULL once it has been deleted.
const transactionSelect = `
		SELECT t.id, t.user_id, t.contact_id, t.amount_minor, t.transaction_date, t.created_at,
		       c.id AS c_id, c.nickname AS c_nickname, c.phone_number AS c_phone_number, c.created_at AS c_created_at
		FROM transactions t
		LEFT JOIN contacts c ON c.id = t.contact_id`

// transactionRow is the flat result of transactionSelect.
type transactionRow struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	ContactID   *int64    `db:"contact_id"`
	AmountMinor int64     `db:"amount_minor"`
	Date        time.Time `db:"transaction_date"`
	CreatedAt   time.Time `db:"created_at"`

	CID          sql.NullInt64  `db:"c_id"`
	CNickname    sql.NullString `db:"c_nickname"`
	CPhoneNumber sql.NullString `db:"c_phone_number"`
	CCreatedAt   sql.NullTime   `db:"c_created_at"`
}

func (row transactionRow) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:        row.ID,
		UserID:    row.UserID,
		ContactID: row.ContactID,
		Amount:    domain.FromMinorUnits(row.AmountMinor),
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
	}
	if row.CID.Valid {
		t.Contact = &domain.Contact{
			ID:          row.CID.Int64,
			UserID:      row.UserID,
			Nickname:    row.CNickname.String,
			PhoneNumber: row.CPhoneNumber.String,
			CreatedAt:   row.CCreatedAt.Time,
		}
	}
	return t
}

// TransactionRepository implements repository.TransactionRepository.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record into the database using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := q.Rebind(`INSERT INTO transactions (user_id, contact_id, amount_minor, transaction_date, created_at)
              VALUES (?, ?, ?, ?, ?) RETURNING id`)

	err := q.GetContext(ctx, &transaction.ID, query,
		transaction.UserID,
		transaction.ContactID,
		domain.MinorUnits(transaction.Amount),
		transaction.Date,
		transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a single transaction owned by userID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, q repository.DBExecutor, userID string, id int64) (*domain.Transaction, error) {
	var row transactionRow
	query := q.Rebind(transactionSelect + ` WHERE t.id = ? AND t.user_id = ?`)
	err := q.GetContext(ctx, &row, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	t := row.toDomain()
	return &t, nil
}

// ListTransactionsByUser retrieves every transaction of the user, oldest first.
func (r *TransactionRepository) ListTransactionsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Transaction, error) {
	query := q.Rebind(transactionSelect + ` WHERE t.user_id = ? ORDER BY t.id`)
	transactions, err := r.selectTransactions(ctx, q, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}
	return transactions, nil
}

// ListTransactionsByContact retrieves the user's transactions with one contact.
func (r *TransactionRepository) ListTransactionsByContact(ctx context.Context, q repository.DBExecutor, userID string, contactID int64) ([]domain.Transaction, error) {
	query := q.Rebind(transactionSelect + ` WHERE t.user_id = ? AND t.contact_id = ? ORDER BY t.id`)
	transactions, err := r.selectTransactions(ctx, q, query, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for contact %d: %w", contactID, err)
	}
	return transactions, nil
}

func (r *TransactionRepository) DeleteTransactionsByUser(ctx context.Context, q repository.DBExecutor, userID string) error {
	if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM transactions WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete transactions of user %s: %w", userID, err)
	}
	return nil
}

func (r *TransactionRepository) selectTransactions(ctx context.Context, q repository.DBExecutor, query string, args ...interface{}) ([]domain.Transaction, error) {
	var rows []transactionRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	transactions := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toDomain())
	}
	return transactions, nil
}

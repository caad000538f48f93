// internal/service/transaction_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/internal/metrics"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/util"
	"github.com/omer1kenan/backend/pkg/db"
)

// TransactionService defines the interface for credit transaction business logic.
type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, contactID int64, total decimal.Decimal, date time.Time) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, userID string, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListTransactionsByContact(ctx context.Context, userID string, contactID int64) ([]domain.Transaction, error)
}

// transactionService implements the TransactionService interface.
type transactionService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	contactRepo     repository.ContactRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	publisher       events.Publisher
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewTransactionService creates a new instance of TransactionService.
// metrics may be nil.
func NewTransactionService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) TransactionService {
	return &transactionService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		contactRepo:     contactRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		publisher:       publisher,
		metrics:         m,
		logger:          logger.With(zap.String("component", "transaction_service")),
	}
}

// CreateTransaction spends total of the user's credit towards one of their contacts.
// Checks run in this order: user, contact, total > 0, total <= credit. The debit itself
// is conditional, so a concurrent spend that empties the balance first still fails here.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, contactID int64, total decimal.Decimal, date time.Time) (*domain.Transaction, error) {
	transaction, err := s.createTransaction(ctx, userID, contactID, total, date)
	s.metrics.ObserveTransaction(transactionResult(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created",
		zap.String("user_id", userID),
		zap.Int64("transaction_id", transaction.ID),
		zap.String("total", total.String()))
	publish(ctx, s.publisher, s.logger, events.NewEvent(events.TypeTransactionCreated, userID, transaction))
	return transaction, nil
}

func (s *transactionService) createTransaction(ctx context.Context, userID string, contactID int64, total decimal.Decimal, date time.Time) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create transaction: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	contact, err := s.contactRepo.GetContact(ctx, txExecutor, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if err := domain.ValidateTotal(total); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if total.GreaterThan(user.Credit) {
		return nil, fmt.Errorf("%w: total %s exceeds credit %s", util.ErrInsufficientCredit, total, user.Credit)
	}

	if err := s.userRepo.DebitCredit(ctx, txExecutor, userID, total); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	transaction := domain.NewTransaction(userID, contact.ID, total, date)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create transaction: failed to commit transaction: %w", err)
	}

	transaction.Contact = contact
	return transaction, nil
}

// GetTransaction returns one of the user's transactions.
func (s *transactionService) GetTransaction(ctx context.Context, userID string, id int64) (*domain.Transaction, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	transaction, err := s.transactionRepo.GetTransaction(ctx, s.dbExecutor, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions returns the user's transactions. An empty history is ErrNoTransactions.
func (s *transactionService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	transactions, err := s.transactionRepo.ListTransactionsByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if len(transactions) == 0 {
		return nil, util.ErrNoTransactions
	}
	return transactions, nil
}

// ListTransactionsByContact returns the user's transactions with one contact.
func (s *transactionService) ListTransactionsByContact(ctx context.Context, userID string, contactID int64) ([]domain.Transaction, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("list transactions by contact: %w", err)
	}
	transactions, err := s.transactionRepo.ListTransactionsByContact(ctx, s.dbExecutor, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by contact: %w", err)
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w for contact %d", util.ErrNoTransactions, contactID)
	}
	return transactions, nil
}

func transactionResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultCreated
	case errors.Is(err, util.ErrInsufficientCredit):
		return metrics.ResultInsufficientCredit
	case errors.Is(err, util.ErrInvalidAmount),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrContactNotFound):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

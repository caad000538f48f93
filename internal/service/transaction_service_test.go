package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/internal/metrics"
	"github.com/omer1kenan/backend/internal/util"
)

func (m *serviceMocks) transactionService() TransactionService {
	return NewTransactionService(m.beginner, m.executor, m.users, m.contacts, m.txs,
		m.beginTx, m.commitTx, m.rollbackTx, m.publisher, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

// TestCreateTransaction tests the CreateTransaction method of TransactionService.
func TestCreateTransaction(t *testing.T) {
	userID := "u1"
	contactID := int64(3)
	date := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	t.Run("SuccessfulTransaction", func(t *testing.T) {
		ctx := context.Background()
		m := newServiceMocks()
		total := decimal.NewFromInt(30)

		m.tx.On("Commit").Return(nil).Once()
		m.tx.On("Rollback").Return(nil).Maybe()
		m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
		m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID, UserID: userID}, nil).Once()
		m.users.On("DebitCredit", ctx, mock.Anything, userID, total).Return(nil).Once()
		m.txs.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) { args.Get(2).(*domain.Transaction).ID = 11 }).
			Return(nil).Once()
		m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.TypeTransactionCreated && e.Key == userID
		})).Return(nil).Once()

		tr, err := m.transactionService().CreateTransaction(ctx, userID, contactID, total, date)

		require.NoError(t, err)
		assert.Equal(t, int64(11), tr.ID)
		assert.True(t, total.Equal(tr.Amount))
		assert.Equal(t, date, tr.Date)
		require.NotNil(t, tr.ContactID)
		assert.Equal(t, contactID, *tr.ContactID)
		assert.NotNil(t, tr.Contact)

		m.assertExpectations(t)
	})

	t.Run("TotalEqualToCreditIsAllowed", func(t *testing.T) {
		ctx := context.Background()
		m := newServiceMocks()
		total := decimal.NewFromInt(100)

		m.tx.On("Commit").Return(nil).Once()
		m.tx.On("Rollback").Return(nil).Maybe()
		m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
		m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
		m.users.On("DebitCredit", ctx, mock.Anything, userID, total).Return(nil).Once()
		m.txs.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := m.transactionService().CreateTransaction(ctx, userID, contactID, total, time.Time{})

		assert.NoError(t, err)
		m.assertExpectations(t)
	})

	failures := []struct {
		name    string
		total   decimal.Decimal
		setup   func(ctx context.Context, m *serviceMocks)
		wantErr error
	}{
		{
			name:  "UserNotFound",
			total: decimal.NewFromInt(10),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(nil, util.ErrUserNotFound).Once()
			},
			wantErr: util.ErrUserNotFound,
		},
		{
			name:  "ContactNotFound",
			total: decimal.NewFromInt(10),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(nil, util.ErrContactNotFound).Once()
			},
			wantErr: util.ErrContactNotFound,
		},
		{
			name:  "ZeroTotal",
			total: decimal.Zero,
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
			},
			wantErr: util.ErrInvalidAmount,
		},
		{
			name:  "NegativeTotal",
			total: decimal.NewFromInt(-5),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
			},
			wantErr: util.ErrInvalidAmount,
		},
		{
			name:  "TotalBelowStoredScale",
			total: decimal.RequireFromString("0.000000000000000000001"),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
			},
			wantErr: util.ErrInvalidInput,
		},
		{
			name:  "TotalExceedsCredit",
			total: decimal.NewFromInt(101),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
			},
			wantErr: util.ErrInsufficientCredit,
		},
		{
			name:  "ConditionalDebitLosesRace",
			total: decimal.NewFromInt(50),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
				m.users.On("DebitCredit", ctx, mock.Anything, userID, decimal.NewFromInt(50)).Return(util.ErrInsufficientCredit).Once()
			},
			wantErr: util.ErrInsufficientCredit,
		},
		{
			name:  "InsertFails",
			total: decimal.NewFromInt(50),
			setup: func(ctx context.Context, m *serviceMocks) {
				m.users.On("GetUserByID", ctx, mock.Anything, userID).Return(&domain.User{ID: userID, Credit: decimal.NewFromInt(100)}, nil).Once()
				m.contacts.On("GetContact", ctx, mock.Anything, userID, contactID).Return(&domain.Contact{ID: contactID}, nil).Once()
				m.users.On("DebitCredit", ctx, mock.Anything, userID, decimal.NewFromInt(50)).Return(nil).Once()
				m.txs.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
			},
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newServiceMocks()
			m.tx.On("Rollback").Return(nil).Once()
			tt.setup(ctx, m)

			tr, err := m.transactionService().CreateTransaction(ctx, userID, contactID, tt.total, date)

			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, tr)
			m.tx.AssertNotCalled(t, "Commit")
			m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			m.assertExpectations(t)
		})
	}
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		m := newServiceMocks()
		m.users.On("GetUserByID", ctx, m.executor, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		m.txs.On("ListTransactionsByUser", ctx, m.executor, "u1").Return([]domain.Transaction{{ID: 1}, {ID: 2}}, nil).Once()

		list, err := m.transactionService().ListTransactions(ctx, "u1")

		require.NoError(t, err)
		assert.Len(t, list, 2)
		m.assertExpectations(t)
	})

	t.Run("EmptyIsNotFound", func(t *testing.T) {
		m := newServiceMocks()
		m.users.On("GetUserByID", ctx, m.executor, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		m.txs.On("ListTransactionsByUser", ctx, m.executor, "u1").Return([]domain.Transaction{}, nil).Once()

		_, err := m.transactionService().ListTransactions(ctx, "u1")

		assert.ErrorIs(t, err, util.ErrNoTransactions)
		m.assertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		m := newServiceMocks()
		m.users.On("GetUserByID", ctx, m.executor, "nope").Return(nil, util.ErrUserNotFound).Once()

		_, err := m.transactionService().ListTransactions(ctx, "nope")

		assert.ErrorIs(t, err, util.ErrUserNotFound)
		m.assertExpectations(t)
	})

	t.Run("ByContactEmpty", func(t *testing.T) {
		m := newServiceMocks()
		m.users.On("GetUserByID", ctx, m.executor, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		m.txs.On("ListTransactionsByContact", ctx, m.executor, "u1", int64(4)).Return([]domain.Transaction{}, nil).Once()

		_, err := m.transactionService().ListTransactionsByContact(ctx, "u1", 4)

		assert.ErrorIs(t, err, util.ErrNoTransactions)
		m.assertExpectations(t)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		m := newServiceMocks()
		m.users.On("GetUserByID", ctx, m.executor, "u1").Return(&domain.User{ID: "u1"}, nil).Once()
		m.txs.On("GetTransaction", ctx, m.executor, "u1", int64(99)).Return(nil, util.ErrTransactionNotFound).Once()

		_, err := m.transactionService().GetTransaction(ctx, "u1", 99)

		assert.ErrorIs(t, err, util.ErrTransactionNotFound)
		m.assertExpectations(t)
	})
}

func TestTransactionResult(t *testing.T) {
	assert.Equal(t, metrics.ResultCreated, transactionResult(nil))
	assert.Equal(t, metrics.ResultInsufficientCredit, transactionResult(util.ErrInsufficientCredit))
	assert.Equal(t, metrics.ResultRejected, transactionResult(util.ErrInvalidAmount))
	assert.Equal(t, metrics.ResultError, transactionResult(errors.New("boom")))
}

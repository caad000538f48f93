package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, q repository.DBExecutor, id, hash string) error {
	args := m.Called(ctx, q, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockUserRepository) DebitCredit(ctx context.Context, q repository.DBExecutor, id string, amount decimal.Decimal) error {
	args := m.Called(ctx, q, id, amount)
	return args.Error(0)
}

// MockContactRepository is a mock implementation of repository.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) CreateContact(ctx context.Context, q repository.DBExecutor, contact *domain.Contact) error {
	args := m.Called(ctx, q, contact)
	return args.Error(0)
}

func (m *MockContactRepository) GetContact(ctx context.Context, q repository.DBExecutor, userID string, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ListContacts(ctx context.Context, q repository.DBExecutor) ([]domain.Contact, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ListContactsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) DeleteContact(ctx context.Context, q repository.DBExecutor, userID string, id int64) error {
	args := m.Called(ctx, q, userID, id)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteContactsByUser(ctx context.Context, q repository.DBExecutor, userID string) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransaction(ctx context.Context, q repository.DBExecutor, userID string, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByContact(ctx context.Context, q repository.DBExecutor, userID string, contactID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, userID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransactionsByUser(ctx context.Context, q repository.DBExecutor, userID string) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// serviceMocks bundles the collaborators shared by both services.
type serviceMocks struct {
	beginner    *MockDBBeginner
	executor    *MockDBExecutor
	tx          *MockTxController
	users       *MockUserRepository
	contacts    *MockContactRepository
	txs         *MockTransactionRepository
	publisher   *MockPublisher
	beginTxErr  error
	beginCalled bool
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		beginner:  new(MockDBBeginner),
		executor:  new(MockDBExecutor),
		tx:        new(MockTxController),
		users:     new(MockUserRepository),
		contacts:  new(MockContactRepository),
		txs:       new(MockTransactionRepository),
		publisher: new(MockPublisher),
	}
}

func (m *serviceMocks) beginTx(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
	m.beginCalled = true
	if m.beginTxErr != nil {
		return nil, m.beginTxErr
	}
	return m.tx, nil
}

func (m *serviceMocks) commitTx(tx db.TxController) error {
	return m.tx.Commit()
}

func (m *serviceMocks) rollbackTx(tx db.TxController) {
	_ = m.tx.Rollback()
}

func (m *serviceMocks) userService() UserService {
	return NewUserService(m.beginner, m.executor, m.users, m.contacts, m.txs,
		m.beginTx, m.commitTx, m.rollbackTx, m.publisher, zap.NewNop())
}

func (m *serviceMocks) assertExpectations(t mock.TestingT) {
	mock.AssertExpectationsForObjects(t, m.beginner, m.executor, m.tx, m.users, m.contacts, m.txs, m.publisher)
}

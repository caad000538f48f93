// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/auth"
	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/util"
	"github.com/omer1kenan/backend/pkg/db"
)

// ContactInput carries the editable fields of a contact.
type ContactInput struct {
	Nickname    string
	PhoneNumber string
}

// CreateUserInput is the data needed to register a user.
type CreateUserInput struct {
	UserName string
	Email    string
	Credit   decimal.Decimal
	Password string // optional
	Contacts []ContactInput
}

// UpdateUserInput holds the fields to change. Nil fields are left as they are;
// a non-nil Contacts replaces the user's whole contact list.
type UpdateUserInput struct {
	UserName *string
	Email    *string
	Credit   *decimal.Decimal
	Contacts *[]ContactInput
}

// UserService defines the interface for user and contact business logic.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	Login(ctx context.Context, username, password string) (bool, error)
	ResetPassword(ctx context.Context, userID, newPassword string) error
	AddContact(ctx context.Context, userID string, in ContactInput) (*domain.Contact, error)
	DeleteContact(ctx context.Context, userID string, contactID int64) error
}

// userService implements the UserService interface.
type userService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	contactRepo     repository.ContactRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	publisher       events.Publisher
	logger          *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	publisher events.Publisher,
	logger *zap.Logger,
) UserService {
	return &userService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		contactRepo:     contactRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		publisher:       publisher,
		logger:          logger.With(zap.String("component", "user_service")),
	}
}

// ListUsers returns every user with their contacts attached.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	contacts, err := s.contactRepo.ListContacts(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: failed to load contacts: %w", err)
	}

	byUser := make(map[string][]domain.Contact, len(users))
	for _, c := range contacts {
		byUser[c.UserID] = append(byUser[c.UserID], c)
	}
	for i := range users {
		users[i].Contacts = byUser[users[i].ID]
		if users[i].Contacts == nil {
			users[i].Contacts = []domain.Contact{}
		}
	}
	return users, nil
}

// GetUser returns a single user with contacts.
func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	contacts, err := s.contactRepo.ListContactsByUser(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: failed to load contacts: %w", err)
	}
	user.Contacts = contacts
	return user, nil
}

// CreateUser validates the input and stores the user and their contacts atomically.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateUserName(in.UserName); err != nil {
		return nil, err
	}
	if err := domain.ValidateCredit(in.Credit); err != nil {
		return nil, err
	}
	contacts, err := buildContacts("", in.Contacts)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(in.UserName, in.Email, in.Credit)
	if in.Password != "" {
		if err := auth.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
		if user.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create user: transaction controller does not implement DBExecutor")
	}

	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.createContacts(ctx, txExecutor, user.ID, contacts); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create user: failed to commit transaction: %w", err)
	}

	user.Contacts = contacts
	s.logger.Info("User created", zap.String("user_id", user.ID), zap.Int("contacts", len(contacts)))
	return user, nil
}

// UpdateUser applies in to the stored user.
func (s *userService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	var contacts []domain.Contact
	if in.Contacts != nil {
		var err error
		if contacts, err = buildContacts(id, *in.Contacts); err != nil {
			return nil, err
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update user: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if in.UserName != nil {
		if err := domain.ValidateUserName(*in.UserName); err != nil {
			return nil, err
		}
		user.UserName = *in.UserName
		user.NormalizedUserName = domain.NormalizeUserName(*in.UserName)
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Credit != nil {
		if err := domain.ValidateCredit(*in.Credit); err != nil {
			return nil, err
		}
		user.Credit = *in.Credit
	}

	if err := s.userRepo.UpdateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if in.Contacts != nil {
		if err := s.contactRepo.DeleteContactsByUser(ctx, txExecutor, id); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if err := s.createContacts(ctx, txExecutor, id, contacts); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.Contacts = contacts
	} else if user.Contacts, err = s.contactRepo.ListContactsByUser(ctx, txExecutor, id); err != nil {
		return nil, fmt.Errorf("update user: failed to load contacts: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update user: failed to commit transaction: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user together with their contacts and transactions.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("delete user: transaction controller does not implement DBExecutor")
	}

	// Explicit child deletes keep the cascade independent of foreign key enforcement.
	if err := s.transactionRepo.DeleteTransactionsByUser(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.contactRepo.DeleteContactsByUser(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.userRepo.DeleteUser(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete user: failed to commit transaction: %w", err)
	}

	s.logger.Info("User deleted", zap.String("user_id", id))
	publish(ctx, s.publisher, s.logger, events.NewEvent(events.TypeUserDeleted, id, map[string]string{"id": id}))
	return nil
}

// Login reports whether the credentials match. Unknown users simply fail.
func (s *userService) Login(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("login: %w", err)
	}
	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("login: %w", err)
	}
	return ok, nil
}

// ResetPassword sets a new password for the user after checking the policy.
func (s *userService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, s.dbExecutor, userID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.logger.Info("Password reset", zap.String("user_id", userID))
	return nil
}

// AddContact attaches a new contact to an existing user.
func (s *userService) AddContact(ctx context.Context, userID string, in ContactInput) (*domain.Contact, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	contact := domain.NewContact(userID, in.Nickname, in.PhoneNumber)
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if err := s.contactRepo.CreateContact(ctx, s.dbExecutor, contact); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	return contact, nil
}

// DeleteContact removes one of the user's contacts.
func (s *userService) DeleteContact(ctx context.Context, userID string, contactID int64) error {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if err := s.contactRepo.DeleteContact(ctx, s.dbExecutor, userID, contactID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func (s *userService) createContacts(ctx context.Context, q repository.DBExecutor, userID string, contacts []domain.Contact) error {
	for i := range contacts {
		contacts[i].UserID = userID
		if err := s.contactRepo.CreateContact(ctx, q, &contacts[i]); err != nil {
			return err
		}
	}
	return nil
}

// buildContacts validates the inputs and turns them into unsaved contacts.
func buildContacts(userID string, in []ContactInput) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0, len(in))
	for _, ci := range in {
		c := domain.NewContact(userID, ci.Nickname, ci.PhoneNumber)
		if err := c.Validate(); err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, nil
}

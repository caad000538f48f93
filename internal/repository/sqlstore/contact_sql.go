// internal/repository/sqlstore/contact_sql.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omer1kenan/backend/internal/domain"
	"github.com/omer1kenan/backend/internal/repository"
	"github.com/omer1kenan/backend/internal/util"
)

const contactColumns = `id, user_id, nickname, phone_number, created_at`

// ContactRepository implements repository.ContactRepository.
type ContactRepository struct{}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository() repository.ContactRepository {
	return &ContactRepository{}
}

// CreateContact inserts contact and fills in its generated ID.
func (r *ContactRepository) CreateContact(ctx context.Context, q repository.DBExecutor, contact *domain.Contact) error {
	query := q.Rebind(`INSERT INTO contacts (user_id, nickname, phone_number, created_at)
              VALUES (?, ?, ?, ?) RETURNING id`)
	err := q.GetContext(ctx, &contact.ID, query, contact.UserID, contact.Nickname, contact.PhoneNumber, contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", mapWriteError(err))
	}
	return nil
}

func (r *ContactRepository) GetContact(ctx context.Context, q repository.DBExecutor, userID string, id int64) (*domain.Contact, error) {
	var contact domain.Contact
	query := q.Rebind(`SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND user_id = ?`)
	err := q.GetContext(ctx, &contact, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	return &contact, nil
}

// ListContacts returns the contacts of every user.
func (r *ContactRepository) ListContacts(ctx context.Context, q repository.DBExecutor) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	if err := q.SelectContext(ctx, &contacts, `SELECT `+contactColumns+` FROM contacts ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) ListContactsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	query := q.Rebind(`SELECT ` + contactColumns + ` FROM contacts WHERE user_id = ? ORDER BY id`)
	if err := q.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list contacts for user %s: %w", userID, err)
	}
	return contacts, nil
}

// DeleteContact removes one of the user's contacts. Its transactions are kept
// with their contact reference cleared.
func (r *ContactRepository) DeleteContact(ctx context.Context, q repository.DBExecutor, userID string, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM contacts WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	return expectAffected(res, util.ErrContactNotFound)
}

func (r *ContactRepository) DeleteContactsByUser(ctx context.Context, q repository.DBExecutor, userID string) error {
	if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM contacts WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete contacts of user %s: %w", userID, err)
	}
	return nil
}

// internal/repository/contact_repo.go
package repository

import (
	"context"

	"github.com/omer1kenan/backend/internal/domain"
)

// ContactRepository defines the interface for contact data operations.
type ContactRepository interface {
	CreateContact(ctx context.Context, q DBExecutor, contact *domain.Contact) error
	// GetContact returns the contact only if it belongs to userID.
	GetContact(ctx context.Context, q DBExecutor, userID string, id int64) (*domain.Contact, error)
	ListContacts(ctx context.Context, q DBExecutor) ([]domain.Contact, error)
	ListContactsByUser(ctx context.Context, q DBExecutor, userID string) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, q DBExecutor, userID string, id int64) error
	DeleteContactsByUser(ctx context.Context, q DBExecutor, userID string) error
}

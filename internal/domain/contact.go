// internal/domain/contact.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/omer1kenan/backend/internal/util"
)

// Contact is a counterparty a user can transact with.
type Contact struct {
	ID          int64     `db:"id" json:"contactId"`
	UserID      string    `db:"user_id" json:"userId"`
	Nickname    string    `db:"nickname" json:"nickname"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// NewContact creates a new Contact owned by userID.
func NewContact(userID, nickname, phoneNumber string) *Contact {
	return &Contact{
		UserID:      userID,
		Nickname:    strings.TrimSpace(nickname),
		PhoneNumber: strings.TrimSpace(phoneNumber),
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks the required contact fields.
func (c *Contact) Validate() error {
	if c.Nickname == "" {
		return fmt.Errorf("%w: nickname is required", util.ErrInvalidInput)
	}
	if c.PhoneNumber == "" {
		return fmt.Errorf("%w: phoneNumber is required", util.ErrInvalidInput)
	}
	return nil
}

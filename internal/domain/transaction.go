// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Transaction records credit a user spent towards one of their contacts.
type Transaction struct {
	ID        int64           `db:"id" json:"transactionId"`      // Primary key, auto-increment in DB
	UserID    string          `db:"user_id" json:"userId"`        // Owning user
	ContactID *int64          `db:"contact_id" json:"contactId"`  // Counterparty, nil once the contact is deleted
	Amount    decimal.Decimal `db:"-" json:"total"`               // Debited credit, stored as amount_minor
	Date      time.Time       `db:"transaction_date" json:"date"` // Time of the transaction
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`  // Timestamp of record creation
	Contact   *Contact        `db:"-" json:"contact,omitempty"`   // Joined on reads
}

// NewTransaction creates a new Transaction instance. A zero date means "now".
func NewTransaction(userID string, contactID int64, amount decimal.Decimal, date time.Time) *Transaction {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Transaction{
		UserID:    userID,
		ContactID: &contactID,
		Amount:    amount,
		Date:      date.UTC(),
		CreatedAt: now,
	}
}

// internal/domain/user.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise credit calculations

	"github.com/omer1kenan/backend/internal/util"
)

func init() {
	// Credit and totals are plain JSON numbers on the wire, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// allowedUserNameChars is the character set accepted in usernames.
const allowedUserNameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"

// User represents an account holder with a credit balance.
type User struct {
	ID                 string          `db:"id" json:"id"`                 // UUID string
	UserName           string          `db:"username" json:"userName"`     // Display username
	NormalizedUserName string          `db:"normalized_username" json:"-"` // Upper-cased username, unique
	Email              string          `db:"email" json:"email,omitempty"` // Optional email
	PasswordHash       string          `db:"password_hash" json:"-"`       // bcrypt hash, empty if no password was set
	Credit             decimal.Decimal `db:"-" json:"credit"`              // Current credit, stored as credit_minor
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`  // Timestamp of creation
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`  // Timestamp of last update
	Contacts           []Contact       `db:"-" json:"contacts"`            // Loaded on reads
}

// NewUser creates a new User instance with a fresh id.
func NewUser(userName, email string, credit decimal.Decimal) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.NewString(),
		UserName:           userName,
		NormalizedUserName: NormalizeUserName(userName),
		Email:              email,
		Credit:             credit,
		CreatedAt:          now,
		UpdatedAt:          now,
		Contacts:           []Contact{},
	}
}

// NormalizeUserName returns the case-insensitive lookup key for a username.
func NormalizeUserName(userName string) string {
	return strings.ToUpper(strings.TrimSpace(userName))
}

// ValidateUserName checks that a username is present and only uses allowed characters.
func ValidateUserName(userName string) error {
	if strings.TrimSpace(userName) == "" {
		return fmt.Errorf("%w: userName is required", util.ErrInvalidInput)
	}
	for _, r := range userName {
		if !strings.ContainsRune(allowedUserNameChars, r) {
			return fmt.Errorf("%w: userName %q contains invalid character %q", util.ErrInvalidInput, userName, r)
		}
	}
	return nil
}

// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrUserNotFound        = errors.New("user not found")
	ErrContactNotFound     = errors.New("contact not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoTransactions      = errors.New("no transactions found")
	ErrInvalidAmount       = errors.New("transaction total must be greater than zero")
	ErrInsufficientCredit  = errors.New("insufficient credit")
	ErrDuplicateEntry      = errors.New("duplicate entry") // e.g. a username that is already taken
	ErrWeakPassword        = errors.New("password does not meet requirements")
)

// IsError reports whether err, or anything it wraps, is target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

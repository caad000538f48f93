// internal/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/omer1kenan/backend/internal/util"
)

// MinPasswordLength is the shortest password ValidatePassword accepts, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of p.
func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: must be at most %d bytes", util.ErrWeakPassword, MaxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches hash. An empty hash never matches.
func CheckPassword(plain, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
	return true, nil
}

// ValidatePassword enforces the password policy: a length between MinPasswordLength
// characters and MaxPasswordBytes bytes plus at least one digit, lower-case letter,
// upper-case letter and non-alphanumeric character.
func ValidatePassword(p string) error {
	var problems []string
	if utf8.RuneCountInString(p) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(p) > MaxPasswordBytes {
		problems = append(problems, fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}

	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasSymbol = true
		}
	}
	if !hasDigit {
		problems = append(problems, "must contain a digit")
	}
	if !hasLower {
		problems = append(problems, "must contain a lower-case letter")
	}
	if !hasUpper {
		problems = append(problems, "must contain an upper-case letter")
	}
	if !hasSymbol {
		problems = append(problems, "must contain a non-alphanumeric character")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", util.ErrWeakPassword, strings.Join(problems, "; "))
	}
	return nil
}

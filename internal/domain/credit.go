// internal/domain/credit.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/omer1kenan/backend/internal/util"
)

// CreditScale is the number of decimal places kept for credit and transaction totals.
// Both are stored as integer minor units of 10^-CreditScale.
const CreditScale = 4

// MaxCredit is the largest credit or total accepted.
var MaxCredit = decimal.New(1, 14)

// MinorUnits converts an amount to integer minor units. The amount must have passed
// ValidateCredit or ValidateTotal.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(CreditScale).IntPart()
}

// FromMinorUnits converts stored minor units back to an amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -CreditScale)
}

// ValidateCredit rejects negative credit balances and balances that cannot be stored exactly.
func ValidateCredit(credit decimal.Decimal) error {
	if credit.IsNegative() {
		return fmt.Errorf("%w: credit cannot be negative", util.ErrInvalidInput)
	}
	return checkStorable("credit", credit)
}

// ValidateTotal rejects non-positive totals and totals that cannot be stored exactly.
func ValidateTotal(total decimal.Decimal) error {
	if !total.IsPositive() {
		return util.ErrInvalidAmount
	}
	return checkStorable("total", total)
}

func checkStorable(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(CreditScale)) {
		return fmt.Errorf("%w: %s supports at most %d decimal places", util.ErrInvalidInput, field, CreditScale)
	}
	if amount.GreaterThan(MaxCredit) {
		return fmt.Errorf("%w: %s cannot exceed %s", util.ErrInvalidInput, field, MaxCredit)
	}
	return nil
}

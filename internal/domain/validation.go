package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName     = newError(ErrValidation, "invalid name")
	ErrInvalidCurrency = newError(ErrValidation, "invalid currency code")
	ErrAmountTooLarge  = newError(ErrValidation, "amount exceeds maximum allowed")
	ErrTextTooLong     = newError(ErrValidation, "text exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength    = 255
	MaxTextLength    = 2000
	MaxAmount        = "1000000000000" // 1 trillion
	DefaultPageSize  = 50
	MaxPageSize      = 1000
	DefaultCurrency  = "USD"
	currencyCodeSize = 3
)

// ValidateAccountName validates an account or party name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateCurrency accepts any three-letter upper-case code. Conversion is
// never performed so the code is only a label.
func ValidateCurrency(currency string) error {
	if len(currency) != currencyCodeSize {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
		}
	}
	return nil
}

// ValidateAmount validates a transaction, transfer or payment amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// NormalizeDate converts a ledger date to UTC at the microsecond precision
// the stores keep, so a stored row compares equal to its own input.
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ValidateText bounds free-form description and notes fields.
func ValidateText(field, s string) error {
	if len(s) > MaxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrTextTooLong, field, MaxTextLength)
	}
	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

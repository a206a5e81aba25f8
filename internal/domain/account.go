package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a cash-book account. CurrentBalance is a projection maintained by
// the ledger engine and equals OpeningBalance plus the signed sum of every
// active transaction on the account.
type Account struct {
	ID             string
	OwnerID        string
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the account fields supplied by a caller.
func (a *Account) Validate() error {
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	return ValidateCurrency(a.Currency)
}

// EnsureActive rejects archived accounts in contexts that need a live one.
func (a *Account) EnsureActive() error {
	if a.Archived {
		return ErrAccountArchived
	}
	return nil
}

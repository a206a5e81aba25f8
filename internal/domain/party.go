package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PartyKind string

const (
	PartyKindCustomer PartyKind = "customer"
	PartyKindSupplier PartyKind = "supplier"
)

// Party is a customer or supplier with its own running ledger.
type Party struct {
	ID             string
	OwnerID        string
	Name           string
	Kind           PartyKind
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the party fields supplied by a caller.
func (p *Party) Validate() error {
	if err := ValidateAccountName(p.Name); err != nil {
		return err
	}
	if p.Kind != PartyKindCustomer && p.Kind != PartyKindSupplier {
		return ErrInvalidPartyKind
	}
	return nil
}

func (p *Party) EnsureActive() error {
	if p.Archived {
		return ErrPartyArchived
	}
	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

// TransactionState is the soft-delete variant of a transaction row.
type TransactionState string

const (
	TransactionStateActive  TransactionState = "active"
	TransactionStateDeleted TransactionState = "deleted"
)

type TransferDirection string

const (
	TransferDirectionNone     TransferDirection = ""
	TransferDirectionOutgoing TransferDirection = "outgoing"
	TransferDirectionIncoming TransferDirection = "incoming"
)

// Transaction is a single debit or credit against an account. The balance
// snapshots are written by the ledger engine only.
type Transaction struct {
	Date                    time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
	DeletedAt               *time.Time
	RestoredAt              *time.Time
	PartyID                 *string
	CategoryID              *string
	InvoiceID               *string
	TransferID              *string
	ClientRequestID         *string
	PartyBalanceAfter       *decimal.Decimal
	ID                      string
	OwnerID                 string
	AccountID               string
	Description             string
	Notes                   string
	PaymentMethod           string
	Type                    TransactionType
	TransferDirection       TransferDirection
	State                   TransactionState
	Amount                  decimal.Decimal
	BalanceAfterTransaction decimal.Decimal
	Sequence                int64
}

// Validate re-checks the business invariants of a transaction.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t *Transaction) IsDeleted() bool {
	return t.State == TransactionStateDeleted
}

func (t *Transaction) IsTransferLeg() bool {
	return t.TransferID != nil
}

// SignedAmount is the effect on the account balance: credit adds, debit subtracts.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// SoftDelete moves the row to the deleted state. It reports false when the
// row was already deleted.
func (t *Transaction) SoftDelete(now time.Time) bool {
	if t.IsDeleted() {
		return false
	}
	t.State = TransactionStateDeleted
	t.DeletedAt = &now
	t.UpdatedAt = now
	return true
}

// Restore moves the row back to the active state. It reports false when the
// row was already active.
func (t *Transaction) Restore(now time.Time) bool {
	if !t.IsDeleted() {
		return false
	}
	t.State = TransactionStateActive
	t.DeletedAt = nil
	t.RestoredAt = &now
	t.UpdatedAt = now
	return true
}

// SamePayload reports whether two transactions carry the same caller-supplied
// fields. Used to decide whether a repeated client request id is a replay.
func (t *Transaction) SamePayload(o *Transaction) bool {
	return t.AccountID == o.AccountID &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Date.Equal(o.Date) &&
		t.Description == o.Description &&
		t.Notes == o.Notes &&
		t.PaymentMethod == o.PaymentMethod &&
		equalRef(t.PartyID, o.PartyID) &&
		equalRef(t.CategoryID, o.CategoryID) &&
		equalRef(t.InvoiceID, o.InvoiceID)
}

// Clone returns a copy safe to mutate without touching t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}

func equalRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Ref returns a pointer to s, or nil for the empty string.
func Ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer links the outgoing leg on the source account with the incoming leg
// on the destination account.
type Transfer struct {
	Date                  time.Time
	CreatedAt             time.Time
	ID                    string
	OwnerID               string
	FromAccountID         string
	ToAccountID           string
	Description           string
	OutgoingTransactionID string
	IncomingTransactionID string
	Amount                decimal.Decimal
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Date.IsZero() {
		return ErrInvalidDate
	}

	return nil
}

// Legs builds the two transactions of the transfer. IDs, owner and
// timestamps are copied from the transfer; leg IDs must already be set.
func (t *Transfer) Legs() (outgoing, incoming *Transaction) {
	id := t.ID
	outgoing = &Transaction{
		ID:                t.OutgoingTransactionID,
		OwnerID:           t.OwnerID,
		AccountID:         t.FromAccountID,
		TransferID:        &id,
		TransferDirection: TransferDirectionOutgoing,
		Type:              TransactionTypeDebit,
		Amount:            t.Amount,
		Date:              t.Date,
		Description:       t.Description,
		State:             TransactionStateActive,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.CreatedAt,
	}
	incoming = &Transaction{
		ID:                t.IncomingTransactionID,
		OwnerID:           t.OwnerID,
		AccountID:         t.ToAccountID,
		TransferID:        &id,
		TransferDirection: TransferDirectionIncoming,
		Type:              TransactionTypeCredit,
		Amount:            t.Amount,
		Date:              t.Date,
		Description:       t.Description,
		State:             TransactionStateActive,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.CreatedAt,
	}
	return outgoing, incoming
}

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceKind string

const (
	InvoiceKindSale     InvoiceKind = "sale"
	InvoiceKindPurchase InvoiceKind = "purchase"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice tracks what is owed on a sale or purchase. AmountPaid and
// BalanceDue are derived from the active payment transactions linked to it.
type Invoice struct {
	IssueDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DueDate    *time.Time
	PartyID    *string
	ID         string
	OwnerID    string
	Number     string
	Kind       InvoiceKind
	Status     InvoiceStatus
	GrandTotal decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
}

func (i *Invoice) Validate() error {
	if i.Kind != InvoiceKindSale && i.Kind != InvoiceKindPurchase {
		return ErrInvalidInvoiceKind
	}
	if i.GrandTotal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Number) == "" {
		return newError(ErrValidation, "invoice number is required")
	}
	return nil
}

// PaymentType is the transaction type a payment against the invoice takes:
// money comes in for a sale and goes out for a purchase.
func (i *Invoice) PaymentType() TransactionType {
	if i.Kind == InvoiceKindPurchase {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

// IsTerminal reports whether the invoice no longer accepts payments.
func (i *Invoice) IsTerminal() bool {
	return i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled
}

// CheckPayment decides whether a new payment of amount may be recorded.
func (i *Invoice) CheckPayment(amount decimal.Decimal, allowOverpayment bool) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if i.IsTerminal() {
		return ErrInvoiceClosed
	}
	if i.Status == InvoiceStatusDraft {
		return ErrInvoiceNotIssued
	}
	if !allowOverpayment && amount.GreaterThan(i.BalanceDue) {
		return ErrOverpayment
	}
	return nil
}

// ApplyPayments sets AmountPaid to paid, recomputes BalanceDue and moves the
// status. Draft and cancelled invoices keep their status.
func (i *Invoice) ApplyPayments(paid decimal.Decimal, now time.Time) {
	i.AmountPaid = paid
	i.BalanceDue = i.GrandTotal.Sub(paid)
	i.UpdatedAt = now

	if i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusCancelled {
		return
	}
	switch {
	case paid.GreaterThanOrEqual(i.GrandTotal):
		i.Status = InvoiceStatusPaid
	case paid.IsPositive():
		i.Status = InvoiceStatusPartial
	case i.pastDue(now):
		i.Status = InvoiceStatusOverdue
	default:
		i.Status = InvoiceStatusPending
	}
}

// Issue moves a draft invoice to pending.
func (i *Invoice) Issue(now time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return ErrInvoiceStateMismatch
	}
	i.Status = InvoiceStatusPending
	i.UpdatedAt = now
	i.RefreshOverdue(now)
	return nil
}

// Cancel closes an invoice that has no payments.
func (i *Invoice) Cancel(now time.Time) error {
	if i.Status == InvoiceStatusCancelled || i.Status == InvoiceStatusPaid {
		return ErrInvoiceClosed
	}
	if i.AmountPaid.IsPositive() {
		return ErrInvoiceHasPayments
	}
	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = now
	return nil
}

// RefreshOverdue marks an unpaid pending invoice overdue once its due date
// has passed. It reports whether the status changed.
func (i *Invoice) RefreshOverdue(now time.Time) bool {
	if i.Status != InvoiceStatusPending || !i.pastDue(now) {
		return false
	}
	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = now
	return true
}

func (i *Invoice) pastDue(now time.Time) bool {
	return i.DueDate != nil && now.After(*i.DueDate)
}

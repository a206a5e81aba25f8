package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newPendingInvoice(total int64) *Invoice {
	return &Invoice{
		Number:     "INV-1",
		Kind:       InvoiceKindSale,
		Status:     InvoiceStatusPending,
		GrandTotal: decimal.NewFromInt(total),
		BalanceDue: decimal.NewFromInt(total),
	}
}

func TestInvoice_PaymentFlow(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := newPendingInvoice(1000)

	if err := inv.CheckPayment(decimal.NewFromInt(400), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv.ApplyPayments(decimal.NewFromInt(400), now)
	if inv.Status != InvoiceStatusPartial || !inv.BalanceDue.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected partial with 600 due, got %s %s", inv.Status, inv.BalanceDue)
	}

	if err := inv.CheckPayment(decimal.NewFromInt(601), false); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected ErrOverpayment, got %v", err)
	}
	if err := inv.CheckPayment(decimal.NewFromInt(601), true); err != nil {
		t.Fatalf("expected overpayment to be allowed by policy, got %v", err)
	}

	inv.ApplyPayments(decimal.NewFromInt(1000), now)
	if inv.Status != InvoiceStatusPaid || !inv.BalanceDue.IsZero() {
		t.Fatalf("expected paid with nothing due, got %s %s", inv.Status, inv.BalanceDue)
	}

	err := inv.CheckPayment(decimal.NewFromInt(1), true)
	if !errors.Is(err, ErrInvoiceClosed) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected closed invoice conflict, got %v", err)
	}
}

func TestInvoice_ApplyPaymentsReopens(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := newPendingInvoice(100)
	inv.ApplyPayments(decimal.NewFromInt(100), now)

	inv.ApplyPayments(decimal.NewFromInt(30), now)
	if inv.Status != InvoiceStatusPartial {
		t.Fatalf("expected removed payment to reopen the invoice, got %s", inv.Status)
	}

	inv.ApplyPayments(decimal.Zero, now)
	if inv.Status != InvoiceStatusPending {
		t.Fatalf("expected pending, got %s", inv.Status)
	}
}

func TestInvoice_DraftAndCancel(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := newPendingInvoice(100)
	inv.Status = InvoiceStatusDraft

	if err := inv.CheckPayment(decimal.NewFromInt(10), false); !errors.Is(err, ErrInvoiceNotIssued) {
		t.Fatalf("expected ErrInvoiceNotIssued, got %v", err)
	}
	if err := inv.Issue(now); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := inv.Issue(now); !errors.Is(err, ErrInvoiceStateMismatch) {
		t.Fatalf("expected second issue to fail, got %v", err)
	}

	inv.ApplyPayments(decimal.NewFromInt(10), now)
	if err := inv.Cancel(now); !errors.Is(err, ErrInvoiceHasPayments) {
		t.Fatalf("expected ErrInvoiceHasPayments, got %v", err)
	}

	inv.ApplyPayments(decimal.Zero, now)
	if err := inv.Cancel(now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	inv.ApplyPayments(decimal.Zero, now)
	if inv.Status != InvoiceStatusCancelled {
		t.Fatalf("expected cancelled to stick, got %s", inv.Status)
	}
}

func TestInvoice_Overdue(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	inv := newPendingInvoice(100)
	inv.DueDate = &due

	if inv.RefreshOverdue(due.Add(-time.Hour)) {
		t.Fatal("expected invoice not to be overdue before the due date")
	}
	if !inv.RefreshOverdue(due.Add(time.Hour)) || inv.Status != InvoiceStatusOverdue {
		t.Fatalf("expected overdue, got %s", inv.Status)
	}

	inv.ApplyPayments(decimal.NewFromInt(20), due.Add(time.Hour))
	if inv.Status != InvoiceStatusPartial {
		t.Fatalf("expected partial payment to take precedence over overdue, got %s", inv.Status)
	}
}

func TestInvoice_PaymentType(t *testing.T) {
	if (&Invoice{Kind: InvoiceKindSale}).PaymentType() != TransactionTypeCredit {
		t.Fatal("expected sale payments to be credits")
	}
	if (&Invoice{Kind: InvoiceKindPurchase}).PaymentType() != TransactionTypeDebit {
		t.Fatal("expected purchase payments to be debits")
	}
}

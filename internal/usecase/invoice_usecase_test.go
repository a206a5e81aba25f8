package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func (h *harness) issuedInvoice(t *testing.T, kind domain.InvoiceKind, partyID string, total int64) *domain.Invoice {
	t.Helper()
	inv, err := h.invoices.CreateInvoice(context.Background(), usecase.CreateInvoiceInput{
		OwnerID:    owner,
		PartyID:    &partyID,
		Number:     "INV-1",
		Kind:       kind,
		GrandTotal: amount(total),
		IssueDate:  day(1),
		Issue:      true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.InvoiceStatusPending, inv.Status)
	return inv
}

func (h *harness) pay(t *testing.T, invoiceID, accountID string, v int64) (*domain.Invoice, error) {
	t.Helper()
	return h.invoices.RecordPayment(context.Background(), usecase.RecordPaymentInput{
		OwnerID:   owner,
		InvoiceID: invoiceID,
		AccountID: accountID,
		Amount:    amount(v),
		Date:      day(10),
	})
}

func TestInvoiceUseCase_PaymentLifecycle(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 1000)

	got, err := h.pay(t, inv.ID, acc.ID, 400)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)
	requireDecimal(t, 400, got.AmountPaid)
	requireDecimal(t, 600, got.BalanceDue)

	got, err = h.pay(t, inv.ID, acc.ID, 600)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	requireDecimal(t, 0, got.BalanceDue)

	_, err = h.pay(t, inv.ID, acc.ID, 1)
	require.ErrorIs(t, err, domain.ErrInvoiceClosed)
	require.ErrorIs(t, err, domain.ErrConflict)

	// a sale is paid into the account as a credit and mirrored on the party
	requireDecimal(t, 1000, h.balance(t, acc.ID))
	party, err := h.parties.GetParty(context.Background(), owner, customer.ID)
	require.NoError(t, err)
	requireDecimal(t, 1000, party.CurrentBalance)

	h.requireConsistent(t)
}

func TestInvoiceUseCase_RejectsOverpaymentAndDrafts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	supplier := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindPurchase, supplier.ID, 300)

	_, err := h.pay(t, inv.ID, acc.ID, 301)
	require.ErrorIs(t, err, domain.ErrOverpayment)

	got, err := h.pay(t, inv.ID, acc.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	// a purchase is paid out of the account
	requireDecimal(t, -300, h.balance(t, acc.ID))

	draft, err := h.invoices.CreateInvoice(ctx, usecase.CreateInvoiceInput{
		OwnerID: owner, Number: "D-1", Kind: domain.InvoiceKindSale, GrandTotal: amount(50),
	})
	require.NoError(t, err)
	_, err = h.pay(t, draft.ID, acc.ID, 10)
	require.ErrorIs(t, err, domain.ErrInvoiceNotIssued)

	cancelled, err := h.invoices.CancelInvoice(ctx, owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, cancelled.Status)
	_, err = h.pay(t, draft.ID, acc.ID, 10)
	require.ErrorIs(t, err, domain.ErrInvoiceClosed)
}

func TestInvoiceUseCase_DeletingPaymentReopensInvoice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 500)

	_, err := h.pay(t, inv.ID, acc.ID, 200)
	require.NoError(t, err)
	_, err = h.pay(t, inv.ID, acc.ID, 300)
	require.NoError(t, err)

	rows, err := h.transactions.ListAccountTransactions(ctx, usecase.ListAccountTransactionsInput{OwnerID: owner, AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, h.transactions.SoftDeleteTransaction(ctx, owner, rows[1].ID))
	got, err := h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)
	requireDecimal(t, 200, got.AmountPaid)
	requireDecimal(t, 200, h.balance(t, acc.ID))
}

func TestInvoiceUseCase_PaymentClientRequestIDReplays(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 100)
	key := "pay-1"

	input := usecase.RecordPaymentInput{
		OwnerID: owner, InvoiceID: inv.ID, AccountID: acc.ID, Amount: amount(100), Date: day(2), ClientRequestID: &key,
	}
	first, err := h.invoices.RecordPayment(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, first.Status)

	// the retry is answered even though the invoice is now paid
	again, err := h.invoices.RecordPayment(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, again.Status)
	requireDecimal(t, 100, h.balance(t, acc.ID))
}

func TestInvoiceUseCase_RefreshOverdue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	customer := h.party(t, 0)
	now := time.Now().UTC()
	soon := now.Add(time.Hour)
	later := now.Add(72 * time.Hour)

	var first *domain.Invoice
	for _, due := range []*time.Time{&soon, &later} {
		inv, err := h.invoices.CreateInvoice(ctx, usecase.CreateInvoiceInput{
			OwnerID: owner, PartyID: &customer.ID, Number: "N", Kind: domain.InvoiceKindSale,
			GrandTotal: amount(10), IssueDate: day(1), DueDate: due, Issue: true,
		})
		require.NoError(t, err)
		require.Equal(t, domain.InvoiceStatusPending, inv.Status)
		if first == nil {
			first = inv
		}
	}

	changed, err := h.invoices.RefreshOverdue(ctx, owner, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := h.invoices.GetInvoice(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, got.Status)
}

func TestInvoiceUseCase_RestoringPaymentOnPaidInvoiceIsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 1000)

	_, err := h.pay(t, inv.ID, acc.ID, 400)
	require.NoError(t, err)
	rows, err := h.transactions.ListAccountTransactions(ctx, usecase.ListAccountTransactionsInput{OwnerID: owner, AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	first := rows[0]

	require.NoError(t, h.transactions.SoftDeleteTransaction(ctx, owner, first.ID))
	got, err := h.pay(t, inv.ID, acc.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)

	err = h.transactions.RestoreTransaction(ctx, owner, first.ID)
	require.ErrorIs(t, err, domain.ErrInvoiceClosed)

	got, err = h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	requireDecimal(t, 1000, got.AmountPaid)
	requireDecimal(t, 1000, h.balance(t, acc.ID))

	row, err := h.transactions.GetTransaction(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.True(t, row.IsDeleted())

	h.requireConsistent(t)
}

func TestInvoiceUseCase_RestoringPaymentWithinBalanceDue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 1000)

	_, err := h.pay(t, inv.ID, acc.ID, 400)
	require.NoError(t, err)
	rows, err := h.transactions.ListAccountTransactions(ctx, usecase.ListAccountTransactionsInput{OwnerID: owner, AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, h.transactions.SoftDeleteTransaction(ctx, owner, rows[0].ID))
	require.NoError(t, h.transactions.RestoreTransaction(ctx, owner, rows[0].ID))

	got, err := h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)
	requireDecimal(t, 400, got.AmountPaid)
}

func TestInvoiceUseCase_EditingPaymentKeepsInvoiceRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 100)

	_, err := h.pay(t, inv.ID, acc.ID, 50)
	require.NoError(t, err)
	rows, err := h.transactions.ListAccountTransactions(ctx, usecase.ListAccountTransactionsInput{OwnerID: owner, AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	payment := rows[0]

	tooMuch := amount(900)
	_, err = h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: payment.ID, Amount: &tooMuch})
	require.ErrorIs(t, err, domain.ErrOverpayment)

	debit := domain.TransactionTypeDebit
	_, err = h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: payment.ID, Type: &debit})
	require.ErrorIs(t, err, domain.ErrPaymentTypeImmutable)

	got, err := h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)
	requireDecimal(t, 50, got.AmountPaid)
	requireDecimal(t, 50, h.balance(t, acc.ID))

	// raising the payment up to the balance due settles the invoice
	exact := amount(100)
	_, err = h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: payment.ID, Amount: &exact})
	require.NoError(t, err)
	got, err = h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)

	// lowering it is always allowed and reopens the invoice
	lower := amount(30)
	_, err = h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: payment.ID, Amount: &lower})
	require.NoError(t, err)
	got, err = h.invoices.GetInvoice(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, got.Status)
	requireDecimal(t, 70, got.BalanceDue)

	h.requireConsistent(t)
}

func TestInvoiceUseCase_OverpaymentAllowedWhenConfigured(t *testing.T) {
	h := newHarness(t, withOverpayment())
	acc := h.account(t, 0)
	customer := h.party(t, 0)
	inv := h.issuedInvoice(t, domain.InvoiceKindSale, customer.ID, 100)

	got, err := h.pay(t, inv.ID, acc.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	requireDecimal(t, 150, got.AmountPaid)
}

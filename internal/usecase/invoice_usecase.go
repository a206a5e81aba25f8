package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// InvoiceUseCase manages invoices and applies payments against them.
type InvoiceUseCase struct {
	ledgerWriter
}

// NewInvoiceUseCase creates a new InvoiceUseCase. Unless
// deps.AllowOverpayment is set a payment larger than the balance due is
// rejected.
func NewInvoiceUseCase(deps LedgerDeps) *InvoiceUseCase {
	return &InvoiceUseCase{ledgerWriter: newLedgerWriter(deps)}
}

// CreateInvoiceInput represents input for creating an invoice.
type CreateInvoiceInput struct {
	IssueDate  time.Time
	DueDate    *time.Time
	PartyID    *string
	OwnerID    string
	Number     string
	Kind       domain.InvoiceKind
	GrandTotal decimal.Decimal
	Issue      bool
}

// CreateInvoice creates a draft invoice, or a pending one when Issue is set.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	now := time.Now().UTC()
	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}

	invoice := &domain.Invoice{
		ID:         uc.idGen.Generate(),
		OwnerID:    input.OwnerID,
		PartyID:    input.PartyID,
		Number:     input.Number,
		Kind:       input.Kind,
		Status:     domain.InvoiceStatusDraft,
		GrandTotal: input.GrandTotal,
		AmountPaid: decimal.Zero,
		BalanceDue: input.GrandTotal,
		IssueDate:  issueDate.UTC(),
		DueDate:    input.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := invoice.Validate(); err != nil {
		return nil, err
	}
	if input.Issue {
		if err := invoice.Issue(now); err != nil {
			return nil, err
		}
	}

	err := uc.run(ctx, nil, func(ctx context.Context, tx Transaction) error {
		if invoice.PartyID != nil {
			if _, err := uc.activeParty(ctx, tx, invoice.OwnerID, *invoice.PartyID); err != nil {
				return err
			}
		}
		if err := uc.invoiceRepo.Create(ctx, tx, invoice); err != nil {
			return err
		}
		return uc.audit(ctx, tx, invoice.OwnerID, domain.AuditActionInvoiceCreate,
			domain.AggregateTypeInvoice, invoice.ID, nil, invoice, now)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, ownerID, id)
}

// IssueInvoice moves a draft invoice to pending so it can take payments.
func (uc *InvoiceUseCase) IssueInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	return uc.transition(ctx, ownerID, id, domain.AuditActionInvoiceIssue, func(inv *domain.Invoice, now time.Time) error {
		return inv.Issue(now)
	})
}

// CancelInvoice closes an invoice that has no payments.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	return uc.transition(ctx, ownerID, id, domain.AuditActionInvoiceCancel, func(inv *domain.Invoice, now time.Time) error {
		return inv.Cancel(now)
	})
}

func (uc *InvoiceUseCase) transition(
	ctx context.Context,
	ownerID, id string,
	action domain.AuditAction,
	change func(inv *domain.Invoice, now time.Time) error,
) (*domain.Invoice, error) {
	var result *domain.Invoice
	err := uc.run(ctx, []string{invoiceLockKey(ownerID, id)}, func(ctx context.Context, tx Transaction) error {
		invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		before := *invoice

		now := time.Now().UTC()
		if err := change(invoice, now); err != nil {
			return err
		}
		if err := uc.invoiceRepo.UpdateStatus(ctx, tx, ownerID, id, invoice.Status, now); err != nil {
			return err
		}
		result = invoice

		if err := uc.emit(ctx, tx, ownerID, domain.AggregateTypeInvoice, id, domain.EventTypeInvoiceStatus,
			map[string]string{"invoice_id": id, "status": string(invoice.Status)}, now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, ownerID, action, domain.AggregateTypeInvoice, id, before, invoice, now)
	})
	uc.observe(string(action), err, func(m *metrics.Metrics) {
		m.InvoicesStatusChange.WithLabelValues(string(result.Status)).Inc()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPaymentInput represents a payment against an invoice.
type RecordPaymentInput struct {
	Date            time.Time
	ClientRequestID *string
	OwnerID         string
	InvoiceID       string
	AccountID       string
	PaymentMethod   string
	Description     string
	Amount          decimal.Decimal
}

// RecordPayment records a payment transaction linked to the invoice (and its
// party), replays the touched ledgers and recomputes the invoice's amount
// paid, balance due and status.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Invoice, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		uc.observe("payment", err, nil)
		return nil, err
	}

	planned, err := uc.invoiceRepo.GetByID(ctx, input.OwnerID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	impact := NewImpact()
	impact.Account(input.AccountID, input.Date)
	impact.Party(planned.PartyID, input.Date)
	impact.Invoice(&planned.ID)

	var (
		result   *domain.Invoice
		replayed bool
		applied  *Impact
	)
	err = uc.runIdempotent(ctx, input.ClientRequestID != nil, impact.LockKeys(input.OwnerID), func(ctx context.Context, tx Transaction) error {
		invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, input.OwnerID, input.InvoiceID)
		if err != nil {
			return err
		}
		if domain.Deref(invoice.PartyID) != domain.Deref(planned.PartyID) {
			return domain.ErrConcurrentModification
		}

		row := &domain.Transaction{
			OwnerID:         input.OwnerID,
			AccountID:       input.AccountID,
			PartyID:         invoice.PartyID,
			InvoiceID:       &invoice.ID,
			ClientRequestID: input.ClientRequestID,
			Type:            invoice.PaymentType(),
			Amount:          input.Amount,
			Date:            domain.NormalizeDate(input.Date),
			Description:     input.Description,
			PaymentMethod:   input.PaymentMethod,
		}
		if row.Description == "" {
			row.Description = "Payment for invoice " + invoice.Number
		}
		if err := validateFields(row); err != nil {
			return err
		}

		// A replayed request answers with the invoice as it is now, so the
		// terminal-state check only applies to new payments.
		if row.ClientRequestID != nil {
			existing, err := uc.txRepo.GetActiveByClientRequestID(ctx, tx, row.OwnerID, *row.ClientRequestID)
			if err != nil {
				return err
			}
			if existing != nil {
				if !existing.SamePayload(row) {
					return domain.ErrDuplicateRequest
				}
				result, replayed = invoice, true
				return nil
			}
		}

		if err := invoice.CheckPayment(input.Amount, uc.allowOverpayment); err != nil {
			return err
		}

		payment, _, rowImpact, err := uc.insertTransaction(ctx, tx, row)
		if err != nil {
			return err
		}
		applied = rowImpact

		updated, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, input.OwnerID, input.InvoiceID)
		if err != nil {
			return err
		}
		result = updated

		now := payment.CreatedAt
		event := domain.InvoicePaymentEvent{
			InvoiceID:     updated.ID,
			TransactionID: payment.ID,
			Amount:        payment.Amount.String(),
			AmountPaid:    updated.AmountPaid.String(),
			BalanceDue:    updated.BalanceDue.String(),
			Status:        string(updated.Status),
		}
		if err := uc.emit(ctx, tx, input.OwnerID, domain.AggregateTypeInvoice, updated.ID,
			domain.EventTypeInvoicePayment, event, now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, input.OwnerID, domain.AuditActionInvoicePayment,
			domain.AggregateTypeInvoice, updated.ID, invoice, updated, now)
	})
	uc.observe("payment", err, func(m *metrics.Metrics) {
		if replayed {
			m.IdempotentReplays.Inc()
			return
		}
		m.InvoicePayments.Inc()
		m.InvoicesStatusChange.WithLabelValues(string(result.Status)).Inc()
	})
	if err != nil {
		return nil, err
	}

	if applied != nil {
		uc.invalidate(ctx, input.OwnerID, applied)
	}
	return result, nil
}

// RefreshOverdue marks every pending invoice of the owner whose due date has
// passed as overdue. It returns how many invoices changed.
func (uc *InvoiceUseCase) RefreshOverdue(ctx context.Context, ownerID string, now time.Time) (int, error) {
	ids, err := uc.invoiceRepo.ListIDs(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		flipped := false
		err := uc.run(ctx, []string{invoiceLockKey(ownerID, id)}, func(ctx context.Context, tx Transaction) error {
			invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
			if err != nil {
				return err
			}
			if flipped = invoice.RefreshOverdue(now); !flipped {
				return nil
			}
			return uc.invoiceRepo.UpdateStatus(ctx, tx, ownerID, id, invoice.Status, now)
		})
		if err != nil {
			return changed, err
		}
		if flipped {
			changed++
		}
	}
	return changed, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// InvoiceRepository implements usecase.InvoiceRepository and
// usecase.InvoicePaymentWriter.
type InvoiceRepository struct {
	queries *generated.Queries
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db generated.DBTX) *InvoiceRepository {
	return &InvoiceRepository{queries: generated.New(db)}
}

// Create creates a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateInvoice(ctx, generated.CreateInvoiceParams{
		ID:         invoice.ID,
		OwnerID:    invoice.OwnerID,
		PartyID:    stringPtrToText(invoice.PartyID),
		Number:     invoice.Number,
		Kind:       string(invoice.Kind),
		Status:     string(invoice.Status),
		GrandTotal: decimalToNumeric(invoice.GrandTotal),
		AmountPaid: decimalToNumeric(invoice.AmountPaid),
		BalanceDue: decimalToNumeric(invoice.BalanceDue),
		IssueDate:  timeToPgTimestamptz(invoice.IssueDate),
		DueDate:    timePtrToPgTimestamptz(invoice.DueDate),
		CreatedAt:  timeToPgTimestamptz(invoice.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(invoice.UpdatedAt),
	})
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	row, err := r.queries.GetInvoiceByID(ctx, generated.GetInvoiceByIDParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return rowToInvoice(row), nil
}

// GetByIDForUpdate retrieves an invoice with a FOR UPDATE lock.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Invoice, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetInvoiceByIDForUpdate(ctx, generated.GetInvoiceByIDForUpdateParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return rowToInvoice(row), nil
}

// ListIDs returns the ids of all the owner's invoices.
func (r *InvoiceRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.ListInvoiceIDs(ctx, ownerID)
}

// UpdateStatus sets the invoice status.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, ownerID, id string, status domain.InvoiceStatus, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateInvoiceStatus(ctx, generated.UpdateInvoiceStatusParams{
		OwnerID:   ownerID,
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// UpdatePaymentState stores amount paid, balance due and status.
func (r *InvoiceRepository) UpdatePaymentState(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateInvoicePaymentState(ctx, generated.UpdateInvoicePaymentStateParams{
		OwnerID:    invoice.OwnerID,
		ID:         invoice.ID,
		AmountPaid: decimalToNumeric(invoice.AmountPaid),
		BalanceDue: decimalToNumeric(invoice.BalanceDue),
		Status:     string(invoice.Status),
		UpdatedAt:  timeToPgTimestamptz(invoice.UpdatedAt),
	})
}

func rowToInvoice(row generated.Invoice) *domain.Invoice {
	return &domain.Invoice{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		PartyID:    textToStringPtr(row.PartyID),
		Number:     row.Number,
		Kind:       domain.InvoiceKind(row.Kind),
		Status:     domain.InvoiceStatus(row.Status),
		GrandTotal: numericToDecimal(row.GrandTotal),
		AmountPaid: numericToDecimal(row.AmountPaid),
		BalanceDue: numericToDecimal(row.BalanceDue),
		IssueDate:  row.IssueDate.Time.UTC(),
		DueDate:    pgTimestamptzToTimePtr(row.DueDate),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

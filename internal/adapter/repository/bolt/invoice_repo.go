package bolt

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// InvoiceRepository implements usecase.InvoiceRepository and
// usecase.InvoicePaymentWriter.
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if err := putRecord(btx, bucketInvoices, invoice.ID, invoice); err != nil {
		return err
	}
	return btx.Bucket([]byte(idxOwnerInvoices)).Put(key(invoice.OwnerID, invoice.ID), nil)
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Invoice, error) {
	var invoice *domain.Invoice
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		var err error
		invoice, err = loadInvoice(btx, ownerID, id)
		return err
	})
	return invoice, err
}

// GetByIDForUpdate reads the invoice inside the write transaction.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Invoice, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return loadInvoice(btx, ownerID, id)
}

// ListIDs returns the ids of all the owner's invoices.
func (r *InvoiceRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return listOwnerIDs(ctx, r.db, idxOwnerInvoices, ownerID)
}

// UpdateStatus sets the invoice status.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, ownerID, id string, status domain.InvoiceStatus, updatedAt time.Time) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(btx, ownerID, id)
	if err != nil {
		return err
	}
	invoice.Status = status
	invoice.UpdatedAt = updatedAt
	return putRecord(btx, bucketInvoices, id, invoice)
}

// UpdatePaymentState stores amount paid, balance due and status.
func (r *InvoiceRepository) UpdatePaymentState(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	stored, err := loadInvoice(btx, invoice.OwnerID, invoice.ID)
	if err != nil {
		return err
	}
	stored.AmountPaid = invoice.AmountPaid
	stored.BalanceDue = invoice.BalanceDue
	stored.Status = invoice.Status
	stored.UpdatedAt = invoice.UpdatedAt
	return putRecord(btx, bucketInvoices, stored.ID, stored)
}

func loadInvoice(btx *bolt.Tx, ownerID, id string) (*domain.Invoice, error) {
	invoice, err := getRecord[domain.Invoice](btx, bucketInvoices, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.OwnerID != ownerID {
		return nil, domain.ErrInvoiceNotFound
	}
	return invoice, nil
}

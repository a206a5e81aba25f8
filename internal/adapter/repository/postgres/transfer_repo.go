package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create creates a new transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransfer(ctx, generated.CreateTransferParams{
		ID:                    transfer.ID,
		OwnerID:               transfer.OwnerID,
		FromAccountID:         transfer.FromAccountID,
		ToAccountID:           transfer.ToAccountID,
		Amount:                decimalToNumeric(transfer.Amount),
		Date:                  timeToPgTimestamptz(transfer.Date),
		Description:           transfer.Description,
		OutgoingTransactionID: transfer.OutgoingTransactionID,
		IncomingTransactionID: transfer.IncomingTransactionID,
		CreatedAt:             timeToPgTimestamptz(transfer.CreatedAt),
	})
}

// Update rewrites the mirrored amount, date and description of a transfer.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateTransfer(ctx, generated.UpdateTransferParams{
		OwnerID:     transfer.OwnerID,
		ID:          transfer.ID,
		Amount:      decimalToNumeric(transfer.Amount),
		Date:        timeToPgTimestamptz(transfer.Date),
		Description: transfer.Description,
	})
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, generated.GetTransferByIDParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToTransfer(row), nil
}

// ListByAccount lists transfers touching the account.
func (r *TransferRepository) ListByAccount(ctx context.Context, ownerID, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfersByAccount(ctx, generated.ListTransfersByAccountParams{
		OwnerID:   ownerID,
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers, nil
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:                    row.ID,
		OwnerID:               row.OwnerID,
		FromAccountID:         row.FromAccountID,
		ToAccountID:           row.ToAccountID,
		Amount:                numericToDecimal(row.Amount),
		Date:                  row.Date.Time.UTC(),
		Description:           row.Description,
		OutgoingTransactionID: row.OutgoingTransactionID,
		IncomingTransactionID: row.IncomingTransactionID,
		CreatedAt:             row.CreatedAt.Time,
	}
}

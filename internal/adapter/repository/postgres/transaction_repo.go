package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

const clientRequestConstraint = "ux_transactions_client_request"

// TransactionRepository implements usecase.TransactionRepository and
// usecase.TransactionBalanceWriter.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts the row. The database assigns its sequence.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	seq, err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:                      t.ID,
		OwnerID:                 t.OwnerID,
		AccountID:               t.AccountID,
		PartyID:                 stringPtrToText(t.PartyID),
		CategoryID:              stringPtrToText(t.CategoryID),
		InvoiceID:               stringPtrToText(t.InvoiceID),
		TransferID:              stringPtrToText(t.TransferID),
		TransferDirection:       string(t.TransferDirection),
		ClientRequestID:         stringPtrToText(t.ClientRequestID),
		Type:                    string(t.Type),
		Amount:                  decimalToNumeric(t.Amount),
		Date:                    timeToPgTimestamptz(t.Date),
		Description:             t.Description,
		Notes:                   t.Notes,
		PaymentMethod:           t.PaymentMethod,
		State:                   string(t.State),
		BalanceAfterTransaction: decimalToNumeric(t.BalanceAfterTransaction),
		PartyBalanceAfter:       decimalPtrToNumeric(t.PartyBalanceAfter),
		CreatedAt:               timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:               timeToPgTimestamptz(t.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err, clientRequestConstraint) {
			return usecase.ErrClientRequestIDTaken
		}
		return err
	}

	t.Sequence = seq
	return nil
}

// GetByID retrieves a transaction by ID, deleted or not.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, generated.GetTransactionByIDParams{OwnerID: ownerID, ID: id})
	return oneTransaction(row, err)
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	row, err := queries.GetTransactionByIDForUpdate(ctx, generated.GetTransactionByIDForUpdateParams{OwnerID: ownerID, ID: id})
	return oneTransaction(row, err)
}

// GetActiveByClientRequestID returns the active row holding the key, or nil.
func (r *TransactionRepository) GetActiveByClientRequestID(ctx context.Context, tx usecase.Transaction, ownerID, clientRequestID string) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	row, err := queries.GetActiveTransactionByClientRequestID(ctx, generated.GetActiveTransactionByClientRequestIDParams{
		OwnerID:         ownerID,
		ClientRequestID: pgtype.Text{String: clientRequestID, Valid: true},
	})
	return optionalTransaction(row, err)
}

// Update writes caller-owned fields and the soft-delete state. Balance
// snapshots are left to the ledger engine.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.UpdateTransaction(ctx, generated.UpdateTransactionParams{
		OwnerID:         t.OwnerID,
		ID:              t.ID,
		AccountID:       t.AccountID,
		PartyID:         stringPtrToText(t.PartyID),
		CategoryID:      stringPtrToText(t.CategoryID),
		InvoiceID:       stringPtrToText(t.InvoiceID),
		ClientRequestID: stringPtrToText(t.ClientRequestID),
		Type:            string(t.Type),
		Amount:          decimalToNumeric(t.Amount),
		Date:            timeToPgTimestamptz(t.Date),
		Description:     t.Description,
		Notes:           t.Notes,
		PaymentMethod:   t.PaymentMethod,
		State:           string(t.State),
		DeletedAt:       timePtrToPgTimestamptz(t.DeletedAt),
		RestoredAt:      timePtrToPgTimestamptz(t.RestoredAt),
		UpdatedAt:       timeToPgTimestamptz(t.UpdatedAt),
	})
	if isUniqueViolation(err, clientRequestConstraint) {
		return usecase.ErrClientRequestIDTaken
	}
	return err
}

// ListActiveByAccount returns active rows in ledger order from the given date.
func (r *TransactionRepository) ListActiveByAccount(ctx context.Context, tx usecase.Transaction, ownerID, accountID string, from *time.Time) ([]*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	rows, err := queries.ListActiveTransactionsByAccount(ctx, generated.ListActiveTransactionsByAccountParams{
		OwnerID:   ownerID,
		AccountID: accountID,
		From:      timePtrToPgTimestamptz(from),
	})
	return manyTransactions(rows, err)
}

// LastActiveBeforeOnAccount returns the last active row dated before the
// given time, or nil.
func (r *TransactionRepository) LastActiveBeforeOnAccount(ctx context.Context, tx usecase.Transaction, ownerID, accountID string, before time.Time) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	row, err := queries.LastActiveTransactionBeforeOnAccount(ctx, generated.LastActiveTransactionBeforeOnAccountParams{
		OwnerID:   ownerID,
		AccountID: accountID,
		Before:    timeToPgTimestamptz(before),
	})
	return optionalTransaction(row, err)
}

// ListActiveByParty returns active party rows in ledger order.
func (r *TransactionRepository) ListActiveByParty(ctx context.Context, tx usecase.Transaction, ownerID, partyID string, from *time.Time) ([]*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	rows, err := queries.ListActiveTransactionsByParty(ctx, generated.ListActiveTransactionsByPartyParams{
		OwnerID: ownerID,
		PartyID: pgtype.Text{String: partyID, Valid: true},
		From:    timePtrToPgTimestamptz(from),
	})
	return manyTransactions(rows, err)
}

// LastActiveBeforeOnParty returns the last active party row dated before the
// given time, or nil.
func (r *TransactionRepository) LastActiveBeforeOnParty(ctx context.Context, tx usecase.Transaction, ownerID, partyID string, before time.Time) (*domain.Transaction, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}
	row, err := queries.LastActiveTransactionBeforeOnParty(ctx, generated.LastActiveTransactionBeforeOnPartyParams{
		OwnerID: ownerID,
		PartyID: pgtype.Text{String: partyID, Valid: true},
		Before:  timeToPgTimestamptz(before),
	})
	return optionalTransaction(row, err)
}

// SumActiveByInvoice sums the amounts of active payments linked to an invoice.
func (r *TransactionRepository) SumActiveByInvoice(ctx context.Context, tx usecase.Transaction, ownerID, invoiceID string) (decimal.Decimal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return decimal.Zero, err
	}
	total, err := queries.SumActivePaymentsByInvoice(ctx, generated.SumActivePaymentsByInvoiceParams{
		OwnerID:   ownerID,
		InvoiceID: pgtype.Text{String: invoiceID, Valid: true},
	})
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(total), nil
}

// DistinctAccountIDs returns account ids referenced by active rows.
func (r *TransactionRepository) DistinctAccountIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.DistinctActiveAccountIDs(ctx, ownerID)
}

// DistinctPartyIDs returns party ids referenced by active rows.
func (r *TransactionRepository) DistinctPartyIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.DistinctActivePartyIDs(ctx, ownerID)
}

// ListByAccount lists the account's rows in ledger order.
func (r *TransactionRepository) ListByAccount(ctx context.Context, ownerID, accountID string, includeDeleted bool, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		OwnerID:        ownerID,
		AccountID:      accountID,
		IncludeDeleted: includeDeleted,
		Limit:          int32(limit),
		Offset:         int32(offset),
	})
	return manyTransactions(rows, err)
}

// UpdateBalances writes account balance snapshots in one statement.
func (r *TransactionRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, ownerID string, changes []domain.BalanceChange) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}
	ids, balances := splitChanges(changes)
	return queries.UpdateBalanceSnapshots(ctx, generated.UpdateBalanceSnapshotsParams{
		OwnerID:  ownerID,
		Ids:      ids,
		Balances: balances,
	})
}

// UpdatePartyBalances writes party balance snapshots in one statement.
func (r *TransactionRepository) UpdatePartyBalances(ctx context.Context, tx usecase.Transaction, ownerID string, changes []domain.BalanceChange) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}
	ids, balances := splitChanges(changes)
	return queries.UpdatePartyBalanceSnapshots(ctx, generated.UpdatePartyBalanceSnapshotsParams{
		OwnerID:  ownerID,
		Ids:      ids,
		Balances: balances,
	})
}

func splitChanges(changes []domain.BalanceChange) ([]string, []pgtype.Numeric) {
	ids := make([]string, len(changes))
	balances := make([]pgtype.Numeric, len(changes))
	for i, c := range changes {
		ids[i] = c.TransactionID
		balances[i] = decimalToNumeric(c.Balance)
	}
	return ids, balances
}

func oneTransaction(row generated.Transaction, err error) (*domain.Transaction, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return rowToTransaction(row), nil
}

func optionalTransaction(row generated.Transaction, err error) (*domain.Transaction, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

func manyTransactions(rows []generated.Transaction, err error) ([]*domain.Transaction, error) {
	if err != nil {
		return nil, err
	}
	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, rowToTransaction(row))
	}
	return txs, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:                      row.ID,
		OwnerID:                 row.OwnerID,
		AccountID:               row.AccountID,
		PartyID:                 textToStringPtr(row.PartyID),
		CategoryID:              textToStringPtr(row.CategoryID),
		InvoiceID:               textToStringPtr(row.InvoiceID),
		TransferID:              textToStringPtr(row.TransferID),
		TransferDirection:       domain.TransferDirection(row.TransferDirection),
		ClientRequestID:         textToStringPtr(row.ClientRequestID),
		Type:                    domain.TransactionType(row.Type),
		Amount:                  numericToDecimal(row.Amount),
		Date:                    row.Date.Time.UTC(),
		Sequence:                row.Seq,
		Description:             row.Description,
		Notes:                   row.Notes,
		PaymentMethod:           row.PaymentMethod,
		State:                   domain.TransactionState(row.State),
		BalanceAfterTransaction: numericToDecimal(row.BalanceAfterTransaction),
		PartyBalanceAfter:       numericToDecimalPtr(row.PartyBalanceAfter),
		DeletedAt:               pgTimestamptzToTimePtr(row.DeletedAt),
		RestoredAt:              pgTimestamptzToTimePtr(row.RestoredAt),
		CreatedAt:               row.CreatedAt.Time,
		UpdatedAt:               row.UpdatedAt.Time,
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

const testOwner = "owner-1"

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(ledgerTxOptions)
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func newTestTransaction() *domain.Transaction {
	requestID := "req-1"
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:              "tx-1",
		OwnerID:         testOwner,
		AccountID:       "acct-1",
		ClientRequestID: &requestID,
		Type:            domain.TransactionTypeCredit,
		Amount:          decimal.NewFromInt(500),
		Date:            now,
		State:           domain.TransactionStateActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestAccountGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM accounts WHERE owner_id").
		WithArgs(testOwner, "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewAccountRepository(pool).GetByID(context.Background(), testOwner, "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if domain.KindOf(err) != domain.ErrNotFound {
		t.Fatalf("expected not found kind, got %v", domain.KindOf(err))
	}
	assertExpectations(t, pool)
}

func TestInvoiceGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM invoices WHERE owner_id").
		WithArgs(testOwner, "inv-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewInvoiceRepository(pool).GetByID(context.Background(), testOwner, "inv-1")
	if !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
	assertExpectations(t, pool)
}

func TestTransactionCreateAssignsSequence(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	pool.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	row := newTestTransaction()
	if err := NewTransactionRepository(pool).Create(context.Background(), tx, row); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if row.Sequence != 42 {
		t.Fatalf("expected sequence 42, got %d", row.Sequence)
	}
	assertExpectations(t, pool)
}

func TestTransactionCreateMapsClientRequestConflict(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	pool.ExpectQuery("INSERT INTO transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: clientRequestConstraint})

	err := NewTransactionRepository(pool).Create(context.Background(), tx, newTestTransaction())
	if !errors.Is(err, usecase.ErrClientRequestIDTaken) {
		t.Fatalf("expected ErrClientRequestIDTaken, got %v", err)
	}
	assertExpectations(t, pool)
}

func TestTransactionCreateKeepsOtherUniqueViolations(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	pgErr := &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "transactions_pkey"}
	pool.ExpectQuery("INSERT INTO transactions").WillReturnError(pgErr)

	err := NewTransactionRepository(pool).Create(context.Background(), tx, newTestTransaction())
	if errors.Is(err, usecase.ErrClientRequestIDTaken) {
		t.Fatalf("primary key violation must not look like a request id conflict")
	}
	if !errors.Is(err, pgErr) {
		t.Fatalf("expected the driver error, got %v", err)
	}
}

func TestTransactionUpdateMapsClientRequestConflict(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	pool.ExpectExec("UPDATE transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: clientRequestConstraint})

	err := NewTransactionRepository(pool).Update(context.Background(), tx, newTestTransaction())
	if !errors.Is(err, usecase.ErrClientRequestIDTaken) {
		t.Fatalf("expected ErrClientRequestIDTaken, got %v", err)
	}
}

func TestTransactionUpdateBalancesSendsOneStatement(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	pool.ExpectExec("UPDATE transactions AS t").
		WithArgs(testOwner, []string{"tx-1", "tx-2"}, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	changes := []domain.BalanceChange{
		{TransactionID: "tx-1", Balance: decimal.NewFromInt(1000)},
		{TransactionID: "tx-2", Balance: decimal.NewFromInt(800)},
	}
	if err := NewTransactionRepository(pool).UpdateBalances(context.Background(), tx, testOwner, changes); err != nil {
		t.Fatalf("update balances failed: %v", err)
	}
	assertExpectations(t, pool)
}

func TestTransferUpdateRewritesMirroredFields(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	pool.ExpectExec("UPDATE transfers").
		WithArgs(testOwner, "tr-1", pgxmock.AnyArg(), pgxmock.AnyArg(), "rent share").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	transfer := &domain.Transfer{
		ID:          "tr-1",
		OwnerID:     testOwner,
		Amount:      decimal.NewFromInt(250),
		Date:        date,
		Description: "rent share",
	}
	if err := NewTransferRepository(pool).Update(context.Background(), tx, transfer); err != nil {
		t.Fatalf("update transfer failed: %v", err)
	}
	assertExpectations(t, pool)
}

func TestTransactionDistinctAccountIDs(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT DISTINCT account_id FROM transactions").
		WithArgs(testOwner).
		WillReturnRows(pgxmock.NewRows([]string{"account_id"}).AddRow("acct-1").AddRow("acct-2"))

	ids, err := NewTransactionRepository(pool).DistinctAccountIDs(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "acct-1" || ids[1] != "acct-2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	assertExpectations(t, pool)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestRepositoriesRejectForeignTransaction(t *testing.T) {
	pool := newMockPool(t)

	err := NewTransactionRepository(pool).Create(context.Background(), foreignTx{}, newTestTransaction())
	if !errors.Is(err, ErrForeignTransaction) {
		t.Fatalf("expected ErrForeignTransaction, got %v", err)
	}

	_, err = NewAccountRepository(pool).GetByIDForUpdate(context.Background(), foreignTx{}, testOwner, "acct-1")
	if !errors.Is(err, ErrForeignTransaction) {
		t.Fatalf("expected ErrForeignTransaction, got %v", err)
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1300", "-200.55", "0.0001"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("expected %s, got %s", d, got)
		}
	}
	if got := numericToDecimalPtr(decimalPtrToNumeric(nil)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/adapter/lock"
	"github.com/iho/cashbook/internal/adapter/repository/bolt"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

const owner = "owner-1"

type harness struct {
	store        usecase.Store
	deps         usecase.LedgerDeps
	accounts     *usecase.AccountUseCase
	parties      *usecase.PartyUseCase
	transactions *usecase.TransactionUseCase
	transfers    *usecase.TransferUseCase
	invoices     *usecase.InvoiceUseCase
	recalc       *usecase.RecalculationUseCase
	reconcile    *usecase.ReconciliationUseCase
	cache        *mocks.MemoryCache
}

type harnessOption func(*usecase.LedgerDeps, *domain.PartyConvention)

func withConvention(c domain.PartyConvention) harnessOption {
	return func(_ *usecase.LedgerDeps, conv *domain.PartyConvention) { *conv = c }
}

func withStore(wrap func(usecase.Store) usecase.Store) harnessOption {
	return func(deps *usecase.LedgerDeps, _ *domain.PartyConvention) { deps.Store = wrap(deps.Store) }
}

func withOverpayment() harnessOption {
	return func(deps *usecase.LedgerDeps, _ *domain.PartyConvention) { deps.AllowOverpayment = true }
}

func withLocker(l usecase.Locker) harnessOption {
	return func(deps *usecase.LedgerDeps, _ *domain.PartyConvention) { deps.Locker = l }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cache := mocks.NewMemoryCache()
	deps := usecase.LedgerDeps{
		Store:   bolt.NewStore(db),
		Locker:  lock.NewKeyedMutex(),
		Cache:   cache,
		IDGen:   mocks.NewSequentialIDGenerator("id"),
		Metrics: metrics.NewWithRegisterer(prometheus.NewRegistry()),
		Logger:  zerolog.Nop(),
	}
	convention := domain.PartyConventionAccount
	for _, opt := range opts {
		opt(&deps, &convention)
	}
	deps.Engine = usecase.NewLedgerEngine(deps.Store, convention)

	return &harness{
		store:        deps.Store,
		deps:         deps,
		accounts:     usecase.NewAccountUseCase(deps),
		parties:      usecase.NewPartyUseCase(deps),
		transactions: usecase.NewTransactionUseCase(deps),
		transfers:    usecase.NewTransferUseCase(deps),
		invoices:     usecase.NewInvoiceUseCase(deps),
		recalc:       usecase.NewRecalculationUseCase(deps),
		reconcile:    usecase.NewReconciliationUseCase(deps.Store),
		cache:        cache,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func (h *harness) account(t *testing.T, opening int64) *domain.Account {
	t.Helper()
	acc, err := h.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		OwnerID:        owner,
		Name:           "Cash",
		OpeningBalance: amount(opening),
	})
	require.NoError(t, err)
	return acc
}

func (h *harness) party(t *testing.T, opening int64) *domain.Party {
	t.Helper()
	p, err := h.parties.CreateParty(context.Background(), usecase.CreatePartyInput{
		OwnerID:        owner,
		Name:           "Acme",
		Kind:           domain.PartyKindCustomer,
		OpeningBalance: amount(opening),
	})
	require.NoError(t, err)
	return p
}

func (h *harness) record(t *testing.T, accountID string, typ domain.TransactionType, v int64, date time.Time) *domain.Transaction {
	t.Helper()
	row, err := h.transactions.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		OwnerID:   owner,
		AccountID: accountID,
		Type:      typ,
		Amount:    amount(v),
		Date:      date,
	})
	require.NoError(t, err)
	return row
}

// balance reads the stored current balance, bypassing the read-model cache.
func (h *harness) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := h.store.Accounts.GetByID(context.Background(), owner, accountID)
	require.NoError(t, err)
	return acc.CurrentBalance
}

func (h *harness) snapshot(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	row, err := h.store.Transactions.GetByID(context.Background(), owner, id)
	require.NoError(t, err)
	return row.BalanceAfterTransaction
}

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(amount(want)), "expected %d, got %s", want, got)
}

// requireConsistent asserts that a full replay of every ledger finds nothing
// to rewrite.
func (h *harness) requireConsistent(t *testing.T) {
	t.Helper()
	report, err := h.recalc.RecalculateForOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, report.Skipped)
	require.Zero(t, report.TransactionsUpdated, "incremental replay left stale snapshots")
}

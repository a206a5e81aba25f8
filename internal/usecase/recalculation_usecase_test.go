package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

// corrupt overwrites stored balances the way a buggy import would.
func (h *harness) corrupt(t *testing.T, accountID, txID string, snapshot, current int64) {
	t.Helper()
	ctx := context.Background()
	tx, err := h.store.TxManager.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, h.store.TxBalances.UpdateBalances(ctx, tx, owner, []domain.BalanceChange{
		{TransactionID: txID, Balance: amount(snapshot)},
	}))
	require.NoError(t, h.store.AccountBalances.UpdateCurrentBalance(ctx, tx, owner, accountID, amount(current), day(1)))
	require.NoError(t, tx.Commit(ctx))
}

func TestRecalculationUseCase_RepairsCorruptedBalances(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 1000)
	h.record(t, acc.ID, domain.TransactionTypeCredit, 500, day(3))
	debit := h.record(t, acc.ID, domain.TransactionTypeDebit, 200, day(2))

	h.corrupt(t, acc.ID, debit.ID, 12345, 99)

	res, err := h.reconcile.ReconcileAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.False(t, res.IsReconciled)
	assert.Equal(t, 1, res.StaleSnapshots)
	requireDecimal(t, 1300, res.CalculatedBalance)
	requireDecimal(t, 99-1300, res.Difference)

	report, err := h.recalc.RecalculateForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AccountsProcessed)
	assert.Equal(t, 1, report.TransactionsUpdated)
	assert.False(t, report.Interrupted)
	require.Len(t, report.Accounts, 1)
	assert.Equal(t, "1300", report.Accounts[0].Balance)

	requireDecimal(t, 800, h.snapshot(t, debit.ID))
	requireDecimal(t, 1300, h.balance(t, acc.ID))

	res, err = h.reconcile.ReconcileAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.True(t, res.IsReconciled)

	// a second run has nothing left to do
	h.requireConsistent(t)
}

func TestRecalculationUseCase_RecalculateAccountRepairsOneLedger(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 100)
	row := h.record(t, acc.ID, domain.TransactionTypeCredit, 50, day(2))
	h.corrupt(t, acc.ID, row.ID, 7, 7)

	got, err := h.recalc.RecalculateAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "150", got.Balance)
	assert.Equal(t, 1, got.TransactionsUpdated)
	requireDecimal(t, 150, h.snapshot(t, row.ID))
	requireDecimal(t, 150, h.balance(t, acc.ID))
}

func TestRecalculationUseCase_SkipsDanglingLedgers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 10)
	h.record(t, acc.ID, domain.TransactionTypeCredit, 5, day(1))

	tx, err := h.store.TxManager.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, h.store.Transactions.Create(ctx, tx, &domain.Transaction{
		ID:        "orphan",
		OwnerID:   owner,
		AccountID: "ghost",
		PartyID:   domain.Ref("vanished"),
		Type:      domain.TransactionTypeCredit,
		Amount:    amount(5),
		Date:      day(1),
		State:     domain.TransactionStateActive,
	}))
	require.NoError(t, tx.Commit(ctx))

	report, err := h.recalc.RecalculateForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AccountsProcessed)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, usecase.SkippedLedger{ID: "ghost", Kind: "account", Reason: report.Skipped[0].Reason}, report.Skipped[0])
	assert.Equal(t, "vanished", report.Skipped[1].ID)
	assert.Equal(t, "party", report.Skipped[1].Kind)

	// asking for the missing account directly is a plain lookup miss
	_, err = h.recalc.RecalculateAccount(ctx, owner, "ghost")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRecalculationUseCase_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(t, withStore(func(s usecase.Store) usecase.Store {
		s.Accounts = &mocks.MockAccountRepository{
			AccountRepository: s.Accounts,
			ListIDsFunc: func(_ context.Context, _ string) ([]string, error) {
				cancel()
				return []string{"a", "b"}, nil
			},
		}
		return s
	}))

	report, err := h.recalc.RecalculateForOwner(ctx, owner)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Interrupted)
	assert.Zero(t, report.AccountsProcessed)
}

func TestReconciliationUseCase_CheckOwnerReportsOnlyDrift(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	clean := h.account(t, 50)
	h.record(t, clean.ID, domain.TransactionTypeCredit, 5, day(1))
	dirty := h.account(t, 0)
	row := h.record(t, dirty.ID, domain.TransactionTypeCredit, 7, day(1))

	h.corrupt(t, dirty.ID, row.ID, 7, 8)

	drifted, err := h.reconcile.CheckOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, drifted, 1)
	assert.Equal(t, dirty.ID, drifted[0].AccountID)
	assert.Zero(t, drifted[0].StaleSnapshots)
	requireDecimal(t, 1, drifted[0].Difference)
}

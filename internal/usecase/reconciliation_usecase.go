package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// ReconciliationUseCase compares stored balances with a fresh replay without
// writing anything.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(store Store) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   store.TxManager,
		accountRepo: store.Accounts,
		txRepo:      store.Transactions,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	StaleSnapshots    int
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount replays an account in a read-only transaction and reports
// how far its stored balances drifted.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, ownerID, accountID string) (*ReconciliationResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := uc.txRepo.ListActiveByAccount(txCtx, tx, ownerID, accountID, nil)
	if err != nil {
		return nil, err
	}

	res := domain.ReplayAccount(account.OpeningBalance, rows)
	diff := account.CurrentBalance.Sub(res.Final)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: res.Final,
		Difference:        diff,
		StaleSnapshots:    len(res.Changes),
		IsReconciled:      diff.IsZero() && len(res.Changes) == 0,
		LastChecked:       time.Now().UTC(),
	}, nil
}

// CheckOwner reconciles every account of the owner and returns the ones that
// drifted.
func (uc *ReconciliationUseCase) CheckOwner(ctx context.Context, ownerID string) ([]*ReconciliationResult, error) {
	ids, err := uc.accountRepo.ListIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var drifted []*ReconciliationResult
	for _, id := range ids {
		res, err := uc.ReconcileAccount(ctx, ownerID, id)
		if err != nil {
			return drifted, err
		}
		if !res.IsReconciled {
			drifted = append(drifted, res)
		}
	}
	return drifted, nil
}

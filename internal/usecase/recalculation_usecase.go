package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iho/cashbook/internal/domain"
)

// RecalculationUseCase re-derives every running balance of an owner from
// scratch. Used for repair, after imports and after migrations.
type RecalculationUseCase struct {
	ledgerWriter
}

// NewRecalculationUseCase creates a new RecalculationUseCase.
func NewRecalculationUseCase(deps LedgerDeps) *RecalculationUseCase {
	return &RecalculationUseCase{ledgerWriter: newLedgerWriter(deps)}
}

// LedgerRecalculation is the outcome for one account or party.
type LedgerRecalculation struct {
	ID                  string `json:"id"`
	Balance             string `json:"balance"`
	TransactionsVisited int    `json:"transactions_visited"`
	TransactionsUpdated int    `json:"transactions_updated"`
}

// SkippedLedger is a ledger left untouched because of an integrity error.
type SkippedLedger struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// RecalculationReport summarises a RecalculateForOwner run.
type RecalculationReport struct {
	OwnerID             string                `json:"owner_id"`
	AccountsProcessed   int                   `json:"accounts_processed"`
	PartiesProcessed    int                   `json:"parties_processed"`
	InvoicesProcessed   int                   `json:"invoices_processed"`
	TransactionsUpdated int                   `json:"transactions_updated"`
	Accounts            []LedgerRecalculation `json:"accounts"`
	Parties             []LedgerRecalculation `json:"parties"`
	Skipped             []SkippedLedger       `json:"skipped"`
	Interrupted         bool                  `json:"interrupted"`
	Duration            time.Duration         `json:"duration"`
}

// RecalculateForOwner replays every account of the owner, then every party,
// then refreshes every invoice's payment state. Each ledger is replayed in
// its own unit of work so a failure never leaves one half written. Ledgers
// that hit an integrity error are skipped and reported; other ledgers still
// run. Cancellation is honoured between ledgers; a run stopped by it is
// marked interrupted and keeps every ledger committed so far.
func (uc *RecalculationUseCase) RecalculateForOwner(ctx context.Context, ownerID string) (report *RecalculationReport, err error) {
	start := time.Now()
	report = &RecalculationReport{
		OwnerID:  ownerID,
		Accounts: []LedgerRecalculation{},
		Parties:  []LedgerRecalculation{},
		Skipped:  []SkippedLedger{},
	}

	defer func() {
		if err != nil && ctx.Err() != nil {
			report.Interrupted = true
		}
		report.Duration = time.Since(start)
		if uc.metrics != nil {
			uc.metrics.RecalculationRuns.Inc()
			uc.metrics.RecalculationDuration.Observe(report.Duration.Seconds())
			uc.metrics.RecalculationSkipped.Add(float64(len(report.Skipped)))
			uc.metrics.BalanceSnapshotsWritten.Add(float64(report.TransactionsUpdated))
		}
	}()

	accountIDs, err := uc.ledgerIDs(ctx, ownerID, uc.accountRepo.ListIDs, uc.txRepo.DistinctAccountIDs)
	if err != nil {
		return report, err
	}
	for _, id := range accountIDs {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			return report, err
		}

		rec, err := uc.recalculate(ctx, accountLockKey(ownerID, id), func(ctx context.Context, tx Transaction) (Recalculation, error) {
			return uc.engine.RecalculateAccount(ctx, tx, ownerID, id, nil)
		})
		if err != nil {
			if skip := uc.skip(ownerID, "account", id, err); skip != nil {
				report.Skipped = append(report.Skipped, *skip)
				continue
			}
			return report, err
		}
		report.AccountsProcessed++
		report.TransactionsUpdated += rec.Updated
		report.Accounts = append(report.Accounts, toLedgerRecalculation(rec))
	}

	partyIDs, err := uc.ledgerIDs(ctx, ownerID, uc.partyRepo.ListIDs, uc.txRepo.DistinctPartyIDs)
	if err != nil {
		return report, err
	}
	for _, id := range partyIDs {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			return report, err
		}

		rec, err := uc.recalculate(ctx, partyLockKey(ownerID, id), func(ctx context.Context, tx Transaction) (Recalculation, error) {
			return uc.engine.RecalculateParty(ctx, tx, ownerID, id, nil)
		})
		if err != nil {
			if skip := uc.skip(ownerID, "party", id, err); skip != nil {
				report.Skipped = append(report.Skipped, *skip)
				continue
			}
			return report, err
		}
		report.PartiesProcessed++
		report.TransactionsUpdated += rec.Updated
		report.Parties = append(report.Parties, toLedgerRecalculation(rec))
	}

	invoiceIDs, err := uc.invoiceRepo.ListIDs(ctx, ownerID)
	if err != nil {
		return report, err
	}
	for _, id := range invoiceIDs {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			return report, err
		}
		err := uc.run(ctx, []string{invoiceLockKey(ownerID, id)}, func(ctx context.Context, tx Transaction) error {
			_, err := uc.engine.RecomputeInvoice(ctx, tx, ownerID, id)
			return err
		})
		if err != nil {
			return report, err
		}
		report.InvoicesProcessed++
	}

	summary := domain.LedgerRecalculatedEvent{
		AccountsProcessed:   report.AccountsProcessed,
		PartiesProcessed:    report.PartiesProcessed,
		TransactionsUpdated: report.TransactionsUpdated,
		Skipped:             len(report.Skipped),
	}
	err = uc.run(ctx, nil, func(ctx context.Context, tx Transaction) error {
		now := time.Now().UTC()
		if err := uc.emit(ctx, tx, ownerID, domain.AggregateTypeAccount, ownerID,
			domain.EventTypeLedgerRecalculated, summary, now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, ownerID, domain.AuditActionLedgerRecalculate, "owner", ownerID, nil, summary, now)
	})
	if err != nil {
		return report, err
	}

	if uc.cache != nil {
		impact := NewImpact()
		for _, rec := range report.Accounts {
			impact.Account(rec.ID, time.Time{})
		}
		for _, rec := range report.Parties {
			impact.Party(&rec.ID, time.Time{})
		}
		uc.invalidate(ctx, ownerID, impact)
	}

	uc.logger.Info().
		Str("owner_id", ownerID).
		Int("accounts", report.AccountsProcessed).
		Int("parties", report.PartiesProcessed).
		Int("transactions_updated", report.TransactionsUpdated).
		Int("skipped", len(report.Skipped)).
		Dur("duration", time.Since(start)).
		Msg("ledger recalculated")

	return report, nil
}

// RecalculateAccount fully replays a single account.
func (uc *RecalculationUseCase) RecalculateAccount(ctx context.Context, ownerID, accountID string) (*LedgerRecalculation, error) {
	if _, err := uc.accountRepo.GetByID(ctx, ownerID, accountID); err != nil {
		return nil, err
	}
	rec, err := uc.recalculate(ctx, accountLockKey(ownerID, accountID), func(ctx context.Context, tx Transaction) (Recalculation, error) {
		return uc.engine.RecalculateAccount(ctx, tx, ownerID, accountID, nil)
	})
	if err != nil {
		return nil, err
	}

	impact := NewImpact()
	impact.Account(accountID, time.Time{})
	uc.invalidate(ctx, ownerID, impact)

	out := toLedgerRecalculation(rec)
	return &out, nil
}

func (uc *RecalculationUseCase) recalculate(
	ctx context.Context,
	lockKey string,
	fn func(ctx context.Context, tx Transaction) (Recalculation, error),
) (Recalculation, error) {
	var rec Recalculation
	err := uc.run(ctx, []string{lockKey}, func(ctx context.Context, tx Transaction) error {
		var err error
		rec, err = fn(ctx, tx)
		return err
	})
	return rec, err
}

// skip turns an integrity error into a report entry; any other error is
// returned as nil so the caller aborts.
func (uc *RecalculationUseCase) skip(ownerID, kind, id string, err error) *SkippedLedger {
	if !errors.Is(err, domain.ErrIntegrity) {
		return nil
	}
	uc.logger.Error().
		Err(err).
		Str("owner_id", ownerID).
		Str("ledger", kind).
		Str("id", id).
		Msg("skipping ledger with integrity error")
	return &SkippedLedger{ID: id, Kind: kind, Reason: err.Error()}
}

// ledgerIDs merges the ids of existing entities with those still referenced by
// transactions, so rows pointing at a vanished entity surface as integrity
// errors instead of going unnoticed.
func (uc *RecalculationUseCase) ledgerIDs(
	ctx context.Context,
	ownerID string,
	listed, referenced func(ctx context.Context, ownerID string) ([]string, error),
) ([]string, error) {
	a, err := listed(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	b, err := referenced(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(a)+len(b))
	ids := make([]string, 0, len(a)+len(b))
	for _, id := range append(a, b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func toLedgerRecalculation(rec Recalculation) LedgerRecalculation {
	return LedgerRecalculation{
		ID:                  rec.ID,
		Balance:             rec.Final.String(),
		TransactionsVisited: rec.Visited,
		TransactionsUpdated: rec.Updated,
	}
}

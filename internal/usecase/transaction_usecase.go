package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// TransactionUseCase manages the lifecycle of ledger transactions and keeps
// every affected running balance consistent.
type TransactionUseCase struct {
	ledgerWriter
	transferRepo TransferRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(deps LedgerDeps) *TransactionUseCase {
	return &TransactionUseCase{
		ledgerWriter: newLedgerWriter(deps),
		transferRepo: deps.Store.Transfers,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	Date            time.Time
	PartyID         *string
	CategoryID      *string
	ClientRequestID *string
	OwnerID         string
	AccountID       string
	Description     string
	Notes           string
	PaymentMethod   string
	Type            domain.TransactionType
	Amount          decimal.Decimal
}

func (in CreateTransactionInput) transaction() *domain.Transaction {
	return &domain.Transaction{
		OwnerID:         in.OwnerID,
		AccountID:       in.AccountID,
		PartyID:         in.PartyID,
		CategoryID:      in.CategoryID,
		ClientRequestID: in.ClientRequestID,
		Type:            in.Type,
		Amount:          in.Amount,
		Date:            in.Date,
		Description:     in.Description,
		Notes:           in.Notes,
		PaymentMethod:   in.PaymentMethod,
		State:           domain.TransactionStateActive,
	}
}

// UpdateTransactionInput carries a partial edit. Nil fields are left alone.
type UpdateTransactionInput struct {
	Date          *time.Time
	AccountID     *string
	PartyID       *string
	CategoryID    *string
	Description   *string
	Notes         *string
	PaymentMethod *string
	Type          *domain.TransactionType
	Amount        *decimal.Decimal
	OwnerID       string
	ID            string
	ClearParty    bool
	ClearCategory bool
}

// apply edits t in place and reports whether a balance-affecting field
// (amount, type, date, account or party) changed.
func (in UpdateTransactionInput) apply(t *domain.Transaction) bool {
	before := t.Clone()

	if in.AccountID != nil {
		t.AccountID = *in.AccountID
	}
	if in.ClearParty {
		t.PartyID = nil
	} else if in.PartyID != nil {
		t.PartyID = domain.Ref(*in.PartyID)
	}
	if in.ClearCategory {
		t.CategoryID = nil
	} else if in.CategoryID != nil {
		t.CategoryID = domain.Ref(*in.CategoryID)
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Date != nil {
		t.Date = domain.NormalizeDate(*in.Date)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if in.PaymentMethod != nil {
		t.PaymentMethod = *in.PaymentMethod
	}

	return before.AccountID != t.AccountID ||
		domain.Deref(before.PartyID) != domain.Deref(t.PartyID) ||
		before.Type != t.Type ||
		!before.Amount.Equal(t.Amount) ||
		!before.Date.Equal(t.Date)
}

func validateFields(t *domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := domain.ValidateText("description", t.Description); err != nil {
		return err
	}
	return domain.ValidateText("notes", t.Notes)
}

// CreateTransaction records a new transaction. A repeated client request id
// returns the existing row when the payload matches and ErrDuplicateRequest
// when it does not.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	row := input.transaction()
	row.Date = domain.NormalizeDate(row.Date)
	if err := validateFields(row); err != nil {
		uc.observe("create", err, nil)
		return nil, err
	}

	impact := NewImpact()
	impact.Transaction(row)

	var (
		result   *domain.Transaction
		replayed bool
		applied  *Impact
	)
	err := uc.runIdempotent(ctx, row.ClientRequestID != nil, impact.LockKeys(row.OwnerID), func(ctx context.Context, tx Transaction) error {
		var err error
		result, replayed, applied, err = uc.insertTransaction(ctx, tx, row.Clone())
		if err != nil || replayed {
			return err
		}

		now := result.CreatedAt
		if err := uc.emit(ctx, tx, result.OwnerID, domain.AggregateTypeTransaction, result.ID,
			domain.EventTypeTransactionCreated, domain.NewTransactionEvent(result), now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, result.OwnerID, domain.AuditActionTransactionCreate,
			domain.AggregateTypeTransaction, result.ID, nil, result, now)
	})
	uc.observe("create", err, func(m *metrics.Metrics) {
		if replayed {
			m.IdempotentReplays.Inc()
		} else {
			m.TransactionsCreated.Inc()
		}
	})
	if err != nil {
		return nil, err
	}

	if !replayed {
		uc.invalidate(ctx, result.OwnerID, applied)
	}
	return result, nil
}

// runIdempotent runs a create under the unit of work. When a concurrent
// request wins the unique client request id, the create is retried once so it
// observes the winner.
func (w *ledgerWriter) runIdempotent(ctx context.Context, keyed bool, lockKeys []string, fn func(ctx context.Context, tx Transaction) error) error {
	err := w.run(ctx, lockKeys, fn)
	if keyed && errors.Is(err, ErrClientRequestIDTaken) {
		err = w.run(ctx, lockKeys, fn)
	}
	if errors.Is(err, ErrClientRequestIDTaken) {
		return domain.ErrDuplicateRequest
	}
	return err
}

// insertTransaction validates references, persists row and replays the
// ledgers it touches. It returns the stored row with its balance snapshots.
func (w *ledgerWriter) insertTransaction(
	ctx context.Context,
	tx Transaction,
	row *domain.Transaction,
) (*domain.Transaction, bool, *Impact, error) {
	if row.ClientRequestID != nil {
		existing, err := w.txRepo.GetActiveByClientRequestID(ctx, tx, row.OwnerID, *row.ClientRequestID)
		if err != nil {
			return nil, false, nil, err
		}
		if existing != nil {
			if existing.SamePayload(row) {
				return existing, true, nil, nil
			}
			return nil, false, nil, domain.ErrDuplicateRequest
		}
	}

	if _, err := w.activeAccount(ctx, tx, row.OwnerID, row.AccountID); err != nil {
		return nil, false, nil, err
	}
	if row.PartyID != nil {
		if _, err := w.activeParty(ctx, tx, row.OwnerID, *row.PartyID); err != nil {
			return nil, false, nil, err
		}
	}

	now := time.Now().UTC()
	row.ID = w.idGen.Generate()
	row.State = domain.TransactionStateActive
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := w.txRepo.Create(ctx, tx, row); err != nil {
		return nil, false, nil, err
	}

	impact := NewImpact()
	impact.Transaction(row)
	if err := w.replay(ctx, tx, row.OwnerID, impact); err != nil {
		return nil, false, nil, err
	}

	stored, err := w.txRepo.GetByIDForUpdate(ctx, tx, row.OwnerID, row.ID)
	if err != nil {
		return nil, false, nil, err
	}
	return stored, false, impact, nil
}

// replay hands impact to the ledger engine and counts the rewritten rows.
func (w *ledgerWriter) replay(ctx context.Context, tx Transaction, ownerID string, impact *Impact) error {
	updated, err := w.engine.Apply(ctx, tx, ownerID, impact)
	if err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.BalanceSnapshotsWritten.Add(float64(updated))
	}
	return nil
}

// GetTransaction retrieves a transaction by ID, including deleted rows.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, ownerID, id)
}

// ListAccountTransactionsInput represents input for listing an account's rows.
type ListAccountTransactionsInput struct {
	OwnerID        string
	AccountID      string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ListAccountTransactions lists an account's transactions in ledger order.
func (uc *TransactionUseCase) ListAccountTransactions(ctx context.Context, input ListAccountTransactionsInput) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.AccountID); err != nil {
		return nil, err
	}
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txRepo.ListByAccount(ctx, input.OwnerID, input.AccountID, input.IncludeDeleted, limit, offset)
}

// rowPlan is what a mutation of an existing row locks: the ledgers of the row
// as last seen, plus the other leg when the row belongs to a transfer.
type rowPlan struct {
	impact   *Impact
	transfer *domain.Transfer
}

// siblingID returns the id of the other leg of the transfer t belongs to.
func (p rowPlan) siblingID(t *domain.Transaction) string {
	if p.transfer == nil {
		return ""
	}
	if p.transfer.OutgoingTransactionID == t.ID {
		return p.transfer.IncomingTransactionID
	}
	return p.transfer.OutgoingTransactionID
}

func (uc *TransactionUseCase) plan(ctx context.Context, current *domain.Transaction, extra func(*Impact)) (rowPlan, error) {
	p := rowPlan{impact: NewImpact()}
	p.impact.Transaction(current)
	if extra != nil {
		extra(p.impact)
	}

	if current.TransferID != nil {
		transfer, err := uc.transferRepo.GetByID(ctx, current.OwnerID, *current.TransferID)
		if err != nil {
			return rowPlan{}, err
		}
		p.transfer = transfer
		p.impact.Account(transfer.FromAccountID, current.Date)
		p.impact.Account(transfer.ToAccountID, current.Date)
	}
	return p, nil
}

// mutateRow locks the ledgers of an existing row and runs fn on the locked
// row. If the row moved to another account or party in between, the lock set
// is rebuilt and the attempt repeated.
func (uc *TransactionUseCase) mutateRow(
	ctx context.Context,
	ownerID, id string,
	extra func(current *domain.Transaction, impact *Impact),
	fn func(ctx context.Context, tx Transaction, locked *domain.Transaction, p rowPlan) error,
) error {
	current, err := uc.txRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		seen := current
		p, err := uc.plan(ctx, seen, func(impact *Impact) {
			if extra != nil {
				extra(seen, impact)
			}
		})
		if err != nil {
			return err
		}

		err = uc.run(ctx, p.impact.LockKeys(ownerID), func(ctx context.Context, tx Transaction) error {
			locked, err := uc.txRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
			if err != nil {
				return err
			}
			if locked.AccountID != seen.AccountID || domain.Deref(locked.PartyID) != domain.Deref(seen.PartyID) {
				current = locked
				return errStaleLockSet
			}
			return fn(ctx, tx, locked, p)
		})
		if !errors.Is(err, errStaleLockSet) {
			return err
		}
	}

	return domain.ErrConcurrentModification
}

// UpdateTransaction applies a partial edit. Balance-affecting edits replay
// every touched ledger from the earlier of the old and new date.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	var (
		result  *domain.Transaction
		applied *Impact
	)

	err := uc.mutateRow(ctx, input.OwnerID, input.ID,
		func(current *domain.Transaction, impact *Impact) {
			proposed := current.Clone()
			input.apply(proposed)
			impact.Transaction(proposed)
		},
		func(ctx context.Context, tx Transaction, locked *domain.Transaction, p rowPlan) error {
			if locked.IsDeleted() {
				return domain.ErrTransactionDeleted
			}

			before := locked.Clone()
			next := locked.Clone()
			balanceChanged := input.apply(next)
			if err := validateFields(next); err != nil {
				return err
			}
			if next.IsTransferLeg() && (next.AccountID != before.AccountID || next.Type != before.Type) {
				return domain.ErrTransferLegImmutable
			}
			if next.InvoiceID != nil {
				if next.Type != before.Type {
					return domain.ErrPaymentTypeImmutable
				}
				if increase := next.Amount.Sub(before.Amount); increase.IsPositive() {
					if err := uc.checkInvoicePayment(ctx, tx, next.OwnerID, *next.InvoiceID, increase); err != nil {
						return err
					}
				}
			}
			if next.AccountID != before.AccountID {
				if _, err := uc.activeAccount(ctx, tx, next.OwnerID, next.AccountID); err != nil {
					return err
				}
			}
			if next.PartyID != nil && domain.Deref(next.PartyID) != domain.Deref(before.PartyID) {
				if _, err := uc.activeParty(ctx, tx, next.OwnerID, *next.PartyID); err != nil {
					return err
				}
			}

			now := time.Now().UTC()
			next.UpdatedAt = now
			if err := uc.txRepo.Update(ctx, tx, next); err != nil {
				return err
			}

			impact := NewImpact()
			if balanceChanged {
				impact.Transaction(before)
				impact.Transaction(next)
			}
			if next.IsTransferLeg() && (balanceChanged || next.Description != before.Description) {
				if err := uc.mirrorLeg(ctx, tx, next, p, impact, now); err != nil {
					return err
				}
			}
			if balanceChanged {
				if err := uc.replay(ctx, tx, next.OwnerID, impact); err != nil {
					return err
				}
			}

			stored, err := uc.txRepo.GetByIDForUpdate(ctx, tx, next.OwnerID, next.ID)
			if err != nil {
				return err
			}
			result, applied = stored, impact

			if err := uc.emit(ctx, tx, stored.OwnerID, domain.AggregateTypeTransaction, stored.ID,
				domain.EventTypeTransactionUpdated, domain.NewTransactionEvent(stored), now); err != nil {
				return err
			}
			return uc.audit(ctx, tx, stored.OwnerID, domain.AuditActionTransactionUpdate,
				domain.AggregateTypeTransaction, stored.ID, before, stored, now)
		},
	)
	uc.observe("update", err, func(m *metrics.Metrics) { m.TransactionsUpdated.Inc() })
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.OwnerID, applied)
	return result, nil
}

// mirrorLeg copies the amount, date and description of an edited transfer leg
// onto the other leg and onto the transfer record.
func (uc *TransactionUseCase) mirrorLeg(ctx context.Context, tx Transaction, leg *domain.Transaction, p rowPlan, impact *Impact, now time.Time) error {
	sibling, err := uc.txRepo.GetByIDForUpdate(ctx, tx, leg.OwnerID, p.siblingID(leg))
	if err != nil {
		return err
	}
	moved := !sibling.Amount.Equal(leg.Amount) || !sibling.Date.Equal(leg.Date)
	if moved {
		impact.Transaction(sibling)
	}
	sibling.Amount = leg.Amount
	sibling.Date = leg.Date
	sibling.Description = leg.Description
	sibling.UpdatedAt = now
	if err := uc.txRepo.Update(ctx, tx, sibling); err != nil {
		return err
	}
	if moved {
		impact.Transaction(sibling)
	}

	transfer := *p.transfer
	transfer.Amount = leg.Amount
	transfer.Date = leg.Date
	transfer.Description = leg.Description
	return uc.transferRepo.Update(ctx, tx, &transfer)
}

// SoftDeleteTransaction removes a transaction from its ledgers without
// deleting the row. Deleting a transfer leg deletes both legs. Deleting an
// already deleted row is a no-op.
func (uc *TransactionUseCase) SoftDeleteTransaction(ctx context.Context, ownerID, id string) error {
	return uc.toggle(ctx, ownerID, id, true)
}

// RestoreTransaction puts a soft-deleted transaction back into its ledgers.
// Restoring an active row is a no-op.
func (uc *TransactionUseCase) RestoreTransaction(ctx context.Context, ownerID, id string) error {
	return uc.toggle(ctx, ownerID, id, false)
}

func (uc *TransactionUseCase) toggle(ctx context.Context, ownerID, id string, deleting bool) error {
	operation, eventType, action := "restore", domain.EventTypeTransactionRestored, domain.AuditActionTransactionRestore
	if deleting {
		operation, eventType, action = "delete", domain.EventTypeTransactionDeleted, domain.AuditActionTransactionDelete
	}

	var applied *Impact
	err := uc.mutateRow(ctx, ownerID, id, nil,
		func(ctx context.Context, tx Transaction, locked *domain.Transaction, p rowPlan) error {
			before := locked.Clone()
			now := time.Now().UTC()

			rows := []*domain.Transaction{locked}
			if locked.IsTransferLeg() {
				sibling, err := uc.txRepo.GetByIDForUpdate(ctx, tx, ownerID, p.siblingID(locked))
				if err != nil {
					return err
				}
				rows = append(rows, sibling)
			}

			impact := NewImpact()
			for _, row := range rows {
				if deleting {
					if !row.SoftDelete(now) {
						continue
					}
				} else {
					if !row.Restore(now) {
						continue
					}
					if err := uc.ensureKeyFree(ctx, tx, row); err != nil {
						return err
					}
					if row.InvoiceID != nil {
						if err := uc.checkInvoicePayment(ctx, tx, ownerID, *row.InvoiceID, row.Amount); err != nil {
							return err
						}
					}
				}
				if err := uc.txRepo.Update(ctx, tx, row); err != nil {
					return err
				}
				impact.Transaction(row)
			}
			if len(impact.accounts) == 0 {
				return nil
			}

			if err := uc.replay(ctx, tx, ownerID, impact); err != nil {
				return err
			}
			applied = impact

			if err := uc.emit(ctx, tx, ownerID, domain.AggregateTypeTransaction, locked.ID,
				eventType, domain.NewTransactionEvent(locked), now); err != nil {
				return err
			}
			return uc.audit(ctx, tx, ownerID, action, domain.AggregateTypeTransaction, locked.ID, before, locked, now)
		},
	)
	if errors.Is(err, ErrClientRequestIDTaken) {
		err = domain.ErrDuplicateRequest
	}
	uc.observe(operation, err, func(m *metrics.Metrics) {
		if applied == nil {
			return
		}
		if deleting {
			m.TransactionsDeleted.Inc()
		} else {
			m.TransactionsRestored.Inc()
		}
	})
	if err != nil {
		return err
	}

	if applied != nil {
		uc.invalidate(ctx, ownerID, applied)
	}
	return nil
}

// ensureKeyFree rejects restoring a row whose client request id is now held
// by another active row.
func (w *ledgerWriter) ensureKeyFree(ctx context.Context, tx Transaction, row *domain.Transaction) error {
	if row.ClientRequestID == nil {
		return nil
	}
	holder, err := w.txRepo.GetActiveByClientRequestID(ctx, tx, row.OwnerID, *row.ClientRequestID)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != row.ID {
		return domain.ErrDuplicateRequest
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// errStaleLockSet signals that the row changed its account or party between
// planning the lock set and acquiring it.
var errStaleLockSet = errors.New("lock set is stale")

// unitOfWork runs fn under the given locks inside one database transaction.
// The whole attempt is retried on transient storage errors.
type unitOfWork struct {
	txManager TransactionManager
	locker    Locker
	retrier   Retrier
}

func (u *unitOfWork) run(ctx context.Context, lockKeys []string, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		if u.locker != nil && len(lockKeys) > 0 {
			release, err := u.locker.Lock(ctx, lockKeys)
			if err != nil {
				return err
			}
			defer release()
		}

		// Add transaction timeout
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := u.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if u.retrier == nil {
		return attempt()
	}
	return u.retrier.Retry(ctx, attempt)
}

// ledgerWriter holds what every ledger mutation needs besides its own
// repositories: the engine, side-effect records and read-model invalidation.
type ledgerWriter struct {
	unitOfWork
	accountRepo AccountRepository
	partyRepo   PartyRepository
	txRepo      TransactionRepository
	invoiceRepo InvoiceRepository
	engine      *LedgerEngine
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	allowOverpayment bool
}

// LedgerDeps wires the collaborators shared by the ledger use cases.
type LedgerDeps struct {
	Store   Store
	Engine  *LedgerEngine
	Locker  Locker
	Retrier Retrier
	Cache   Cache
	IDGen   IDGenerator
	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	// AllowOverpayment lets payments exceed the balance due of an invoice.
	AllowOverpayment bool
}

func newLedgerWriter(deps LedgerDeps) ledgerWriter {
	return ledgerWriter{
		unitOfWork: unitOfWork{
			txManager: deps.Store.TxManager,
			locker:    deps.Locker,
			retrier:   deps.Retrier,
		},
		accountRepo: deps.Store.Accounts,
		partyRepo:   deps.Store.Parties,
		txRepo:      deps.Store.Transactions,
		invoiceRepo: deps.Store.Invoices,
		engine:      deps.Engine,
		outboxRepo:  deps.Store.Outbox,
		auditRepo:   deps.Store.Audit,
		cache:       deps.Cache,
		idGen:       deps.IDGen,
		metrics:     deps.Metrics,
		logger:      deps.Logger,

		allowOverpayment: deps.AllowOverpayment,
	}
}

// activeAccount locks the account row and rejects archived accounts.
func (w *ledgerWriter) activeAccount(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Account, error) {
	account, err := w.accountRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := account.EnsureActive(); err != nil {
		return nil, err
	}
	return account, nil
}

// activeParty locks the party row and rejects archived parties.
func (w *ledgerWriter) activeParty(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Party, error) {
	party, err := w.partyRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := party.EnsureActive(); err != nil {
		return nil, err
	}
	return party, nil
}

// checkInvoicePayment locks the invoice and applies the payment rules to an
// amount about to be added to what it has received.
func (w *ledgerWriter) checkInvoicePayment(ctx context.Context, tx Transaction, ownerID, invoiceID string, amount decimal.Decimal) error {
	invoice, err := w.invoiceRepo.GetByIDForUpdate(ctx, tx, ownerID, invoiceID)
	if err != nil {
		return err
	}
	return invoice.CheckPayment(amount, w.allowOverpayment)
}

// emit appends an outbox event in the same transaction as the mutation.
func (w *ledgerWriter) emit(
	ctx context.Context,
	tx Transaction,
	ownerID, aggregateType, aggregateID, eventType string,
	payload any,
	now time.Time,
) error {
	if w.outboxRepo == nil {
		return nil
	}
	event := &domain.OutboxEvent{
		ID:            w.idGen.Generate(),
		OwnerID:       ownerID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.MarshalState(payload),
		CreatedAt:     now,
	}
	return w.outboxRepo.Create(ctx, tx, event)
}

// audit records before/after state of a mutation when auditing is enabled.
func (w *ledgerWriter) audit(
	ctx context.Context,
	tx Transaction,
	ownerID string,
	action domain.AuditAction,
	resourceType, resourceID string,
	before, after any,
	now time.Time,
) error {
	if w.auditRepo == nil {
		return nil
	}

	actorID := "system"
	if scope, ok := domain.ScopeFromContext(ctx); ok && scope.ActorID != "" {
		actorID = scope.ActorID
	}

	log := &domain.AuditLog{
		ID:           w.idGen.Generate(),
		OwnerID:      ownerID,
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}
	return w.auditRepo.CreateTx(ctx, tx, log)
}

// invalidate drops cached read models of every ledger in impact. Failures
// only cost a stale read until the TTL expires, so they are logged.
func (w *ledgerWriter) invalidate(ctx context.Context, ownerID string, impact *Impact) {
	if w.cache == nil {
		return
	}
	keys := make([]string, 0, len(impact.accounts)+len(impact.parties))
	for _, id := range impact.AccountIDs() {
		keys = append(keys, accountCacheKey(ownerID, id))
	}
	for _, id := range impact.PartyIDs() {
		keys = append(keys, partyCacheKey(ownerID, id))
	}
	if len(keys) == 0 {
		return
	}
	if err := w.cache.Delete(ctx, keys...); err != nil {
		w.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate cached balances")
	}
}

// observe counts a finished mutation. Unknown errors are logged since they
// never carry a kind a caller can act on.
func (w *ledgerWriter) observe(operation string, err error, success func(m *metrics.Metrics)) {
	if err == nil {
		if w.metrics != nil && success != nil {
			success(w.metrics)
		}
		return
	}

	kind := "internal"
	if k := domain.KindOf(err); k != nil {
		kind = kindLabel(k)
	} else {
		w.logger.Error().Err(err).Str("operation", operation).Msg("ledger mutation failed")
	}
	if w.metrics != nil {
		w.metrics.MutationErrors.WithLabelValues(operation, kind).Inc()
	}
}

func kindLabel(kind error) string {
	switch kind {
	case domain.ErrValidation:
		return "validation"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrConflict:
		return "conflict"
	case domain.ErrIntegrity:
		return "integrity"
	default:
		return "internal"
	}
}

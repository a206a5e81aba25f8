package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// TransferUseCase handles transfer business logic.
type TransferUseCase struct {
	ledgerWriter
	transferRepo TransferRepository
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(deps LedgerDeps) *TransferUseCase {
	return &TransferUseCase{
		ledgerWriter: newLedgerWriter(deps),
		transferRepo: deps.Store.Transfers,
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	Date          time.Time
	OwnerID       string
	FromAccountID string
	ToAccountID   string
	Description   string
	Amount        decimal.Decimal
}

// CreateTransfer moves money between two accounts of the same owner. The
// transfer record and both legs are written and replayed in one database
// transaction: either everything is stored or nothing is.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	// 0. Validate inputs before starting transaction
	transfer := &domain.Transfer{
		OwnerID:       input.OwnerID,
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Date:          domain.NormalizeDate(input.Date),
		Description:   input.Description,
	}
	if err := transfer.Validate(); err != nil {
		uc.observe("transfer", err, nil)
		return nil, err
	}
	if err := domain.ValidateAmount(transfer.Amount); err != nil {
		uc.observe("transfer", err, nil)
		return nil, err
	}

	// 1. Collect and sort account IDs (DEADLOCK PREVENTION)
	accountIDs := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(accountIDs)

	impact := NewImpact()
	for _, id := range accountIDs {
		impact.Account(id, transfer.Date)
	}

	err := uc.run(ctx, impact.LockKeys(input.OwnerID), func(ctx context.Context, tx Transaction) error {
		// 2. Lock accounts in sorted order
		accounts := make(map[string]*domain.Account, len(accountIDs))
		for _, id := range accountIDs {
			account, err := uc.activeAccount(ctx, tx, input.OwnerID, id)
			if err != nil {
				return err
			}
			accounts[id] = account
		}

		if accounts[input.FromAccountID].Currency != accounts[input.ToAccountID].Currency {
			return domain.ErrCurrencyMismatch
		}

		// 3. Create transfer and legs
		now := time.Now().UTC()
		transfer.ID = uc.idGen.Generate()
		transfer.OutgoingTransactionID = uc.idGen.Generate()
		transfer.IncomingTransactionID = uc.idGen.Generate()
		transfer.CreatedAt = now

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		outgoing, incoming := transfer.Legs()
		for _, leg := range []*domain.Transaction{outgoing, incoming} {
			if err := uc.txRepo.Create(ctx, tx, leg); err != nil {
				return err
			}
		}

		// 4. Replay both account ledgers
		if err := uc.replay(ctx, tx, input.OwnerID, impact); err != nil {
			return err
		}

		event := domain.TransferCreatedEvent{
			TransferID:    transfer.ID,
			FromAccountID: transfer.FromAccountID,
			ToAccountID:   transfer.ToAccountID,
			Amount:        transfer.Amount.String(),
			Date:          transfer.Date.Format(time.RFC3339),
		}
		if err := uc.emit(ctx, tx, input.OwnerID, domain.AggregateTypeTransfer, transfer.ID,
			domain.EventTypeTransferCreated, event, now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, input.OwnerID, domain.AuditActionTransferCreate,
			domain.AggregateTypeTransfer, transfer.ID, nil, transfer, now)
	})
	uc.observe("transfer", err, func(m *metrics.Metrics) {
		m.TransfersCreated.Inc()
		m.TransferAmount.Observe(transfer.Amount.InexactFloat64())
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.OwnerID, impact)
	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, ownerID, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, ownerID, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	OwnerID   string
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transferRepo.ListByAccount(ctx, input.OwnerID, input.AccountID, limit, offset)
}

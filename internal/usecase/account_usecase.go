package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	ledgerWriter
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(deps LedgerDeps) *AccountUseCase {
	return &AccountUseCase{ledgerWriter: newLedgerWriter(deps)}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID        string
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
}

// CreateAccount creates a new account. Its current balance starts at the
// opening balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		Name:           strings.TrimSpace(input.Name),
		Currency:       currency,
		OpeningBalance: input.OpeningBalance,
		CurrentBalance: input.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	err := uc.run(ctx, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}
		event := map[string]string{"account_id": account.ID, "name": account.Name, "currency": account.Currency}
		if err := uc.emit(ctx, tx, account.OwnerID, domain.AggregateTypeAccount, account.ID,
			domain.EventTypeAccountCreated, event, now); err != nil {
			return err
		}
		return uc.audit(ctx, tx, account.OwnerID, domain.AuditActionAccountCreate,
			domain.AggregateTypeAccount, account.ID, nil, account, now)
	})
	uc.observe("account_create", err, func(m *metrics.Metrics) { m.AccountsCreated.Inc() })
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID, served from the read-model cache
// when one is configured.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	key := accountCacheKey(ownerID, id)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var cached domain.Account
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("account cache read failed")
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(account); err == nil {
			if err := uc.cache.Set(ctx, key, raw, ReadModelTTL); err != nil {
				uc.logger.Warn().Err(err).Str("key", key).Msg("account cache write failed")
			}
		}
	}
	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, input.OwnerID, limit, offset)
}

// ArchiveAccount hides an account from new activity. Existing transactions
// keep counting toward its balance.
func (uc *AccountUseCase) ArchiveAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	var result *domain.Account
	err := uc.run(ctx, []string{accountLockKey(ownerID, id)}, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if account.Archived {
			result = account
			return nil
		}

		now := time.Now().UTC()
		before := *account
		account.Archived = true
		account.UpdatedAt = now
		if err := uc.accountRepo.UpdateArchived(ctx, tx, ownerID, id, true, now); err != nil {
			return err
		}
		result = account
		return uc.audit(ctx, tx, ownerID, domain.AuditActionAccountArchive,
			domain.AggregateTypeAccount, id, before, account, now)
	})
	if err != nil {
		return nil, err
	}

	impact := NewImpact()
	impact.Account(id, time.Time{})
	uc.invalidate(ctx, ownerID, impact)
	return result, nil
}

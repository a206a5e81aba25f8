package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository and
// usecase.AccountBalanceWriter.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		OwnerID:        account.OwnerID,
		Name:           account.Name,
		Currency:       account.Currency,
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		CurrentBalance: decimalToNumeric(account.CurrentBalance),
		Archived:       account.Archived,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Account, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetAccountByIDForUpdate(ctx, generated.GetAccountByIDForUpdateParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// ListIDs returns the ids of all the owner's accounts.
func (r *AccountRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.ListAccountIDs(ctx, ownerID)
}

// UpdateArchived sets the archived flag.
func (r *AccountRepository) UpdateArchived(ctx context.Context, tx usecase.Transaction, ownerID, id string, archived bool, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateAccountArchived(ctx, generated.UpdateAccountArchivedParams{
		OwnerID:   ownerID,
		ID:        id,
		Archived:  archived,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// UpdateCurrentBalance stores the derived current balance.
func (r *AccountRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		OwnerID:        ownerID,
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Name:           row.Name,
		Currency:       row.Currency,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		Archived:       row.Archived,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

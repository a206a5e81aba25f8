package bolt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository and
// usecase.AccountBalanceWriter.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if err := putRecord(btx, bucketAccounts, account.ID, account); err != nil {
		return err
	}
	return btx.Bucket([]byte(idxOwnerAccounts)).Put(key(account.OwnerID, account.ID), nil)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		var err error
		account, err = loadAccount(btx, ownerID, id)
		return err
	})
	return account, err
}

// GetByIDForUpdate reads the account inside the write transaction, which
// already excludes other writers.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Account, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return loadAccount(btx, ownerID, id)
}

// List retrieves the owner's accounts in id order.
func (r *AccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, idxOwnerAccounts, prefix(ownerID), func(k, _ []byte) error {
			account, err := loadAccount(btx, ownerID, splitKey(k)[1])
			if err != nil {
				return err
			}
			accounts = append(accounts, account)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page(accounts, limit, offset), nil
}

// ListIDs returns the ids of all the owner's accounts.
func (r *AccountRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return listOwnerIDs(ctx, r.db, idxOwnerAccounts, ownerID)
}

// UpdateArchived sets the archived flag.
func (r *AccountRepository) UpdateArchived(ctx context.Context, tx usecase.Transaction, ownerID, id string, archived bool, updatedAt time.Time) error {
	return r.modify(ctx, tx, ownerID, id, func(a *domain.Account) {
		a.Archived = archived
		a.UpdatedAt = updatedAt
	})
}

// UpdateCurrentBalance stores the derived current balance.
func (r *AccountRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.modify(ctx, tx, ownerID, id, func(a *domain.Account) {
		a.CurrentBalance = balance
		a.UpdatedAt = updatedAt
	})
}

func (r *AccountRepository) modify(ctx context.Context, tx usecase.Transaction, ownerID, id string, fn func(a *domain.Account)) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	account, err := loadAccount(btx, ownerID, id)
	if err != nil {
		return err
	}
	fn(account)
	return putRecord(btx, bucketAccounts, id, account)
}

func loadAccount(btx *bolt.Tx, ownerID, id string) (*domain.Account, error) {
	account, err := getRecord[domain.Account](btx, bucketAccounts, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func listOwnerIDs(ctx context.Context, db *DB, index, ownerID string) ([]string, error) {
	ids := []string{}
	err := db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, index, prefix(ownerID), func(k, _ []byte) error {
			ids = append(ids, splitKey(k)[1])
			return nil
		})
	})
	return ids, err
}

package bolt

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	db *DB
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db *DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create inserts a new transfer and indexes it under both accounts.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if err := putRecord(btx, bucketTransfers, transfer.ID, transfer); err != nil {
		return err
	}
	idx := btx.Bucket([]byte(idxTransferAccount))
	for _, accountID := range []string{transfer.FromAccountID, transfer.ToAccountID} {
		if err := idx.Put(key(transfer.OwnerID, accountID, transfer.ID), []byte(transfer.ID)); err != nil {
			return err
		}
	}
	return nil
}

// Update overwrites a stored transfer. The account index is left alone
// because transfer accounts never change.
func (r *TransferRepository) Update(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := loadTransfer(btx, transfer.OwnerID, transfer.ID); err != nil {
		return err
	}
	return putRecord(btx, bucketTransfers, transfer.ID, transfer)
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transfer, error) {
	var transfer *domain.Transfer
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		var err error
		transfer, err = loadTransfer(btx, ownerID, id)
		return err
	})
	return transfer, err
}

// ListByAccount lists transfers touching the account, oldest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, ownerID, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, idxTransferAccount, prefix(ownerID, accountID), func(_, v []byte) error {
			transfer, err := loadTransfer(btx, ownerID, string(v))
			if err != nil {
				return err
			}
			transfers = append(transfers, transfer)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page(transfers, limit, offset), nil
}

func loadTransfer(btx *bolt.Tx, ownerID, id string) (*domain.Transfer, error) {
	transfer, err := getRecord[domain.Transfer](btx, bucketTransfers, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil || transfer.OwnerID != ownerID {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, nil
}

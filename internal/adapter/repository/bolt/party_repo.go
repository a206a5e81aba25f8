package bolt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// PartyRepository implements usecase.PartyRepository and
// usecase.PartyBalanceWriter.
type PartyRepository struct {
	db *DB
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(db *DB) *PartyRepository {
	return &PartyRepository{db: db}
}

// Create inserts a new party.
func (r *PartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if err := putRecord(btx, bucketParties, party.ID, party); err != nil {
		return err
	}
	return btx.Bucket([]byte(idxOwnerParties)).Put(key(party.OwnerID, party.ID), nil)
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Party, error) {
	var party *domain.Party
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		var err error
		party, err = loadParty(btx, ownerID, id)
		return err
	})
	return party, err
}

// GetByIDForUpdate reads the party inside the write transaction, which
// already excludes other writers.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Party, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return loadParty(btx, ownerID, id)
}

// List retrieves the owner's parties in id order.
func (r *PartyRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	var parties []*domain.Party
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, idxOwnerParties, prefix(ownerID), func(k, _ []byte) error {
			party, err := loadParty(btx, ownerID, splitKey(k)[1])
			if err != nil {
				return err
			}
			parties = append(parties, party)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page(parties, limit, offset), nil
}

// ListIDs returns the ids of all the owner's parties.
func (r *PartyRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return listOwnerIDs(ctx, r.db, idxOwnerParties, ownerID)
}

// UpdateCurrentBalance stores the derived current balance.
func (r *PartyRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.modify(ctx, tx, ownerID, id, func(p *domain.Party) {
		p.CurrentBalance = balance
		p.UpdatedAt = updatedAt
	})
}

func (r *PartyRepository) modify(ctx context.Context, tx usecase.Transaction, ownerID, id string, fn func(p *domain.Party)) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	party, err := loadParty(btx, ownerID, id)
	if err != nil {
		return err
	}
	fn(party)
	return putRecord(btx, bucketParties, id, party)
}

func loadParty(btx *bolt.Tx, ownerID, id string) (*domain.Party, error) {
	party, err := getRecord[domain.Party](btx, bucketParties, id)
	if err != nil {
		return nil, err
	}
	if party == nil || party.OwnerID != ownerID {
		return nil, domain.ErrPartyNotFound
	}
	return party, nil
}

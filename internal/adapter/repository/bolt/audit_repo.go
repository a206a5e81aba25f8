package bolt

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx records an audit log in the caller's transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	if err := putRecord(btx, bucketAudit, log.ID, log); err != nil {
		return err
	}
	return btx.Bucket([]byte(idxAuditResource)).
		Put(key(log.OwnerID, log.ResourceType, log.ResourceID, log.ID), []byte(log.ID))
}

// ListByResource returns the audit trail of one resource, oldest first.
func (r *AuditRepository) ListByResource(ctx context.Context, ownerID, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	logs := []*domain.AuditLog{}
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, idxAuditResource, prefix(ownerID, resourceType, resourceID), func(_, v []byte) error {
			log, err := getRecord[domain.AuditLog](btx, bucketAudit, string(v))
			if err != nil {
				return err
			}
			if log != nil {
				logs = append(logs, log)
			}
			return nil
		})
	})
	return logs, err
}

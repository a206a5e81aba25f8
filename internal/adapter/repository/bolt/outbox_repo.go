package bolt

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository. Event ids are ULIDs,
// so key order is creation order.
type OutboxRepository struct {
	db *DB
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db *DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Create appends an event in the caller's transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	return putRecord(btx, bucketOutbox, event.ID, event)
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	events := []*domain.OutboxEvent{}
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, bucketOutbox, nil, func(k, _ []byte) error {
			event, err := getRecord[domain.OutboxEvent](btx, bucketOutbox, string(k))
			if err != nil {
				return err
			}
			if event.Published {
				return nil
			}
			events = append(events, event)
			if limit > 0 && len(events) >= limit {
				return errStop
			}
			return nil
		})
	})
	return events, err
}

// MarkPublished flags an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.db.Update(func(btx *bolt.Tx) error {
		event, err := getRecord[domain.OutboxEvent](btx, bucketOutbox, id)
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		event.Published = true
		event.PublishedAt = &publishedAt
		return putRecord(btx, bucketOutbox, id, event)
	})
}

// DeletePublished removes events published before the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.db.Update(func(btx *bolt.Tx) error {
		var stale [][]byte
		err := scan(btx, bucketOutbox, nil, func(k, _ []byte) error {
			event, err := getRecord[domain.OutboxEvent](btx, bucketOutbox, string(k))
			if err != nil {
				return err
			}
			if event.Published && event.PublishedAt != nil && event.PublishedAt.Before(before) {
				stale = append(stale, append([]byte{}, k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		b := btx.Bucket([]byte(bucketOutbox))
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

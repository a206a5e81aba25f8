package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// CreateTx inserts an audit log entry within a transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	var beforeStateJSON, afterStateJSON []byte

	if log.BeforeState != nil {
		beforeStateJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}

	if log.AfterState != nil {
		afterStateJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	return queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		OwnerID:      log.OwnerID,
		ActorID:      log.ActorID,
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		RequestID:    log.RequestID,
		BeforeState:  beforeStateJSON,
		AfterState:   afterStateJSON,
		Status:       log.Status,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}

// ListByResource returns the audit trail of one resource, oldest first.
func (r *AuditRepository) ListByResource(ctx context.Context, ownerID, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.queries.ListAuditLogsByResource(ctx, generated.ListAuditLogsByResourceParams{
		OwnerID:      ownerID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		log := &domain.AuditLog{
			ID:           row.ID,
			OwnerID:      row.OwnerID,
			ActorID:      row.ActorID,
			Action:       row.Action,
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			RequestID:    row.RequestID,
			Status:       row.Status,
			ErrorMessage: row.ErrorMessage,
			CreatedAt:    row.CreatedAt.Time,
		}
		if row.BeforeState != nil {
			_ = json.Unmarshal(row.BeforeState, &log.BeforeState)
		}
		if row.AfterState != nil {
			_ = json.Unmarshal(row.AfterState, &log.AfterState)
		}
		logs = append(logs, log)
	}

	return logs, nil
}

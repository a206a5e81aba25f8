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

// PartyRepository implements usecase.PartyRepository and
// usecase.PartyBalanceWriter.
type PartyRepository struct {
	queries *generated.Queries
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(db generated.DBTX) *PartyRepository {
	return &PartyRepository{queries: generated.New(db)}
}

// Create creates a new party.
func (r *PartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateParty(ctx, generated.CreatePartyParams{
		ID:             party.ID,
		OwnerID:        party.OwnerID,
		Name:           party.Name,
		Kind:           string(party.Kind),
		OpeningBalance: decimalToNumeric(party.OpeningBalance),
		CurrentBalance: decimalToNumeric(party.CurrentBalance),
		Archived:       party.Archived,
		CreatedAt:      timeToPgTimestamptz(party.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(party.UpdatedAt),
	})
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Party, error) {
	row, err := r.queries.GetPartyByID(ctx, generated.GetPartyByIDParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, err
	}

	return rowToParty(row), nil
}

// GetByIDForUpdate retrieves a party by ID with a FOR UPDATE lock.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Party, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetPartyByIDForUpdate(ctx, generated.GetPartyByIDForUpdateParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, err
	}

	return rowToParty(row), nil
}

// List lists parties with pagination.
func (r *PartyRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	rows, err := r.queries.ListParties(ctx, generated.ListPartiesParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	parties := make([]*domain.Party, 0, len(rows))
	for _, row := range rows {
		parties = append(parties, rowToParty(row))
	}
	return parties, nil
}

// ListIDs returns the ids of all the owner's parties.
func (r *PartyRepository) ListIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.ListPartyIDs(ctx, ownerID)
}

// UpdateCurrentBalance stores the derived current balance.
func (r *PartyRepository) UpdateCurrentBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdatePartyBalance(ctx, generated.UpdatePartyBalanceParams{
		OwnerID:        ownerID,
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

func rowToParty(row generated.Party) *domain.Party {
	return &domain.Party{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Name:           row.Name,
		Kind:           domain.PartyKind(row.Kind),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		Archived:       row.Archived,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

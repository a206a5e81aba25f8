package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// PartyUseCase handles customers and suppliers.
type PartyUseCase struct {
	ledgerWriter
}

// NewPartyUseCase creates a new PartyUseCase.
func NewPartyUseCase(deps LedgerDeps) *PartyUseCase {
	return &PartyUseCase{ledgerWriter: newLedgerWriter(deps)}
}

// CreatePartyInput represents input for creating a party.
type CreatePartyInput struct {
	OwnerID        string
	Name           string
	Kind           domain.PartyKind
	OpeningBalance decimal.Decimal
}

func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	now := time.Now().UTC()
	party := &domain.Party{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		Name:           strings.TrimSpace(input.Name),
		Kind:           input.Kind,
		OpeningBalance: input.OpeningBalance,
		CurrentBalance: input.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := party.Validate(); err != nil {
		return nil, err
	}

	err := uc.run(ctx, nil, func(ctx context.Context, tx Transaction) error {
		if err := uc.partyRepo.Create(ctx, tx, party); err != nil {
			return err
		}
		return uc.audit(ctx, tx, party.OwnerID, domain.AuditActionPartyCreate, "party", party.ID, nil, party, now)
	})
	uc.observe("party_create", err, func(m *metrics.Metrics) { m.PartiesCreated.Inc() })
	if err != nil {
		return nil, err
	}
	return party, nil
}

func (uc *PartyUseCase) GetParty(ctx context.Context, ownerID, id string) (*domain.Party, error) {
	return uc.partyRepo.GetByID(ctx, ownerID, id)
}

// ListParties lists parties with pagination.
func (uc *PartyUseCase) ListParties(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.partyRepo.List(ctx, ownerID, limit, offset)
}

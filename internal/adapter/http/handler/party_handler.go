package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// PartyService defines the behavior needed by PartyHandler.
type PartyService interface {
	CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error)
	GetParty(ctx context.Context, ownerID, id string) (*domain.Party, error)
	ListParties(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error)
}

// PartyHandler handles customer and supplier requests.
type PartyHandler struct {
	partyUC PartyService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyUC PartyService) *PartyHandler {
	return &PartyHandler{partyUC: partyUC}
}

// Create creates a party.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.CreatePartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), req.ToUseCaseInput(scope.OwnerID))
	if err != nil {
		writeDomainError(w, r, "failed to create party", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

// Get retrieves a party by ID.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	party, err := h.partyUC.GetParty(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get party", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// List lists parties.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	parties, err := h.partyUC.ListParties(r.Context(), scope.OwnerID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, r, "failed to list parties", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartiesFromDomain(parties))
}

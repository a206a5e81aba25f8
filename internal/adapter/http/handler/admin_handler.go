package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// RecalculationService runs the owner-wide balance repair.
type RecalculationService interface {
	RecalculateForOwner(ctx context.Context, ownerID string) (*usecase.RecalculationReport, error)
	RecalculateAccount(ctx context.Context, ownerID, accountID string) (*usecase.LedgerRecalculation, error)
}

// ReconciliationService compares stored balances with a replay.
type ReconciliationService interface {
	CheckOwner(ctx context.Context, ownerID string) ([]*usecase.ReconciliationResult, error)
}

// AdminHandler exposes owner maintenance operations.
type AdminHandler struct {
	recalcUC    RecalculationService
	reconcileUC ReconciliationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(recalcUC RecalculationService, reconcileUC ReconciliationService) *AdminHandler {
	return &AdminHandler{recalcUC: recalcUC, reconcileUC: reconcileUC}
}

// Recalculate replays every ledger of the caller's owner. A run interrupted
// by the client going away still reports what it committed.
func (h *AdminHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	report, err := h.recalcUC.RecalculateForOwner(r.Context(), scope.OwnerID)
	if err != nil && (report == nil || !report.Interrupted) {
		writeDomainError(w, r, "failed to recalculate", err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int("accounts", report.AccountsProcessed).
		Int("parties", report.PartiesProcessed).
		Int("updated", report.TransactionsUpdated).
		Int("skipped", len(report.Skipped)).
		Bool("interrupted", report.Interrupted).
		Msg("recalculation finished")

	writeJSON(w, http.StatusOK, report)
}

// RecalculateAccount fully replays one account.
func (h *AdminHandler) RecalculateAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	result, err := h.recalcUC.RecalculateAccount(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to recalculate account", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Reconcile reports accounts whose stored balances drifted from a replay.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	results, err := h.reconcileUC.CheckOwner(r.Context(), scope.OwnerID)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromUseCase(results))
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/cashbook/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"transfer not found", domain.ErrTransferNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"same account", domain.ErrSameAccount, http.StatusBadRequest},
		{"overpayment", domain.ErrOverpayment, http.StatusBadRequest},
		{"duplicate request", domain.ErrDuplicateRequest, http.StatusConflict},
		{"invoice closed", domain.ErrInvoiceClosed, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("update: %w", domain.ErrConcurrentModification), http.StatusConflict},
		{"dangling reference", domain.ErrDanglingReference, http.StatusInternalServerError},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"insufficient role", domain.ErrInsufficientRole, http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writeDomainError(rec, req, "failed", errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Message != "" {
		t.Fatalf("expected internal details to be withheld, got %q", resp.Message)
	}
}

func TestScopeOfRequiresOwner(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := scopeOf(rec, req); ok {
		t.Fatalf("expected missing scope to be rejected")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = req.WithContext(domain.WithScope(context.Background(), domain.Scope{OwnerID: "owner-1", Role: domain.RoleViewer}))
	scope, ok := scopeOf(rec, req)
	if !ok || scope.OwnerID != "owner-1" {
		t.Fatalf("expected scope to be returned, got %+v", scope)
	}
}

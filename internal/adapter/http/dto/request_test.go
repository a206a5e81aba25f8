package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		Name:           "Main",
		Currency:       "usd",
		OpeningBalance: decimal.NewFromInt(1000),
	}

	got := req.ToUseCaseInput("owner-1")
	if got.OwnerID != "owner-1" || got.Name != "Main" || got.Currency != "usd" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.OpeningBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected opening balance 1000, got %s", got.OpeningBalance)
	}
}

func TestCreateTransactionRequest_ClientRequestID(t *testing.T) {
	bodyID := "from-body"

	tests := []struct {
		name   string
		body   *string
		header string
		want   string
	}{
		{"body wins", &bodyID, "from-header", "from-body"},
		{"header fallback", nil, "from-header", "from-header"},
		{"neither", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateTransactionRequest{
				AccountID:       "acc-1",
				Type:            "credit",
				Amount:          decimal.NewFromInt(5),
				ClientRequestID: tt.body,
			}

			got := req.ToUseCaseInput("owner-1", tt.header)
			if got.Type != domain.TransactionTypeCredit || got.AccountID != "acc-1" {
				t.Fatalf("unexpected input: %+v", got)
			}
			if domain.Deref(got.ClientRequestID) != tt.want {
				t.Fatalf("expected client request id %q, got %q", tt.want, domain.Deref(got.ClientRequestID))
			}
			if tt.want == "" && got.ClientRequestID != nil {
				t.Fatalf("expected nil client request id")
			}
		})
	}
}

func TestUpdateTransactionRequest_ToUseCaseInput(t *testing.T) {
	amount := decimal.NewFromInt(42)
	typ := "debit"
	req := &UpdateTransactionRequest{
		Amount:     &amount,
		Type:       &typ,
		ClearParty: true,
	}

	got := req.ToUseCaseInput("owner-1", "tx-1")

	want := usecase.UpdateTransactionInput{OwnerID: "owner-1", ID: "tx-1", ClearParty: true}
	if got.OwnerID != want.OwnerID || got.ID != want.ID || !got.ClearParty {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Type == nil || *got.Type != domain.TransactionTypeDebit {
		t.Fatalf("expected debit type, got %v", got.Type)
	}
	if got.Amount == nil || !got.Amount.Equal(amount) {
		t.Fatalf("expected amount 42, got %v", got.Amount)
	}
	if got.Date != nil || got.AccountID != nil || got.Description != nil {
		t.Fatalf("absent fields should stay nil: %+v", got)
	}
}

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	req := &CreateTransferRequest{
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        decimal.RequireFromString("10.50"),
		Date:          date,
	}

	got := req.ToUseCaseInput("owner-1")
	want := usecase.CreateTransferInput{
		OwnerID:       "owner-1",
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        decimal.RequireFromString("10.50"),
		Date:          date,
	}

	if got.OwnerID != want.OwnerID || got.FromAccountID != want.FromAccountID ||
		got.ToAccountID != want.ToAccountID || !got.Amount.Equal(want.Amount) || !got.Date.Equal(want.Date) {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestRecordPaymentRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordPaymentRequest{AccountID: "acc-1", Amount: decimal.NewFromInt(400)}

	got := req.ToUseCaseInput("owner-1", "inv-1", "key-1")
	if got.InvoiceID != "inv-1" || got.AccountID != "acc-1" || domain.Deref(got.ClientRequestID) != "key-1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestCreateInvoiceRequest_ToUseCaseInput(t *testing.T) {
	party := "party-1"
	req := &CreateInvoiceRequest{Number: "INV-1", Kind: "sale", GrandTotal: decimal.NewFromInt(1000), PartyID: &party, Issue: true}

	got := req.ToUseCaseInput("owner-1")
	if got.Kind != domain.InvoiceKindSale || !got.Issue || domain.Deref(got.PartyID) != "party-1" || got.OwnerID != "owner-1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransfer_Validate(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		fromID      string
		toID        string
		amount      decimal.Decimal
		date        time.Time
		expectError error
	}{
		{
			name:        "valid transfer",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.NewFromInt(100),
			date:        date,
			expectError: nil,
		},
		{
			name:        "same account",
			fromID:      "account-1",
			toID:        "account-1",
			amount:      decimal.NewFromInt(100),
			date:        date,
			expectError: ErrSameAccount,
		},
		{
			name:        "zero amount",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.Zero,
			date:        date,
			expectError: ErrInvalidAmount,
		},
		{
			name:        "missing date",
			fromID:      "account-1",
			toID:        "account-2",
			amount:      decimal.NewFromInt(1),
			expectError: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := &Transfer{
				FromAccountID: tt.fromID,
				ToAccountID:   tt.toID,
				Amount:        tt.amount,
				Date:          tt.date,
			}

			err := transfer.Validate()
			if err != tt.expectError {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransfer_Legs(t *testing.T) {
	transfer := &Transfer{
		ID:                    "tr-1",
		OwnerID:               "owner-1",
		FromAccountID:         "cash",
		ToAccountID:           "bank",
		Amount:                decimal.NewFromInt(250),
		Date:                  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OutgoingTransactionID: "tx-out",
		IncomingTransactionID: "tx-in",
	}

	out, in := transfer.Legs()

	if out.AccountID != "cash" || out.Type != TransactionTypeDebit || out.TransferDirection != TransferDirectionOutgoing {
		t.Fatalf("unexpected outgoing leg: %+v", out)
	}
	if in.AccountID != "bank" || in.Type != TransactionTypeCredit || in.TransferDirection != TransferDirectionIncoming {
		t.Fatalf("unexpected incoming leg: %+v", in)
	}
	if *out.TransferID != "tr-1" || *in.TransferID != "tr-1" {
		t.Fatal("expected both legs to share the transfer id")
	}
	if !out.SignedAmount().Add(in.SignedAmount()).IsZero() {
		t.Fatal("expected legs to cancel out")
	}
}

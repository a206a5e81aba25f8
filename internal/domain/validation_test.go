package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Petty Cash"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation kind, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		err := ValidateAccountName(strings.Repeat("a", MaxNameLength+1))
		if !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("INR"); err != nil {
		t.Fatalf("expected valid currency, got %v", err)
	}

	for _, code := range []string{"usd", "US", "USDT", ""} {
		if err := ValidateCurrency(code); !errors.Is(err, ErrInvalidCurrency) {
			t.Fatalf("expected ErrInvalidCurrency for %q, got %v", code, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	if err := ValidateText("notes", "short"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateText("notes", strings.Repeat("x", MaxTextLength+1)); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -1)
	if limit != DefaultPageSize || offset != 0 {
		t.Fatalf("expected defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, _ = ValidatePagination(MaxPageSize+10, 0)
	if limit != MaxPageSize {
		t.Fatalf("expected limit clamp to %d, got %d", MaxPageSize, limit)
	}
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	kyiv := time.FixedZone("EET", 2*60*60)
	in := time.Date(2024, 3, 5, 12, 0, 0, 123456789, kyiv)

	got := NormalizeDate(in)
	want := time.Date(2024, 3, 5, 10, 0, 0, 123456000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if again := NormalizeDate(got); !again.Equal(got) {
		t.Fatalf("expected normalizing twice to be stable, got %v", again)
	}
}

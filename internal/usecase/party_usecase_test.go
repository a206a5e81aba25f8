package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestPartyUseCase_LedgerMirrorsConvention(t *testing.T) {
	tests := []struct {
		name       string
		convention domain.PartyConvention
		want       int64
	}{
		{"account convention", domain.PartyConventionAccount, 100 + 250 - 40},
		{"receivable convention", domain.PartyConventionReceivable, 100 - 250 + 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, withConvention(tt.convention))
			ctx := context.Background()
			acc := h.account(t, 0)
			p := h.party(t, 100)

			for _, in := range []struct {
				typ  domain.TransactionType
				v    int64
				date int
			}{
				{domain.TransactionTypeCredit, 250, 2},
				{domain.TransactionTypeDebit, 40, 1},
			} {
				_, err := h.transactions.CreateTransaction(ctx, usecase.CreateTransactionInput{
					OwnerID: owner, AccountID: acc.ID, PartyID: &p.ID, Type: in.typ, Amount: amount(in.v), Date: day(in.date),
				})
				require.NoError(t, err)
			}

			got, err := h.parties.GetParty(ctx, owner, p.ID)
			require.NoError(t, err)
			requireDecimal(t, tt.want, got.CurrentBalance)
			requireDecimal(t, 210, h.balance(t, acc.ID))
			h.requireConsistent(t)
		})
	}
}

func TestPartyUseCase_ReassigningPartyReplaysBoth(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	acc := h.account(t, 0)
	p1 := h.party(t, 0)
	p2 := h.party(t, 0)

	row, err := h.transactions.CreateTransaction(ctx, usecase.CreateTransactionInput{
		OwnerID: owner, AccountID: acc.ID, PartyID: &p1.ID, Type: domain.TransactionTypeCredit, Amount: amount(75), Date: day(1),
	})
	require.NoError(t, err)
	require.NotNil(t, row.PartyBalanceAfter)

	updated, err := h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: row.ID, PartyID: &p2.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.PartyBalanceAfter)
	requireDecimal(t, 75, *updated.PartyBalanceAfter)

	first, err := h.parties.GetParty(ctx, owner, p1.ID)
	require.NoError(t, err)
	requireDecimal(t, 0, first.CurrentBalance)

	updated, err = h.transactions.UpdateTransaction(ctx, usecase.UpdateTransactionInput{OwnerID: owner, ID: row.ID, ClearParty: true})
	require.NoError(t, err)
	require.Nil(t, updated.PartyBalanceAfter)

	second, err := h.parties.GetParty(ctx, owner, p2.ID)
	require.NoError(t, err)
	requireDecimal(t, 0, second.CurrentBalance)
	requireDecimal(t, 75, h.balance(t, acc.ID))
}

func TestPartyUseCase_CreateValidatesKind(t *testing.T) {
	h := newHarness(t)
	_, err := h.parties.CreateParty(context.Background(), usecase.CreatePartyInput{OwnerID: owner, Name: "X", Kind: "vendor"})
	require.ErrorIs(t, err, domain.ErrInvalidPartyKind)
}

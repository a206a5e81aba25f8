package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Before reports whether a sorts before b in ledger order:
// date ascending, then creation sequence, then id.
func Before(a, b *Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if a.Sequence != b.Sequence {
		return a.Sequence < b.Sequence
	}
	return a.ID < b.ID
}

// SortChronological sorts txs in place into ledger order.
func SortChronological(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return Before(txs[i], txs[j]) })
}

// BalanceChange is a snapshot that differs from what is stored.
type BalanceChange struct {
	TransactionID string
	Balance       decimal.Decimal
}

// ReplayResult is the outcome of walking a ledger.
type ReplayResult struct {
	Changes []BalanceChange
	Final   decimal.Decimal
	Visited int
}

// PartyConvention selects how transaction types move a party balance.
type PartyConvention string

const (
	// PartyConventionAccount mirrors the account rule: credit adds, debit subtracts.
	PartyConventionAccount PartyConvention = "account"
	// PartyConventionReceivable counts debits as amounts the party owes.
	PartyConventionReceivable PartyConvention = "receivable"
)

func ParsePartyConvention(s string) (PartyConvention, error) {
	switch c := PartyConvention(s); c {
	case PartyConventionAccount, PartyConventionReceivable:
		return c, nil
	case "":
		return PartyConventionAccount, nil
	default:
		return "", fmt.Errorf("unknown party balance convention %q", s)
	}
}

// Signed returns the effect of tx on a party balance.
func (c PartyConvention) Signed(tx *Transaction) decimal.Decimal {
	if c == PartyConventionReceivable {
		return tx.SignedAmount().Neg()
	}
	return tx.SignedAmount()
}

// ReplayAccount walks txs in ledger order starting at seed and reports every
// transaction whose stored BalanceAfterTransaction differs from the running
// balance. Deleted rows are ignored.
func ReplayAccount(seed decimal.Decimal, txs []*Transaction) ReplayResult {
	return replay(seed, txs,
		(*Transaction).SignedAmount,
		func(tx *Transaction) *decimal.Decimal { return &tx.BalanceAfterTransaction },
	)
}

// ReplayParty is ReplayAccount for the party ledger. Rows without a stored
// party snapshot always produce a change.
func (c PartyConvention) ReplayParty(seed decimal.Decimal, txs []*Transaction) ReplayResult {
	return replay(seed, txs, c.Signed, func(tx *Transaction) *decimal.Decimal { return tx.PartyBalanceAfter })
}

func replay(
	seed decimal.Decimal,
	txs []*Transaction,
	signed func(*Transaction) decimal.Decimal,
	stored func(*Transaction) *decimal.Decimal,
) ReplayResult {
	ordered := make([]*Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsDeleted() {
			ordered = append(ordered, tx)
		}
	}
	SortChronological(ordered)

	res := ReplayResult{Final: seed}
	for _, tx := range ordered {
		res.Final = res.Final.Add(signed(tx))
		res.Visited++
		if prev := stored(tx); prev == nil || !prev.Equal(res.Final) {
			res.Changes = append(res.Changes, BalanceChange{TransactionID: tx.ID, Balance: res.Final})
		}
	}
	return res
}

// AccountSeed is the balance a partial replay from a given point starts at:
// the snapshot of the last active transaction before that point, or the
// opening balance when there is none.
func AccountSeed(opening decimal.Decimal, last *Transaction) decimal.Decimal {
	if last == nil {
		return opening
	}
	return last.BalanceAfterTransaction
}

// PartySeed is AccountSeed for the party ledger. ok is false when the last
// row has no party snapshot, in which case the caller must replay in full.
func PartySeed(opening decimal.Decimal, last *Transaction) (seed decimal.Decimal, ok bool) {
	if last == nil {
		return opening, true
	}
	if last.PartyBalanceAfter == nil {
		return decimal.Zero, false
	}
	return *last.PartyBalanceAfter, true
}

// EarliestDate returns the earlier of two dates, treating zero as unset.
func EarliestDate(a, b time.Time) time.Time {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	default:
		return a
	}
}

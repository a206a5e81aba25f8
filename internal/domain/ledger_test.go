package domain

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, seq int64, date time.Time, typ TransactionType, amount int64) *Transaction {
	return &Transaction{
		ID:       id,
		Sequence: seq,
		Date:     date,
		Type:     typ,
		Amount:   decimal.NewFromInt(amount),
		State:    TransactionStateActive,
	}
}

func TestBefore(t *testing.T) {
	a := tx("a", 2, day(1), TransactionTypeCredit, 1)
	b := tx("b", 1, day(2), TransactionTypeCredit, 1)
	if !Before(a, b) {
		t.Fatal("expected earlier date to sort first")
	}

	c := tx("c", 1, day(1), TransactionTypeCredit, 1)
	if !Before(c, a) {
		t.Fatal("expected lower sequence to sort first on equal dates")
	}

	d := tx("d", 1, day(1), TransactionTypeCredit, 1)
	if !Before(c, d) || Before(d, c) {
		t.Fatal("expected id to break ties")
	}
}

func TestReplayAccount_OutOfOrderInsert(t *testing.T) {
	opening := decimal.NewFromInt(1000)
	credit := tx("credit", 1, day(3), TransactionTypeCredit, 500)
	debit := tx("debit", 2, day(2), TransactionTypeDebit, 200)

	res := ReplayAccount(opening, []*Transaction{credit, debit})

	if !res.Final.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("expected final 1300, got %s", res.Final)
	}
	want := map[string]int64{"debit": 800, "credit": 1300}
	if len(res.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(res.Changes))
	}
	for _, ch := range res.Changes {
		if !ch.Balance.Equal(decimal.NewFromInt(want[ch.TransactionID])) {
			t.Fatalf("unexpected balance for %s: %s", ch.TransactionID, ch.Balance)
		}
	}
	if res.Changes[0].TransactionID != "debit" {
		t.Fatalf("expected changes in ledger order, got %s first", res.Changes[0].TransactionID)
	}
}

func TestReplayAccount_SkipsDeletedAndUnchanged(t *testing.T) {
	opening := decimal.NewFromInt(1000)
	credit := tx("credit", 1, day(3), TransactionTypeCredit, 500)
	credit.BalanceAfterTransaction = decimal.NewFromInt(1500)
	debit := tx("debit", 2, day(2), TransactionTypeDebit, 200)
	debit.State = TransactionStateDeleted

	res := ReplayAccount(opening, []*Transaction{credit, debit})

	if len(res.Changes) != 0 {
		t.Fatalf("expected no changes, got %+v", res.Changes)
	}
	if res.Visited != 1 {
		t.Fatalf("expected deleted row to be skipped, visited %d", res.Visited)
	}
	if !res.Final.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected final 1500, got %s", res.Final)
	}
}

func TestReplayAccount_Idempotent(t *testing.T) {
	txs := []*Transaction{
		tx("1", 1, day(1), TransactionTypeCredit, 10),
		tx("2", 2, day(1), TransactionTypeDebit, 3),
		tx("3", 3, day(4), TransactionTypeCredit, 7),
	}
	first := ReplayAccount(decimal.Zero, txs)
	apply(txs, first.Changes, false)

	second := ReplayAccount(decimal.Zero, txs)
	if len(second.Changes) != 0 {
		t.Fatalf("expected second replay to be a no-op, got %d changes", len(second.Changes))
	}
	if !second.Final.Equal(first.Final) {
		t.Fatalf("expected same final balance, got %s and %s", first.Final, second.Final)
	}
}

func TestReplayAccount_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	txs := randomLedger(rng, 30)

	want := ReplayAccount(decimal.NewFromInt(50), txs).Final
	for i := 0; i < 10; i++ {
		shuffled := append([]*Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := ReplayAccount(decimal.NewFromInt(50), shuffled).Final; !got.Equal(want) {
			t.Fatalf("insertion order changed the final balance: %s vs %s", got, want)
		}
	}
}

func TestReplayAccount_PartialMatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	opening := decimal.NewFromInt(1000)

	for iter := 0; iter < 200; iter++ {
		txs := randomLedger(rng, 1+rng.Intn(25))
		apply(txs, ReplayAccount(opening, txs).Changes, false)

		// mutate one row, as an edit would
		victim := txs[rng.Intn(len(txs))]
		oldDate := victim.Date
		victim.Amount = decimal.NewFromInt(int64(1 + rng.Intn(500)))
		victim.Date = day(1 + rng.Intn(20))
		if rng.Intn(4) == 0 {
			victim.State = TransactionStateDeleted
		}
		from := EarliestDate(oldDate, victim.Date)

		full := cloneAll(txs)
		apply(full, ReplayAccount(opening, full).Changes, false)

		partial := cloneAll(txs)
		var last *Transaction
		var tail []*Transaction
		for _, row := range partial {
			if row.IsDeleted() {
				continue
			}
			if row.Date.Before(from) {
				if last == nil || Before(last, row) {
					last = row
				}
				continue
			}
			tail = append(tail, row)
		}
		res := ReplayAccount(AccountSeed(opening, last), tail)
		apply(partial, res.Changes, false)

		wantFinal := ReplayAccount(opening, full).Final
		if !res.Final.Equal(wantFinal) {
			t.Fatalf("iteration %d: partial final %s, full final %s", iter, res.Final, wantFinal)
		}
		for i := range full {
			if full[i].IsDeleted() {
				continue
			}
			if !full[i].BalanceAfterTransaction.Equal(partial[i].BalanceAfterTransaction) {
				t.Fatalf("iteration %d: tx %s balance %s (partial) vs %s (full)",
					iter, full[i].ID, partial[i].BalanceAfterTransaction, full[i].BalanceAfterTransaction)
			}
		}
	}
}

func TestPartyConvention(t *testing.T) {
	debit := tx("d", 1, day(1), TransactionTypeDebit, 100)
	credit := tx("c", 2, day(2), TransactionTypeCredit, 40)

	res := PartyConventionAccount.ReplayParty(decimal.Zero, []*Transaction{debit, credit})
	if !res.Final.Equal(decimal.NewFromInt(-60)) {
		t.Fatalf("account convention: expected -60, got %s", res.Final)
	}

	res = PartyConventionReceivable.ReplayParty(decimal.Zero, []*Transaction{debit, credit})
	if !res.Final.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("receivable convention: expected 60, got %s", res.Final)
	}
	if len(res.Changes) != 2 {
		t.Fatalf("expected missing party snapshots to be written, got %d changes", len(res.Changes))
	}

	if _, err := ParsePartyConvention("payable"); err == nil {
		t.Fatal("expected unknown convention to be rejected")
	}
	if c, _ := ParsePartyConvention(""); c != PartyConventionAccount {
		t.Fatalf("expected account convention by default, got %q", c)
	}
}

func TestPartySeed(t *testing.T) {
	opening := decimal.NewFromInt(5)
	if seed, ok := PartySeed(opening, nil); !ok || !seed.Equal(opening) {
		t.Fatalf("expected opening balance seed, got %s %v", seed, ok)
	}
	if _, ok := PartySeed(opening, tx("x", 1, day(1), TransactionTypeCredit, 1)); ok {
		t.Fatal("expected missing snapshot to force a full replay")
	}
}

func randomLedger(rng *rand.Rand, n int) []*Transaction {
	txs := make([]*Transaction, n)
	for i := range txs {
		typ := TransactionTypeCredit
		if rng.Intn(2) == 0 {
			typ = TransactionTypeDebit
		}
		txs[i] = tx(fmt.Sprintf("tx-%02d", i), int64(rng.Intn(n)), day(1+rng.Intn(20)), typ, int64(1+rng.Intn(500)))
	}
	return txs
}

func apply(txs []*Transaction, changes []BalanceChange, party bool) {
	byID := make(map[string]*Transaction, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
	}
	for _, ch := range changes {
		b := ch.Balance
		if party {
			byID[ch.TransactionID].PartyBalanceAfter = &b
		} else {
			byID[ch.TransactionID].BalanceAfterTransaction = b
		}
	}
}

func cloneAll(txs []*Transaction) []*Transaction {
	out := make([]*Transaction, len(txs))
	for i, t := range txs {
		out[i] = t.Clone()
	}
	return out
}

package report

import (
	"testing"

	"bilancio/internal/core"
)

func TestSignedAmountPolarity(t *testing.T) {
	cases := []struct {
		typ    core.AccountType
		effect core.Effect
		want   int64
	}{
		{core.Asset, core.Credit, -10000},
		{core.Asset, core.Debit, 10000},
		{core.Liability, core.Debit, -10000},
		{core.Liability, core.Credit, 10000},
		{core.Equity, core.Debit, -10000},
		{core.Equity, core.Credit, 10000},
		{core.Revenue, core.Debit, -10000},
		{core.Revenue, core.Credit, 10000},
		{core.Expense, core.Debit, -10000},
		{core.Expense, core.Credit, 10000},
	}
	for _, tc := range cases {
		e := core.Entry{
			Date:    core.NewDate(2024, 1, 5),
			Account: "X",
			Type:    tc.typ,
			Effect:  tc.effect,
			Amount:  core.Money{Cents: 10000},
		}
		if got := SignedAmount(e); got.Cents != tc.want {
			t.Errorf("%s %s: got %d, want %d", tc.typ, tc.effect, got.Cents, tc.want)
		}
	}
}

func TestSignedAmountDiscardsSign(t *testing.T) {
	// Amount is a magnitude: a negative input must not double-negate.
	e := core.Entry{
		Date:    core.NewDate(2024, 1, 5),
		Account: "Cash",
		Type:    core.Asset,
		Effect:  core.Credit,
		Amount:  core.Money{Cents: -10000},
	}
	if got := SignedAmount(e); got.Cents != -10000 {
		t.Fatalf("got %d, want -10000", got.Cents)
	}
}

func TestNormalizeKeepsMissingDates(t *testing.T) {
	entries := []core.Entry{
		{Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 100}},
	}
	lines := Normalize(entries)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !lines[0].Date.Missing() {
		t.Fatalf("missing date should survive normalization")
	}
}

package report

import (
	"regexp"
	"testing"

	"bilancio/internal/core"
)

func balancedLedger() []core.Entry {
	return []core.Entry{
		// Owner funds the company.
		{Date: core.NewDate(2024, 1, 5), Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 100000}},
		{Date: core.NewDate(2024, 1, 5), Account: "Owner Capital", Type: core.Equity, Effect: core.Credit, Amount: core.Money{Cents: 100000}},
		// A sale in February.
		{Date: core.NewDate(2024, 2, 10), Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 50000}},
		{Date: core.NewDate(2024, 2, 10), Account: "Sales Revenue", Type: core.Revenue, Effect: core.Credit, Amount: core.Money{Cents: 50000}},
		// Rent paid in February.
		{Date: core.NewDate(2024, 2, 15), Account: "Rent Expense", Type: core.Expense, Effect: core.Debit, Amount: core.Money{Cents: 20000}},
		{Date: core.NewDate(2024, 2, 15), Account: "Cash", Type: core.Asset, Effect: core.Credit, Amount: core.Money{Cents: 20000}},
	}
}

func TestBuildBalancedLedger(t *testing.T) {
	res, err := Build(balancedLedger(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Imbalances) != 0 {
		t.Fatalf("balanced ledger reported imbalances: %+v", res.Imbalances)
	}

	bs := res.BalanceSheet
	if got := cents(t, bs, LabelTotalAssets, "2024-01"); got != 100000 {
		t.Fatalf("Total Assets Jan = %d", got)
	}
	if got := cents(t, bs, LabelTotalAssets, "2024-02"); got != 130000 {
		t.Fatalf("Total Assets Feb = %d", got)
	}
	if got := cents(t, bs, LabelTotalEquity, "2024-02"); got != 130000 {
		t.Fatalf("Total Equity Feb = %d", got)
	}

	is := res.IncomeStatement
	if got := cents(t, is, LabelNetIncome, "2024-02"); got != 30000 {
		t.Fatalf("Net Income Feb = %d", got)
	}
	if got := cents(t, is, LabelNetIncome, "2024-01"); got != 0 {
		t.Fatalf("Net Income Jan = %d", got)
	}
}

func TestBuildDetectsImbalance(t *testing.T) {
	// A one-sided entry cannot balance.
	entries := []core.Entry{
		{Date: core.NewDate(2024, 1, 5), Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 100000}},
	}
	res, err := Build(entries, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Imbalances) != 1 {
		t.Fatalf("imbalances = %+v", res.Imbalances)
	}
	if res.Imbalances[0].Difference.Cents != 100000 {
		t.Fatalf("difference = %d", res.Imbalances[0].Difference.Cents)
	}
}

func TestBuildEmptyLedger(t *testing.T) {
	res, err := Build(nil, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.IncomeStatement.Empty() || !res.BalanceSheet.Empty() {
		t.Fatalf("expected empty tables")
	}
	if len(res.IncomeStatement.Months) != 0 || len(res.BalanceSheet.Months) != 0 {
		t.Fatalf("expected no month columns")
	}
}

func TestBuildCountsMissingDates(t *testing.T) {
	entries := append(balancedLedger(), core.Entry{
		Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 100},
	})
	res, err := Build(entries, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.MissingDates != 1 {
		t.Fatalf("MissingDates = %d, want 1", res.MissingDates)
	}
}

func TestBuildRejectsInvalidEntry(t *testing.T) {
	entries := []core.Entry{
		{Date: core.NewDate(2024, 1, 5), Account: "Cash", Type: "Widget", Effect: core.Debit, Amount: core.Money{Cents: 1}},
	}
	if _, err := Build(entries, Options{}); err == nil {
		t.Fatalf("expected error for invalid type")
	}
}

func TestBuildNamePatternFallback(t *testing.T) {
	// With the naming-convention classifier, the type column is ignored
	// for routing and the label decides.
	entries := []core.Entry{
		{Date: core.NewDate(2024, 1, 5), Account: "Misc Revenue", Type: core.Revenue, Effect: core.Credit, Amount: core.Money{Cents: 1000}},
		{Date: core.NewDate(2024, 1, 5), Account: "Cash", Type: core.Asset, Effect: core.Debit, Amount: core.Money{Cents: 1000}},
	}
	res, err := Build(entries, Options{Classifier: NamePatternClassifier{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := cents(t, res.IncomeStatement, "Misc", "2024-01"); got != 1000 {
		t.Fatalf("Misc = %d", got)
	}
}

func TestBuildCellsHaveTwoDecimals(t *testing.T) {
	res, err := Build(balancedLedger(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	twoDecimals := regexp.MustCompile(`^-?\d+\.\d{2}$`)
	for _, tbl := range []Table{res.IncomeStatement, res.BalanceSheet} {
		for _, row := range tbl.Rows {
			for _, c := range row.Cells {
				if !c.Valid {
					continue
				}
				if s := c.Amount.String(); !twoDecimals.MatchString(s) {
					t.Fatalf("%s/%s: cell %q not two-decimal", tbl.Title, row.Label, s)
				}
			}
		}
	}
}

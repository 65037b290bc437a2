package report

import (
	"regexp"
	"testing"

	"bilancio/internal/core"
)

func cents(t *testing.T, tbl Table, label, month string) int64 {
	t.Helper()
	row, ok := tbl.Lookup(label)
	if !ok {
		t.Fatalf("no row %q in %q", label, tbl.Title)
	}
	for i, m := range tbl.Months {
		if m == month {
			if !row.Cells[i].Valid {
				t.Fatalf("%s %s: cell not set", label, month)
			}
			return row.Cells[i].Amount.Cents
		}
	}
	t.Fatalf("no month %q", month)
	return 0
}

func TestBuildIncomeStatementNetIncome(t *testing.T) {
	// Revenue CREDIT 500 and Expense DEBIT 200 in the same month:
	// net income 300, expenses displayed as +200.
	rows, _ := AggregateDaily([]Line{
		line(2024, 1, 10, "Sales Revenue", core.Revenue, 50000),
		line(2024, 1, 12, "Office Expense", core.Expense, -20000),
	})
	tbl, net := BuildIncomeStatement(rows, monthsOf(rows))

	if got := cents(t, tbl, "Sales", "2024-01"); got != 50000 {
		t.Fatalf("Sales = %d", got)
	}
	if got := cents(t, tbl, "Office", "2024-01"); got != 20000 {
		t.Fatalf("Office shown as %d, want +20000 (sign flipped)", got)
	}
	if got := cents(t, tbl, LabelTotalRev, "2024-01"); got != 50000 {
		t.Fatalf("Total Revenues = %d", got)
	}
	if got := cents(t, tbl, LabelTotalExp, "2024-01"); got != 20000 {
		t.Fatalf("Total Expenses = %d", got)
	}
	if got := cents(t, tbl, LabelNetIncome, "2024-01"); got != 30000 {
		t.Fatalf("Net Income = %d", got)
	}
	if len(net) != 1 || net[0].Cents != 30000 {
		t.Fatalf("net income series = %v", net)
	}
}

func TestBuildIncomeStatementZeroFill(t *testing.T) {
	// An account active in January only shows an explicit zero in
	// February, not a carried-forward balance.
	rows, _ := AggregateDaily([]Line{
		line(2024, 1, 10, "Office Expense", core.Expense, -20000),
		line(2024, 2, 10, "Sales Revenue", core.Revenue, 50000),
	})
	tbl, _ := BuildIncomeStatement(rows, monthsOf(rows))
	if got := cents(t, tbl, "Office", "2024-02"); got != 0 {
		t.Fatalf("Office 2024-02 = %d, want 0", got)
	}
}

func TestBuildIncomeStatementYearTotal(t *testing.T) {
	rows, _ := AggregateDaily([]Line{
		line(2024, 1, 10, "Sales Revenue", core.Revenue, 10000),
		line(2024, 2, 10, "Sales Revenue", core.Revenue, 25000),
	})
	tbl, _ := BuildIncomeStatement(rows, monthsOf(rows))
	row, _ := tbl.Lookup("Sales")
	if !row.YearTotal.Valid || row.YearTotal.Amount.Cents != 35000 {
		t.Fatalf("year total = %+v", row.YearTotal)
	}
	net, _ := tbl.Lookup(LabelNetIncome)
	if net.YearTotal.Amount.Cents != 35000 {
		t.Fatalf("net income year total = %+v", net.YearTotal)
	}
}

func TestBuildIncomeStatementRowOrder(t *testing.T) {
	rows, _ := AggregateDaily([]Line{
		line(2024, 1, 10, "Sales Revenue", core.Revenue, 10000),
		line(2024, 1, 11, "Rent Expense", core.Expense, -5000),
		line(2024, 1, 12, "Ads Expense", core.Expense, -1000),
	})
	tbl, _ := BuildIncomeStatement(rows, monthsOf(rows))
	want := []string{"Sales", LabelTotalRev, "Ads", "Rent", LabelTotalExp, LabelNetIncome}
	if len(tbl.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(tbl.Rows), len(want))
	}
	for i, w := range want {
		if tbl.Rows[i].Label != w {
			t.Fatalf("row %d = %q, want %q", i, tbl.Rows[i].Label, w)
		}
	}
	if tbl.Rows[0].Section != SectionRevenues {
		t.Fatalf("first row section = %q", tbl.Rows[0].Section)
	}
	if tbl.Rows[2].Section != SectionExpenses {
		t.Fatalf("first expense section = %q", tbl.Rows[2].Section)
	}
}

func TestPresentLabel(t *testing.T) {
	cases := []struct {
		in    string
		strip *regexp.Regexp
		want  string
	}{
		{"Sales Revenue", stripRevenue, "Sales"},
		{"Revenue Sales", stripRevenue, "Sales"},
		{"Office Expense", stripExpense, "Office"},
		{"Expense   Travel", stripExpense, "Travel"},
		{"Revenue", stripRevenue, "Revenue"}, // stripping everything keeps the original
		{"Cash", stripExpense, "Cash"},
		// Each section only strips its own word.
		{"Revenue Expense Recovery", stripRevenue, "Expense Recovery"},
		{"Expense Revenue Share", stripExpense, "Revenue Share"},
	}
	for _, tc := range cases {
		if got := presentLabel(tc.in, tc.strip); got != tc.want {
			t.Errorf("presentLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

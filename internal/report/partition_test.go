package report

import (
	"testing"

	"bilancio/internal/core"
)

func TestTypeClassifier(t *testing.T) {
	rows := []DayTotal{
		{Account: "Sales Revenue", Type: core.Revenue},
		{Account: "Rent Expense", Type: core.Expense},
		{Account: "Cash", Type: core.Asset},
		{Account: "Loan", Type: core.Liability},
		{Account: "Owner Capital", Type: core.Equity},
	}
	income, balance := Partition(rows, TypeClassifier{})
	if len(income) != 2 || len(balance) != 3 {
		t.Fatalf("got %d income, %d balance", len(income), len(balance))
	}
}

func TestNamePatternClassifier(t *testing.T) {
	cases := []struct {
		account string
		income  bool
	}{
		{"Sales Revenue", true},
		{"REVENUE misc", true},
		{"Office expense", true},
		{"Prepaid Expenses", true}, // substring match, by convention
		{"Cash", false},
		{"Accounts Receivable", false},
	}
	c := NamePatternClassifier{}
	for _, tc := range cases {
		got := c.IncomeStatement(DayTotal{Account: tc.account})
		if got != tc.income {
			t.Errorf("%q: got %v, want %v", tc.account, got, tc.income)
		}
	}
}

func TestPartitionUnmatchedFallsToBalanceSheet(t *testing.T) {
	// No error path: an account matching neither word is silently a
	// balance sheet item.
	rows := []DayTotal{{Account: "Mystery", Type: core.Asset}}
	income, balance := Partition(rows, NamePatternClassifier{})
	if len(income) != 0 || len(balance) != 1 {
		t.Fatalf("got %d income, %d balance", len(income), len(balance))
	}
}

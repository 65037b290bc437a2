package render

import (
	"strings"
	"testing"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

func sampleTable(t *testing.T) report.Table {
	t.Helper()
	res, err := report.Build([]core.Entry{
		{Date: core.NewDate(2024, 1, 10), Account: "Sales Revenue", Type: core.Revenue, Effect: core.Credit, Amount: core.Money{Cents: 123456700}},
		{Date: core.NewDate(2024, 1, 12), Account: "Office Expense", Type: core.Expense, Effect: core.Debit, Amount: core.Money{Cents: 20000}},
	}, report.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res.IncomeStatement
}

func TestAmount(t *testing.T) {
	cases := []struct {
		cell report.Cell
		want string
	}{
		{report.Cell{}, ""},
		{report.Cell{Amount: core.Money{Cents: 0}, Valid: true}, ""},
		{report.Cell{Amount: core.Money{Cents: 1234}, Valid: true}, "12.34"},
		{report.Cell{Amount: core.Money{Cents: 123456700}, Valid: true}, "1,234,567.00"},
		{report.Cell{Amount: core.Money{Cents: -7000}, Valid: true}, "-70.00"},
		{report.Cell{Amount: core.Money{Cents: -123456}, Valid: true}, "-1,234.56"},
	}
	for i, tc := range cases {
		if got := Amount(tc.cell); got != tc.want {
			t.Errorf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 1, 5, 13, 15, 0, 0, time.UTC)
	got := Filename("Income Statement", now, "html")
	want := "Income Statement 20240105_131500.html"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestText(t *testing.T) {
	var b strings.Builder
	if err := Text(&b, sampleTable(t)); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Income Statement", "2024-01", "Sales", "1,234,567.00", "Net Income"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextEmptyTable(t *testing.T) {
	var b strings.Builder
	if err := Text(&b, report.Table{Title: "Income Statement"}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(b.String(), "(no data)") {
		t.Fatalf("output = %q", b.String())
	}
}

func TestHTML(t *testing.T) {
	var b strings.Builder
	if err := HTML(&b, sampleTable(t)); err != nil {
		t.Fatalf("HTML: %v", err)
	}
	out := b.String()
	for _, want := range []string{"<table>", "Income Statement", "2024-01", "1,234,567.00", "Year Total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	// Zero cells render blank, not "0.00".
	if strings.Contains(out, ">0.00<") {
		t.Fatalf("zero cells should be blank:\n%s", out)
	}
}

package ledger

import (
	"errors"
	"strings"
	"testing"

	"bilancio/internal/core"
)

const sample = `Date,Account,Type,Effect,Amount
2024-01-05,Cash,Asset,CREDIT,100.00
2024-01-06,Cash,Asset,DEBIT,30
`

func TestReadCSV(t *testing.T) {
	entries, err := ReadCSV(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e.Account != "Cash" || e.Type != core.Asset || e.Effect != core.Credit {
		t.Fatalf("entry = %+v", e)
	}
	if e.Amount.Cents != 10000 {
		t.Fatalf("amount = %d", e.Amount.Cents)
	}
	if e.Date.YearMonth() != "2024-01" {
		t.Fatalf("date = %v", e.Date)
	}
}

func TestReadCSVHeaderCaseInsensitive(t *testing.T) {
	in := "date,ACCOUNT,type,effect,amount\n2024-01-05,Cash,Asset,DEBIT,1.00\n"
	entries, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("lowercase header should validate: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	in := "Date,Account,Amount\n2024-01-05,Cash,1.00\n"
	_, err := ReadCSV(strings.NewReader(in))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 2 {
		t.Fatalf("missing = %v, want Type and Effect", schemaErr.Missing)
	}
}

func TestReadCSVUnparseableDateBecomesSentinel(t *testing.T) {
	in := "Date,Account,Type,Effect,Amount\nnot-a-date,Cash,Asset,DEBIT,1.00\n"
	entries, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("bad date must not abort: %v", err)
	}
	if !entries[0].Date.Missing() {
		t.Fatalf("expected missing-date sentinel, got %v", entries[0].Date)
	}
}

func TestReadCSVBadRows(t *testing.T) {
	cases := []string{
		"Date,Account,Type,Effect,Amount\n2024-01-05,Cash,Widget,DEBIT,1.00\n",
		"Date,Account,Type,Effect,Amount\n2024-01-05,Cash,Asset,TRANSFER,1.00\n",
		"Date,Account,Type,Effect,Amount\n2024-01-05,Cash,Asset,DEBIT,abc\n",
	}
	for i, in := range cases {
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestReadCSVExtraColumnsIgnored(t *testing.T) {
	in := "Memo,Date,Account,Type,Effect,Amount\nhello,2024-01-05,Cash,Asset,DEBIT,1.00\n"
	entries, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if entries[0].Account != "Cash" {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for empty input, got %v", err)
	}
}

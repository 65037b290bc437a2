// Package ledger loads raw transaction ledgers from CSV into core
// entries. It owns the schema contract: a header row with the Date,
// Account, Type, Effect and Amount columns, matched case-insensitively.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bilancio/internal/core"
)

// Columns the schema requires. Matching is case-insensitive: "date" and
// "DATE" are the same column as "Date".
var requiredColumns = []string{"Date", "Account", "Type", "Effect", "Amount"}

// dateLayouts tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// SchemaError is the fatal validation error for a ledger missing required
// columns. It names every missing column, not just the first.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ledger must contain columns %v; missing %v", requiredColumns, e.Missing)
}

// ReadCSV parses a ledger from CSV. Unparseable dates become the
// missing-date sentinel rather than failing the whole file; anything else
// malformed in a row (bad type, bad effect, bad amount) is an error
// naming the line.
func ReadCSV(r io.Reader) ([]core.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []core.Entry
	for lineNo := 2; ; lineNo++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		entry, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseTable parses an already-tokenized table: a header row plus data
// records. It applies the same schema contract as ReadCSV, so other
// tabular sources (spreadsheets) share one set of rules.
func ParseTable(header []string, records [][]string) ([]core.Entry, error) {
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}
	var entries []core.Entry
	for i, record := range records {
		entry, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadFile reads a ledger CSV from disk.
func LoadFile(path string) ([]core.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

type columnIndex struct {
	date, account, typ, effect, amount int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	lookup := func(name string) int {
		if i, ok := idx[strings.ToLower(name)]; ok {
			return i
		}
		missing = append(missing, name)
		return -1
	}

	cols := columnIndex{
		date:    lookup("Date"),
		account: lookup("Account"),
		typ:     lookup("Type"),
		effect:  lookup("Effect"),
		amount:  lookup("Amount"),
	}
	if len(missing) > 0 {
		return columnIndex{}, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndex) (core.Entry, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	typ, err := core.ParseAccountType(field(cols.typ))
	if err != nil {
		return core.Entry{}, err
	}
	effect, err := core.ParseEffect(field(cols.effect))
	if err != nil {
		return core.Entry{}, err
	}
	cents, err := core.ParseDecimalToCents(field(cols.amount))
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, field(cols.amount))
	}

	entry := core.Entry{
		Date:    parseDate(field(cols.date)),
		Account: field(cols.account),
		Type:    typ,
		Effect:  effect,
		Amount:  core.Money{Cents: cents},
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, err
	}
	return entry, nil
}

// parseDate tries the known layouts; failures yield the missing-date
// sentinel so a single bad date never aborts the run.
func parseDate(s string) core.Date {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t.UTC()}
		}
	}
	return core.Date{}
}

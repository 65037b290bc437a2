// Package report transforms a ledger into an income statement and a
// balance sheet, aggregated by calendar month.
//
// The pipeline is a chain of pure stages: normalize applies the
// double-entry sign convention, aggregate collapses same-day entries and
// buckets by month, partition routes rows to one of the two statements,
// and the two builders pivot rows into month-by-account tables with
// section totals. No stage performs I/O and no stage mutates its input.
package report

import (
	"regexp"

	"bilancio/internal/core"
)

// monthPattern recognizes "YYYY-MM" column keys.
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type (
	// Cell is one numeric table cell. Invalid cells are months where a
	// balance-sheet row has no observation yet; renderers display them
	// blank rather than as zero.
	Cell struct {
		Amount core.Money
		Valid  bool
	}

	// Row is one line of a finished report: an account line, a section
	// total, or the net income line.
	Row struct {
		Section   string
		Label     string
		Cells     []Cell // aligned with Table.Months
		YearTotal Cell   // income statement only
		IsTotal   bool
	}

	// Table is a finished report: rows by account under section labels,
	// one column per observed month in ascending order.
	Table struct {
		Title  string
		Months []string
		Rows   []Row
	}
)

func cell(m core.Money) Cell {
	return Cell{Amount: m, Valid: true}
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Lookup returns the first row with the given label.
func (t Table) Lookup(label string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// totalRow sums the given rows column-wise under the given label.
// Invalid cells count as zero, matching carry-forward semantics where a
// never-observed account simply contributes nothing.
func totalRow(rows []Row, months []string, label string, withYearTotal bool) Row {
	total := Row{Label: label, Cells: make([]Cell, len(months)), IsTotal: true}
	for i := range total.Cells {
		total.Cells[i] = cell(core.Money{})
	}
	for _, r := range rows {
		for i, c := range r.Cells {
			if c.Valid {
				total.Cells[i].Amount = total.Cells[i].Amount.Add(c.Amount)
			}
		}
	}
	if withYearTotal {
		total.YearTotal = yearTotal(total.Cells, months)
	}
	return total
}

// yearTotal sums the cells whose column key matches the month pattern.
func yearTotal(cells []Cell, months []string) Cell {
	var sum core.Money
	for i, m := range months {
		if !monthPattern.MatchString(m) {
			continue
		}
		if cells[i].Valid {
			sum = sum.Add(cells[i].Amount)
		}
	}
	return cell(sum)
}

// flip negates every valid cell of the row, for presentation of expense
// lines as positive magnitudes.
func flip(r Row) Row {
	out := Row{Section: r.Section, Label: r.Label, IsTotal: r.IsTotal, YearTotal: r.YearTotal}
	out.Cells = make([]Cell, len(r.Cells))
	for i, c := range r.Cells {
		out.Cells[i] = c
		if c.Valid {
			out.Cells[i].Amount = c.Amount.Neg()
		}
	}
	if r.YearTotal.Valid {
		out.YearTotal.Amount = r.YearTotal.Amount.Neg()
	}
	return out
}

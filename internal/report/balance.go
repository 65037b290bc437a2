package report

import (
	"sort"

	"bilancio/internal/core"
)

const (
	SectionAssets      = "Assets"
	SectionLiabilities = "Liabilities"
	SectionEquities    = "Equities"
	LabelTotalAssets   = "Total Assets"
	LabelTotalLiab     = "Total Liabilities"
	LabelTotalEquity   = "Total Equity"
)

// BuildBalanceSheet pivots the balance-sheet partition into an
// account-by-month table of cumulative balances. Months with no activity
// inherit the prior balance (forward fill); months before an account's
// first observation stay blank. The income statement's monthly net income
// is folded into equity as a running total.
//
// rows must already be sorted by (Account, Month, Day): the per-account
// cumulative sum below depends on it.
func BuildBalanceSheet(rows []DayTotal, months []string, netIncome []core.Money) Table {
	t := Table{Title: TitleBalance, Months: months}
	if len(months) == 0 {
		return t
	}

	monthIdx := make(map[string]int, len(months))
	for i, m := range months {
		monthIdx[m] = i
	}

	// Cumulative activity per account. rows is sorted, so the running
	// sum walks each account's months in ascending order.
	type key struct {
		typ     core.AccountType
		account string
	}
	cells := make(map[key][]Cell)
	running := make(map[key]core.Money)
	for _, r := range rows {
		k := key{typ: r.Type, account: r.Account}
		running[k] = running[k].Add(r.Amount)
		cs, ok := cells[k]
		if !ok {
			cs = make([]Cell, len(months))
			cells[k] = cs
		}
		cs[monthIdx[r.Month]] = cell(running[k])
	}

	// Forward fill: no transaction this month means the balance is
	// unchanged, not zero.
	for _, cs := range cells {
		for i := 1; i < len(cs); i++ {
			if !cs[i].Valid && cs[i-1].Valid {
				cs[i] = cs[i-1]
			}
		}
	}

	section := func(typ core.AccountType) []Row {
		var names []string
		for k := range cells {
			if k.typ == typ {
				names = append(names, k.account)
			}
		}
		sort.Strings(names)
		out := make([]Row, 0, len(names))
		for _, name := range names {
			out = append(out, Row{Label: name, Cells: cells[key{typ: typ, account: name}]})
		}
		return out
	}

	assets := section(core.Asset)
	liabilities := section(core.Liability)
	equities := section(core.Equity)

	// Retained earnings: the income statement's net income, cumulated
	// across months, leads the equity section.
	retained := Row{Label: LabelNetIncome, Cells: make([]Cell, len(months))}
	var sum core.Money
	for i, v := range netIncome {
		sum = sum.Add(v)
		retained.Cells[i] = cell(sum)
	}
	equities = append([]Row{retained}, equities...)

	totalAssets := totalRow(assets, months, LabelTotalAssets, false)
	totalLiab := totalRow(liabilities, months, LabelTotalLiab, false)
	totalEquity := totalRow(equities, months, LabelTotalEquity, false)

	if len(assets) > 0 {
		assets[0].Section = SectionAssets
	}
	if len(liabilities) > 0 {
		liabilities[0].Section = SectionLiabilities
	}
	equities[0].Section = SectionEquities

	t.Rows = append(t.Rows, assets...)
	t.Rows = append(t.Rows, totalAssets)
	t.Rows = append(t.Rows, liabilities...)
	t.Rows = append(t.Rows, totalLiab)
	t.Rows = append(t.Rows, equities...)
	t.Rows = append(t.Rows, totalEquity)
	return t
}

package report

import (
	"regexp"
	"sort"
	"strings"

	"bilancio/internal/core"
)

const (
	SectionRevenues = "Revenues"
	SectionExpenses = "Expenses"
	LabelTotalRev   = "Total Revenues"
	LabelTotalExp   = "Total Expenses"
	LabelNetIncome  = "Net Income"
	ColumnYearTotal = "Year Total"
	TitleIncome     = "Income Statement"
	TitleBalance    = "Balance Sheet"
)

// Each section strips only its own category word, plus any whitespace
// that follows it, from account labels for presentation. "Revenue Sales"
// and "Consulting Revenue" both lose the word "Revenue" under Revenues,
// yet a label mentioning the other section's word keeps it.
var (
	stripRevenue = regexp.MustCompile(`Revenue\s*`)
	stripExpense = regexp.MustCompile(`Expense\s*`)
)

// BuildIncomeStatement pivots the income-statement partition into an
// account-by-month table with category totals and a net income line.
//
// The returned netIncome slice is the per-month net income, unflipped and
// uncumulated, aligned with months; the balance sheet builder folds it
// into equity.
func BuildIncomeStatement(rows []DayTotal, months []string) (Table, []core.Money) {
	t := Table{Title: TitleIncome, Months: months}
	netIncome := make([]core.Money, len(months))
	if len(months) == 0 {
		return t, netIncome
	}

	monthIdx := make(map[string]int, len(months))
	for i, m := range months {
		monthIdx[m] = i
	}

	// Collapse to (account, month) sums; day granularity is gone here.
	type key struct {
		account string
		month   string
	}
	sums := make(map[key]core.Money)
	accounts := make(map[string]core.AccountType)
	for _, r := range rows {
		sums[key{r.Account, r.Month}] = sums[key{r.Account, r.Month}].Add(r.Amount)
		accounts[r.Account] = r.Type
	}

	// Pivot, zero-filled: a month with no activity for an account is a
	// real zero on the income statement, unlike the balance sheet.
	pivot := func(names []string, strip *regexp.Regexp) []Row {
		out := make([]Row, 0, len(names))
		for _, name := range names {
			row := Row{Label: presentLabel(name, strip), Cells: make([]Cell, len(months))}
			for i := range row.Cells {
				row.Cells[i] = cell(core.Money{})
			}
			for m, i := range monthIdx {
				if v, ok := sums[key{name, m}]; ok {
					row.Cells[i] = cell(v)
				}
			}
			row.YearTotal = yearTotal(row.Cells, months)
			out = append(out, row)
		}
		return out
	}

	var revNames, expNames []string
	for name, typ := range accounts {
		if isRevenue(name, typ) {
			revNames = append(revNames, name)
		} else {
			expNames = append(expNames, name)
		}
	}
	sort.Strings(revNames)
	sort.Strings(expNames)

	revenues := pivot(revNames, stripRevenue)
	expenses := pivot(expNames, stripExpense)

	revTotal := totalRow(revenues, months, LabelTotalRev, true)
	expTotal := totalRow(expenses, months, LabelTotalExp, true)

	// Net income is straight addition: expense amounts are already
	// negative under the sign convention.
	for i := range months {
		netIncome[i] = revTotal.Cells[i].Amount.Add(expTotal.Cells[i].Amount)
	}
	netRow := Row{Section: LabelNetIncome, Label: LabelNetIncome, Cells: make([]Cell, len(months)), IsTotal: true}
	for i, v := range netIncome {
		netRow.Cells[i] = cell(v)
	}
	netRow.YearTotal = yearTotal(netRow.Cells, months)

	// Expenses display as positive magnitudes; the net income math above
	// already used their signed values.
	for i := range expenses {
		expenses[i] = flip(expenses[i])
	}
	expTotal = flip(expTotal)

	if len(revenues) > 0 {
		revenues[0].Section = SectionRevenues
	}
	if len(expenses) > 0 {
		expenses[0].Section = SectionExpenses
	}

	t.Rows = append(t.Rows, revenues...)
	t.Rows = append(t.Rows, revTotal)
	t.Rows = append(t.Rows, expenses...)
	t.Rows = append(t.Rows, expTotal)
	t.Rows = append(t.Rows, netRow)
	return t, netIncome
}

// isRevenue classifies an account as revenue by its explicit type, falling
// back to the naming convention for rows routed in by name pattern.
func isRevenue(account string, typ core.AccountType) bool {
	switch typ {
	case core.Revenue:
		return true
	case core.Expense:
		return false
	}
	return strings.Contains(strings.ToLower(account), "revenue")
}

func presentLabel(account string, strip *regexp.Regexp) string {
	stripped := strings.TrimSpace(strip.ReplaceAllString(account, ""))
	if stripped == "" {
		return account
	}
	return stripped
}

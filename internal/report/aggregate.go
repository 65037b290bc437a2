package report

import (
	"sort"

	"bilancio/internal/core"
)

// DayTotal is the signed activity of one account on one day, with the
// month bucket the day falls into.
type DayTotal struct {
	Day     core.Date
	Type    core.AccountType
	Account string
	Month   string // "YYYY-MM"
	Amount  core.Money
}

// AggregateDaily collapses same-day entries for the same account into one
// row and sorts the result by (Account, Month, Day) ascending. The sort is
// a correctness precondition for the balance sheet's cumulative sums, not
// cosmetics.
//
// Rows with a missing date cannot be bucketed into a month; they are
// dropped and counted so the caller can surface a warning.
func AggregateDaily(lines []Line) (rows []DayTotal, missingDates int) {
	type key struct {
		day     core.Date
		typ     core.AccountType
		account string
	}
	sums := make(map[key]core.Money)
	for _, l := range lines {
		if l.Date.Missing() {
			missingDates++
			continue
		}
		k := key{day: l.Date.DayKey(), typ: l.Type, account: l.Account}
		sums[k] = sums[k].Add(l.Signed)
	}

	rows = make([]DayTotal, 0, len(sums))
	for k, sum := range sums {
		rows = append(rows, DayTotal{
			Day:     k.day,
			Type:    k.typ,
			Account: k.account,
			Month:   k.day.YearMonth(),
			Amount:  sum,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Account != rows[j].Account {
			return rows[i].Account < rows[j].Account
		}
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].Day.Before(rows[j].Day.Time)
	})
	return rows, missingDates
}

// monthsOf returns the sorted distinct months across the rows. Both
// statements share one column set so the net income row always aligns.
func monthsOf(rows []DayTotal) []string {
	seen := make(map[string]bool)
	var months []string
	for _, r := range rows {
		if !seen[r.Month] {
			seen[r.Month] = true
			months = append(months, r.Month)
		}
	}
	sort.Strings(months)
	return months
}

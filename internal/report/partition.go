package report

import "strings"

// Classifier decides whether an aggregated row belongs on the income
// statement. Rows it rejects land on the balance sheet; there is no error
// path for unmatched accounts.
type Classifier interface {
	IncomeStatement(row DayTotal) bool
}

// TypeClassifier routes by the explicit account type. This is the primary
// strategy: the ledger schema carries a Type column, so the fragile
// name-matching rule is not needed when callers populate it correctly.
type TypeClassifier struct{}

func (TypeClassifier) IncomeStatement(row DayTotal) bool {
	return row.Type.IncomeStatement()
}

// NamePatternClassifier routes by account naming convention: any account
// whose name contains "expense" or "revenue", case-insensitively, is an
// income statement item. Kept as a migration path for charts of accounts
// that encode the category only in the label.
type NamePatternClassifier struct{}

func (NamePatternClassifier) IncomeStatement(row DayTotal) bool {
	name := strings.ToLower(row.Account)
	return strings.Contains(name, "expense") || strings.Contains(name, "revenue")
}

// Partition splits aggregated rows into the income statement set and the
// balance sheet set, preserving order.
func Partition(rows []DayTotal, c Classifier) (income, balance []DayTotal) {
	for _, r := range rows {
		if c.IncomeStatement(r) {
			income = append(income, r)
		} else {
			balance = append(balance, r)
		}
	}
	return income, balance
}

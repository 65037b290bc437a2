package report

import (
	"fmt"

	"bilancio/internal/core"
)

// Result carries both finished statements plus diagnostics the caller may
// want to log: dropped missing-date rows and accounting equation
// violations. Neither diagnostic fails the build.
type Result struct {
	IncomeStatement Table
	BalanceSheet    Table
	MissingDates    int
	Imbalances      []Imbalance
}

// Options tunes a build. The zero value uses the explicit-type classifier.
type Options struct {
	// Classifier routes aggregated rows between the two statements.
	// Defaults to TypeClassifier; NamePatternClassifier is the legacy
	// naming-convention rule.
	Classifier Classifier
}

// Build runs the whole pipeline over a validated ledger. It is a pure
// function: no I/O, no shared state, safe to call concurrently on
// independent ledgers.
func Build(entries []core.Entry, opts Options) (Result, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return Result{}, fmt.Errorf("ledger row %d: %w", i, err)
		}
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = TypeClassifier{}
	}

	lines := Normalize(entries)
	rows, missing := AggregateDaily(lines)
	months := monthsOf(rows)
	incomeRows, balanceRows := Partition(rows, classifier)

	income, netIncome := BuildIncomeStatement(incomeRows, months)
	balance := BuildBalanceSheet(balanceRows, months, netIncome)

	return Result{
		IncomeStatement: income,
		BalanceSheet:    balance,
		MissingDates:    missing,
		Imbalances:      CheckBalanced(balance),
	}, nil
}

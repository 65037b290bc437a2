package report

import "bilancio/internal/core"

// Imbalance is one month where the accounting equation does not hold.
type Imbalance struct {
	Month      string
	Assets     core.Money
	LiabEquity core.Money
	Difference core.Money
}

// CheckBalanced verifies Total Assets == Total Liabilities + Total Equity
// for every month of a finished balance sheet. The equation is a property
// of the input ledger, not of the transformation, so violations are
// reported for the caller to log rather than raised as errors.
func CheckBalanced(balance Table) []Imbalance {
	assets, okA := balance.Lookup(LabelTotalAssets)
	liab, okL := balance.Lookup(LabelTotalLiab)
	equity, okE := balance.Lookup(LabelTotalEquity)
	if !okA || !okL || !okE {
		return nil
	}

	var out []Imbalance
	for i, month := range balance.Months {
		a := assets.Cells[i].Amount
		le := liab.Cells[i].Amount.Add(equity.Cells[i].Amount)
		if a != le {
			out = append(out, Imbalance{
				Month:      month,
				Assets:     a,
				LiabEquity: le,
				Difference: a.Add(le.Neg()),
			})
		}
	}
	return out
}

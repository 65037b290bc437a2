package report

import "bilancio/internal/core"

// Line is a ledger entry with its signed amount applied.
type Line struct {
	Date    core.Date
	Account string
	Type    core.AccountType
	Signed  core.Money
}

// SignedAmount applies the double-entry sign convention: debits increase
// assets, credits increase liabilities, equity, revenues and expenses.
// The entry amount is treated as a magnitude; its own sign is discarded.
func SignedAmount(e core.Entry) core.Money {
	mag := e.Amount.Abs()
	if e.Type == core.Asset {
		if e.Effect == core.Credit {
			return mag.Neg()
		}
		return mag
	}
	if e.Effect == core.Debit {
		return mag.Neg()
	}
	return mag
}

// Normalize computes the signed amount for every entry. Entries with a
// missing date pass through; the aggregator decides their fate.
func Normalize(entries []core.Entry) []Line {
	lines := make([]Line, len(entries))
	for i, e := range entries {
		lines[i] = Line{
			Date:    e.Date,
			Account: e.Account,
			Type:    e.Type,
			Signed:  SignedAmount(e),
		}
	}
	return lines
}

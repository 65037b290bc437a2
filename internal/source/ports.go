// Package source defines the inbound ledger port. A LedgerReader hands
// back the raw entries a report run starts from, whether they live in
// memory, in a CSV file or in a Google spreadsheet.
package source

import (
	"context"

	"bilancio/internal/core"
)

type LedgerReader interface {
	ReadLedger(ctx context.Context) ([]core.Entry, error)
}

package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bilancio/internal/report"
)

// Text writes the table as a fixed-width terminal layout: section label,
// account, one column per month, plus the year total when present.
func Text(w io.Writer, t report.Table) error {
	fmt.Fprintln(w, t.Title)
	if t.Empty() {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', tabwriter.AlignRight)

	hasYearTotal := false
	for _, row := range t.Rows {
		if row.YearTotal.Valid {
			hasYearTotal = true
			break
		}
	}

	fmt.Fprint(tw, "\t")
	for _, m := range t.Months {
		fmt.Fprintf(tw, "\t%s", m)
	}
	if hasYearTotal {
		fmt.Fprintf(tw, "\t%s", report.ColumnYearTotal)
	}
	fmt.Fprintln(tw)

	for _, row := range t.Rows {
		fmt.Fprintf(tw, "%s\t%s", row.Section, row.Label)
		for _, c := range row.Cells {
			fmt.Fprintf(tw, "\t%s", Amount(c))
		}
		if hasYearTotal {
			fmt.Fprintf(tw, "\t%s", Amount(row.YearTotal))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Package render formats finished report tables for humans: a
// fixed-width text layout for terminals and a styled HTML export. It
// never changes numeric content; zero and unobserved cells display blank
// so the statements read the way accountants expect.
package render

import (
	"strings"
	"time"

	"bilancio/internal/report"
)

// Amount formats a cell for display: blank for unobserved cells and for
// zeros, otherwise thousands separators and two decimals.
func Amount(c report.Cell) string {
	if !c.Valid || c.Amount.Cents == 0 {
		return ""
	}
	s := c.Amount.String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Filename builds a timestamped export filename. The clock is an explicit
// argument: callers decide what "now" means, nothing here caches it.
func Filename(title string, now time.Time, ext string) string {
	return title + " " + now.Format("20060102_150405") + "." + ext
}

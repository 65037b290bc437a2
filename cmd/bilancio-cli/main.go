// Command bilancio-cli builds financial reports from a ledger without
// running the server: read a CSV (or a Google spreadsheet), print the
// income statement and balance sheet, optionally export them as HTML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/config"
	"bilancio/internal/render"
	"bilancio/internal/report"
	"bilancio/internal/source"
	"bilancio/internal/source/google"
	"bilancio/internal/source/memory"
)

func main() {
	_ = godotenv.Load()

	var (
		ledgerPath = flag.String("ledger", "", "path to the ledger CSV")
		fromSheets = flag.Bool("sheets", false, "read the ledger from Google Sheets (GOOGLE_SPREADSHEET_ID etc.)")
		classifier = flag.String("classifier", "type", `statement classifier: "type" or "name"`)
		htmlDir    = flag.String("html", "", "also write HTML exports into this directory")
	)
	flag.Parse()

	if err := run(*ledgerPath, *fromSheets, *classifier, *htmlDir); err != nil {
		fmt.Fprintln(os.Stderr, "bilancio-cli:", err)
		os.Exit(1)
	}
}

func run(ledgerPath string, fromSheets bool, classifierName, htmlDir string) error {
	ctx := context.Background()

	reader, err := pickReader(ctx, ledgerPath, fromSheets)
	if err != nil {
		return err
	}
	entries, err := reader.ReadLedger(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	opts := report.Options{}
	switch classifierName {
	case "type":
		// default
	case "name":
		opts.Classifier = report.NamePatternClassifier{}
	default:
		return fmt.Errorf("unknown classifier %q (use \"type\" or \"name\")", classifierName)
	}

	result, err := report.Build(entries, opts)
	if err != nil {
		return err
	}

	if result.MissingDates > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d row(s) without a usable date were dropped\n", result.MissingDates)
	}
	for _, imb := range result.Imbalances {
		fmt.Fprintf(os.Stderr, "warning: %s is out of balance by %s\n", imb.Month, imb.Difference)
	}

	for _, tbl := range []report.Table{result.IncomeStatement, result.BalanceSheet} {
		if err := render.Text(os.Stdout, tbl); err != nil {
			return fmt.Errorf("render %s: %w", tbl.Title, err)
		}
		fmt.Println()
	}

	if htmlDir != "" {
		if err := exportHTML(htmlDir, result); err != nil {
			return err
		}
	}
	return nil
}

func pickReader(ctx context.Context, ledgerPath string, fromSheets bool) (source.LedgerReader, error) {
	switch {
	case fromSheets && ledgerPath != "":
		return nil, fmt.Errorf("-ledger and -sheets are mutually exclusive")
	case fromSheets:
		return google.NewFromEnv(ctx)
	case ledgerPath != "":
		return memory.NewFromFile(ledgerPath)
	default:
		// No flag: fall back to the configured backend.
		if config.Load().LedgerBackend == "sheets" {
			return google.NewFromEnv(ctx)
		}
		return nil, fmt.Errorf("nothing to read: pass -ledger FILE or -sheets")
	}
}

func exportHTML(dir string, result report.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	now := time.Now()
	for _, tbl := range []report.Table{result.IncomeStatement, result.BalanceSheet} {
		path := filepath.Join(dir, render.Filename(tbl.Title, now, "html"))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := render.HTML(f, tbl); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", tbl.Title, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "wrote", path)
	}
	return nil
}

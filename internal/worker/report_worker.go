// Package worker turns queued report build jobs into rendered reports.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	applog "bilancio/internal/log"
	"bilancio/internal/render"
	"bilancio/internal/report"
	"bilancio/internal/storage"
)

// ReportWorker consumes report build messages, runs the report pipeline
// over a stored ledger and writes the HTML exports to disk.
type ReportWorker struct {
	storage   *storage.SQLiteRepository
	exportDir string
	// now is swappable so tests get deterministic filenames.
	now func() time.Time
}

func NewReportWorker(storage *storage.SQLiteRepository, exportDir string) *ReportWorker {
	return &ReportWorker{
		storage:   storage,
		exportDir: exportDir,
		now:       time.Now,
	}
}

// HandleBuildMessage processes a single report build job. The run is
// marked RUNNING up front and SUCCESS or FAILED when the job settles, so
// the HTTP side can report progress.
func (w *ReportWorker) HandleBuildMessage(ctx context.Context, msg *amqp.ReportBuildMessage) error {
	slog.InfoContext(ctx, "Processing report build",
		"ledger_id", msg.LedgerID,
		"run_id", msg.RunID)

	if err := w.storage.MarkRunRunning(ctx, msg.RunID); err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}

	result, err := w.buildAndExport(ctx, msg.LedgerID)
	if err != nil {
		if markErr := w.storage.MarkRunFailed(ctx, msg.RunID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark run failed",
				"run_id", msg.RunID, "error", markErr)
		}
		return fmt.Errorf("build report for ledger %d: %w", msg.LedgerID, err)
	}

	if err := w.storage.MarkRunSucceeded(ctx, msg.RunID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark run succeeded",
			"run_id", msg.RunID, "error", err)
		// The export already happened; do not requeue over a status write.
	}

	slog.InfoContext(ctx, "Report build completed",
		applog.FieldLedgerID, msg.LedgerID,
		applog.FieldRunID, msg.RunID,
		applog.FieldMonths, len(result.IncomeStatement.Months),
		applog.FieldMissingDates, result.MissingDates,
		applog.FieldImbalances, len(result.Imbalances))
	return nil
}

// ProcessPendingRuns rebuilds runs still marked PENDING. This is the
// backup path for jobs whose queue message was lost; a failed run stays
// FAILED and is not retried here.
func (w *ReportWorker) ProcessPendingRuns(ctx context.Context) error {
	pending, err := w.storage.ListPendingRuns(ctx, 20)
	if err != nil {
		return fmt.Errorf("list pending runs: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending report runs", "count", len(pending))
	for _, run := range pending {
		msg := &amqp.ReportBuildMessage{LedgerID: run.LedgerID, RunID: run.ID, Timestamp: run.RequestedAt}
		if err := w.HandleBuildMessage(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Pending run rebuild failed",
				"run_id", run.ID, "error", err)
		}
	}
	return nil
}

// buildAndExport runs the pipeline and writes both statements. The two
// HTML files are independent, so they are written concurrently.
func (w *ReportWorker) buildAndExport(ctx context.Context, ledgerID int64) (report.Result, error) {
	entries, err := w.storage.ListEntries(ctx, ledgerID)
	if err != nil {
		return report.Result{}, fmt.Errorf("list entries: %w", err)
	}

	result, err := report.Build(entries, report.Options{})
	if err != nil {
		return report.Result{}, fmt.Errorf("build: %w", err)
	}

	if result.MissingDates > 0 {
		slog.WarnContext(ctx, "Dropped entries without a date",
			"ledger_id", ledgerID, "missing_dates", result.MissingDates)
	}
	for _, imb := range result.Imbalances {
		slog.WarnContext(ctx, "Balance sheet does not balance",
			"ledger_id", ledgerID,
			"month", imb.Month,
			"difference_cents", imb.Difference.Cents)
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return report.Result{}, fmt.Errorf("create export dir: %w", err)
	}

	stamp := w.now()
	g, _ := errgroup.WithContext(ctx)
	for _, tbl := range []report.Table{result.IncomeStatement, result.BalanceSheet} {
		tbl := tbl
		g.Go(func() error {
			return w.writeHTML(tbl, stamp)
		})
	}
	if err := g.Wait(); err != nil {
		return report.Result{}, err
	}
	return result, nil
}

func (w *ReportWorker) writeHTML(tbl report.Table, stamp time.Time) error {
	path := filepath.Join(w.exportDir, render.Filename(tbl.Title, stamp, "html"))
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
	slog.Info("Report exported", applog.FieldOperation, applog.OpExport, "path", path)
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/core"
	applog "bilancio/internal/log"

	_ "modernc.org/sqlite"
)

const (
	RunPending   = "PENDING"
	RunRunning   = "RUNNING"
	RunSucceeded = "SUCCESS"
	RunFailed    = "FAILED"
)

// dateFormat is how entry dates are stored; missing dates are NULL.
const dateFormat = "2006-01-02"

type (
	// Ledger is a stored ledger's identity.
	Ledger struct {
		ID        int64
		Name      string
		CreatedAt time.Time
	}

	// ReportRun records one report generation for a ledger.
	ReportRun struct {
		ID          int64
		LedgerID    int64
		Status      string
		RequestedAt time.Time
		FinishedAt  sql.NullTime
		Error       string
	}

	SQLiteRepository struct {
		db *sql.DB
	}
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateLedger stores a ledger and its entries in one transaction.
func (r *SQLiteRepository) CreateLedger(ctx context.Context, name string, entries []core.Entry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO ledgers (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert ledger: %w", err)
	}
	ledgerID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (ledger_id, entry_date, account, account_type, effect, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var date any
		if !e.Date.Missing() {
			date = e.Date.Format(dateFormat)
		}
		if _, err := stmt.ExecContext(ctx, ledgerID, date, e.Account, string(e.Type), string(e.Effect), e.Amount.Cents); err != nil {
			return 0, fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Ledger stored",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldLedgerID, ledgerID,
		applog.FieldLedgerName, name,
		applog.FieldRows, len(entries))

	return ledgerID, nil
}

// GetLedger returns a stored ledger's identity by id.
func (r *SQLiteRepository) GetLedger(ctx context.Context, id int64) (Ledger, error) {
	var l Ledger
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM ledgers WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		return Ledger{}, fmt.Errorf("get ledger %d: %w", id, err)
	}
	return l, nil
}

// ListLedgers returns all stored ledgers, newest first.
func (r *SQLiteRepository) ListLedgers(ctx context.Context) ([]Ledger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM ledgers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	var out []Ledger
	for rows.Next() {
		var l Ledger
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListEntries returns every entry of a ledger in insertion order.
func (r *SQLiteRepository) ListEntries(ctx context.Context, ledgerID int64) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entry_date, account, account_type, effect, amount_cents
		FROM entries WHERE ledger_id = ? ORDER BY id`, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			date  sql.NullString
			e     core.Entry
			typ   string
			eff   string
			cents int64
		)
		if err := rows.Scan(&date, &e.Account, &typ, &eff, &cents); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if date.Valid {
			if t, err := time.Parse(dateFormat, date.String); err == nil {
				e.Date = core.Date{Time: t}
			}
		}
		e.Type = core.AccountType(typ)
		e.Effect = core.Effect(eff)
		e.Amount = core.Money{Cents: cents}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateReportRun records a pending report generation for a ledger.
func (r *SQLiteRepository) CreateReportRun(ctx context.Context, ledgerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO report_runs (ledger_id, status) VALUES (?, ?)`, ledgerID, RunPending)
	if err != nil {
		return 0, fmt.Errorf("insert report run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// MarkRunRunning transitions a run to RUNNING.
func (r *SQLiteRepository) MarkRunRunning(ctx context.Context, runID int64) error {
	return r.setRunStatus(ctx, runID, RunRunning, "", false)
}

// MarkRunSucceeded transitions a run to SUCCESS with a finish time.
func (r *SQLiteRepository) MarkRunSucceeded(ctx context.Context, runID int64) error {
	return r.setRunStatus(ctx, runID, RunSucceeded, "", true)
}

// MarkRunFailed transitions a run to FAILED with the error message.
func (r *SQLiteRepository) MarkRunFailed(ctx context.Context, runID int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.setRunStatus(ctx, runID, RunFailed, msg, true)
}

func (r *SQLiteRepository) setRunStatus(ctx context.Context, runID int64, status, errMsg string, finished bool) error {
	var err error
	if finished {
		_, err = r.db.ExecContext(ctx,
			`UPDATE report_runs SET status = ?, error = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, errMsg, runID)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE report_runs SET status = ?, error = ? WHERE id = ?`,
			status, errMsg, runID)
	}
	if err != nil {
		return fmt.Errorf("update report run %d: %w", runID, err)
	}
	return nil
}

// ListPendingRuns returns runs still waiting for a worker, oldest first.
// Used by the periodic sweep that picks up jobs whose queue message was
// lost.
func (r *SQLiteRepository) ListPendingRuns(ctx context.Context, limit int) ([]ReportRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ledger_id, status, requested_at, finished_at, error
		FROM report_runs WHERE status = ? ORDER BY requested_at, id LIMIT ?`,
		RunPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending runs: %w", err)
	}
	defer rows.Close()

	var out []ReportRun
	for rows.Next() {
		var run ReportRun
		if err := rows.Scan(&run.ID, &run.LedgerID, &run.Status, &run.RequestedAt, &run.FinishedAt, &run.Error); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// GetReportRun returns one run by id.
func (r *SQLiteRepository) GetReportRun(ctx context.Context, runID int64) (ReportRun, error) {
	var run ReportRun
	err := r.db.QueryRowContext(ctx, `
		SELECT id, ledger_id, status, requested_at, finished_at, error
		FROM report_runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.LedgerID, &run.Status, &run.RequestedAt, &run.FinishedAt, &run.Error)
	if err != nil {
		return ReportRun{}, fmt.Errorf("get report run %d: %w", runID, err)
	}
	return run, nil
}

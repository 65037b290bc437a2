package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/ledger"
	"bilancio/internal/log"
	"bilancio/internal/report"
	"bilancio/internal/storage"
)

// maxUploadBytes bounds ledger uploads.
const maxUploadBytes = 10 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ledgers, err := s.repo.ListLedgers(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List ledgers failed", log.FieldError, err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	data := struct{ Ledgers []storage.Ledger }{Ledgers: ledgers}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCreateLedger accepts a ledger CSV, either as a multipart form
// with a "ledger" file field or as a raw text/csv body, stores it and
// kicks off a report run.
func (s *Server) handleCreateLedger(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	name, body, err := uploadFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	entries, err := ledger.ReadCSV(body)
	if err != nil {
		var schemaErr *ledger.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusUnprocessableEntity, schemaErr.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid ledger: %v", err))
		return
	}

	ledgerID, err := s.repo.CreateLedger(r.Context(), name, entries)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create ledger failed",
			log.FieldLedgerName, name, log.FieldError, err)
		writeError(w, http.StatusConflict, fmt.Sprintf("store ledger: %v", err))
		return
	}
	runID, err := s.repo.CreateReportRun(r.Context(), ledgerID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create report run failed",
			log.FieldLedgerID, ledgerID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "create report run")
		return
	}

	fields := log.NewFields().
		WithOperation(log.OpLoad).
		WithLedger(ledgerID, name)
	fields[log.FieldRows] = len(entries)
	s.logger.InfoContext(r.Context(), "Ledger stored", fields.ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishReportBuild(r.Context(), ledgerID, runID); err != nil {
			fields := log.NewFields().WithOperation(log.OpPublish).WithError(err)
			fields[log.FieldRunID] = runID
			s.logger.ErrorContext(r.Context(), "Publish report build failed", fields.ToSlice()...)
			if markErr := s.repo.MarkRunFailed(r.Context(), runID, err); markErr != nil {
				s.logger.ErrorContext(r.Context(), "Mark run failed errored",
					log.FieldRunID, runID, log.FieldError, markErr)
			}
			writeError(w, http.StatusServiceUnavailable, "queue report build")
			return
		}
	} else {
		s.buildInline(r, ledgerID, runID)
	}

	if wantsHTML(r) {
		http.Redirect(w, r, fmt.Sprintf("/ledgers/%d/report", ledgerID), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"ledger_id": ledgerID,
		"run_id":    runID,
	})
}

// buildInline runs the pipeline synchronously when no queue is wired,
// warming the cache as a side effect. Failures land on the run record
// rather than the upload response.
func (s *Server) buildInline(r *http.Request, ledgerID, runID int64) {
	ctx := r.Context()
	if err := s.repo.MarkRunRunning(ctx, runID); err != nil {
		s.logger.ErrorContext(ctx, "Mark run running failed", log.FieldRunID, runID, log.FieldError, err)
	}
	if _, err := s.buildResult(r, ledgerID); err != nil {
		s.logger.ErrorContext(ctx, "Inline report build failed",
			log.FieldLedgerID, ledgerID, log.FieldError, err)
		if markErr := s.repo.MarkRunFailed(ctx, runID, err); markErr != nil {
			s.logger.ErrorContext(ctx, "Mark run failed errored", log.FieldRunID, runID, log.FieldError, markErr)
		}
		return
	}
	if err := s.repo.MarkRunSucceeded(ctx, runID); err != nil {
		s.logger.ErrorContext(ctx, "Mark run succeeded failed", log.FieldRunID, runID, log.FieldError, err)
	}
}

func (s *Server) handleListLedgers(w http.ResponseWriter, r *http.Request) {
	ledgers, err := s.repo.ListLedgers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	out := make([]map[string]any, 0, len(ledgers))
	for _, l := range ledgers {
		out = append(out, map[string]any{
			"id":         l.ID,
			"name":       l.Name,
			"created_at": l.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ledgers": out})
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	led, result, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	data := struct {
		Ledger storage.Ledger
		Result report.Result
	}{Ledger: led, Result: result}
	if err := s.templates.ExecuteTemplate(w, "report.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Report template failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	led, result, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ledger": map[string]any{
			"id":   led.ID,
			"name": led.Name,
		},
		"income_statement": tableJSON(result.IncomeStatement),
		"balance_sheet":    tableJSON(result.BalanceSheet),
		"missing_dates":    result.MissingDates,
		"imbalances":       imbalancesJSON(result.Imbalances),
	})
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := s.repo.GetReportRun(r.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	out := map[string]any{
		"id":           run.ID,
		"ledger_id":    run.LedgerID,
		"status":       run.Status,
		"requested_at": run.RequestedAt.Format(time.RFC3339),
	}
	if run.FinishedAt.Valid {
		out["finished_at"] = run.FinishedAt.Time.Format(time.RFC3339)
	}
	if run.Error != "" {
		out["error"] = run.Error
	}
	writeJSON(w, http.StatusOK, out)
}

// loadReport resolves the {id} path value to a ledger and its built
// report, consulting the cache first. It writes the error response
// itself and signals the caller through ok.
func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (storage.Ledger, report.Result, bool) {
	ledgerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ledger id")
		return storage.Ledger{}, report.Result{}, false
	}

	led, err := s.repo.GetLedger(r.Context(), ledgerID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "ledger not found")
		return storage.Ledger{}, report.Result{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage error")
		return storage.Ledger{}, report.Result{}, false
	}

	result, err := s.buildResult(r, ledgerID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report build failed",
			log.FieldLedgerID, ledgerID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "report build failed")
		return storage.Ledger{}, report.Result{}, false
	}
	return led, result, true
}

func (s *Server) buildResult(r *http.Request, ledgerID int64) (report.Result, error) {
	key := strconv.FormatInt(ledgerID, 10)
	if cached, ok := s.reports.Get(key); ok {
		return cached, nil
	}

	entries, err := s.repo.ListEntries(r.Context(), ledgerID)
	if err != nil {
		return report.Result{}, fmt.Errorf("list entries: %w", err)
	}
	result, err := report.Build(entries, report.Options{})
	if err != nil {
		return report.Result{}, err
	}
	s.reports.Set(key, result)

	fields := log.NewFields().
		WithOperation(log.OpBuild).
		WithReport(result.IncomeStatement.Title, len(entries), len(result.IncomeStatement.Months))
	fields[log.FieldLedgerID] = ledgerID
	s.logger.InfoContext(r.Context(), "Report built", fields.ToSlice()...)
	return result, nil
}

// uploadFrom extracts the ledger name and CSV stream from the request.
func uploadFrom(r *http.Request) (string, io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		file, header, err := r.FormFile("ledger")
		if err != nil {
			return "", nil, fmt.Errorf(`missing "ledger" file field`)
		}
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = strings.TrimSuffix(header.Filename, ".csv")
		}
		if name == "" {
			name = defaultLedgerName()
		}
		return name, file, nil
	case mediaType == "text/csv":
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			name = defaultLedgerName()
		}
		return name, r.Body, nil
	default:
		return "", nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

func defaultLedgerName() string {
	return "ledger " + time.Now().Format("2006-01-02 15:04:05")
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

type tableDTO struct {
	Title  string   `json:"title"`
	Months []string `json:"months"`
	Rows   []rowDTO `json:"rows"`
}

type rowDTO struct {
	Section   string   `json:"section,omitempty"`
	Label     string   `json:"label"`
	IsTotal   bool     `json:"is_total,omitempty"`
	Cells     []*int64 `json:"cells"`
	YearTotal *int64   `json:"year_total,omitempty"`
}

// tableJSON flattens a table for the API: amounts in cents, null where a
// balance-sheet cell has no observation yet.
func tableJSON(t report.Table) tableDTO {
	dto := tableDTO{Title: t.Title, Months: t.Months, Rows: make([]rowDTO, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rd := rowDTO{
			Section: row.Section,
			Label:   row.Label,
			IsTotal: row.IsTotal,
			Cells:   make([]*int64, len(row.Cells)),
		}
		for i, c := range row.Cells {
			rd.Cells[i] = centsPtr(c)
		}
		rd.YearTotal = centsPtr(row.YearTotal)
		dto.Rows = append(dto.Rows, rd)
	}
	return dto
}

func centsPtr(c report.Cell) *int64 {
	if !c.Valid {
		return nil
	}
	v := c.Amount.Cents
	return &v
}

func imbalancesJSON(imbalances []report.Imbalance) []map[string]any {
	out := make([]map[string]any, 0, len(imbalances))
	for _, imb := range imbalances {
		out = append(out, map[string]any{
			"month":             imb.Month,
			"assets_cents":      imb.Assets.Cents,
			"liab_equity_cents": imb.LiabEquity.Cents,
			"difference_cents":  imb.Difference.Cents,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

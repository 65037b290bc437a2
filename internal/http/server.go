// Package http serves the ledger upload UI and the report API.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/log"
	"bilancio/internal/render"
	"bilancio/internal/report"
	"bilancio/internal/storage"
	appweb "bilancio/web"
)

// BuildPublisher queues a report build for asynchronous processing. A nil
// publisher makes the server build reports inline at upload time.
type BuildPublisher interface {
	PublishReportBuild(ctx context.Context, ledgerID, runID int64) error
}

type Server struct {
	http.Server
	repo      *storage.SQLiteRepository
	publisher BuildPublisher
	logger    *log.Logger
	templates *template.Template

	// Built reports keyed by ledger id. Entries are immutable once
	// stored, so the TTL only bounds memory, not staleness.
	reports *cache.LRU[report.Result]

	limiter      *rateLimiter
	janitorStop  context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, repo *storage.SQLiteRepository, publisher BuildPublisher, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentHTTP),
		reports:   cache.NewLRU[report.Result](64, 15*time.Minute),
		limiter:   newRateLimiter(30),
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	s.janitorStop = cancel
	s.reports.StartJanitor(janitorCtx, 10*time.Minute)

	funcs := template.FuncMap{
		"amount":       render.Amount,
		"hasYearTotal": hasYearTotal,
	}
	t, err := template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /ledgers", s.handleCreateLedger)
	mux.HandleFunc("GET /ledgers", s.handleListLedgers)
	mux.HandleFunc("GET /ledgers/{id}/report", s.handleReportPage)
	mux.HandleFunc("GET /ledgers/{id}/report.json", s.handleReportJSON)
	mux.HandleFunc("GET /runs/{id}", s.handleRunStatus)

	s.Server = http.Server{
		Addr:    addr,
		Handler: log.Middleware(logger)(s.withSecurityHeaders(mux)),
	}
	return s
}

// Shutdown stops the janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.janitorStop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.allow(clientIP(r)) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP(r), log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// rateLimiter caps mutating requests per client per minute. Stale
// clients are pruned lazily on each check.
type rateLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*clientWindow
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		perMinute: perMinute,
		clients:   make(map[string]*clientWindow),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for addr, c := range rl.clients {
		if now.Sub(c.windowStart) > 10*time.Minute {
			delete(rl.clients, addr)
		}
	}

	c, ok := rl.clients[ip]
	if !ok || now.Sub(c.windowStart) > time.Minute {
		rl.clients[ip] = &clientWindow{windowStart: now, requests: 1}
		return true
	}
	c.requests++
	return c.requests <= rl.perMinute
}

func hasYearTotal(t report.Table) bool {
	for _, r := range t.Rows {
		if r.YearTotal.Valid {
			return true
		}
	}
	return false
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.ListLedgers(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("database not ready: %v", err), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

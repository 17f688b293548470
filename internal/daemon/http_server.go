package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/doclint/internal/history"
	"git.home.luguber.info/inful/doclint/internal/logfields"
	"git.home.luguber.info/inful/doclint/internal/metrics"
)

// defaultRunsLimit bounds /api/v1/runs responses when no limit is given.
const defaultRunsLimit = 20

// HTTPServer exposes daemon health, Prometheus metrics, and run history.
type HTTPServer struct {
	addr   string
	daemon *Daemon
	server *http.Server
}

// NewHTTPServer creates the admin server for a daemon.
func NewHTTPServer(addr string, d *Daemon) *HTTPServer {
	return &HTTPServer{addr: addr, daemon: d}
}

// Start binds the listen address and begins serving. Binding happens before
// this returns so an occupied port fails startup instead of logging later.
func (s *HTTPServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.daemon.HealthHandler)
	mux.Handle("/metrics", metrics.HTTPHandler(s.daemon.registry))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunByID)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Admin server error", logfields.Error(err))
		}
	}()

	slog.Info("Admin server listening", slog.String("addr", s.addr))
	return nil
}

// Stop gracefully shuts down the server.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("admin server shutdown: %w", err)
	}
	return nil
}

// handleRuns lists recent runs, newest first. The limit query parameter
// caps the page size.
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.store == nil {
		writeJSONError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.daemon.store.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list runs", logfields.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": records})
}

// handleRunByID returns one run with per-target results.
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.store == nil {
		writeJSONError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusBadRequest, "run id required")
		return
	}

	record, err := s.daemon.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, history.ErrRunNotFound):
		writeJSONError(w, http.StatusNotFound, "run not found")
		return
	case errors.Is(err, history.ErrAmbiguousRunID):
		writeJSONError(w, http.StatusBadRequest, "run id prefix is ambiguous")
		return
	case err != nil:
		slog.Error("Failed to load run", logfields.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", logfields.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Package httpapi is the ops HTTP surface: health, scan status, manual
// refresh and metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/bot"
)

// ScanService is the slice of the scanner the HTTP surface exposes.
type ScanService interface {
	Refresh(ctx context.Context) (app.Report, error)
	LastReport() app.Report
}

// Handler serves the ops endpoints.
type Handler struct {
	scanner ScanService
	metrics http.Handler
	log     bot.Logger
}

func New(scanner ScanService, metrics http.Handler, log bot.Logger) *Handler {
	return &Handler{scanner: scanner, metrics: metrics, log: log}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/refresh", h.handleRefresh).Methods(http.MethodPost)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus returns the per-channel deletable counts of the most recent
// scan cycle.
func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	report := h.scanner.LastReport()
	if report.StartedAt.IsZero() {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "no scan completed yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// handleRefresh runs one scan cycle now. It blocks until any in-flight cycle
// and the requested one are done; cycles never overlap.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := h.scanner.Refresh(r.Context())
	if err != nil {
		h.log.Errorf("manual refresh over HTTP failed: %v", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("failed to encode HTTP response: %v", err)
	}
}

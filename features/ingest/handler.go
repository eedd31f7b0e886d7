package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"sitedex/internal/pipeline"
)

// Runner is the ingestion pipeline entry point.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

type Handler struct {
	runner Runner
}

func NewHandler(r Runner) *Handler {
	return &Handler{runner: r}
}

type response struct {
	*pipeline.Report
	Message string `json:"message"`
}

// Trigger runs one ingestion and returns the report. Chunk- and batch-level
// failures are reflected in the report's status field, not in the HTTP
// status; only a failed fetch makes the request itself fail.
func (h *Handler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.runner.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "ingestion run failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, response{Report: report, Message: report.Summary()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

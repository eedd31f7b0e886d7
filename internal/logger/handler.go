package logger

import (
	"context"
	"log/slog"

	"sitedex/internal/middleware"
)

// ContextHandler decorates every record with the request's correlation id
// so pipeline logs can be grouped per ingestion run.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := middleware.GetCorrelationID(ctx); id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/echoserve/echoserve/internal/handler/dto"
	"github.com/echoserve/echoserve/internal/store"
)

// StatsStore is the slice of the store the stats handler needs.
type StatsStore interface {
	EstimatedCounts(ctx context.Context) (*store.Counts, error)
}

// StatsHandler serves the public platform counters.
type StatsHandler struct {
	store  StatsStore
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store StatsStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{store: store, logger: logger}
}

// Stats handles GET /platform-stats. Counts are estimates from
// collection metadata, not exact scans.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.EstimatedCounts(r.Context())
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlatformStatsResponse{
		Users:    counts.Users,
		Services: counts.Services,
		Reviews:  counts.Reviews,
	})
}

package handler

import (
	"net/http"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/publisher"
)

// StatsSource reports the publisher's current state.
type StatsSource interface {
	Stats() publisher.Stats
}

// MetricsHandler serves a human-readable JSON snapshot.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from this endpoint.
type MetricsHandler struct {
	publisher StatsSource
	store     *cache.Store
	registry  *cache.Registry
}

func NewMetricsHandler(p StatsSource, store *cache.Store, registry *cache.Registry) *MetricsHandler {
	return &MetricsHandler{publisher: p, store: store, registry: registry}
}

// GetMetrics handles GET /api/v1/metrics
//
// @Summary  Real-time publisher and cache snapshot
// @Tags     metrics
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/metrics [get]
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"publisher": h.publisher.Stats(),
		"cache": map[string]any{
			"entries":  h.store.Len(),
			"families": h.registry.Snapshot(),
		},
	})
}

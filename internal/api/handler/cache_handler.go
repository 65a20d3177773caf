package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/pipeline"
)

// PermCacheManage guards the manual family refresh endpoint.
const PermCacheManage = "cache.manage"

// CacheHandler exposes the cache family registry for operators.
type CacheHandler struct {
	registry *cache.Registry
	logger   *zap.Logger
}

func NewCacheHandler(registry *cache.Registry, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{registry: registry, logger: logger}
}

// Families handles GET /api/v1/cache/families
func (h *CacheHandler) Families(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"families": h.registry.Snapshot()})
}

// Refresh handles POST /api/v1/cache/families/{name}/refresh
//
// Refreshing a family that has never been read is a no-op; the response
// reports the family state either way.
func (h *CacheHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, ok := pipeline.PrincipalFrom(r.Context())
	if !ok {
		mapError(w, domain.ErrUnauthenticated)
		return
	}
	if !p.Has(PermCacheManage) {
		mapError(w, domain.ErrForbidden)
		return
	}

	name := chi.URLParam(r, "name")
	h.registry.Refresh(name)
	h.logger.Info("cache family refreshed", zap.String("family", name), zap.String("user_id", p.UserID))
	respondJSON(w, http.StatusOK, h.registry.Family(name).State())
}

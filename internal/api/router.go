package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/api/handler"
	apimw "github.com/notifyhub/dashcore/internal/api/middleware"
	"github.com/notifyhub/dashcore/internal/cache"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sender    handler.Sender
	Publisher handler.StatsSource
	Registry  *cache.Registry
	Store     *cache.Store
	Gatherer  prometheus.Gatherer
	DB        handler.Pinger
	Logger    *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(d.Logger))
	r.Use(apimw.Principal)

	// --- handler instances ---
	ch := handler.NewCustomerHandler(d.Sender, d.Logger)
	fh := handler.NewCacheHandler(d.Registry, d.Logger)
	mh := handler.NewMetricsHandler(d.Publisher, d.Store, d.Registry)
	hh := handler.NewHealthHandler(d.DB)

	// --- routes ---
	r.Get("/health", hh.Health)
	r.Get("/ready", hh.Ready)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", ch.Create)
			r.Get("/", ch.List)
			r.Delete("/", ch.DeleteMany)
			r.Get("/{id}", ch.GetByID)
			r.Put("/{id}", ch.Update)
			r.Delete("/{id}", ch.Delete)
		})

		r.Get("/cache/families", fh.Families)
		r.Post("/cache/families/{name}/refresh", fh.Refresh)

		// JSON metrics snapshot
		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}

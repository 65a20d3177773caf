package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/publisher"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	Enqueued        *prometheus.CounterVec
	Handled         *prometheus.CounterVec
	HandlerLatency  *prometheus.HistogramVec
	CacheRequests   *prometheus.CounterVec
	Invalidations   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Requests        *prometheus.CounterVec

	reg prometheus.Registerer
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "publisher_enqueued_total",
			Help: "Handler executions accepted by the notification publisher.",
		}, []string{"notification"}),

		Handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "publisher_handled_total",
			Help: "Completed notification handler executions by outcome.",
		}, []string{"handler", "status"}),

		HandlerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "publisher_handler_seconds",
			Help:    "Time spent inside a notification handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),

		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by result.",
		}, []string{"result"}),

		Invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Effective cache family refreshes.",
		}, []string{"family"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediator_request_duration_seconds",
			Help:    "Duration of mediator requests, including pipeline behaviors.",
			Buckets: prometheus.DefBuckets,
		}, []string{"request", "status"}),

		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediator_requests_total",
			Help: "Mediator requests by outcome.",
		}, []string{"request", "status"}),

		reg: reg,
	}

	reg.MustRegister(
		m.Enqueued,
		m.Handled,
		m.HandlerLatency,
		m.CacheRequests,
		m.Invalidations,
		m.RequestDuration,
		m.Requests,
	)

	return m
}

// RegisterQueueDepth exposes the publisher's current queue depth as a gauge
// sampled at scrape time.
func (m *Metrics) RegisterQueueDepth(stats func() publisher.Stats) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "publisher_queue_depth",
		Help: "Handler executions waiting in the publisher queue.",
	}, func() float64 {
		return float64(stats().QueueDepth)
	}))
}

// PublisherHooks returns the callbacks expected by publisher.Hooks.
// Centralises the prometheus observation calls so the publisher stays import-free.
func (m *Metrics) PublisherHooks() publisher.Hooks {
	return publisher.Hooks{
		OnEnqueued: func(notificationType string) {
			m.Enqueued.WithLabelValues(notificationType).Inc()
		},
		OnHandled: func(handler string, latency time.Duration, err error) {
			m.Handled.WithLabelValues(handler, status(err)).Inc()
			m.HandlerLatency.WithLabelValues(handler).Observe(latency.Seconds())
		},
	}
}

func (m *Metrics) StoreHooks() cache.StoreHooks {
	return cache.StoreHooks{
		OnHit:  func() { m.CacheRequests.WithLabelValues("hit").Inc() },
		OnMiss: func() { m.CacheRequests.WithLabelValues("miss").Inc() },
	}
}

// OnRefresh is passed to cache.NewRegistry.
func (m *Metrics) OnRefresh(family string) {
	m.Invalidations.WithLabelValues(family).Inc()
}

// ObserveRequest is passed to the mediator metrics behavior.
func (m *Metrics) ObserveRequest(request string, elapsed time.Duration, err error) {
	s := requestStatus(err)
	m.Requests.WithLabelValues(request, s).Inc()
	m.RequestDuration.WithLabelValues(request, s).Observe(elapsed.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// requestStatus separates caller mistakes from server failures.
func requestStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsClientError(err), errors.Is(err, domain.ErrPublisherClosed):
		return "rejected"
	default:
		return "error"
	}
}

// Package metrics exposes Prometheus counters and histograms for catalog
// loads, selection persistence and remote exchanges.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routineshell/internal/logger"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors for one process. Each instance owns its own
// registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	ExchangeRequests *prometheus.CounterVec
	ExchangeDuration *prometheus.HistogramVec
	StorageWrites    *prometheus.CounterVec
	StorageCorrupt   prometheus.Counter
	CatalogLoads     *prometheus.CounterVec
	Events           *prometheus.CounterVec
}

// New creates a Metrics instance with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ExchangeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routineshell",
			Name:      "exchange_requests_total",
			Help:      "Remote exchange attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ExchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routineshell",
			Name:      "exchange_duration_seconds",
			Help:      "Remote exchange latency by provider.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"provider"}),
		StorageWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routineshell",
			Name:      "storage_writes_total",
			Help:      "Selection persistence attempts by outcome.",
		}, []string{"outcome"}),
		StorageCorrupt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routineshell",
			Name:      "storage_corrupt_total",
			Help:      "Stored selections discarded because they could not be parsed.",
		}),
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routineshell",
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts by outcome.",
		}, []string{"outcome"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routineshell",
			Name:      "controller_events_total",
			Help:      "Controller events dispatched by kind.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		m.ExchangeRequests,
		m.ExchangeDuration,
		m.StorageWrites,
		m.StorageCorrupt,
		m.CatalogLoads,
		m.Events,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry backing this instance.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveExchange records one exchange attempt.
func (m *Metrics) ObserveExchange(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.ExchangeRequests.WithLabelValues(provider, outcome(err)).Inc()
	m.ExchangeDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveStorageWrite records one persistence attempt.
func (m *Metrics) ObserveStorageWrite(err error) {
	if m == nil {
		return
	}
	m.StorageWrites.WithLabelValues(outcome(err)).Inc()
}

// ObserveStorageCorrupt records a discarded stored selection.
func (m *Metrics) ObserveStorageCorrupt() {
	if m == nil {
		return
	}
	m.StorageCorrupt.Inc()
}

// ObserveCatalogLoad records one catalog load.
func (m *Metrics) ObserveCatalogLoad(err error) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(outcome(err)).Inc()
}

// ObserveEvent records a dispatched controller event.
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Debug("Metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Package metrics exports Prometheus metrics for summary runs and HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todo_summary"

// DefaultBuckets covers summary runs, which are dominated by model latency.
var DefaultBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}

// Exporter owns a Prometheus registry and the application's collectors.
type Exporter struct {
	registry *prometheus.Registry

	summaryRuns     *prometheus.CounterVec
	summaryDuration *prometheus.HistogramVec
	pendingItems    prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ events.EventHandler = (*Exporter)(nil)

// NewExporter creates an Exporter with its own registry, including Go runtime
// and process collectors.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	e := &Exporter{
		registry: registry,
		summaryRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "summary",
				Name:      "runs_total",
				Help:      "Total number of summary runs by outcome and trigger",
			},
			[]string{"outcome", "trigger"},
		),
		summaryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "summary",
				Name:      "run_duration_seconds",
				Help:      "Summary run duration in seconds",
				Buckets:   DefaultBuckets,
			},
			[]string{"outcome"},
		),
		pendingItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "summary",
				Name:      "pending_items",
				Help:      "Number of pending todos seen by the most recent summary run",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		e.summaryRuns,
		e.summaryDuration,
		e.pendingItems,
		e.httpRequests,
		e.httpDuration,
	)

	// Pre-create series so every outcome is visible before it first happens.
	for _, outcome := range events.Outcomes {
		e.summaryRuns.WithLabelValues(string(outcome), string(events.TriggerHTTP))
	}

	return e
}

// Registry returns the underlying registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

// HandleEvent implements events.EventHandler.
func (e *Exporter) HandleEvent(_ context.Context, event *events.SummaryEvent) error {
	e.summaryRuns.WithLabelValues(string(event.Outcome), string(event.Trigger)).Inc()
	e.summaryDuration.WithLabelValues(string(event.Outcome)).Observe(event.Duration.Seconds())
	if event.Outcome != events.OutcomeStoreReadFailed {
		e.pendingItems.Set(float64(event.PendingCount))
	}
	return nil
}

// Middleware records request counts and latency labelled by chi route pattern,
// so path parameters do not explode label cardinality.
func (e *Exporter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		e.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		e.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/trustbook/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesAdded           *prometheus.CounterVec
	EntriesDeleted         prometheus.Counter
	RecalculatedEntries    prometheus.Histogram
	RecalculationsRejected prometheus.Counter
	StatementsServed       *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	gatherer := prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	factory := promauto.With(reg)

	return &Metrics{
		EntriesAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustbook_entries_added_total",
				Help: "Total number of entries posted by direction",
			},
			[]string{"direction"},
		),
		EntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustbook_entries_deleted_total",
			Help: "Total number of entries deleted",
		}),
		RecalculatedEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustbook_entries_recalculated",
			Help:    "Running balances rewritten per mutation",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000},
		}),
		RecalculationsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustbook_recalculation_rejected_total",
			Help: "Mutations rejected because the recalculation bound was exceeded",
		}),
		StatementsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustbook_statements_served_total",
				Help: "Statements served by cache outcome",
			},
			[]string{"cache"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trustbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustbook_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		gatherer: gatherer,
	}
}

// EntryAdded implements usecase.MetricsRecorder.
func (m *Metrics) EntryAdded(direction domain.Direction) {
	m.EntriesAdded.WithLabelValues(string(direction)).Inc()
}

// EntryDeleted implements usecase.MetricsRecorder.
func (m *Metrics) EntryDeleted() {
	m.EntriesDeleted.Inc()
}

// EntriesRecalculated implements usecase.MetricsRecorder.
func (m *Metrics) EntriesRecalculated(count int) {
	m.RecalculatedEntries.Observe(float64(count))
}

// RecalculationRejected implements usecase.MetricsRecorder.
func (m *Metrics) RecalculationRejected() {
	m.RecalculationsRejected.Inc()
}

// StatementServed implements usecase.MetricsRecorder.
func (m *Metrics) StatementServed(cached bool) {
	label := "miss"
	if cached {
		label = "hit"
	}
	m.StatementsServed.WithLabelValues(label).Inc()
}

// ObserveHTTP records one completed request. path should be the route
// pattern, not the raw URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RateLimited records a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}

// Handler serves the metrics registered through New.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

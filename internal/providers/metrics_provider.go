package providers

import (
	"net/http"
	"steamledger/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(kind string, duration time.Duration)
	SetLedgerRecords(kind string, count int)
	IncCaptures(source, outcome string)
	IncUploads(outcome string)
	AddActivityMinutes(minutes int64)
	ObserveRunDuration(duration time.Duration)
	Handler() http.Handler
	WriteTextfile(path string) error
}

type MetricsProvider struct {
	registry            *prometheus.Registry
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	ledgerRecords       *prometheus.GaugeVec
	capturesTotal       *prometheus.CounterVec
	uploadsTotal        *prometheus.CounterVec
	activityMinutes     prometheus.Counter
	runDuration         prometheus.Histogram
	lastRun             prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(kind string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLedgerRecords(kind string, count int) {
	m.ledgerRecords.WithLabelValues(kind).Set(float64(count))
}

func (m *MetricsProvider) IncCaptures(source, outcome string) {
	m.capturesTotal.WithLabelValues(source, outcome).Inc()
}

func (m *MetricsProvider) IncUploads(outcome string) {
	m.uploadsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) AddActivityMinutes(minutes int64) {
	m.activityMinutes.Add(float64(minutes))
}

func (m *MetricsProvider) ObserveRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
	m.lastRun.SetToCurrentTime()
}

func (m *MetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *MetricsProvider) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsProvider{
		registry: registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "steamledger_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamledger_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "steamledger_cache_hits_total",
			Help: "Total number of ledger cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "steamledger_cache_misses_total",
			Help: "Total number of ledger cache misses",
		}),

		persistenceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamledger_persistence_duration_seconds",
			Help:    "Duration of ledger writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		ledgerRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "steamledger_ledger_records",
			Help: "Number of rows in the last written ledger per kind",
		}, []string{"kind"}),

		capturesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "steamledger_captures_total",
			Help: "Source captures by outcome",
		}, []string{"source", "outcome"}),

		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "steamledger_uploads_total",
			Help: "Activity record uploads by outcome",
		}, []string{"outcome"}),

		activityMinutes: factory.NewCounter(prometheus.CounterOpts{
			Name: "steamledger_activity_minutes_total",
			Help: "Minutes of play derived by the delta calculator",
		}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "steamledger_run_duration_seconds",
			Help:    "Duration of a full job run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "steamledger_last_run_timestamp_seconds",
			Help: "Unix time of the last finished run",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetLedgerRecords(_ string, _ int)                     {}
func (n *noopMetrics) IncCaptures(_, _ string)                              {}
func (n *noopMetrics) IncUploads(_ string)                                  {}
func (n *noopMetrics) AddActivityMinutes(_ int64)                           {}
func (n *noopMetrics) ObserveRunDuration(_ time.Duration)                   {}
func (n *noopMetrics) Handler() http.Handler                                { return http.NotFoundHandler() }
func (n *noopMetrics) WriteTextfile(_ string) error                         { return nil }

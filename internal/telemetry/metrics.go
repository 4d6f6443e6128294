package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the service
// SSOT: every metric is registered here and nowhere else.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ScansTotal      prometheus.Counter
	ScanAssets      prometheus.Histogram
	UpstreamErrors  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

// New creates and registers the service metrics on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by path",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "scans_total",
			Help:      "Completed market scans",
		}),
		ScanAssets: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coinpulse",
			Name:      "scan_assets",
			Help:      "Assets emitted per scan",
			Buckets:   []float64{5, 10, 25, 50, 80, 100},
		}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "upstream_errors_total",
			Help:      "Upstream fetch failures by endpoint",
		}, []string{"endpoint"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinpulse",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by resource and outcome",
		}, []string{"resource", "result"}),
	}
}

// Handler exposes the registry for a /metrics listener
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(path, method string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// ObserveScan records one completed market scan
func (m *Metrics) ObserveScan(assetCount int) {
	m.ScansTotal.Inc()
	m.ScanAssets.Observe(float64(assetCount))
}

// ObserveUpstreamError records one failed upstream fetch.
// Safe on a nil receiver; components run without metrics outside the
// API server.
func (m *Metrics) ObserveUpstreamError(endpoint string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(endpoint).Inc()
}

// ObserveCacheLookup records one cache lookup outcome.
// Safe on a nil receiver.
func (m *Metrics) ObserveCacheLookup(resource string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(resource, result).Inc()
}

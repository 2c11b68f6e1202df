// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Congestion metrics
	CongestionReports    *prometheus.CounterVec
	LastCongestion       prometheus.Gauge
	HistoricalSeriesRuns *prometheus.CounterVec

	// Fee metrics
	FeeQuotes          *prometheus.CounterVec
	MalformedOverrides prometheus.Counter
	OverridesApplied   prometheus.Counter

	// Recorder metrics
	RecorderQueued  prometheus.Counter
	RecorderDropped prometheus.Counter
	RecorderErrors  *prometheus.CounterVec
	RecorderBacklog prometheus.Gauge

	// WebSocket metrics
	WSClients    prometheus.Gauge
	WSBroadcasts prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_fee_advisor"
	}

	return &Metrics{
		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		// Congestion metrics
		CongestionReports: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congestion",
			Name:      "reports_total",
			Help:      "Total number of congestion reports generated by status",
		}, []string{"status"}),
		LastCongestion: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "congestion",
			Name:      "last_percentage",
			Help:      "Congestion percentage of the most recent report",
		}),
		HistoricalSeriesRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "congestion",
			Name:      "historical_series_total",
			Help:      "Total number of historical series generated by bucket kind",
		}, []string{"bucket"}),

		// Fee metrics
		FeeQuotes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fees",
			Name:      "quotes_total",
			Help:      "Total number of fee quotes by transaction type and priority",
		}, []string{"transaction_type", "priority"}),
		MalformedOverrides: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fees",
			Name:      "malformed_overrides_total",
			Help:      "Total number of priority fee overrides that failed to parse",
		}),
		OverridesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fees",
			Name:      "overrides_applied_total",
			Help:      "Total number of quotes where the caller override won",
		}),

		// Recorder metrics
		RecorderQueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "queued_total",
			Help:      "Total number of samples accepted for persistence",
		}),
		RecorderDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "dropped_total",
			Help:      "Total number of samples dropped because the buffer was full",
		}),
		RecorderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "errors_total",
			Help:      "Total number of failed sample writes by sink",
		}, []string{"sink"}),
		RecorderBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "backlog",
			Help:      "Number of samples waiting to be written",
		}),

		// WebSocket metrics
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Number of connected WebSocket clients",
		}),
		WSBroadcasts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "broadcasts_total",
			Help:      "Total number of network updates broadcast",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(method, route, status).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordCongestionReport records a generated congestion report.
func RecordCongestionReport(status string, percentage int) {
	DefaultMetrics.CongestionReports.WithLabelValues(status).Inc()
	DefaultMetrics.LastCongestion.Set(float64(percentage))
}

// RecordHistoricalSeries records a generated historical series.
func RecordHistoricalSeries(bucket string) {
	DefaultMetrics.HistoricalSeriesRuns.WithLabelValues(bucket).Inc()
}

// RecordFeeQuote records a computed fee quote.
func RecordFeeQuote(transactionType, priority string, overridden bool) {
	DefaultMetrics.FeeQuotes.WithLabelValues(transactionType, priority).Inc()
	if overridden {
		DefaultMetrics.OverridesApplied.Inc()
	}
}

// RecordMalformedOverride increments the malformed override counter.
func RecordMalformedOverride() {
	DefaultMetrics.MalformedOverrides.Inc()
}

// RecordSampleQueued increments the recorder queued counter.
func RecordSampleQueued() {
	DefaultMetrics.RecorderQueued.Inc()
}

// RecordSampleDropped increments the recorder dropped counter.
func RecordSampleDropped() {
	DefaultMetrics.RecorderDropped.Inc()
}

// RecordSinkError records a failed write to a recorder sink.
func RecordSinkError(sink string) {
	DefaultMetrics.RecorderErrors.WithLabelValues(sink).Inc()
}

// UpdateRecorderBacklog updates the recorder backlog gauge.
func UpdateRecorderBacklog(n int) {
	DefaultMetrics.RecorderBacklog.Set(float64(n))
}

// UpdateWSClients updates the connected WebSocket clients gauge.
func UpdateWSClients(n int) {
	DefaultMetrics.WSClients.Set(float64(n))
}

// RecordBroadcast increments the WebSocket broadcast counter.
func RecordBroadcast() {
	DefaultMetrics.WSBroadcasts.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

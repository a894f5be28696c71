// Package observability provides Prometheus metrics and logger construction.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Codec metrics
	CodecOperations *prometheus.CounterVec

	// Resolver metrics
	Resolutions          *prometheus.CounterVec
	ResolutionCandidates prometheus.Histogram

	// Solana metrics
	RPCCallLatency  *prometheus.HistogramVec
	WSNotifications *prometheus.CounterVec

	// Indexer metrics
	LastSyncedSlot   *prometheus.GaugeVec
	SnapshotsSynced  *prometheus.CounterVec
	SnapshotsSkipped *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSync prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "governance_kit"
	}

	return &Metrics{
		CodecOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Total number of encode and decode operations by record type and status",
		}, []string{"op", "record", "status"}),

		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Total number of voter weight resolutions by outcome",
		}, []string{"outcome"}),
		ResolutionCandidates: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "candidates",
			Help:      "Number of voter weight records considered per resolution",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25},
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSNotifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_notifications_total",
			Help:      "Total number of WebSocket account notifications received",
		}, []string{"record"}),

		LastSyncedSlot: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "last_synced_slot",
			Help:      "Slot of the last snapshot sync per record type",
		}, []string{"record"}),
		SnapshotsSynced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "snapshots_synced_total",
			Help:      "Total number of account snapshots stored per record type",
		}, []string{"record"}),
		SnapshotsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "snapshots_skipped_total",
			Help:      "Total number of fetched accounts that failed to decode",
		}, []string{"record"}),

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

		LastSuccessfulSync: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sync_timestamp",
			Help:      "Unix timestamp of last successful indexer sync",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordCodecOp records one encode or decode of a record type.
func RecordCodecOp(op, record string, err error) {
	DefaultMetrics.CodecOperations.WithLabelValues(op, record, status(err)).Inc()
}

// RecordResolution records a resolver outcome and how many candidates it saw.
func RecordResolution(outcome string, candidates int) {
	DefaultMetrics.Resolutions.WithLabelValues(outcome).Inc()
	DefaultMetrics.ResolutionCandidates.Observe(float64(candidates))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordNotification counts a WebSocket notification for a record type.
func RecordNotification(record string) {
	DefaultMetrics.WSNotifications.WithLabelValues(record).Inc()
}

// RecordSync records a finished snapshot sync of one record type.
func RecordSync(record string, slot uint64, stored, skipped int) {
	DefaultMetrics.LastSyncedSlot.WithLabelValues(record).Set(float64(slot))
	DefaultMetrics.SnapshotsSynced.WithLabelValues(record).Add(float64(stored))
	DefaultMetrics.SnapshotsSkipped.WithLabelValues(record).Add(float64(skipped))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

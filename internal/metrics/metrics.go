package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values recorded per operation outcome.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultOK       = "ok"
	ResultNotFound = "not_found"
)

var (
	registerOnce sync.Once

	telemetryIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetenergy_telemetry_ingested_total",
			Help: "Telemetry ingestion attempts by kind and result",
		},
		[]string{"kind", "result"},
	)
	ingestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetenergy_ingest_duration_seconds",
			Help:    "Ingestion pipeline latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	performanceQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetenergy_performance_queries_total",
			Help: "Vehicle performance queries by result",
		},
		[]string{"result"},
	)
)

// Register installs the collectors into the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			telemetryIngested,
			ingestDuration,
			performanceQueries,
		)
	})
}

// ObserveIngest records one ingestion attempt.
func ObserveIngest(kind, result string, seconds float64) {
	if kind == "" {
		kind = "unknown"
	}
	telemetryIngested.WithLabelValues(kind, result).Inc()
	ingestDuration.WithLabelValues(result).Observe(seconds)
}

// ObservePerformanceQuery records one analytics query.
func ObservePerformanceQuery(result string) {
	performanceQueries.WithLabelValues(result).Inc()
}

// Package metrics defines the Prometheus collectors of the sync jobs, the index
// client and the hook server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Index and job Prometheus metrics.
var (
	IndexOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "index_ops_total",
			Help:      "Total number of search index operations",
		},
		[]string{"index", "op", "status"},
	)

	IndexOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchsync",
			Name:      "index_op_duration_seconds",
			Help:      "Search index operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"index", "op"},
	)

	JobRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "job_records_total",
			Help:      "Records processed by rebuild, repair and live sync",
		},
		[]string{"job", "content_type", "status"},
	)

	DriftDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "searchsync",
			Name:      "drift_documents",
			Help:      "Drift found by the last repair run",
		},
		[]string{"content_type", "kind"}, // kind: missing / orphaned / stale
	)
)

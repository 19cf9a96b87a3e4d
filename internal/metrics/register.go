package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/searchsync/internal/version"
)

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "searchsync",
		Name:      "build_info",
		Help:      "Build metadata; the value is always 1",
	},
	[]string{"version", "commit", "go_version"},
)

var registerOnce sync.Once

// Register adds every collector to the default registry and publishes build_info.
// Calls after the first are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			IndexOpsTotal,
			IndexOpDuration,
			JobRecordsTotal,
			DriftDocuments,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
			buildInfo,
		)
		info := version.Get()
		buildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)
	})
}

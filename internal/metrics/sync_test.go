package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()

	if v := testutil.ToFloat64(buildInfo); v != 1 {
		t.Errorf("build_info = %f, want 1", v)
	}
	var already prometheus.AlreadyRegisteredError
	if err := prometheus.Register(JobRecordsTotal); !errors.As(err, &already) {
		t.Errorf("expected JobRecordsTotal to be registered already, got %v", err)
	}
}

func TestSyncMetrics_Labels(t *testing.T) {
	IndexOpsTotal.WithLabelValues("episodes", "upsert", "ok").Inc()
	if v := testutil.ToFloat64(IndexOpsTotal.WithLabelValues("episodes", "upsert", "ok")); v < 1 {
		t.Errorf("expected index_ops_total >= 1, got %f", v)
	}

	DriftDocuments.WithLabelValues("transcript", "stale").Set(3)
	if v := testutil.ToFloat64(DriftDocuments.WithLabelValues("transcript", "stale")); v != 3 {
		t.Errorf("expected drift gauge 3, got %f", v)
	}
}

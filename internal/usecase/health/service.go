// Package health aggregates the availability of the index store and the CMS.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the overall verdict of a Report.
type Status string

// Overall verdicts. Unhealthy means every probed component failed.
const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded"
	Unhealthy Status = "error"
)

// CheckResult is the outcome of probing one component.
type CheckResult string

// Probe outcomes.
const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentIndex = "index"
	ComponentCMS   = "cms"
)

// defaultProbeTimeout bounds a single probe so one hung dependency cannot stall /health.
const defaultProbeTimeout = 2 * time.Second

// Report is the per-component result of one Check.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service probes its components concurrently.
type Service struct {
	probes  map[string]Pinger
	timeout time.Duration
}

// New creates a Service. cms can be nil, in which case it is not reported.
func New(index, cms Pinger) *Service {
	probes := map[string]Pinger{ComponentIndex: index}
	if cms != nil {
		probes[ComponentCMS] = cms
	}
	return &Service{probes: probes, timeout: defaultProbeTimeout}
}

// Check pings every component and folds the outcomes into one Status.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.probes))
		g      errgroup.Group
	)
	for name, p := range s.probes {
		g.Go(func() error {
			res := s.probe(ctx, p)
			mu.Lock()
			checks[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: verdict(checks), Checks: checks}
}

func (s *Service) probe(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if p.Ping(ctx) != nil {
		return CheckError
	}
	return CheckOK
}

func verdict(checks map[string]CheckResult) Status {
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}

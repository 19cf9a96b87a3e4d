// Package rebuild re-projects every indexable record of a content type into the index.
package rebuild

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/batch"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
	"github.com/kailas-cloud/searchsync/internal/metrics"
	"github.com/kailas-cloud/searchsync/internal/projector"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// Options tunes a rebuild run.
type Options struct {
	// Concurrency bounds in-flight per-record publishes.
	Concurrency int
	// Reindex drops and recreates the FT index before writing.
	Reindex bool
}

// Summary is the outcome of rebuilding one content type.
type Summary struct {
	Type      domain.ContentType
	Index     string
	Records   int // read from the store
	Eligible  int // passed IncludeInIndex
	Published int
	Documents int
	Failed    int
	Errors    []batch.Result
	Duration  time.Duration
	// Err is set when the content type could not be processed at all.
	Err error
}

// Service is the rebuild job.
type Service struct {
	catalog   *publish.Catalog
	records   RecordReader
	index     IndexClient
	publisher *publish.Publisher
	opts      Options
	logger    *zap.Logger
}

// New creates a rebuild service.
func New(
	catalog *publish.Catalog, records RecordReader, index IndexClient, opts Options, logger *zap.Logger,
) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = publish.DefaultConcurrency
	}
	return &Service{
		catalog:   catalog,
		records:   records,
		index:     index,
		publisher: publish.New(index),
		opts:      opts,
		logger:    logger,
	}
}

// Run rebuilds every content type the selector names. A failing content type or
// record never stops the others; the returned error only reports a bad selector.
func (s *Service) Run(ctx context.Context, selector string) ([]Summary, error) {
	targets, err := s.catalog.Resolve(selector)
	if err != nil {
		return nil, err
	}

	log, _ := logpkg.ForRun(s.logger, "rebuild")
	log.Info("Rebuild started", zap.String("selector", selector), zap.Bool("reindex", s.opts.Reindex))

	out := make([]Summary, 0, len(targets))
	for _, t := range targets {
		out = append(out, s.rebuild(ctx, t, log.With(zap.String("content_type", string(t.Type())))))
	}
	return out, nil
}

func (s *Service) rebuild(ctx context.Context, t publish.Target, log *zap.Logger) (sum Summary) {
	start := time.Now()
	sum = Summary{Type: t.Type(), Index: t.Index}
	defer func() { sum.Duration = time.Since(start) }()

	if err := s.prepare(ctx, t); err != nil {
		sum.Err = err
		log.Error("Rebuild index setup failed", zap.String("index", t.Index), zap.Error(err))
		return sum
	}

	recs, err := s.records.ReadMany(ctx, projector.Query(t.Projector))
	if err != nil {
		sum.Err = fmt.Errorf("read %s: %w", t.Type(), err)
		log.Error("Rebuild read failed", zap.Error(err))
		return sum
	}
	sum.Records = len(recs)

	eligible := make([]domain.Record, 0, len(recs))
	for _, rec := range recs {
		if t.Projector.IncludeInIndex(rec) {
			eligible = append(eligible, rec)
		}
	}
	sum.Eligible = len(eligible)

	results := publish.ForEach(ctx, s.opts.Concurrency, batch.OpPublish, eligible,
		func(ctx context.Context, rec domain.Record) (int, error) {
			return s.publisher.Publish(ctx, t, rec)
		})

	for _, r := range results {
		if r.Status() == batch.StatusOK {
			sum.Published++
			sum.Documents += r.Docs()
			continue
		}
		sum.Failed++
		sum.Errors = append(sum.Errors, r)
		log.Error("Rebuild record failed", zap.String("record_id", r.ID()), zap.Error(r.Err()))
	}
	metrics.JobRecordsTotal.WithLabelValues("rebuild", string(t.Type()), "ok").Add(float64(sum.Published))
	metrics.JobRecordsTotal.WithLabelValues("rebuild", string(t.Type()), "error").Add(float64(sum.Failed))

	log.Info("Rebuild finished",
		zap.Int("records", sum.Records),
		zap.Int("eligible", sum.Eligible),
		zap.Int("published", sum.Published),
		zap.Int("documents", sum.Documents),
		zap.Int("failed", sum.Failed),
	)
	return sum
}

func (s *Service) prepare(ctx context.Context, t publish.Target) error {
	if s.opts.Reindex {
		if err := s.index.DropIndex(ctx, t.Index); err != nil {
			return fmt.Errorf("drop index %s: %w", t.Index, err)
		}
	}
	if err := s.index.EnsureIndex(ctx, t.Index, t.Projector.TextFields()); err != nil {
		return fmt.Errorf("ensure index %s: %w", t.Index, err)
	}
	return nil
}

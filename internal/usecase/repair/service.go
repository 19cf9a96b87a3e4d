// Package repair reconciles the index with the canonical store: it adds missing
// documents, removes orphans and rewrites records whose document count drifted.
package repair

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/batch"
	"github.com/kailas-cloud/searchsync/internal/domain/drift"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
	"github.com/kailas-cloud/searchsync/internal/metrics"
	"github.com/kailas-cloud/searchsync/internal/projector"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// Options tunes a repair run.
type Options struct {
	Concurrency int
	// DryRun computes drift without correcting it.
	DryRun bool
}

// Report is the outcome of repairing one content type.
type Report struct {
	Type  domain.ContentType
	Index string

	Records   int // eligible canonical records
	Documents int // index documents scanned

	Missing  int
	Orphaned int
	Stale    int

	Added   int
	Removed int // orphaned documents deleted
	Updated int
	Failed  int
	Errors  []batch.Result

	DryRun   bool
	Duration time.Duration
	// Err is set when the diff could not be computed.
	Err error
}

// Drift returns the number of drifted items found.
func (r Report) Drift() int { return r.Missing + r.Orphaned + r.Stale }

// Repaired returns the number of corrections applied.
func (r Report) Repaired() int { return r.Added + r.Removed + r.Updated }

// Service is the repair job.
type Service struct {
	catalog   *publish.Catalog
	records   RecordReader
	index     IndexClient
	publisher *publish.Publisher
	opts      Options
	logger    *zap.Logger
}

// New creates a repair service.
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

// Run repairs every content type the selector names. Zero drift is a normal outcome.
func (s *Service) Run(ctx context.Context, selector string) ([]Report, error) {
	targets, err := s.catalog.Resolve(selector)
	if err != nil {
		return nil, err
	}

	log, _ := logpkg.ForRun(s.logger, "repair")
	log.Info("Repair started", zap.String("selector", selector), zap.Bool("dry_run", s.opts.DryRun))

	out := make([]Report, 0, len(targets))
	for _, t := range targets {
		out = append(out, s.repair(ctx, t, log.With(zap.String("content_type", string(t.Type())))))
	}
	return out, nil
}

func (s *Service) repair(ctx context.Context, t publish.Target, log *zap.Logger) (rep Report) {
	start := time.Now()
	rep = Report{Type: t.Type(), Index: t.Index, DryRun: s.opts.DryRun}
	defer func() { rep.Duration = time.Since(start) }()

	d, err := s.diff(ctx, t, &rep)
	if err != nil {
		rep.Err = err
		log.Error("Repair diff failed", zap.Error(err))
		return rep
	}

	rep.Missing, rep.Orphaned, rep.Stale = len(d.Missing), len(d.Orphaned), len(d.Stale)
	s.observe(t.Type(), d)
	log.Info("Drift computed",
		zap.Int("records", rep.Records),
		zap.Int("documents", rep.Documents),
		zap.Int("missing", rep.Missing),
		zap.Int("orphaned", rep.Orphaned),
		zap.Int("stale", rep.Stale),
	)
	if s.opts.DryRun || d.Total() == 0 {
		return rep
	}

	if err := s.index.EnsureIndex(ctx, t.Index, t.Projector.TextFields()); err != nil {
		rep.Err = fmt.Errorf("ensure index %s: %w", t.Index, err)
		log.Error("Repair index setup failed", zap.Error(err))
		return rep
	}

	var results []batch.Result
	results = append(results, s.addMissing(ctx, t, d.Missing)...)
	results = append(results, s.removeOrphans(ctx, t, d.Orphaned)...)
	results = append(results, s.updateStale(ctx, t, d.Stale)...)

	tally := batch.Count(results)
	rep.Added = tally.OK[batch.OpAdd]
	rep.Removed = tally.OK[batch.OpRemove]
	rep.Updated = tally.OK[batch.OpUpdate]
	rep.Failed = tally.TotalFailed()
	rep.Errors = tally.Errors

	for _, r := range tally.Errors {
		log.Error("Repair correction failed",
			zap.String("op", string(r.Op())),
			zap.String("record_id", r.ID()),
			zap.Error(r.Err()),
		)
	}
	metrics.JobRecordsTotal.WithLabelValues("repair", string(t.Type()), "ok").Add(float64(rep.Repaired()))
	metrics.JobRecordsTotal.WithLabelValues("repair", string(t.Type()), "error").Add(float64(rep.Failed))

	log.Info("Repair finished",
		zap.Int("added", rep.Added),
		zap.Int("removed", rep.Removed),
		zap.Int("updated", rep.Updated),
		zap.Int("failed", rep.Failed),
	)
	return rep
}

// diff reads both sides and classifies drift. Records failing IncludeInIndex are
// left out of the canonical side, so their documents surface as orphans.
func (s *Service) diff(ctx context.Context, t publish.Target, rep *Report) (drift.Report, error) {
	recs, err := s.records.ReadMany(ctx, projector.Query(t.Projector))
	if err != nil {
		return drift.Report{}, fmt.Errorf("read %s: %w", t.Type(), err)
	}
	eligible := make([]domain.Record, 0, len(recs))
	for _, rec := range recs {
		if t.Projector.IncludeInIndex(rec) {
			eligible = append(eligible, rec)
		}
	}
	rep.Records = len(eligible)

	docs, err := s.index.Browse(ctx, t.Index,
		filter.Match(domain.AttrType, string(t.Type())), []string{domain.AttrObjectID})
	if err != nil {
		return drift.Report{}, fmt.Errorf("browse %s: %w", t.Index, err)
	}
	rep.Documents = len(docs)

	return drift.Compute(eligible, docs, func(rec domain.Record) int {
		return len(t.Projector.ProjectAttributes(rec))
	}), nil
}

func (s *Service) addMissing(ctx context.Context, t publish.Target, recs []domain.Record) []batch.Result {
	return publish.ForEach(ctx, s.opts.Concurrency, batch.OpAdd, recs,
		func(ctx context.Context, rec domain.Record) (int, error) {
			return s.publisher.Publish(ctx, t, rec)
		})
}

// removeOrphans deletes every orphaned document in one batch call; the outcome
// applies to each document.
func (s *Service) removeOrphans(ctx context.Context, t publish.Target, docs []domain.IndexDocument) []batch.Result {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ObjectID
	}

	err := s.index.DeleteMany(ctx, t.Index, ids)
	results := make([]batch.Result, len(ids))
	for i, id := range ids {
		if err != nil {
			results[i] = batch.NewError(id, batch.OpRemove, err)
			continue
		}
		results[i] = batch.NewOK(id, batch.OpRemove, 1)
	}
	return results
}

func (s *Service) updateStale(ctx context.Context, t publish.Target, stale []drift.Stale) []batch.Result {
	recs := make([]domain.Record, len(stale))
	for i, st := range stale {
		recs[i] = st.Record
	}
	return publish.ForEach(ctx, s.opts.Concurrency, batch.OpUpdate, recs,
		func(ctx context.Context, rec domain.Record) (int, error) {
			return s.publisher.Rewrite(ctx, t, rec)
		})
}

func (s *Service) observe(ct domain.ContentType, d drift.Report) {
	metrics.DriftDocuments.WithLabelValues(string(ct), string(drift.KindMissing)).Set(float64(len(d.Missing)))
	metrics.DriftDocuments.WithLabelValues(string(ct), string(drift.KindOrphaned)).Set(float64(len(d.Orphaned)))
	metrics.DriftDocuments.WithLabelValues(string(ct), string(drift.KindStale)).Set(float64(len(d.Stale)))
}

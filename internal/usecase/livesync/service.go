// Package livesync applies single canonical-record mutations to the search index.
package livesync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/metrics"
	"github.com/kailas-cloud/searchsync/internal/projector"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// Outcome describes what a handled event did to the index.
type Outcome string

// Event outcomes.
const (
	OutcomeIndexed  Outcome = "indexed"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeSkipped  Outcome = "skipped"  // record missing or not indexable
	OutcomeDeferred Outcome = "deferred" // multi-document delete, left to repair
	OutcomeDropped  Outcome = "dropped"  // malformed event
)

// Result is the outcome of one event.
type Result struct {
	Type    domain.ContentType
	Action  domain.Action
	Key     string
	Outcome Outcome
	Docs    int
}

// Service is the live sync controller.
type Service struct {
	catalog   *publish.Catalog
	records   RecordReader
	index     IndexClient
	publisher *publish.Publisher
	logger    *zap.Logger
}

// New creates a live sync service.
func New(catalog *publish.Catalog, records RecordReader, index IndexClient, logger *zap.Logger) *Service {
	return &Service{
		catalog:   catalog,
		records:   records,
		index:     index,
		publisher: publish.New(index),
		logger:    logger,
	}
}

// Handle applies one mutation event. A malformed event is logged and dropped
// without an error; index and store failures are returned to the caller.
func (s *Service) Handle(
	ctx context.Context, ct domain.ContentType, action domain.Action, ev domain.Event,
) (Result, error) {
	res := Result{Type: ct, Action: action}

	target, err := s.catalog.Target(ct)
	if err != nil {
		return res, err
	}

	key, err := ev.ResolveKey()
	if err != nil {
		s.logger.Warn("Dropping event without primary key",
			zap.String("content_type", string(ct)),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		res.Outcome = OutcomeDropped
		s.count(ct, "dropped")
		return res, nil
	}
	res.Key = key

	switch action {
	case domain.ActionCreate, domain.ActionUpdate:
		res, err = s.upsert(ctx, target, res)
	case domain.ActionDelete:
		res, err = s.remove(ctx, target, res)
	default:
		return res, fmt.Errorf("handle %s: %w", action, domain.ErrUnsupportedAction)
	}

	if err != nil {
		s.count(ct, "error")
		s.logger.Error("Live sync failed",
			zap.String("content_type", string(ct)),
			zap.String("action", string(action)),
			zap.String("record_id", key),
			zap.Error(err),
		)
		return res, err
	}

	s.count(ct, string(res.Outcome))
	s.logger.Info("Live sync applied",
		zap.String("content_type", string(ct)),
		zap.String("action", string(action)),
		zap.String("record_id", key),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("documents", res.Docs),
	)
	return res, nil
}

func (s *Service) upsert(ctx context.Context, t publish.Target, res Result) (Result, error) {
	rec, err := s.records.ReadOne(ctx, projector.Query(t.Projector), res.Key)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			res.Outcome = OutcomeSkipped
			return res, nil
		}
		return res, fmt.Errorf("read %s %s: %w", t.Type(), res.Key, err)
	}

	if !t.Projector.IncludeInIndex(rec) {
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	n, err := s.publisher.Publish(ctx, t, rec)
	res.Docs = n
	if err != nil {
		return res, err
	}
	res.Outcome = OutcomeIndexed
	return res, nil
}

func (s *Service) remove(ctx context.Context, t publish.Target, res Result) (Result, error) {
	if t.Projector.RequiresDeleteBeforeRewrite() {
		res.Outcome = OutcomeDeferred
		return res, nil
	}

	if err := s.index.Delete(ctx, t.Index, domain.ObjectID(res.Key, 0, false)); err != nil {
		return res, fmt.Errorf("delete %s %s: %w", t.Type(), res.Key, err)
	}
	res.Outcome = OutcomeDeleted
	res.Docs = 1
	return res, nil
}

func (s *Service) count(ct domain.ContentType, status string) {
	metrics.JobRecordsTotal.WithLabelValues("livesync", string(ct), status).Inc()
}

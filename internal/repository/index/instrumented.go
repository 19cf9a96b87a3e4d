package index

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
	"github.com/kailas-cloud/searchsync/internal/metrics"
)

// Client is the index-client method set shared by Repo and its decorators.
type Client interface {
	Upsert(ctx context.Context, index, objectID string, attrs domain.Attributes) error
	Delete(ctx context.Context, index, objectID string) error
	DeleteMany(ctx context.Context, index string, objectIDs []string) error
	DeleteBy(ctx context.Context, index string, f filter.Expression) (int, error)
	Browse(ctx context.Context, index string, f filter.Expression, attrs []string) ([]domain.IndexDocument, error)
	EnsureIndex(ctx context.Context, index string, textFields []string) error
	DropIndex(ctx context.Context, index string) error
}

var _ Client = (*Repo)(nil)

// Operation labels for index metrics.
const (
	opUpsert      = "upsert"
	opDelete      = "delete"
	opDeleteMany  = "delete_many"
	opDeleteBy    = "delete_by"
	opBrowse      = "browse"
	opEnsureIndex = "ensure_index"
	opDropIndex   = "drop_index"
)

// InstrumentedClient wraps a Client with Prometheus metrics and logging.
type InstrumentedClient struct {
	inner  Client
	logger *zap.Logger
}

// NewInstrumentedClient wraps inner with index operation metrics.
func NewInstrumentedClient(inner Client, logger *zap.Logger) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, logger: logger}
}

// Upsert delegates and records the outcome.
func (c *InstrumentedClient) Upsert(ctx context.Context, index, objectID string, attrs domain.Attributes) error {
	start := time.Now()
	err := c.inner.Upsert(ctx, index, objectID, attrs)
	c.observe(index, opUpsert, start, err, zap.String("object_id", objectID))
	return err
}

// Delete delegates and records the outcome.
func (c *InstrumentedClient) Delete(ctx context.Context, index, objectID string) error {
	start := time.Now()
	err := c.inner.Delete(ctx, index, objectID)
	c.observe(index, opDelete, start, err, zap.String("object_id", objectID))
	return err
}

// DeleteMany delegates and records the outcome.
func (c *InstrumentedClient) DeleteMany(ctx context.Context, index string, objectIDs []string) error {
	start := time.Now()
	err := c.inner.DeleteMany(ctx, index, objectIDs)
	c.observe(index, opDeleteMany, start, err, zap.Int("count", len(objectIDs)))
	return err
}

// DeleteBy delegates and records the outcome.
func (c *InstrumentedClient) DeleteBy(ctx context.Context, index string, f filter.Expression) (int, error) {
	start := time.Now()
	n, err := c.inner.DeleteBy(ctx, index, f)
	c.observe(index, opDeleteBy, start, err, zap.Stringer("filter", f), zap.Int("deleted", n))
	return n, err
}

// Browse delegates and records the outcome.
func (c *InstrumentedClient) Browse(
	ctx context.Context, index string, f filter.Expression, attrs []string,
) ([]domain.IndexDocument, error) {
	start := time.Now()
	docs, err := c.inner.Browse(ctx, index, f, attrs)
	c.observe(index, opBrowse, start, err, zap.Stringer("filter", f), zap.Int("documents", len(docs)))
	return docs, err
}

// EnsureIndex delegates and records the outcome.
func (c *InstrumentedClient) EnsureIndex(ctx context.Context, index string, textFields []string) error {
	start := time.Now()
	err := c.inner.EnsureIndex(ctx, index, textFields)
	c.observe(index, opEnsureIndex, start, err)
	return err
}

// DropIndex delegates and records the outcome.
func (c *InstrumentedClient) DropIndex(ctx context.Context, index string) error {
	start := time.Now()
	err := c.inner.DropIndex(ctx, index)
	c.observe(index, opDropIndex, start, err)
	return err
}

func (c *InstrumentedClient) observe(index, op string, start time.Time, err error, fields ...zap.Field) {
	duration := time.Since(start)
	metrics.IndexOpDuration.WithLabelValues(index, op).Observe(duration.Seconds())

	fields = append(fields,
		zap.String("index", index),
		zap.String("op", op),
		zap.Duration("duration", duration),
	)

	if err != nil {
		metrics.IndexOpsTotal.WithLabelValues(index, op, "error").Inc()
		c.logger.Error("Index operation failed", append(fields, zap.Error(err))...)
		return
	}
	metrics.IndexOpsTotal.WithLabelValues(index, op, "ok").Inc()
	c.logger.Debug("Index operation completed", fields...)
}

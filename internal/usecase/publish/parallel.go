package publish

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/batch"
)

// DefaultConcurrency bounds per-record work when none is configured.
const DefaultConcurrency = 8

// ForEach runs fn for every record with at most concurrency calls in flight.
// A failing record never cancels the others; results keep the input order.
// Records not started because ctx was cancelled get an error result.
func ForEach(
	ctx context.Context, concurrency int, op batch.Op, records []domain.Record,
	fn func(ctx context.Context, rec domain.Record) (int, error),
) []batch.Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]batch.Result, len(records))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range records {
		rec := records[i]
		if err := ctx.Err(); err != nil {
			results[i] = batch.NewError(rec.Key, op, fmt.Errorf("not started: %w", err))
			continue
		}
		g.Go(func() error {
			n, err := fn(ctx, rec)
			if err != nil {
				results[i] = batch.NewError(rec.Key, op, err)
				return nil
			}
			results[i] = batch.NewOK(rec.Key, op, n)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	return results
}

package publish

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
)

// IndexWriter writes and removes index documents.
type IndexWriter interface {
	Upsert(ctx context.Context, index, objectID string, attrs domain.Attributes) error
	DeleteBy(ctx context.Context, index string, f filter.Expression) (int, error)
}

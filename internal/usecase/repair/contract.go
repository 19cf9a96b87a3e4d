package repair

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// RecordReader lists canonical records.
type RecordReader interface {
	ReadMany(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

// IndexClient scans and corrects index documents.
type IndexClient interface {
	publish.IndexWriter
	DeleteMany(ctx context.Context, index string, objectIDs []string) error
	Browse(ctx context.Context, index string, f filter.Expression, attrs []string) ([]domain.IndexDocument, error)
	EnsureIndex(ctx context.Context, index string, textFields []string) error
}

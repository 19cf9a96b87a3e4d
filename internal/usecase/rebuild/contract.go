package rebuild

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// RecordReader lists canonical records.
type RecordReader interface {
	ReadMany(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error)
}

// IndexClient writes documents and manages index lifecycle.
type IndexClient interface {
	publish.IndexWriter
	EnsureIndex(ctx context.Context, index string, textFields []string) error
	DropIndex(ctx context.Context, index string) error
}

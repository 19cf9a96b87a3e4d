package livesync

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/usecase/publish"
)

// RecordReader reads a single canonical record.
type RecordReader interface {
	ReadOne(ctx context.Context, q domain.RecordQuery, key string) (domain.Record, error)
}

// IndexClient mutates index documents.
type IndexClient interface {
	publish.IndexWriter
	Delete(ctx context.Context, index, objectID string) error
}

// Package publish runs the project -> delete-before-rewrite -> upsert sequence
// shared by live sync, rebuild and repair.
package publish

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/projector"
)

// Publisher writes the projection of one record into its index.
type Publisher struct {
	index IndexWriter
}

// New creates a publisher.
func New(index IndexWriter) *Publisher {
	return &Publisher{index: index}
}

// Publish projects rec and upserts one document per attribute set. Content types
// whose document count can change first delete the record's existing documents.
// Returns the number of documents written.
func (p *Publisher) Publish(ctx context.Context, t Target, rec domain.Record) (int, error) {
	return p.write(ctx, t, rec, t.Projector.RequiresDeleteBeforeRewrite())
}

// Rewrite always deletes the record's existing documents before writing the projection.
func (p *Publisher) Rewrite(ctx context.Context, t Target, rec domain.Record) (int, error) {
	return p.write(ctx, t, rec, true)
}

func (p *Publisher) write(ctx context.Context, t Target, rec domain.Record, deleteFirst bool) (int, error) {
	if deleteFirst {
		f := t.Projector.DeletionFilter(rec)
		if _, err := p.index.DeleteBy(ctx, t.Index, f); err != nil {
			return 0, fmt.Errorf("delete existing %s %s: %w", t.Type(), rec.Key, err)
		}
	}

	docs := projector.Documents(t.Projector, rec)
	for i := range docs {
		if err := p.index.Upsert(ctx, t.Index, docs[i].ObjectID, docs[i].Attributes); err != nil {
			return i, fmt.Errorf("upsert %s %s: %w", t.Type(), docs[i].ObjectID, err)
		}
	}
	return len(docs), nil
}

// Package index implements the search-index client over the Redis FT store.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kailas-cloud/searchsync/internal/db"
	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
)

// DefaultPageSize is the FT.SEARCH page used by Browse.
const DefaultPageSize = 1000

// store is the consumer interface for the index store (ISP).
type store interface {
	db.Documents
	db.Indexes
	db.Scanner
}

// Config tunes key layout, paging and per-command limits.
type Config struct {
	KeyPrefix   string
	PageSize    int
	CallTimeout time.Duration
	// Limiter throttles every store command. Nil means unlimited.
	Limiter *rate.Limiter
}

// Repo implements the index client: one FT index per logical index name,
// documents stored as JSON under {prefix}{index}:{objectID}.
type Repo struct {
	store       store
	keyPrefix   string
	pageSize    int
	callTimeout time.Duration
	limiter     *rate.Limiter
}

// New creates an index repository.
func New(s store, cfg Config) *Repo {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Repo{
		store:       s,
		keyPrefix:   cfg.KeyPrefix,
		pageSize:    cfg.PageSize,
		callTimeout: cfg.CallTimeout,
		limiter:     cfg.Limiter,
	}
}

// Upsert writes the full document body under objectID, creating it if absent.
// The previous body is replaced, not merged.
func (r *Repo) Upsert(ctx context.Context, index, objectID string, attrs domain.Attributes) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", objectID, err)
	}

	key := r.docKey(index, objectID)
	err = r.call(ctx, func(ctx context.Context) error {
		return r.store.PutJSON(ctx, key, data)
	})
	if err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes one document. Deleting an absent document is not an error.
func (r *Repo) Delete(ctx context.Context, index, objectID string) error {
	key := r.docKey(index, objectID)
	if err := r.call(ctx, func(ctx context.Context) error {
		_, err := r.store.Delete(ctx, key)
		return err
	}); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DeleteMany removes documents by ObjectID in pipelined batches of the page size.
func (r *Repo) DeleteMany(ctx context.Context, index string, objectIDs []string) error {
	_, err := r.deleteIDs(ctx, index, objectIDs)
	return err
}

// DeleteBy removes every document matching f and returns how many were removed.
func (r *Repo) DeleteBy(ctx context.Context, index string, f filter.Expression) (int, error) {
	var ids []string
	err := r.scan(ctx, index, f, true, func(hit db.Hit) {
		ids = append(ids, r.objectIDFromKey(index, hit.Key))
	})
	if err != nil {
		return 0, err
	}

	n, err := r.deleteIDs(ctx, index, ids)
	if err != nil {
		return n, fmt.Errorf("delete by %q: %w", f.String(), err)
	}
	return n, nil
}

// Browse returns every document matching f, paging through the index until exhausted.
// attrs limits the returned attributes; reserved attributes are always kept.
// A missing index yields no documents.
func (r *Repo) Browse(
	ctx context.Context, index string, f filter.Expression, attrs []string,
) ([]domain.IndexDocument, error) {
	var docs []domain.IndexDocument
	err := r.scan(ctx, index, f, false, func(hit db.Hit) {
		docs = append(docs, parseHit(r.objectIDFromKey(index, hit.Key), hit.Body, attrs))
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// scan pages through the hits of f and hands each one to fn. A missing index
// is an empty scan.
func (r *Repo) scan(
	ctx context.Context, index string, f filter.Expression, keysOnly bool, fn func(db.Hit),
) error {
	for offset := 0; ; offset += r.pageSize {
		var page *db.Page
		err := r.call(ctx, func(ctx context.Context) error {
			var err error
			page, err = r.store.Scan(ctx, &db.ScanQuery{
				Index:    r.indexName(index),
				Filter:   f,
				Offset:   offset,
				Limit:    r.pageSize,
				KeysOnly: keysOnly,
			})
			return err
		})
		if err != nil {
			if errors.Is(err, db.ErrIndexNotFound) {
				return nil
			}
			return fmt.Errorf("scan %s (%s): %w", index, f.String(), err)
		}
		if page == nil || len(page.Hits) == 0 {
			return nil
		}

		for _, hit := range page.Hits {
			fn(hit)
		}
		if offset+len(page.Hits) >= page.Total {
			return nil
		}
	}
}

// deleteIDs removes documents in batches of the page size and returns how many existed.
func (r *Repo) deleteIDs(ctx context.Context, index string, objectIDs []string) (int, error) {
	removed := 0
	for batch := range slices.Chunk(objectIDs, r.pageSize) {
		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = r.docKey(index, id)
		}
		err := r.call(ctx, func(ctx context.Context) error {
			n, err := r.store.Delete(ctx, keys...)
			removed += n
			return err
		})
		if err != nil {
			return removed, fmt.Errorf("delete %d documents from %s: %w", len(keys), index, err)
		}
	}
	return removed, nil
}

// EnsureIndex creates the FT index for index if it does not exist yet.
// textFields become TEXT attributes next to the reserved TAG attributes.
func (r *Repo) EnsureIndex(ctx context.Context, index string, textFields []string) error {
	name := r.indexName(index)

	var exists bool
	if err := r.call(ctx, func(ctx context.Context) error {
		var err error
		exists, err = r.store.IndexExists(ctx, name)
		return err
	}); err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	schema, err := buildSchema(name, r.collectionPrefix(index), textFields)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}

	err = r.call(ctx, func(ctx context.Context) error {
		return r.store.CreateIndex(ctx, schema)
	})
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// DropIndex removes the FT index definition. Documents are kept and are
// re-indexed when the index is created again.
func (r *Repo) DropIndex(ctx context.Context, index string) error {
	name := r.indexName(index)
	err := r.call(ctx, func(ctx context.Context) error {
		return r.store.DropIndex(ctx, name)
	})
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

// call runs one store command under the rate limiter and the per-call timeout.
// Store failures are tagged with domain.ErrIndexUnavailable.
func (r *Repo) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return nil
}

func (r *Repo) docKey(index, objectID string) string {
	return r.collectionPrefix(index) + objectID
}

func (r *Repo) collectionPrefix(index string) string {
	return fmt.Sprintf("%s%s:", r.keyPrefix, index)
}

func (r *Repo) indexName(index string) string {
	return fmt.Sprintf("%s%s:idx", r.keyPrefix, index)
}

func (r *Repo) objectIDFromKey(index, key string) string {
	return strings.TrimPrefix(key, r.collectionPrefix(index))
}

package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/db"
)

// fakeStore records calls and delegates to optional hooks.
type fakeStore struct {
	putFn     func(ctx context.Context, key string, body []byte) error
	deleteFn  func(ctx context.Context, keys []string) (int, error)
	createFn  func(ctx context.Context, s *db.Schema) error
	dropFn    func(ctx context.Context, name string) error
	existsFn  func(ctx context.Context, name string) (bool, error)
	scanFn    func(ctx context.Context, q *db.ScanQuery) (*db.Page, error)
	deleteLog [][]string
}

func (f *fakeStore) PutJSON(ctx context.Context, key string, body []byte) error {
	if f.putFn != nil {
		return f.putFn(ctx, key, body)
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, keys ...string) (int, error) {
	f.deleteLog = append(f.deleteLog, keys)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, keys)
	}
	return len(keys), nil
}

func (f *fakeStore) CreateIndex(ctx context.Context, s *db.Schema) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeStore) DropIndex(ctx context.Context, name string) error {
	if f.dropFn != nil {
		return f.dropFn(ctx, name)
	}
	return nil
}

func (f *fakeStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, name)
	}
	return false, nil
}

func (f *fakeStore) Scan(ctx context.Context, q *db.ScanQuery) (*db.Page, error) {
	if f.scanFn != nil {
		return f.scanFn(ctx, q)
	}
	return &db.Page{}, nil
}

func newTestRepo(t *testing.T, pageSize int) (*Repo, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	return New(fs, Config{KeyPrefix: "searchsync:", PageSize: pageSize}), fs
}

// pagedScan serves scan pages over fixed documents keyed by ObjectID. KeysOnly
// queries get hits without bodies.
func pagedScan(t *testing.T, index string, ids []string, bodies []string) func(
	context.Context, *db.ScanQuery,
) (*db.Page, error) {
	t.Helper()
	return func(_ context.Context, q *db.ScanQuery) (*db.Page, error) {
		page := &db.Page{Total: len(ids)}
		for i := q.Offset; i < len(ids) && i < q.Offset+q.Limit; i++ {
			hit := db.Hit{Key: "searchsync:" + index + ":" + ids[i]}
			if !q.KeysOnly {
				hit.Body = []byte(bodies[i])
			}
			page.Hits = append(page.Hits, hit)
		}
		return page, nil
	}
}

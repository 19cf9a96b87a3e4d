package publish

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/batch"
	"github.com/kailas-cloud/searchsync/internal/projector"
	"github.com/kailas-cloud/searchsync/internal/repository/index/indextest"
)

func testCatalog() *Catalog {
	return NewCatalog(projector.NewRegistry(projector.Options{}), map[domain.ContentType]string{
		domain.TypePerson: "speakers",
	})
}

func transcriptRecord(key string, sentences int) domain.Record {
	return domain.NewRecord(domain.TypeTranscript, key, map[string]any{
		"text":    strings.Repeat(strings.Repeat("w", 79)+".", sentences),
		"episode": map[string]any{"id": "E1"},
	})
}

func TestCatalog_IndexNames(t *testing.T) {
	c := testCatalog()

	person, err := c.Target(domain.TypePerson)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if person.Index != "speakers" {
		t.Errorf("configured index should win, got %q", person.Index)
	}

	pick, err := c.Target(domain.TypeDailyPick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.Index != "picks" {
		t.Errorf("default index should be the collection, got %q", pick.Index)
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := testCatalog()

	all, err := c.Resolve(domain.AllTypes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(domain.ContentTypes()) {
		t.Fatalf("expected every type, got %d", len(all))
	}
	if all[0].Type() != domain.TypeEpisode || all[4].Type() != domain.TypeTranscript {
		t.Errorf("unexpected order: %s .. %s", all[0].Type(), all[4].Type())
	}

	if upper, err := c.Resolve(" ALL "); err != nil || len(upper) != len(all) {
		t.Errorf("selector should be case-insensitive: %d targets, %v", len(upper), err)
	}

	one, err := c.Resolve("daily-pick")
	if err != nil || len(one) != 1 || one[0].Type() != domain.TypeDailyPick {
		t.Fatalf("unexpected resolve result: %v %v", one, err)
	}

	if _, err := c.Resolve("podcasts"); !errors.Is(err, domain.ErrUnknownContentType) {
		t.Errorf("expected ErrUnknownContentType, got %v", err)
	}
}

func TestPublish_SingleDocument(t *testing.T) {
	idx := indextest.New()
	p := New(idx)
	target, _ := testCatalog().Target(domain.TypePerson)

	rec := domain.NewRecord(domain.TypePerson, "P1", map[string]any{"name": "Ada"})
	n, err := p.Publish(context.Background(), target, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document, got %d", n)
	}
	if idx.Ops["delete_by"] != 0 {
		t.Error("single-document types must not delete before rewrite")
	}
	if _, ok := idx.Get("speakers", "P1"); !ok {
		t.Error("expected P1 in speakers index")
	}
}

func TestPublish_TranscriptDeletesFirst(t *testing.T) {
	idx := indextest.New()
	p := New(idx)
	target, _ := testCatalog().Target(domain.TypeTranscript)
	ctx := context.Background()

	if _, err := p.Publish(ctx, target, transcriptRecord("T1", 75)); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	n, err := p.Publish(ctx, target, transcriptRecord("T1", 40))
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 chunks, got %d", n)
	}
	docs := idx.Docs("transcripts")
	if len(docs) != 2 {
		t.Fatalf("expected the third chunk to be removed, got %d docs", len(docs))
	}
}

func TestRewrite_AlwaysDeletes(t *testing.T) {
	idx := indextest.New()
	p := New(idx)
	target, _ := testCatalog().Target(domain.TypePerson)

	// A duplicate left behind under a foreign ObjectID but the same reference.
	idx.Seed("speakers", domain.NewIndexDocument(domain.TypePerson, "P1", "P1", 0, true, domain.Attributes{}))

	rec := domain.NewRecord(domain.TypePerson, "P1", map[string]any{"name": "Ada"})
	if _, err := p.Rewrite(context.Background(), target, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs := idx.Docs("speakers")
	if len(docs) != 1 || docs[0].ObjectID != "P1" {
		t.Fatalf("expected only P1, got %+v", docs)
	}
}

func TestPublish_DeleteFailureStopsWrite(t *testing.T) {
	idx := indextest.New()
	idx.Fail = func(op, _, _ string) bool { return op == "delete_by" }
	p := New(idx)
	target, _ := testCatalog().Target(domain.TypeTranscript)

	if _, err := p.Publish(context.Background(), target, transcriptRecord("T1", 5)); err == nil {
		t.Fatal("expected error")
	}
	if idx.Ops["upsert"] != 0 {
		t.Error("upsert must not run after a failed delete")
	}
}

func TestForEach_IsolatesFailures(t *testing.T) {
	recs := []domain.Record{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	var calls atomic.Int32

	results := ForEach(context.Background(), 2, batch.OpAdd, recs,
		func(_ context.Context, rec domain.Record) (int, error) {
			calls.Add(1)
			if rec.Key == "b" {
				return 0, errors.New("boom")
			}
			return 1, nil
		})

	if calls.Load() != 3 {
		t.Errorf("expected every record processed, got %d", calls.Load())
	}
	tally := batch.Count(results)
	if tally.OK[batch.OpAdd] != 2 || tally.Failed[batch.OpAdd] != 1 {
		t.Errorf("unexpected tally: %+v", tally)
	}
	if results[1].ID() != "b" || results[1].Status() != batch.StatusError {
		t.Errorf("results must keep input order: %+v", results[1])
	}
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ForEach(ctx, 1, batch.OpPublish, []domain.Record{{Key: "a"}},
		func(context.Context, domain.Record) (int, error) {
			t.Error("fn must not run on a cancelled context")
			return 0, nil
		})
	if results[0].Status() != batch.StatusError {
		t.Errorf("expected error result, got %+v", results[0])
	}
}

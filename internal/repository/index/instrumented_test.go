package index

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
	"github.com/kailas-cloud/searchsync/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type stubClient struct {
	err  error
	docs []domain.IndexDocument
}

func (s *stubClient) Upsert(context.Context, string, string, domain.Attributes) error { return s.err }
func (s *stubClient) Delete(context.Context, string, string) error                  { return s.err }
func (s *stubClient) DeleteMany(context.Context, string, []string) error            { return s.err }
func (s *stubClient) DeleteBy(context.Context, string, filter.Expression) (int, error) {
	return len(s.docs), s.err
}
func (s *stubClient) Browse(context.Context, string, filter.Expression, []string) ([]domain.IndexDocument, error) {
	return s.docs, s.err
}
func (s *stubClient) EnsureIndex(context.Context, string, []string) error { return s.err }
func (s *stubClient) DropIndex(context.Context, string) error             { return s.err }

func TestInstrumentedClient_CountsOutcomes(t *testing.T) {
	ok := NewInstrumentedClient(&stubClient{}, zap.NewNop())
	failing := NewInstrumentedClient(&stubClient{err: errors.New("down")}, zap.NewNop())
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.IndexOpsTotal.WithLabelValues("instr-test", opUpsert, "ok"))
	if err := ok.Upsert(ctx, "instr-test", "1", domain.Attributes{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := testutil.ToFloat64(metrics.IndexOpsTotal.WithLabelValues("instr-test", opUpsert, "ok"))
	if after-before != 1 {
		t.Errorf("expected ok counter +1, got %f", after-before)
	}

	beforeErr := testutil.ToFloat64(metrics.IndexOpsTotal.WithLabelValues("instr-test", opDelete, "error"))
	if err := failing.Delete(ctx, "instr-test", "1"); err == nil {
		t.Fatal("expected error to propagate")
	}
	afterErr := testutil.ToFloat64(metrics.IndexOpsTotal.WithLabelValues("instr-test", opDelete, "error"))
	if afterErr-beforeErr != 1 {
		t.Errorf("expected error counter +1, got %f", afterErr-beforeErr)
	}
}

func TestInstrumentedClient_PassesResultsThrough(t *testing.T) {
	docs := []domain.IndexDocument{{ObjectID: "a"}, {ObjectID: "b"}}
	c := NewInstrumentedClient(&stubClient{docs: docs}, zap.NewNop())

	got, err := c.Browse(context.Background(), "instr-test", filter.Expression{}, nil)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 docs, got %d (%v)", len(got), err)
	}
	n, err := c.DeleteBy(context.Background(), "instr-test", filter.Match(domain.AttrRef, "x"))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", n, err)
	}
}

// Package indextest provides an in-memory index client for tests.
package indextest

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
)

// ErrInjected is returned by operations selected through Memory.Fail.
var ErrInjected = errors.New("indextest: injected failure")

// Memory is a goroutine-safe in-memory index client with upsert-by-ObjectID
// (last write wins) semantics.
type Memory struct {
	mu      sync.Mutex
	indexes map[string]map[string]domain.Attributes
	ensured map[string][]string

	// Fail, when set, is consulted before every mutation; returning true fails the call.
	Fail func(op, index, objectID string) bool

	// Ops counts calls per operation name.
	Ops map[string]int
}

// New creates an empty in-memory index.
func New() *Memory {
	return &Memory{
		indexes: make(map[string]map[string]domain.Attributes),
		ensured: make(map[string][]string),
		Ops:     make(map[string]int),
	}
}

// Seed stores documents directly, bypassing counters and failure injection.
func (m *Memory) Seed(index string, docs ...domain.IndexDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.bucket(index)[d.ObjectID] = maps.Clone(d.Attributes)
	}
}

// Upsert implements the index client.
func (m *Memory) Upsert(_ context.Context, index, objectID string, attrs domain.Attributes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["upsert"]++
	if m.fail("upsert", index, objectID) {
		return ErrInjected
	}
	m.bucket(index)[objectID] = maps.Clone(attrs)
	return nil
}

// Delete implements the index client.
func (m *Memory) Delete(_ context.Context, index, objectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["delete"]++
	if m.fail("delete", index, objectID) {
		return ErrInjected
	}
	delete(m.bucket(index), objectID)
	return nil
}

// DeleteMany implements the index client.
func (m *Memory) DeleteMany(_ context.Context, index string, objectIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["delete_many"]++
	for _, id := range objectIDs {
		if m.fail("delete_many", index, id) {
			return ErrInjected
		}
	}
	for _, id := range objectIDs {
		delete(m.bucket(index), id)
	}
	return nil
}

// DeleteBy implements the index client.
func (m *Memory) DeleteBy(_ context.Context, index string, f filter.Expression) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["delete_by"]++
	if m.fail("delete_by", index, "") {
		return 0, ErrInjected
	}
	n := 0
	for id, attrs := range m.bucket(index) {
		if f.Matches(flatten(attrs)) {
			delete(m.bucket(index), id)
			n++
		}
	}
	return n, nil
}

// Browse implements the index client. Documents are returned in ObjectID order;
// attrs is ignored and full bodies are returned.
func (m *Memory) Browse(_ context.Context, index string, f filter.Expression, _ []string) ([]domain.IndexDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["browse"]++
	if m.fail("browse", index, "") {
		return nil, ErrInjected
	}
	return m.matching(index, f), nil
}

// EnsureIndex implements the index client.
func (m *Memory) EnsureIndex(_ context.Context, index string, textFields []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["ensure_index"]++
	if m.fail("ensure_index", index, "") {
		return ErrInjected
	}
	m.ensured[index] = slices.Clone(textFields)
	m.bucket(index)
	return nil
}

// DropIndex implements the index client. Documents are kept.
func (m *Memory) DropIndex(_ context.Context, index string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ops["drop_index"]++
	delete(m.ensured, index)
	return nil
}

// Ensured reports whether EnsureIndex was called for index.
func (m *Memory) Ensured(index string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ensured[index]
	return ok
}

// Docs returns every document in index, ordered by ObjectID.
func (m *Memory) Docs(index string) []domain.IndexDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matching(index, filter.Expression{})
}

// Get returns one document body.
func (m *Memory) Get(index, objectID string) (domain.Attributes, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.bucket(index)[objectID]
	return maps.Clone(a), ok
}

func (m *Memory) matching(index string, f filter.Expression) []domain.IndexDocument {
	bucket := m.bucket(index)
	ids := slices.Sorted(maps.Keys(bucket))
	var out []domain.IndexDocument
	for _, id := range ids {
		attrs := bucket[id]
		if !f.Matches(flatten(attrs)) {
			continue
		}
		out = append(out, domain.IndexDocument{
			ObjectID:   id,
			Type:       domain.ContentType(domain.StringOf(attrs[domain.AttrType])),
			Ref:        domain.KeyString(attrs[domain.AttrRef]),
			Distinct:   domain.StringOf(attrs[domain.AttrDistinct]),
			Attributes: maps.Clone(attrs),
		})
	}
	return out
}

func (m *Memory) bucket(index string) map[string]domain.Attributes {
	b, ok := m.indexes[index]
	if !ok {
		b = make(map[string]domain.Attributes)
		m.indexes[index] = b
	}
	return b
}

func (m *Memory) fail(op, index, objectID string) bool {
	return m.Fail != nil && m.Fail(op, index, objectID)
}

func flatten(attrs domain.Attributes) map[string]string {
	out := make(map[string]string, 4)
	for _, k := range []string{domain.AttrObjectID, domain.AttrType, domain.AttrDistinct, domain.AttrRef} {
		out[k] = domain.KeyString(attrs[k])
	}
	return out
}

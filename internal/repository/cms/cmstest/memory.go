// Package cmstest provides an in-memory record store for tests.
package cmstest

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// Memory is a goroutine-safe in-memory record store. Filters are not applied.
type Memory struct {
	mu      sync.Mutex
	records map[domain.ContentType][]domain.Record

	// Err, when set, is returned by every read.
	Err error
}

// New creates an empty store.
func New() *Memory {
	return &Memory{records: make(map[domain.ContentType][]domain.Record)}
}

// Put adds or replaces a record (matched by type and key).
func (m *Memory) Put(rec domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[rec.Type]
	for i := range recs {
		if recs[i].Key == rec.Key {
			recs[i] = rec
			return
		}
	}
	m.records[rec.Type] = append(recs, rec)
}

// Remove deletes a record.
func (m *Memory) Remove(ct domain.ContentType, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[ct]
	for i := range recs {
		if recs[i].Key == key {
			m.records[ct] = append(recs[:i:i], recs[i+1:]...)
			return
		}
	}
}

// ReadMany implements the record store.
func (m *Memory) ReadMany(_ context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Record, 0, len(m.records[q.Type]))
	for _, r := range m.records[q.Type] {
		out = append(out, clone(r))
	}
	return out, nil
}

// ReadOne implements the record store.
func (m *Memory) ReadOne(_ context.Context, q domain.RecordQuery, key string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return domain.Record{}, m.Err
	}
	for _, r := range m.records[q.Type] {
		if r.Key == key {
			return clone(r), nil
		}
	}
	return domain.Record{}, fmt.Errorf("%s/%s: %w", q.Collection, key, domain.ErrRecordNotFound)
}

func clone(r domain.Record) domain.Record {
	r.Fields = maps.Clone(r.Fields)
	return r
}

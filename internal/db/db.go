// Package db is the storage facade for JSON documents kept behind an FT search index.
package db

import (
	"context"
	"time"
)

// Store combines every capability of the document store.
// Consumers declare the narrow subset they use.
type Store interface {
	Pinger
	Documents
	Indexes
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Documents writes and removes JSON documents by key.
type Documents interface {
	// PutJSON replaces the whole document stored at key.
	PutJSON(ctx context.Context, key string, body []byte) error
	// Delete removes keys and reports how many of them existed.
	Delete(ctx context.Context, keys ...string) (int, error)
}

// Indexes manages FT index definitions.
type Indexes interface {
	CreateIndex(ctx context.Context, s *Schema) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Scanner pages through the documents an FT index holds.
type Scanner interface {
	Scan(ctx context.Context, q *ScanQuery) (*Page, error)
}

package db

import "github.com/kailas-cloud/searchsync/internal/domain/filter"

// ScanQuery asks for one page of the documents matching Filter.
// An empty Filter matches every document in the index.
type ScanQuery struct {
	Index  string
	Filter filter.Expression
	Offset int
	Limit  int
	// KeysOnly skips document bodies.
	KeysOnly bool
}

// Page is one page of scan hits. Total counts every match, not just this page.
type Page struct {
	Total int
	Hits  []Hit
}

// Hit is one matched document. Body holds the raw JSON document and is nil
// for KeysOnly scans.
type Hit struct {
	Key  string
	Body []byte
}

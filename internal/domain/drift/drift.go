// Package drift classifies inconsistencies between the canonical store and the search index.
package drift

import "github.com/kailas-cloud/searchsync/internal/domain"

// Kind is a drift category.
type Kind string

// Drift categories.
const (
	KindMissing  Kind = "missing"
	KindOrphaned Kind = "orphaned"
	KindStale    Kind = "stale"
)

// Stale is a record whose projection would produce a different number of documents
// than the index currently holds for it.
type Stale struct {
	Record    domain.Record
	Existing  []domain.IndexDocument
	Projected int
}

// Report is the three-way diff for one content type.
type Report struct {
	Missing  []domain.Record
	Orphaned []domain.IndexDocument
	Stale    []Stale
}

// Total returns the number of drifted items across all categories.
func (r Report) Total() int {
	return len(r.Missing) + len(r.Orphaned) + len(r.Stale)
}

// Counter returns how many index documents a record projects to.
type Counter func(domain.Record) int

// Compute diffs records against docs. Only document counts are compared: a record
// whose content changed without changing its document count is not reported stale.
// Output preserves input order.
func Compute(records []domain.Record, docs []domain.IndexDocument, count Counter) Report {
	byKey := make(map[string]struct{}, len(records))
	for _, rec := range records {
		byKey[rec.Key] = struct{}{}
	}

	byRef := make(map[string][]domain.IndexDocument, len(docs))
	for _, d := range docs {
		byRef[d.Ref] = append(byRef[d.Ref], d)
	}

	var report Report
	for _, rec := range records {
		existing, ok := byRef[rec.Key]
		if !ok {
			report.Missing = append(report.Missing, rec)
			continue
		}
		if n := count(rec); n != len(existing) {
			report.Stale = append(report.Stale, Stale{Record: rec, Existing: existing, Projected: n})
		}
	}

	for _, d := range docs {
		if _, ok := byKey[d.Ref]; !ok {
			report.Orphaned = append(report.Orphaned, d)
		}
	}

	return report
}

// Package projector maps canonical CMS records to search-index documents, one
// implementation per content type.
package projector

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/filter"
)

// Projector is the per-content-type capability set.
type Projector interface {
	// Type returns the content-type tag, also written as the _type discriminator.
	Type() domain.ContentType
	// Collection is the CMS collection the records are read from.
	Collection() string
	// Fields lists the CMS fields (dot paths for relations) the projection needs.
	Fields() []string
	// TextFields lists the attributes indexed for full-text search.
	TextFields() []string
	// StoreFilter narrows the full-scan read on the store side. Nil reads everything;
	// IncludeInIndex still decides per record.
	StoreFilter() map[string]any

	IncludeInIndex(rec domain.Record) bool
	ProjectAttributes(rec domain.Record) []domain.Attributes
	DistinctKey(rec domain.Record) string
	// RequiresDeleteBeforeRewrite is true when the number of documents per record can change between runs.
	RequiresDeleteBeforeRewrite() bool
	// DeletionFilter selects every existing document of rec.
	DeletionFilter(rec domain.Record) filter.Expression
}

// Documents projects rec and stamps ObjectID, discriminator, distinct key and canonical reference.
func Documents(p Projector, rec domain.Record) []domain.IndexDocument {
	attrs := p.ProjectAttributes(rec)
	if len(attrs) == 0 {
		return nil
	}
	multi := p.RequiresDeleteBeforeRewrite()
	distinct := p.DistinctKey(rec)
	docs := make([]domain.IndexDocument, len(attrs))
	for i, a := range attrs {
		docs[i] = domain.NewIndexDocument(p.Type(), rec.Key, distinct, i, multi, a)
	}
	return docs
}

// Query returns the record-store query that lists every candidate record of p.
func Query(p Projector) domain.RecordQuery {
	return domain.RecordQuery{
		Type:       p.Type(),
		Collection: p.Collection(),
		Fields:     p.Fields(),
		Filter:     p.StoreFilter(),
	}
}

// Options configures the projectors.
type Options struct {
	// AssetsURL is the absolute base URL image file ids are resolved against.
	AssetsURL string
}

// Registry is the content-type -> projector lookup table.
type Registry struct {
	byType map[domain.ContentType]Projector
}

// NewRegistry returns a registry with every built-in content type.
func NewRegistry(opts Options) *Registry {
	return NewRegistryOf(
		NewEpisode(opts),
		NewEvent(opts),
		NewPerson(opts),
		NewDailyPick(opts),
		NewTranscript(opts),
	)
}

// NewRegistryOf builds a registry from explicit projectors (tests, subsets).
func NewRegistryOf(ps ...Projector) *Registry {
	r := &Registry{byType: make(map[domain.ContentType]Projector, len(ps))}
	for _, p := range ps {
		r.byType[p.Type()] = p
	}
	return r
}

// Get returns the projector for ct.
func (r *Registry) Get(ct domain.ContentType) (Projector, error) {
	p, ok := r.byType[ct]
	if !ok {
		return nil, fmt.Errorf("projector for %q: %w", ct, domain.ErrUnknownContentType)
	}
	return p, nil
}

// Types returns the registered content types in canonical order.
func (r *Registry) Types() []domain.ContentType {
	order := make(map[domain.ContentType]int)
	for i, ct := range domain.ContentTypes() {
		order[ct] = i
	}
	out := make([]domain.ContentType, 0, len(r.byType))
	for ct := range r.byType {
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i]]
		oj, jok := order[out[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out
}

// base carries the defaults shared by single-document content types.
type base struct {
	typ        domain.ContentType
	collection string
	fields     []string
	textFields []string
	assetsURL  string
}

func (b base) Type() domain.ContentType { return b.typ }
func (b base) Collection() string       { return b.collection }
func (b base) Fields() []string         { return b.fields }
func (b base) TextFields() []string     { return b.textFields }

func (b base) StoreFilter() map[string]any { return nil }

func (b base) DistinctKey(rec domain.Record) string { return rec.Key }

func (b base) RequiresDeleteBeforeRewrite() bool { return false }

func (b base) DeletionFilter(rec domain.Record) filter.Expression {
	return filter.Match(domain.AttrType, string(b.typ), domain.AttrRef, rec.Key)
}

// set copies non-empty values into attrs.
func set(attrs domain.Attributes, name string, v any) {
	switch t := v.(type) {
	case nil:
		return
	case string:
		if t == "" {
			return
		}
	}
	attrs[name] = v
}

// number normalizes a numeric field (JSON number or numeric string) to float64.
// Anything else is dropped.
func number(v any) any {
	if f, ok := domain.NumberOf(v); ok {
		return f
	}
	return nil
}

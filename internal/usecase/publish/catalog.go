package publish

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/projector"
)

// Target binds a content type's projector to the index its documents live in.
type Target struct {
	Projector projector.Projector
	Index     string
}

// Type returns the target's content type.
func (t Target) Type() domain.ContentType { return t.Projector.Type() }

// Catalog resolves content types to targets.
type Catalog struct {
	registry *projector.Registry
	indexes  map[domain.ContentType]string
}

// NewCatalog creates a catalog. Content types absent from indexes use the
// projector's collection name as index name.
func NewCatalog(registry *projector.Registry, indexes map[domain.ContentType]string) *Catalog {
	return &Catalog{registry: registry, indexes: indexes}
}

// Target returns the target for ct.
func (c *Catalog) Target(ct domain.ContentType) (Target, error) {
	p, err := c.registry.Get(ct)
	if err != nil {
		return Target{}, err
	}
	index := c.indexes[ct]
	if index == "" {
		index = p.Collection()
	}
	return Target{Projector: p, Index: index}, nil
}

// Resolve expands a selector (a content type name or "all") into targets.
func (c *Catalog) Resolve(selector string) ([]Target, error) {
	var types []domain.ContentType
	if strings.EqualFold(strings.TrimSpace(selector), domain.AllTypes) {
		types = c.registry.Types()
	} else {
		ct, err := domain.ParseContentType(selector)
		if err != nil {
			return nil, err
		}
		types = []domain.ContentType{ct}
	}

	targets := make([]Target, 0, len(types))
	for _, ct := range types {
		t, err := c.Target(ct)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", selector, err)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

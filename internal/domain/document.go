package domain

import "strconv"

// Reserved attribute names written on every index document.
const (
	AttrObjectID = "objectID"
	AttrType     = "_type"
	AttrDistinct = "_distinct"
	AttrRef      = "_ref"
)

// Attributes is one projected index-document body.
type Attributes map[string]any

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	c := make(Attributes, len(a)+4)
	for k, v := range a {
		c[k] = v
	}
	return c
}

// IndexDocument is a document as it lives in the search index.
type IndexDocument struct {
	ObjectID   string
	Type       ContentType
	Ref        string
	Distinct   string
	Attributes Attributes
}

// ObjectID returns the document id for the ordinal-th projection of a record.
// Single-document content types use the bare key.
func ObjectID(key string, ordinal int, multi bool) string {
	if !multi {
		return key
	}
	return key + "_" + strconv.Itoa(ordinal)
}

// NewIndexDocument stamps the reserved attributes onto a projected body.
func NewIndexDocument(ct ContentType, key, distinct string, ordinal int, multi bool, attrs Attributes) IndexDocument {
	id := ObjectID(key, ordinal, multi)
	body := attrs.Clone()
	body[AttrObjectID] = id
	body[AttrType] = string(ct)
	body[AttrDistinct] = distinct
	body[AttrRef] = key
	return IndexDocument{
		ObjectID:   id,
		Type:       ct,
		Ref:        key,
		Distinct:   distinct,
		Attributes: body,
	}
}

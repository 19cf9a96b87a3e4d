package index

import (
	"encoding/json"

	"github.com/kailas-cloud/searchsync/internal/db"
	"github.com/kailas-cloud/searchsync/internal/domain"
)

var reservedAttrs = []string{domain.AttrObjectID, domain.AttrType, domain.AttrDistinct, domain.AttrRef}

// buildSchema creates the FT schema shared by every content-type index:
// reserved attributes as case-sensitive TAGs, projector text fields as TEXT.
func buildSchema(name, prefix string, textFields []string) (*db.Schema, error) {
	return db.NewSchema(name, prefix).
		Tag(domain.AttrType, domain.AttrRef, domain.AttrDistinct).
		Text(textFields...).
		Build()
}

// parseHit converts a scan hit into an IndexDocument.
// The JSON root arrives either as an object or wrapped in a one-element array.
func parseHit(objectID string, raw []byte, attrs []string) domain.IndexDocument {
	body := decodeRoot(raw)
	if body == nil {
		body = domain.Attributes{}
	}

	if id := domain.StringOf(body[domain.AttrObjectID]); id != "" {
		objectID = id
	}

	doc := domain.IndexDocument{
		ObjectID: objectID,
		Type:     domain.ContentType(domain.StringOf(body[domain.AttrType])),
		Ref:      domain.KeyString(body[domain.AttrRef]),
		Distinct: domain.StringOf(body[domain.AttrDistinct]),
	}

	if len(attrs) == 0 {
		doc.Attributes = body
		return doc
	}

	out := make(domain.Attributes, len(attrs)+len(reservedAttrs))
	for _, name := range reservedAttrs {
		if v, ok := body[name]; ok {
			out[name] = v
		}
	}
	for _, name := range attrs {
		if v, ok := body[name]; ok {
			out[name] = v
		}
	}
	doc.Attributes = out
	return doc
}

func decodeRoot(raw []byte) domain.Attributes {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	var arr []map[string]any
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) > 0 {
		return arr[0]
	}
	return nil
}

package domain

import (
	"encoding/json"
	"strconv"
)

// Record is a canonical content-store entity. Fields holds the raw JSON-decoded
// values as returned by the store; projectors read them through the typed accessors.
type Record struct {
	Key    string
	Type   ContentType
	Fields map[string]any
}

// RecordQuery selects records of one content type from the record store.
type RecordQuery struct {
	Type       ContentType
	Collection string
	Fields     []string
	// Filter is an optional store-side pre-filter in the store's filter syntax.
	Filter map[string]any
}

// NewRecord builds a record, normalizing the primary key from Fields["id"] when key is empty.
func NewRecord(ct ContentType, key string, fields map[string]any) Record {
	if key == "" {
		key = KeyString(fields["id"])
	}
	return Record{Key: key, Type: ct, Fields: fields}
}

// String returns a string field, or "" when absent or not a string.
func (r Record) String(name string) string {
	return StringOf(r.Fields[name])
}

// Number returns a numeric field. Strings holding numbers are accepted.
func (r Record) Number(name string) (float64, bool) {
	return NumberOf(r.Fields[name])
}

// Object returns a nested object field (an expanded relation).
func (r Record) Object(name string) map[string]any {
	m, _ := r.Fields[name].(map[string]any)
	return m
}

// StringOf converts a decoded JSON scalar to a string.
func StringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// NumberOf converts a decoded JSON scalar to float64.
func NumberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// KeyString normalizes a primary key that may be encoded as a JSON string or number.
func KeyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

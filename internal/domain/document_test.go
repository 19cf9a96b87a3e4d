package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestObjectID(t *testing.T) {
	if got := ObjectID("E1", 0, false); got != "E1" {
		t.Errorf("single = %q", got)
	}
	if got := ObjectID("T9", 2, true); got != "T9_2" {
		t.Errorf("multi = %q", got)
	}
}

func TestNewIndexDocument(t *testing.T) {
	attrs := Attributes{"title": "Hello"}
	doc := NewIndexDocument(TypeTranscript, "5", "podcast-12", 1, true, attrs)

	if doc.ObjectID != "5_1" || doc.Ref != "5" || doc.Distinct != "podcast-12" {
		t.Errorf("unexpected doc: %+v", doc)
	}
	if doc.Attributes[AttrType] != "transcript" || doc.Attributes[AttrRef] != "5" {
		t.Errorf("reserved attributes missing: %v", doc.Attributes)
	}
	if doc.Attributes[AttrObjectID] != "5_1" {
		t.Errorf("objectID attribute = %v", doc.Attributes[AttrObjectID])
	}
	if _, ok := attrs[AttrRef]; ok {
		t.Error("projected attributes were mutated")
	}
}

func TestRecordAccessors(t *testing.T) {
	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"id":17,"title":"T","number":"12","n":3,"rel":{"id":"x"}}`))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		t.Fatal(err)
	}
	r := NewRecord(TypeEpisode, "", fields)

	if r.Key != "17" {
		t.Errorf("Key = %q", r.Key)
	}
	if r.String("title") != "T" || r.String("missing") != "" {
		t.Error("String accessor mismatch")
	}
	if n, ok := r.Number("number"); !ok || n != 12 {
		t.Errorf("Number(number) = %v, %v", n, ok)
	}
	if n, ok := r.Number("n"); !ok || n != 3 {
		t.Errorf("Number(n) = %v, %v", n, ok)
	}
	if _, ok := r.Number("title"); ok {
		t.Error("non-numeric string parsed as number")
	}
	if r.Object("rel")["id"] != "x" || r.Object("title") != nil {
		t.Error("Object accessor mismatch")
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"abc", "abc"},
		{json.Number("5"), "5"},
		{float64(12), "12"},
		{int64(9), "9"},
		{nil, ""},
		{true, ""},
	}
	for _, tt := range tests {
		if got := KeyString(tt.in); got != tt.want {
			t.Errorf("KeyString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

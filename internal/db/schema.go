package db

import (
	"errors"
	"fmt"
)

// FieldKind is the FT attribute type of a schema field.
type FieldKind int

const (
	// FieldTag is an exact-match, case-sensitive TAG attribute.
	FieldTag FieldKind = iota
	// FieldText is a full-text TEXT attribute.
	FieldText
)

func (k FieldKind) String() string {
	switch k {
	case FieldTag:
		return "TAG"
	case FieldText:
		return "TEXT"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field is one indexed top-level member of the JSON documents.
type Field struct {
	Name string
	Kind FieldKind
}

// Path is the JSONPath the field is read from.
func (f Field) Path() string { return "$." + f.Name }

// Schema is an FT index over the JSON documents stored under one key prefix.
type Schema struct {
	Name   string
	Prefix string
	Fields []Field
}

// Validate checks that the schema can be sent to FT.CREATE.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(s.Name) {
		return fmt.Errorf("index name %q contains invalid characters", s.Name)
	}
	if s.Prefix == "" {
		return errors.New("key prefix is required")
	}
	if len(s.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if !isAttributeName(f.Name) {
			return fmt.Errorf("invalid field name %q", f.Name)
		}
		if f.Kind != FieldTag && f.Kind != FieldText {
			return fmt.Errorf("field %q: unknown kind %s", f.Name, f.Kind)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// SchemaBuilder assembles a Schema fluently.
type SchemaBuilder struct {
	s Schema
}

// NewSchema starts a schema for the index name over keys starting with prefix.
func NewSchema(name, prefix string) *SchemaBuilder {
	return &SchemaBuilder{s: Schema{Name: name, Prefix: prefix}}
}

// Tag adds case-sensitive TAG fields.
func (b *SchemaBuilder) Tag(names ...string) *SchemaBuilder {
	return b.add(FieldTag, names)
}

// Text adds TEXT fields.
func (b *SchemaBuilder) Text(names ...string) *SchemaBuilder {
	return b.add(FieldText, names)
}

func (b *SchemaBuilder) add(kind FieldKind, names []string) *SchemaBuilder {
	for _, n := range names {
		b.s.Fields = append(b.s.Fields, Field{Name: n, Kind: kind})
	}
	return b
}

// Build validates and returns the schema.
func (b *SchemaBuilder) Build() (*Schema, error) {
	s := b.s
	s.Fields = append([]Field(nil), b.s.Fields...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) && r != ':' && r != '-' {
			return false
		}
	}
	return true
}

// isAttributeName reports whether s is usable both as a JSONPath member and an FT alias.
func isAttributeName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

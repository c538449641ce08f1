// Package models defines core data structures for benchmark documents, schemas, queries, and reports.
package models

import (
	"fmt"
	"strconv"
)

// FieldKind describes how a backend indexes a field.
type FieldKind string

const (
	// FieldKeyword is an exact-match string field, stored and indexed as a single term.
	FieldKeyword FieldKind = "keyword"
	// FieldNumeric is an integer field, stored and indexed.
	FieldNumeric FieldKind = "numeric"
)

// Field is one entry of a Schema.
type Field struct {
	Name string    `json:"name" yaml:"name"`
	Kind FieldKind `json:"kind" yaml:"kind"`
}

// Schema is the field set every document of a run carries.
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
	// Complex reports whether the schema carries the categorical fields used by complex search.
	Complex bool `json:"complex"`
}

// Document is one generated document. Fields maps field name to a string (keyword)
// or an int (numeric) value. Documents are not modified after generation.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// FieldNames returns the schema's field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the field named name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks that doc carries exactly the schema's fields with values of the declared kinds.
func (s *Schema) Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if len(doc.Fields) != len(s.Fields) {
		return fmt.Errorf("document %s has %d fields, schema %s declares %d", doc.ID, len(doc.Fields), s.Name, len(s.Fields))
	}
	for _, f := range s.Fields {
		v, ok := doc.Fields[f.Name]
		if !ok {
			return fmt.Errorf("document %s is missing field %q", doc.ID, f.Name)
		}
		switch f.Kind {
		case FieldKeyword:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("document %s field %q: want string, got %T", doc.ID, f.Name, v)
			}
		case FieldNumeric:
			if _, ok := v.(int); !ok {
				return fmt.Errorf("document %s field %q: want int, got %T", doc.ID, f.Name, v)
			}
		default:
			return fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
		}
	}
	return nil
}

// DocumentID returns the identifier of the i-th generated document.
func DocumentID(i int) string {
	return "doc-" + strconv.Itoa(i)
}

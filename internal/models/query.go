package models

import "fmt"

// Condition is a single exact-match field condition.
type Condition struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ComplexQuery is a conjunction of exact-match conditions.
type ComplexQuery struct {
	Conditions []Condition `json:"conditions"`
	Limit      int         `json:"limit"`
}

// DefaultComplexQuery is two=1 AND four=2 AND eight=3, limited to 10 hits.
func DefaultComplexQuery() *ComplexQuery {
	return &ComplexQuery{
		Conditions: []Condition{
			{Field: FieldTwo, Value: "1"},
			{Field: FieldFour, Value: "2"},
			{Field: FieldEight, Value: "3"},
		},
		Limit: 10,
	}
}

// Validate ensures the query has at least one condition and sets the default limit.
// Every condition must name a keyword field of schema.
func (q *ComplexQuery) Validate(schema *Schema) error {
	if len(q.Conditions) == 0 {
		return fmt.Errorf("complex query needs at least one condition")
	}
	for _, c := range q.Conditions {
		f, ok := schema.Field(c.Field)
		if !ok {
			return fmt.Errorf("complex query field %q not in schema %s", c.Field, schema.Name)
		}
		if f.Kind != FieldKeyword {
			return fmt.Errorf("complex query field %q is %s, want keyword", c.Field, f.Kind)
		}
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	return nil
}

package models

import "fmt"

// Schema names.
const (
	SchemaSimple = "simple"
	SchemaRich   = "rich"
)

// Field names shared by the generator and the backends.
const (
	FieldWord   = "word"
	FieldLength = "length"
	FieldTwo    = "two"
	FieldFour   = "four"
	FieldEight  = "eight"
)

// CategoricalFields maps each categorical field of the rich schema to its cardinality.
var CategoricalFields = []struct {
	Name        string
	Cardinality int
}{
	{FieldTwo, 2},
	{FieldFour, 4},
	{FieldEight, 8},
}

// FillerFieldName returns the name of the i-th filler field ("f0", "f1", ...).
func FillerFieldName(i int) string {
	return fmt.Sprintf("f%d", i)
}

// SimpleSchema is a word plus its length.
func SimpleSchema() *Schema {
	return &Schema{
		Name: SchemaSimple,
		Fields: []Field{
			{Name: FieldWord, Kind: FieldKeyword},
			{Name: FieldLength, Kind: FieldNumeric},
		},
	}
}

// RichSchema is a word, the categorical fields, and fillerCount filler fields.
func RichSchema(fillerCount int) *Schema {
	fields := []Field{{Name: FieldWord, Kind: FieldKeyword}}
	for _, c := range CategoricalFields {
		fields = append(fields, Field{Name: c.Name, Kind: FieldKeyword})
	}
	for i := 0; i < fillerCount; i++ {
		fields = append(fields, Field{Name: FillerFieldName(i), Kind: FieldKeyword})
	}
	return &Schema{Name: SchemaRich, Fields: fields, Complex: true}
}

// NewSchema returns the schema called name.
func NewSchema(name string, fillerCount int) (*Schema, error) {
	switch name {
	case SchemaSimple:
		return SimpleSchema(), nil
	case SchemaRich, "":
		return RichSchema(fillerCount), nil
	default:
		return nil, fmt.Errorf("unknown schema: %s (supported: simple, rich)", name)
	}
}

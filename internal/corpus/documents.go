package corpus

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"unicode/utf8"

	"github.com/hyperjump/searchbench/internal/models"
)

// BuildDocuments returns one document per word carrying exactly the fields of schema.
// Categorical fields get a random value below their cardinality; filler fields get a
// random word of fillerLen runes.
func BuildDocuments(rng *rand.Rand, schema *models.Schema, words []string, fillerLen int, alphabet []rune) ([]*models.Document, error) {
	cardinality := make(map[string]int, len(models.CategoricalFields))
	for _, c := range models.CategoricalFields {
		cardinality[c.Name] = c.Cardinality
	}

	docs := make([]*models.Document, len(words))
	for i, w := range words {
		fields := make(map[string]any, len(schema.Fields))
		for _, f := range schema.Fields {
			switch {
			case f.Name == models.FieldWord:
				fields[f.Name] = w
			case f.Name == models.FieldLength:
				fields[f.Name] = utf8.RuneCountInString(w)
			case cardinality[f.Name] > 0:
				fields[f.Name] = strconv.Itoa(rng.IntN(cardinality[f.Name]))
			case f.Kind == models.FieldKeyword:
				fields[f.Name] = GenerateWord(rng, fillerLen, alphabet)
			default:
				return nil, fmt.Errorf("no generator for field %q (%s)", f.Name, f.Kind)
			}
		}
		docs[i] = &models.Document{ID: models.DocumentID(i), Fields: fields}
	}
	return docs, nil
}

package corpus

import (
	"fmt"
	"math/rand/v2"

	"github.com/hyperjump/searchbench/internal/models"
)

// Word sources.
const (
	SourceSynthetic  = "synthetic"
	SourceDictionary = "dictionary"
)

// Options configures corpus generation for one run.
type Options struct {
	DocCount       int
	WordLen        int
	FillerLen      int
	Source         string
	DictionaryPath string
	Seed           uint64
	Alphabet       []rune
}

// Corpus holds everything one benchmark run indexes and searches.
type Corpus struct {
	Schema *models.Schema
	// Words is in generation order; Shuffled is the same words in search order.
	Words    []string
	Shuffled []string
	Docs     []*models.Document
}

// New builds a corpus for schema. The same seed always yields the same corpus.
func New(schema *models.Schema, opts Options) (*Corpus, error) {
	alphabet := opts.Alphabet
	if len(alphabet) == 0 {
		alphabet = DefaultAlphabet
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var words []string
	var err error
	switch opts.Source {
	case SourceSynthetic, "":
		words, err = GenerateWords(rng, opts.DocCount, opts.WordLen, alphabet)
	case SourceDictionary:
		words, err = LoadDictionary(opts.DictionaryPath, opts.DocCount)
	default:
		return nil, fmt.Errorf("unknown word source: %s (supported: synthetic, dictionary)", opts.Source)
	}
	if err != nil {
		return nil, err
	}

	docs, err := BuildDocuments(rng, schema, words, opts.FillerLen, alphabet)
	if err != nil {
		return nil, err
	}
	return &Corpus{
		Schema:   schema,
		Words:    words,
		Shuffled: Shuffle(rng, words),
		Docs:     docs,
	}, nil
}

package backend

import (
	"context"
	"errors"
	"os"
	"reflect"
	"sync"
	"testing"

	"github.com/hyperjump/searchbench/internal/corpus"
	"github.com/hyperjump/searchbench/internal/models"
)

// hitCollector records the stored fields of every hit a backend reads.
type hitCollector struct {
	mu   sync.Mutex
	hits []map[string]any
}

func (h *hitCollector) add(fields map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	h.hits = append(h.hits, cp)
}

func (h *hitCollector) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits = nil
}

func testCorpus(t *testing.T, schema *models.Schema) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(schema, corpus.Options{DocCount: 50, WordLen: 5, FillerLen: 12, Seed: 11})
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return c
}

// exerciseBackend indexes 50 words, looks every one of them up, and checks the stored
// fields of each hit against the generated document.
func exerciseBackend(t *testing.T, b Backend, hits *hitCollector, schema *models.Schema) {
	t.Helper()
	ctx := context.Background()
	c := testCorpus(t, schema)

	if err := b.CreateIndex(ctx, c.Schema, c.Docs); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if _, err := os.Stat(b.Dir()); err != nil {
		t.Fatalf("index directory missing after CreateIndex: %v", err)
	}

	byWord := make(map[string]*models.Document, len(c.Docs))
	for _, d := range c.Docs {
		byWord[d.Fields[models.FieldWord].(string)] = d
	}

	hits.reset()
	n, err := b.Search(ctx, c.Shuffled)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if n != len(c.Shuffled) {
		t.Errorf("Search hits = %d, want %d", n, len(c.Shuffled))
	}
	if len(hits.hits) != len(c.Shuffled) {
		t.Fatalf("collected %d hits, want %d", len(hits.hits), len(c.Shuffled))
	}
	for i, fields := range hits.hits {
		word := c.Shuffled[i]
		if fields[models.FieldWord] != word {
			t.Errorf("hit %d word = %v, want %q", i, fields[models.FieldWord], word)
			continue
		}
		if !reflect.DeepEqual(fields, byWord[word].Fields) {
			t.Errorf("hit %d stored fields = %v, want %v", i, fields, byWord[word].Fields)
		}
	}

	if schema.Complex {
		exerciseComplex(t, b, hits, c)
	}

	if err := b.CreateIndex(ctx, c.Schema, c.Docs); !errors.Is(err, ErrIndexExists) {
		t.Errorf("second CreateIndex: err = %v, want ErrIndexExists", err)
	}

	if err := b.RemoveIndex(); err != nil {
		t.Fatalf("RemoveIndex: %v", err)
	}
	if _, err := os.Stat(b.Dir()); !os.IsNotExist(err) {
		t.Errorf("index directory should not exist after RemoveIndex, stat err = %v", err)
	}
}

func exerciseComplex(t *testing.T, b Backend, hits *hitCollector, c *corpus.Corpus) {
	t.Helper()
	q := models.DefaultComplexQuery()
	matching := 0
	for _, d := range c.Docs {
		if matches(d.Fields, q) {
			matching++
		}
	}
	perQuery := matching
	if perQuery > q.Limit {
		perQuery = q.Limit
	}

	hits.reset()
	n, err := b.SearchComplex(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("SearchComplex: %v", err)
	}
	if n != 3*perQuery {
		t.Errorf("SearchComplex hits = %d, want %d", n, 3*perQuery)
	}
	for _, fields := range hits.hits {
		if !matches(fields, q) {
			t.Errorf("complex hit does not satisfy query: %v", fields)
		}
	}
}

func matches(fields map[string]any, q *models.ComplexQuery) bool {
	for _, cond := range q.Conditions {
		if fields[cond.Field] != cond.Value {
			return false
		}
	}
	return true
}

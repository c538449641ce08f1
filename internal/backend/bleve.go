package backend

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/index/upsidedown"
	"github.com/blevesearch/bleve/v2/index/upsidedown/store/boltdb"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/internal/models"
	"github.com/hyperjump/searchbench/pkg/utils"
	"go.uber.org/zap"
)

const bleveModule = "github.com/blevesearch/bleve/v2"

// BleveBackend benchmarks bleve. Documents are written through bleve batches when
// batching is enabled; bleve analyzes the documents of one batch concurrently.
type BleveBackend struct {
	dir       string
	indexType string
	batch     bool
	batchSize int
	schema    *models.Schema
	settings
}

// NewBleveBackend returns a bleve backend rooted at cfg.IndexDir.
func NewBleveBackend(cfg *config.BleveConfig, opts ...Option) (*BleveBackend, error) {
	switch cfg.IndexType {
	case scorch.Name, upsidedown.Name, "":
	default:
		return nil, fmt.Errorf("unknown bleve index type: %s (supported: scorch, upsidedown)", cfg.IndexType)
	}
	indexType := cfg.IndexType
	if indexType == "" {
		indexType = scorch.Name
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 256
	}
	return &BleveBackend{
		dir:       cfg.IndexDir,
		indexType: indexType,
		batch:     cfg.BatchOrDefault(),
		batchSize: batchSize,
		settings:  newSettings(opts),
	}, nil
}

// Name returns "bleve <version> (<index type>)".
func (b *BleveBackend) Name() string {
	return fmt.Sprintf("bleve %s (%s)", utils.ModuleVersion(bleveModule), b.indexType)
}

// Dir returns the index directory.
func (b *BleveBackend) Dir() string { return b.dir }

// buildMapping maps every schema field as stored and indexed without analysis,
// so term queries match whole values.
func buildMapping(schema *models.Schema) mapping.IndexMapping {
	docMapping := bleve.NewDocumentStaticMapping()
	for _, f := range schema.Fields {
		switch f.Kind {
		case models.FieldNumeric:
			fm := bleve.NewNumericFieldMapping()
			fm.Store = true
			fm.IncludeInAll = false
			docMapping.AddFieldMappingsAt(f.Name, fm)
		default:
			fm := bleve.NewKeywordFieldMapping()
			fm.Store = true
			fm.IncludeInAll = false
			fm.IncludeTermVectors = false
			docMapping.AddFieldMappingsAt(f.Name, fm)
		}
	}
	im := bleve.NewIndexMapping()
	im.DefaultMapping = docMapping
	im.DefaultAnalyzer = keyword.Name
	return im
}

// CreateIndex creates the index and writes docs.
func (b *BleveBackend) CreateIndex(ctx context.Context, schema *models.Schema, docs []*models.Document) error {
	if err := ensureAbsent(b.dir); err != nil {
		return err
	}
	b.schema = schema
	im := buildMapping(schema)

	var index bleve.Index
	var err error
	if b.indexType == upsidedown.Name {
		index, err = bleve.NewUsing(b.dir, im, upsidedown.Name, boltdb.Name, nil)
	} else {
		index, err = bleve.New(b.dir, im)
	}
	if err != nil {
		return fmt.Errorf("failed to create Bleve index: %w", err)
	}
	b.debug("bleve index created", zap.String("dir", b.dir), zap.String("type", b.indexType), zap.Bool("batch", b.batch))

	if err := b.write(ctx, index, docs); err != nil {
		_ = index.Close()
		return err
	}
	if err := index.Close(); err != nil {
		return fmt.Errorf("failed to close Bleve index: %w", err)
	}
	return nil
}

func (b *BleveBackend) write(ctx context.Context, index bleve.Index, docs []*models.Document) error {
	if !b.batch {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := index.Index(doc.ID, doc.Fields); err != nil {
				return fmt.Errorf("failed to index %s: %w", doc.ID, err)
			}
		}
		return nil
	}

	batch := index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.Fields); err != nil {
			return fmt.Errorf("failed to batch %s: %w", doc.ID, err)
		}
		if batch.Size() >= b.batchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("Bleve batch failed: %w", err)
			}
			batch = index.NewBatch()
		}
	}
	if batch.Size() != 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("Bleve batch failed: %w", err)
		}
	}
	return nil
}

// Search runs one term query on the word field per word.
func (b *BleveBackend) Search(ctx context.Context, words []string) (int, error) {
	index, err := bleve.Open(b.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to open Bleve index: %w", err)
	}
	defer index.Close()

	hits := 0
	for _, w := range words {
		q := bleve.NewTermQuery(w)
		q.SetField(models.FieldWord)
		n, err := b.run(ctx, index, q, 1)
		if err != nil {
			return hits, err
		}
		hits += n
	}
	return hits, nil
}

// SearchComplex runs a conjunction of term queries count times.
func (b *BleveBackend) SearchComplex(ctx context.Context, q *models.ComplexQuery, count int) (int, error) {
	index, err := bleve.Open(b.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to open Bleve index: %w", err)
	}
	defer index.Close()

	conjuncts := make([]blevequery.Query, len(q.Conditions))
	for i, c := range q.Conditions {
		tq := bleve.NewTermQuery(c.Value)
		tq.SetField(c.Field)
		conjuncts[i] = tq
	}
	conjunction := bleve.NewConjunctionQuery(conjuncts...)

	hits := 0
	for i := 0; i < count; i++ {
		n, err := b.run(ctx, index, conjunction, q.Limit)
		if err != nil {
			return hits, err
		}
		hits += n
	}
	return hits, nil
}

func (b *BleveBackend) run(ctx context.Context, index bleve.Index, q blevequery.Query, limit int) (int, error) {
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}
	results, err := index.SearchInContext(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("Bleve search failed: %w", err)
	}
	for _, hit := range results.Hits {
		normalizeNumeric(b.schema, hit.Fields)
		b.visit(hit.Fields)
	}
	return len(results.Hits), nil
}

// RemoveIndex deletes the index directory.
func (b *BleveBackend) RemoveIndex() error {
	return removeIndex(b.dir)
}

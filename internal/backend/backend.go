// Package backend defines the adapter every benchmarked search library is wrapped in.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hyperjump/searchbench/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrIndexExists is returned by CreateIndex when the index directory is already present,
	// usually left behind by a previous run that failed.
	ErrIndexExists = errors.New("index directory already exists")
	// ErrUnavailable is returned when a backend's library is not compiled into this binary.
	ErrUnavailable = errors.New("backend not available")
)

// Backend is a uniform build/search contract over one search library.
// An instance owns its index directory exclusively for the duration of one run.
type Backend interface {
	// Name returns the library name and version for reports.
	Name() string
	// Dir returns the index directory.
	Dir() string
	// CreateIndex creates a fresh index in Dir, defines fields from schema, writes
	// every document, and commits.
	CreateIndex(ctx context.Context, schema *models.Schema, docs []*models.Document) error
	// Search runs one exact-match query on the word field per word with a limit of 1
	// and reads all stored fields of each hit. Returns the number of hits.
	Search(ctx context.Context, words []string) (int, error)
	// SearchComplex runs q count times and reads all stored fields of each hit.
	// Returns the total number of hits.
	SearchComplex(ctx context.Context, q *models.ComplexQuery, count int) (int, error)
	// RemoveIndex deletes Dir.
	RemoveIndex() error
}

// HitFunc receives the stored fields of every search hit.
type HitFunc func(fields map[string]any)

type settings struct {
	logger *zap.Logger // optional; when set, logs debug events
	onHit  HitFunc
}

// Option configures a backend.
type Option func(*settings)

// WithLogger sets a logger for debug output (index created, searcher opened, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHitFunc replaces the default stored-field reader. Useful for verifying hits in tests.
func WithHitFunc(fn HitFunc) Option {
	return func(s *settings) { s.onHit = fn }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// visit reads every stored field of a hit so that search timings include field I/O.
func (s *settings) visit(fields map[string]any) {
	if s.onHit != nil {
		s.onHit(fields)
		return
	}
	_ = fmt.Sprint(fields)
}

func (s *settings) debug(msg string, fields ...zap.Field) {
	if s.logger != nil {
		s.logger.Debug(msg, fields...)
	}
}

// ensureAbsent fails with ErrIndexExists when dir is already on disk.
func ensureAbsent(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", ErrIndexExists, dir)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat index directory: %w", err)
	}
	return nil
}

func removeIndex(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove index directory: %w", err)
	}
	return nil
}

// normalizeNumeric converts numeric field values returned by a library back to int.
func normalizeNumeric(schema *models.Schema, fields map[string]any) {
	if schema == nil {
		return
	}
	for _, f := range schema.Fields {
		if f.Kind != models.FieldNumeric {
			continue
		}
		switch v := fields[f.Name].(type) {
		case float64:
			fields[f.Name] = int(v)
		case int64:
			fields[f.Name] = int(v)
		}
	}
}

//go:build !cgo
// +build !cgo

package backend

import (
	"context"
	"fmt"

	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/internal/models"
)

// sqliteAvailable reports whether the sqlite backend is compiled in.
const sqliteAvailable = false

// SQLiteBackend is a stub that returns ErrUnavailable when cgo is disabled.
// go-sqlite3 needs cgo; build with CGO_ENABLED=1 to enable it.
type SQLiteBackend struct {
	dir string
}

// NewSQLiteBackend returns an error because sqlite is not available.
func NewSQLiteBackend(cfg *config.SQLiteConfig, opts ...Option) (*SQLiteBackend, error) {
	return nil, fmt.Errorf("%w: sqlite requires cgo", ErrUnavailable)
}

// Name returns the backend name.
func (s *SQLiteBackend) Name() string { return "sqlite (unavailable)" }

// Dir returns the index directory.
func (s *SQLiteBackend) Dir() string { return s.dir }

// CreateIndex is not implemented without cgo.
func (s *SQLiteBackend) CreateIndex(ctx context.Context, schema *models.Schema, docs []*models.Document) error {
	return ErrUnavailable
}

// Search is not implemented without cgo.
func (s *SQLiteBackend) Search(ctx context.Context, words []string) (int, error) {
	return 0, ErrUnavailable
}

// SearchComplex is not implemented without cgo.
func (s *SQLiteBackend) SearchComplex(ctx context.Context, q *models.ComplexQuery, count int) (int, error) {
	return 0, ErrUnavailable
}

// RemoveIndex is a no-op without cgo.
func (s *SQLiteBackend) RemoveIndex() error {
	return nil
}

//go:build cgo
// +build cgo

package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/internal/models"
)

func newTestSQLite(t *testing.T, cfg config.SQLiteConfig) (*SQLiteBackend, *hitCollector) {
	t.Helper()
	cfg.IndexDir = filepath.Join(t.TempDir(), "sqlite_ix")
	hits := &hitCollector{}
	s, err := NewSQLiteBackend(&cfg, WithHitFunc(hits.add))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	return s, hits
}

func TestSQLiteBackend_Rich(t *testing.T) {
	s, hits := newTestSQLite(t, config.SQLiteConfig{})
	exerciseBackend(t, s, hits, models.RichSchema(3))
}

func TestSQLiteBackend_SimpleWithoutWAL(t *testing.T) {
	off := false
	s, hits := newTestSQLite(t, config.SQLiteConfig{WAL: &off})
	exerciseBackend(t, s, hits, models.SimpleSchema())
}

func TestSQLiteBackend_UnknownWordHasNoHit(t *testing.T) {
	s, _ := newTestSQLite(t, config.SQLiteConfig{})
	ctx := context.Background()
	c := testCorpus(t, models.SimpleSchema())
	if err := s.CreateIndex(ctx, c.Schema, c.Docs); err != nil {
		t.Fatal(err)
	}
	defer s.RemoveIndex()

	n, err := s.Search(ctx, []string{"not-a-generated-word"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("hits = %d, want 0", n)
	}
}

func TestSQLiteBackend_Name(t *testing.T) {
	s, _ := newTestSQLite(t, config.SQLiteConfig{})
	if !strings.HasPrefix(s.Name(), "go-sqlite3 ") || !strings.Contains(s.Name(), "/ sqlite 3.") {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`f"0`); got != `"f""0"` {
		t.Errorf("quoteIdent = %s", got)
	}
}

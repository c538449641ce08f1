//go:build cgo
// +build cgo

package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/internal/models"
	"github.com/hyperjump/searchbench/pkg/utils"
	"go.uber.org/zap"
)

const (
	sqliteModule = "github.com/mattn/go-sqlite3"
	sqliteDBFile = "index.db"
)

// sqliteAvailable reports whether the sqlite backend is compiled in.
const sqliteAvailable = true

// SQLiteBackend benchmarks SQLite through go-sqlite3. Every schema field becomes a
// column with its own B-tree index, so field lookups are exact-match index scans.
type SQLiteBackend struct {
	dir    string
	wal    bool
	schema *models.Schema
	settings
}

// NewSQLiteBackend returns a sqlite backend rooted at cfg.IndexDir.
func NewSQLiteBackend(cfg *config.SQLiteConfig, opts ...Option) (*SQLiteBackend, error) {
	return &SQLiteBackend{
		dir:      cfg.IndexDir,
		wal:      cfg.WALOrDefault(),
		settings: newSettings(opts),
	}, nil
}

// Name returns "go-sqlite3 <version> / sqlite <library version>".
func (s *SQLiteBackend) Name() string {
	lib, _, _ := sqlite3.Version()
	return fmt.Sprintf("go-sqlite3 %s / sqlite %s", utils.ModuleVersion(sqliteModule), lib)
}

// Dir returns the index directory.
func (s *SQLiteBackend) Dir() string { return s.dir }

func (s *SQLiteBackend) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filepath.Join(s.dir, sqliteDBFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if s.wal {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	return db, nil
}

// CreateIndex creates the database, one indexed column per field, and inserts docs
// in a single transaction.
func (s *SQLiteBackend) CreateIndex(ctx context.Context, schema *models.Schema, docs []*models.Document) error {
	if err := ensureAbsent(s.dir); err != nil {
		return err
	}
	if err := os.Mkdir(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	s.schema = schema

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(ctx, db, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.debug("sqlite index created", zap.String("dir", s.dir), zap.Bool("wal", s.wal))

	if err := insertDocuments(ctx, db, schema, docs); err != nil {
		return err
	}
	return db.Close()
}

func initSchema(ctx context.Context, db *sql.DB, schema *models.Schema) error {
	var b strings.Builder
	b.WriteString("CREATE TABLE documents (id TEXT PRIMARY KEY")
	for _, f := range schema.Fields {
		colType := "TEXT"
		if f.Kind == models.FieldNumeric {
			colType = "INTEGER"
		}
		fmt.Fprintf(&b, ", %s %s NOT NULL", quoteIdent(f.Name), colType)
	}
	b.WriteString(");\n")
	for _, f := range schema.Fields {
		fmt.Fprintf(&b, "CREATE INDEX %s ON documents(%s);\n", quoteIdent("idx_"+f.Name), quoteIdent(f.Name))
	}
	_, err := db.ExecContext(ctx, b.String())
	return err
}

func insertDocuments(ctx context.Context, db *sql.DB, schema *models.Schema, docs []*models.Document) error {
	names := schema.FieldNames()
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = quoteIdent(n)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)+1), ", ")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO documents (id, %s) VALUES (%s)", strings.Join(cols, ", "), placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(names)+1)
	for _, doc := range docs {
		args[0] = doc.ID
		for i, n := range names {
			args[i+1] = doc.Fields[n]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// Search runs one equality lookup on the word column per word.
func (s *SQLiteBackend) Search(ctx context.Context, words []string) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	stmt, err := db.PrepareContext(ctx, fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s = ? LIMIT 1", s.selectList(), quoteIdent(models.FieldWord)))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare search: %w", err)
	}
	defer stmt.Close()

	hits := 0
	for _, w := range words {
		n, err := s.query(ctx, stmt, w)
		if err != nil {
			return hits, err
		}
		hits += n
	}
	return hits, nil
}

// SearchComplex runs an AND of equality conditions count times.
func (s *SQLiteBackend) SearchComplex(ctx context.Context, q *models.ComplexQuery, count int) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	where := make([]string, len(q.Conditions))
	args := make([]any, 0, len(q.Conditions)+1)
	for i, c := range q.Conditions {
		where[i] = quoteIdent(c.Field) + " = ?"
		args = append(args, c.Value)
	}
	args = append(args, q.Limit)

	stmt, err := db.PrepareContext(ctx, fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s LIMIT ?", s.selectList(), strings.Join(where, " AND ")))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare complex search: %w", err)
	}
	defer stmt.Close()

	hits := 0
	for i := 0; i < count; i++ {
		n, err := s.query(ctx, stmt, args...)
		if err != nil {
			return hits, err
		}
		hits += n
	}
	return hits, nil
}

func (s *SQLiteBackend) selectList() string {
	names := s.fieldNames()
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = quoteIdent(n)
	}
	return strings.Join(cols, ", ")
}

// fieldNames falls back to the word column when the index was not created by this instance.
func (s *SQLiteBackend) fieldNames() []string {
	if s.schema == nil {
		return []string{models.FieldWord}
	}
	return s.schema.FieldNames()
}

func (s *SQLiteBackend) query(ctx context.Context, stmt *sql.Stmt, args ...any) (int, error) {
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite search failed: %w", err)
	}
	defer rows.Close()

	names := s.fieldNames()
	vals := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	hits := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return hits, err
		}
		fields := make(map[string]any, len(names))
		for i, n := range names {
			if b, ok := vals[i].([]byte); ok {
				fields[n] = string(b)
			} else {
				fields[n] = vals[i]
			}
		}
		normalizeNumeric(s.schema, fields)
		s.visit(fields)
		hits++
	}
	return hits, rows.Err()
}

// RemoveIndex deletes the index directory.
func (s *SQLiteBackend) RemoveIndex() error {
	return removeIndex(s.dir)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

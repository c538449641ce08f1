package backend

import (
	"fmt"

	"github.com/hyperjump/searchbench/internal/config"
)

// Backend names.
const (
	NameBleve  = "bleve"
	NameSQLite = "sqlite"
)

// Names returns every backend this harness knows, in default run order.
func Names() []string {
	return []string{NameBleve, NameSQLite}
}

// Available reports whether the named backend's library is compiled into this binary.
func Available(name string) bool {
	switch name {
	case NameBleve:
		return true
	case NameSQLite:
		return sqliteAvailable
	default:
		return false
	}
}

// New creates the named backend from cfg.
func New(name string, cfg *config.Config, opts ...Option) (Backend, error) {
	switch name {
	case NameBleve:
		b, err := NewBleveBackend(&cfg.Bleve, opts...)
		if err != nil {
			return nil, err
		}
		return b, nil
	case NameSQLite:
		if !sqliteAvailable {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, name)
		}
		s, err := NewSQLiteBackend(&cfg.SQLite, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (supported: bleve, sqlite)", name)
	}
}

// Package config provides configuration loading and structs for the benchmark harness.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for one benchmark run.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Backends BackendsConfig `yaml:"backends"`
	Bleve    BleveConfig    `yaml:"bleve"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CorpusConfig holds word and document generation settings.
type CorpusConfig struct {
	DocCount int `yaml:"doc_count"`
	// ComplexCount and ExtraFieldCount are pointers so an explicit 0 is kept.
	ComplexCount    *int   `yaml:"complex_count"`
	WordLen         int    `yaml:"word_len"`
	ExtraFieldCount *int   `yaml:"extra_field_count"`
	ExtraFieldLen   int    `yaml:"extra_field_len"`
	Schema          string `yaml:"schema"`
	Source          string `yaml:"source"`
	DictionaryPath  string `yaml:"dictionary_path"`
	// Seed drives word and document generation; 0 picks a fresh seed per run.
	Seed uint64 `yaml:"seed"`
}

// ComplexCountOrDefault returns how many complex searches run; defaults to 300 when unset.
func (c *CorpusConfig) ComplexCountOrDefault() int {
	if c.ComplexCount != nil {
		return *c.ComplexCount
	}
	return 300
}

// ExtraFieldCountOrDefault returns the number of filler fields; defaults to 10 when unset.
func (c *CorpusConfig) ExtraFieldCountOrDefault() int {
	if c.ExtraFieldCount != nil {
		return *c.ExtraFieldCount
	}
	return 10
}

// BackendsConfig selects which backends run, in order.
type BackendsConfig struct {
	Enabled []string `yaml:"enabled"`
}

// BleveConfig holds bleve backend settings.
type BleveConfig struct {
	IndexDir  string `yaml:"index_dir"`
	IndexType string `yaml:"index_type"`
	Batch     *bool  `yaml:"batch"`
	BatchSize int    `yaml:"batch_size"`
}

// BatchOrDefault returns whether documents are written in batches; defaults to true when unset.
func (b *BleveConfig) BatchOrDefault() bool {
	if b.Batch != nil {
		return *b.Batch
	}
	return true
}

// SQLiteConfig holds sqlite backend settings.
type SQLiteConfig struct {
	IndexDir string `yaml:"index_dir"`
	WAL      *bool  `yaml:"wal"`
}

// WALOrDefault returns whether WAL journaling is enabled; defaults to true when unset.
func (s *SQLiteConfig) WALOrDefault() bool {
	if s.WAL != nil {
		return *s.WAL
	}
	return true
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// TextfilePath, when set, receives phase metrics in Prometheus text format after the run.
	TextfilePath string `yaml:"textfile_path"`
}

// ErrInvalid is returned for config values no run can use.
var ErrInvalid = errors.New("invalid config")

// Validate rejects counts and lengths that cannot produce a corpus.
func (cfg *Config) Validate() error {
	c := &cfg.Corpus
	switch {
	case c.DocCount <= 0:
		return fmt.Errorf("%w: corpus.doc_count must be positive, got %d", ErrInvalid, c.DocCount)
	case c.WordLen <= 0:
		return fmt.Errorf("%w: corpus.word_len must be positive, got %d", ErrInvalid, c.WordLen)
	case c.ExtraFieldLen <= 0:
		return fmt.Errorf("%w: corpus.extra_field_len must be positive, got %d", ErrInvalid, c.ExtraFieldLen)
	case c.ComplexCountOrDefault() < 0:
		return fmt.Errorf("%w: corpus.complex_count must not be negative, got %d", ErrInvalid, c.ComplexCountOrDefault())
	case c.ExtraFieldCountOrDefault() < 0:
		return fmt.Errorf("%w: corpus.extra_field_count must not be negative, got %d", ErrInvalid, c.ExtraFieldCountOrDefault())
	}
	return nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or fails Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Bleve.IndexDir = expandPath(cfg.Bleve.IndexDir, configDir)
	cfg.SQLite.IndexDir = expandPath(cfg.SQLite.IndexDir, configDir)
	cfg.Corpus.DictionaryPath = expandPath(cfg.Corpus.DictionaryPath, configDir)
	cfg.Metrics.TextfilePath = expandPath(cfg.Metrics.TextfilePath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath resolves paths starting with "./" against configDir and "~/" against the
// home directory. Absolute and other relative paths are returned unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

package config

// ApplyDefaults sets default values for any zero values in cfg.
// Pointer fields stay nil; their OrDefault accessors supply the default.
func ApplyDefaults(cfg *Config) {
	if cfg.Corpus.DocCount == 0 {
		cfg.Corpus.DocCount = 3000
	}
	if cfg.Corpus.WordLen == 0 {
		cfg.Corpus.WordLen = 10
	}
	if cfg.Corpus.ExtraFieldLen == 0 {
		cfg.Corpus.ExtraFieldLen = 100
	}
	if cfg.Corpus.Schema == "" {
		cfg.Corpus.Schema = "rich"
	}
	if cfg.Corpus.Source == "" {
		cfg.Corpus.Source = "synthetic"
	}
	if cfg.Corpus.DictionaryPath == "" {
		cfg.Corpus.DictionaryPath = "/usr/share/dict/words"
	}
	if cfg.Backends.Enabled == nil {
		cfg.Backends.Enabled = []string{"bleve", "sqlite"}
	}
	if cfg.Bleve.IndexDir == "" {
		cfg.Bleve.IndexDir = "bleve_ix"
	}
	if cfg.Bleve.IndexType == "" {
		cfg.Bleve.IndexType = "scorch"
	}
	if cfg.Bleve.BatchSize == 0 {
		cfg.Bleve.BatchSize = 256
	}
	if cfg.SQLite.IndexDir == "" {
		cfg.SQLite.IndexDir = "sqlite_ix"
	}
}

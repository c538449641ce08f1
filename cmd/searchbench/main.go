// Package main is the searchbench CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/searchbench/internal/backend"
	"github.com/hyperjump/searchbench/internal/cli"
	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/pkg/utils"
)

var version = "dev"

const cwdConfigName = "searchbench.yaml"

// loadConfig loads config from path. When path is empty it uses searchbench.yaml from
// the current directory if present, and built-in defaults otherwise.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, cwdConfigName)
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runBench()
	case "backends":
		runBackends()
	case "version", "--version", "-v":
		fmt.Printf("searchbench version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// overrides holds run flags that take precedence over the config file when set.
type overrides struct {
	backends        string
	schema          string
	source          string
	docs            int
	complexCount    *int
	extraFields     *int
	seed            uint64
	metricsTextfile string
}

// applyOverrides copies every non-zero override into cfg. Pointer overrides are copied
// whenever set, so an explicit 0 wins over the config file.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.backends != "" {
		cfg.Backends.Enabled = parseBackendList(o.backends)
	}
	if o.schema != "" {
		cfg.Corpus.Schema = o.schema
	}
	if o.source != "" {
		cfg.Corpus.Source = o.source
	}
	if o.docs > 0 {
		cfg.Corpus.DocCount = o.docs
	}
	if o.complexCount != nil {
		n := *o.complexCount
		cfg.Corpus.ComplexCount = &n
	}
	if o.extraFields != nil {
		n := *o.extraFields
		cfg.Corpus.ExtraFieldCount = &n
	}
	if o.seed != 0 {
		cfg.Corpus.Seed = o.seed
	}
	if o.metricsTextfile != "" {
		cfg.Metrics.TextfilePath = o.metricsTextfile
	}
}

// parseBackendList splits a comma-separated flag value, dropping blanks.
func parseBackendList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func runBench() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default: ./"+cwdConfigName+" if present, else built-in defaults)")
	debug := fs.Bool("debug", false, "enable debug logging (phase start/finish, index creation)")
	outputFormat := fs.String("output", "text", "output format: text (printed per backend) or json (one document at the end)")
	var o overrides
	fs.StringVar(&o.backends, "backends", "", "comma-separated backends to run, in order (default from config: bleve,sqlite)")
	fs.StringVar(&o.schema, "schema", "", "document schema: simple or rich")
	fs.StringVar(&o.source, "source", "", "word source: synthetic or dictionary")
	fs.IntVar(&o.docs, "docs", 0, "number of documents to index and words to search")
	complexCount := fs.Int("complex", 0, "number of complex searches to run (0 disables complex search)")
	extraFields := fs.Int("extra-fields", 0, "number of filler fields in the rich schema")
	fs.Uint64Var(&o.seed, "seed", 0, "generation seed (0 = random)")
	fs.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write phase metrics in Prometheus text format to this file")
	_ = fs.Parse(os.Args[2:])
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "complex":
			o.complexCount = complexCount
		case "extra-fields":
			o.extraFields = extraFields
		}
	})

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, o)
	if cfg.Corpus.Seed == 0 {
		cfg.Corpus.Seed = uint64(time.Now().UnixNano())
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Strings("backends", cfg.Backends.Enabled),
		zap.Bool("debug", debugMode),
	)

	failed, err := runBenchmarks(context.Background(), cfg, logger, os.Stdout, format)
	if err != nil {
		logger.Fatal("Benchmark aborted", zap.Error(err))
	}
	if failed > 0 {
		_ = logger.Sync()
		os.Exit(1)
	}
}

func runBackends() {
	fs := flag.NewFlagSet("backends", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	for _, name := range backend.Names() {
		if !backend.Available(name) {
			fmt.Printf("%-8s unavailable\n", name)
			continue
		}
		b, err := backend.New(name, cfg)
		if err != nil {
			fmt.Printf("%-8s error: %v\n", name, err)
			continue
		}
		fmt.Printf("%-8s %s  (index dir: %s)\n", name, b.Name(), b.Dir())
	}
}

func printUsage() {
	fmt.Println(`searchbench - indexing and query throughput of Go full-text search libraries

Usage:
  searchbench run [flags]        Generate a corpus and benchmark every enabled backend
  searchbench backends [flags]   List backends, versions, and availability
  searchbench version            Show version
  searchbench help               Show this help

Run Flags:
  --config string            Config file path (default: ./searchbench.yaml if present)
  --debug                    Enable debug logging
  --output string            Output format: text or json (default: text)
  --backends string          Comma-separated backends, e.g. bleve,sqlite
  --schema string            Document schema: simple or rich (default: rich)
  --source string            Word source: synthetic or dictionary (default: synthetic)
  --docs int                 Documents to index and words to search (default: 3000)
  --complex int              Complex searches to run, 0 to skip (default: 300)
  --extra-fields int         Filler fields in the rich schema (default: 10)
  --seed uint                Generation seed (default: random)
  --metrics-textfile string  Write Prometheus text-format metrics to this file

Examples:
  searchbench run
  searchbench run --backends bleve --docs 10000
  searchbench run --schema simple --source dictionary
  searchbench run --output json > results.json
  searchbench backends`)
}

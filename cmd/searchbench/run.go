package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hyperjump/searchbench/internal/backend"
	"github.com/hyperjump/searchbench/internal/bench"
	"github.com/hyperjump/searchbench/internal/cli"
	"github.com/hyperjump/searchbench/internal/config"
	"github.com/hyperjump/searchbench/internal/corpus"
	"github.com/hyperjump/searchbench/internal/models"
)

// runBenchmarks generates the corpus and benchmarks each enabled backend in turn.
// Corpus and config errors abort the run; a backend failure is reported and counted,
// and the remaining backends still run.
func runBenchmarks(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer, format cli.OutputFormat) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	complexCount := cfg.Corpus.ComplexCountOrDefault()
	schema, err := models.NewSchema(cfg.Corpus.Schema, cfg.Corpus.ExtraFieldCountOrDefault())
	if err != nil {
		return 0, err
	}
	params := models.Params{
		DocCount:        cfg.Corpus.DocCount,
		ComplexCount:    complexCount,
		WordLen:         cfg.Corpus.WordLen,
		ExtraFieldCount: cfg.Corpus.ExtraFieldCountOrDefault(),
		ExtraFieldLen:   cfg.Corpus.ExtraFieldLen,
		Schema:          schema.Name,
		Source:          cfg.Corpus.Source,
		Seed:            cfg.Corpus.Seed,
	}
	if format == cli.OutputText {
		cli.WriteParams(out, &params)
	}

	c, err := corpus.New(schema, corpus.Options{
		DocCount:       cfg.Corpus.DocCount,
		WordLen:        cfg.Corpus.WordLen,
		FillerLen:      cfg.Corpus.ExtraFieldLen,
		Source:         cfg.Corpus.Source,
		DictionaryPath: cfg.Corpus.DictionaryPath,
		Seed:           cfg.Corpus.Seed,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to generate corpus: %w", err)
	}

	recorder := bench.NewRecorder()
	runner := bench.NewRunner(complexCount, bench.WithLogger(logger), bench.WithRecorder(recorder))
	summary := &models.RunSummary{RunID: runner.RunID(), Params: params}

	failed := 0
	for _, name := range cfg.Backends.Enabled {
		if !backend.Available(name) && isKnownBackend(name) {
			logger.Info("backend skipped", zap.String("backend", name))
			summary.Skipped = append(summary.Skipped, name)
			if format == cli.OutputText {
				cli.WriteSkipped(out, name)
			}
			continue
		}
		b, err := backend.New(name, cfg, backend.WithLogger(logger))
		if err != nil {
			logger.Error("backend init failed", zap.String("backend", name), zap.Error(err))
			failed++
			continue
		}
		report, err := runner.Run(ctx, b, c)
		if err != nil {
			failed++
		}
		summary.Reports = append(summary.Reports, report)
		if format == cli.OutputText {
			cli.WriteReport(out, report)
		}
	}

	if format == cli.OutputJSON {
		if err := cli.WriteSummary(out, summary); err != nil {
			return failed, fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if cfg.Metrics.TextfilePath != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("metrics textfile not written", zap.String("path", cfg.Metrics.TextfilePath), zap.Error(err))
		}
	}
	return failed, nil
}

func isKnownBackend(name string) bool {
	for _, n := range backend.Names() {
		if n == name {
			return true
		}
	}
	return false
}

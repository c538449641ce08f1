package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/searchbench/internal/backend"
	"github.com/hyperjump/searchbench/internal/corpus"
	"github.com/hyperjump/searchbench/internal/models"
	"github.com/hyperjump/searchbench/internal/storage"
)

// Runner benchmarks backends one at a time against a shared corpus.
// Each phase is timed once; there is no warm-up and no repetition.
type Runner struct {
	runID        string
	complexCount int
	query        *models.ComplexQuery
	logger       *zap.Logger // optional; when set, logs phase events
	recorder     *Recorder   // optional
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a logger for phase start/finish and failures.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithRecorder records every phase result in rec.
func WithRecorder(rec *Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithComplexQuery replaces the default complex query.
func WithComplexQuery(q *models.ComplexQuery) RunnerOption {
	return func(r *Runner) { r.query = q }
}

// NewRunner creates a runner that repeats the complex query complexCount times.
// A complexCount of 0 skips complex search.
func NewRunner(complexCount int, opts ...RunnerOption) *Runner {
	r := &Runner{
		runID:        uuid.New().String(),
		complexCount: complexCount,
		query:        models.DefaultComplexQuery(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies every report this runner produces.
func (r *Runner) RunID() string {
	return r.runID
}

// Run indexes c into b, searches it, optionally runs complex search, and removes the index.
// On error the returned report holds the phases that completed and the index directory
// is left on disk.
func (r *Runner) Run(ctx context.Context, b backend.Backend, c *corpus.Corpus) (*models.BackendReport, error) {
	report := &models.BackendReport{
		RunID:    r.runID,
		Backend:  b.Name(),
		IndexDir: b.Dir(),
	}
	lc := &lifecycle{}
	defer func() { report.State = lc.state.String() }()

	runComplex := c.Schema.Complex && r.complexCount > 0
	if runComplex {
		if err := r.query.Validate(c.Schema); err != nil {
			return r.fail(report, models.PhaseSearchComplex, err)
		}
	}

	r.debug("phase starting", report.Backend, models.PhaseIndex)
	elapsed, err := Time(func() error {
		return b.CreateIndex(ctx, c.Schema, c.Docs)
	})
	if err != nil {
		return r.fail(report, models.PhaseIndex, err)
	}
	if err := lc.advance(StateIndexed); err != nil {
		return r.fail(report, models.PhaseIndex, err)
	}
	r.record(report, models.PhaseIndex, len(c.Docs), elapsed, 0)
	r.measureIndex(report)

	var hits int
	r.debug("phase starting", report.Backend, models.PhaseSearch)
	elapsed, err = Time(func() error {
		var err error
		hits, err = b.Search(ctx, c.Shuffled)
		return err
	})
	if err != nil {
		return r.fail(report, models.PhaseSearch, err)
	}
	if err := lc.advance(StateSearched); err != nil {
		return r.fail(report, models.PhaseSearch, err)
	}
	r.record(report, models.PhaseSearch, len(c.Shuffled), elapsed, hits)

	if runComplex {
		r.debug("phase starting", report.Backend, models.PhaseSearchComplex)
		elapsed, err = Time(func() error {
			var err error
			hits, err = b.SearchComplex(ctx, r.query, r.complexCount)
			return err
		})
		if err != nil {
			return r.fail(report, models.PhaseSearchComplex, err)
		}
		if err := lc.advance(StateSearchedComplex); err != nil {
			return r.fail(report, models.PhaseSearchComplex, err)
		}
		r.record(report, models.PhaseSearchComplex, r.complexCount, elapsed, hits)
	}

	if err := b.RemoveIndex(); err != nil {
		report.Err = err.Error()
		return report, fmt.Errorf("%s: remove index: %w", report.Backend, err)
	}
	if err := lc.advance(StateCleaned); err != nil {
		report.Err = err.Error()
		return report, err
	}
	return report, nil
}

func (r *Runner) record(report *models.BackendReport, phase models.Phase, ops int, elapsed time.Duration, hits int) {
	p := &models.PhaseResult{
		Phase:      phase,
		Ops:        ops,
		Elapsed:    elapsed,
		Throughput: Throughput(ops, elapsed),
		Hits:       hits,
	}
	report.Phases = append(report.Phases, p)
	if r.recorder != nil {
		r.recorder.Observe(report.Backend, p)
	}
	if r.logger != nil {
		r.logger.Debug("phase finished",
			zap.String("backend", report.Backend),
			zap.String("phase", string(phase)),
			zap.Int("ops", ops),
			zap.Duration("elapsed", elapsed),
			zap.Int("hits", hits))
	}
}

// measureIndex records the index size; a failed measurement is logged, not fatal.
func (r *Runner) measureIndex(report *models.BackendReport) {
	n, err := storage.IndexSize(report.IndexDir)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("index size unavailable", zap.String("dir", report.IndexDir), zap.Error(err))
		}
		return
	}
	report.IndexBytes = n
	if r.recorder != nil {
		r.recorder.ObserveIndexSize(report.Backend, n)
	}
}

func (r *Runner) fail(report *models.BackendReport, phase models.Phase, err error) (*models.BackendReport, error) {
	report.Err = err.Error()
	if r.logger != nil {
		r.logger.Error("phase failed",
			zap.String("backend", report.Backend),
			zap.String("phase", string(phase)),
			zap.Error(err))
	}
	return report, fmt.Errorf("%s: %s phase: %w", report.Backend, phase, err)
}

func (r *Runner) debug(msg, backendName string, phase models.Phase) {
	if r.logger != nil {
		r.logger.Debug(msg, zap.String("backend", backendName), zap.String("phase", string(phase)))
	}
}

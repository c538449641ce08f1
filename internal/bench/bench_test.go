package bench

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hyperjump/searchbench/internal/corpus"
	"github.com/hyperjump/searchbench/internal/models"
)

// fakeBackend writes one file per document and answers searches from memory.
type fakeBackend struct {
	dir       string
	words     map[string]bool
	calls     []string
	failPhase string
	complexQ  *models.ComplexQuery
	complexN  int
}

func (f *fakeBackend) Name() string { return "fake 1.0" }
func (f *fakeBackend) Dir() string  { return f.dir }

func (f *fakeBackend) CreateIndex(ctx context.Context, schema *models.Schema, docs []*models.Document) error {
	f.calls = append(f.calls, "create")
	if f.failPhase == "create" {
		return errors.New("disk full")
	}
	if err := os.Mkdir(f.dir, 0755); err != nil {
		return err
	}
	f.words = make(map[string]bool, len(docs))
	for _, d := range docs {
		f.words[d.Fields[models.FieldWord].(string)] = true
	}
	return os.WriteFile(filepath.Join(f.dir, "data"), []byte(strings.Repeat("x", len(docs))), 0644)
}

func (f *fakeBackend) Search(ctx context.Context, words []string) (int, error) {
	f.calls = append(f.calls, "search")
	if f.failPhase == "search" {
		return 0, errors.New("corrupt index")
	}
	hits := 0
	for _, w := range words {
		if f.words[w] {
			hits++
		}
	}
	return hits, nil
}

func (f *fakeBackend) SearchComplex(ctx context.Context, q *models.ComplexQuery, count int) (int, error) {
	f.calls = append(f.calls, "complex")
	f.complexQ = q
	f.complexN = count
	return count, nil
}

func (f *fakeBackend) RemoveIndex() error {
	f.calls = append(f.calls, "remove")
	return os.RemoveAll(f.dir)
}

func newCorpus(t *testing.T, schema *models.Schema, n int) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(schema, corpus.Options{DocCount: n, WordLen: 5, FillerLen: 8, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRunner_RichRunsAllPhases(t *testing.T) {
	fb := &fakeBackend{dir: filepath.Join(t.TempDir(), "fake_ix")}
	rec := NewRecorder()
	r := NewRunner(7, WithRecorder(rec))

	report, err := r.Run(context.Background(), fb, newCorpus(t, models.RichSchema(2), 50))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"create", "search", "complex", "remove"}
	if strings.Join(fb.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", fb.calls, want)
	}
	if report.State != StateCleaned.String() {
		t.Errorf("state = %s, want cleaned", report.State)
	}
	if report.RunID != r.RunID() || report.RunID == "" {
		t.Errorf("run id = %q", report.RunID)
	}
	if report.IndexBytes != 50 {
		t.Errorf("index bytes = %d, want 50", report.IndexBytes)
	}
	if len(report.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(report.Phases))
	}
	if p := report.Phase(models.PhaseSearch); p.Ops != 50 || p.Hits != 50 {
		t.Errorf("search phase = %+v, want 50 ops and 50 hits", p)
	}
	if p := report.Phase(models.PhaseSearchComplex); p.Ops != 7 {
		t.Errorf("complex ops = %d, want 7", p.Ops)
	}
	if fb.complexN != 7 || fb.complexQ.Limit != 10 || len(fb.complexQ.Conditions) != 3 {
		t.Errorf("complex query = %+v x %d", fb.complexQ, fb.complexN)
	}
	for _, p := range report.Phases {
		if p.Throughput <= 0 || math.IsInf(p.Throughput, 0) || math.IsNaN(p.Throughput) {
			t.Errorf("phase %s throughput = %v", p.Phase, p.Throughput)
		}
	}
	if _, err := os.Stat(fb.dir); !os.IsNotExist(err) {
		t.Errorf("index dir should be removed, stat err = %v", err)
	}
	if got := testutil.ToFloat64(rec.seconds.WithLabelValues("fake 1.0", "index")); got <= 0 {
		t.Errorf("recorded index seconds = %v", got)
	}
	if got := testutil.ToFloat64(rec.indexBytes.WithLabelValues("fake 1.0")); got != 50 {
		t.Errorf("recorded index bytes = %v, want 50", got)
	}
}

func TestRunner_SimpleSkipsComplex(t *testing.T) {
	fb := &fakeBackend{dir: filepath.Join(t.TempDir(), "fake_ix")}
	report, err := NewRunner(300).Run(context.Background(), fb, newCorpus(t, models.SimpleSchema(), 10))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range fb.calls {
		if c == "complex" {
			t.Error("complex search must not run for the simple schema")
		}
	}
	if report.Phase(models.PhaseSearchComplex) != nil {
		t.Error("report should not contain a complex phase")
	}
	if report.State != "cleaned" {
		t.Errorf("state = %s", report.State)
	}
}

func TestRunner_ZeroComplexCountSkipsComplex(t *testing.T) {
	fb := &fakeBackend{dir: filepath.Join(t.TempDir(), "fake_ix")}
	if _, err := NewRunner(0).Run(context.Background(), fb, newCorpus(t, models.RichSchema(0), 5)); err != nil {
		t.Fatal(err)
	}
	if len(fb.calls) != 3 {
		t.Errorf("calls = %v", fb.calls)
	}
}

func TestRunner_FailureStopsAndKeepsDirectory(t *testing.T) {
	fb := &fakeBackend{dir: filepath.Join(t.TempDir(), "fake_ix"), failPhase: "search"}
	report, err := NewRunner(3).Run(context.Background(), fb, newCorpus(t, models.RichSchema(0), 5))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "search phase") {
		t.Errorf("error = %v, want phase name", err)
	}
	if report.State != "indexed" {
		t.Errorf("state = %s, want indexed", report.State)
	}
	if len(report.Phases) != 1 || report.Err == "" {
		t.Errorf("report = %+v", report)
	}
	if _, statErr := os.Stat(fb.dir); statErr != nil {
		t.Errorf("index dir should be left behind on failure: %v", statErr)
	}
}

func TestRunner_IndexFailure(t *testing.T) {
	fb := &fakeBackend{dir: filepath.Join(t.TempDir(), "fake_ix"), failPhase: "create"}
	report, err := NewRunner(3).Run(context.Background(), fb, newCorpus(t, models.RichSchema(0), 5))
	if err == nil {
		t.Fatal("expected error")
	}
	if report.State != "uninitialized" || len(report.Phases) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestThroughput(t *testing.T) {
	if got := Throughput(3000, 2*time.Second); got != 1500 {
		t.Errorf("Throughput = %v, want 1500", got)
	}
	for _, elapsed := range []time.Duration{0, -time.Second, time.Nanosecond} {
		got := Throughput(10, elapsed)
		if got <= 0 || math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("Throughput(10, %v) = %v, want positive finite", elapsed, got)
		}
		if got != 10/MinElapsed.Seconds() {
			t.Errorf("Throughput(10, %v) = %v, want floor rate", elapsed, got)
		}
	}
}

func TestTime(t *testing.T) {
	wantErr := errors.New("boom")
	elapsed, err := Time(func() error {
		time.Sleep(2 * time.Millisecond)
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v", err)
	}
	if elapsed < 2*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 2ms", elapsed)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateUninitialized, StateIndexed, true},
		{StateIndexed, StateSearched, true},
		{StateSearched, StateSearchedComplex, true},
		{StateSearched, StateCleaned, true},
		{StateSearchedComplex, StateCleaned, true},
		{StateUninitialized, StateSearched, false},
		{StateSearched, StateIndexed, false},
		{StateCleaned, StateIndexed, false},
		{StateIndexed, StateCleaned, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}

	lc := &lifecycle{state: StateSearched}
	if err := lc.advance(StateIndexed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("advance backwards: err = %v", err)
	}
	if State(42).String() != "State(42)" {
		t.Errorf("unknown state string = %s", State(42))
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec := NewRecorder()
	rec.Observe("bleve v2", &models.PhaseResult{Phase: models.PhaseSearch, Ops: 10, Elapsed: time.Second, Throughput: 10, Hits: 10})
	n, err := testutil.GatherAndCount(rec.Gatherer(),
		"searchbench_phase_seconds", "searchbench_phase_ops_per_second", "searchbench_phase_hits", "searchbench_index_bytes")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("gathered %d series, want 3 (one per phase gauge, no index size yet)", n)
	}
	path := filepath.Join(t.TempDir(), "searchbench.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`searchbench_phase_ops_per_second{backend="bleve v2",phase="search"} 10`,
		`searchbench_phase_hits{backend="bleve v2",phase="search"} 10`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

package models

import "time"

// Phase names a timed step of one backend run.
type Phase string

const (
	PhaseIndex         Phase = "index"
	PhaseSearch        Phase = "search"
	PhaseSearchComplex Phase = "search_complex"
)

// PhaseResult is the timing of one phase.
type PhaseResult struct {
	Phase Phase `json:"phase"`
	// Ops is the number of operations the phase performed (documents written or queries run).
	Ops        int           `json:"ops"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Throughput float64       `json:"ops_per_second"`
	// Hits is the number of results whose stored fields were read; zero for the index phase.
	Hits int `json:"hits"`
}

// BackendReport is the outcome of benchmarking one backend.
// On failure Err is set and Phases holds only the phases that completed.
type BackendReport struct {
	RunID      string         `json:"run_id"`
	Backend    string         `json:"backend"`
	IndexDir   string         `json:"index_dir"`
	IndexBytes int64          `json:"index_bytes"`
	Phases     []*PhaseResult `json:"phases"`
	// State is the last lifecycle state the backend reached.
	State string `json:"state"`
	Err   string `json:"error,omitempty"`
}

// Phase returns the result for phase p, or nil if it did not run.
func (r *BackendReport) Phase(p Phase) *PhaseResult {
	for _, pr := range r.Phases {
		if pr.Phase == p {
			return pr
		}
	}
	return nil
}

// Params are the corpus parameters of one run, printed before benchmarking.
type Params struct {
	DocCount        int    `json:"doc_count"`
	ComplexCount    int    `json:"complex_count"`
	WordLen         int    `json:"word_len"`
	ExtraFieldCount int    `json:"extra_field_count"`
	ExtraFieldLen   int    `json:"extra_field_len"`
	Schema          string `json:"schema"`
	Source          string `json:"source"`
	Seed            uint64 `json:"seed"`
}

// RunSummary collects every backend report of one run.
type RunSummary struct {
	RunID   string           `json:"run_id"`
	Params  Params           `json:"params"`
	Skipped []string         `json:"skipped,omitempty"`
	Reports []*BackendReport `json:"reports"`
}

// Package cli renders benchmark parameters and results for the searchbench CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/searchbench/internal/models"
	"github.com/hyperjump/searchbench/pkg/utils"
)

// OutputFormat is the format for benchmark output.
type OutputFormat string

const (
	// OutputText is human-readable text (default), printed as each backend finishes.
	OutputText OutputFormat = "text"
	// OutputJSON is one structured JSON document written after all backends ran.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteParams writes the parameter header.
func WriteParams(w io.Writer, p *models.Params) {
	fmt.Fprintln(w, "Params:")
	fmt.Fprintf(w, "DOC_COUNT: %d WORD_LEN: %d SCHEMA: %s SOURCE: %s SEED: %d\n",
		p.DocCount, p.WordLen, p.Schema, p.Source, p.Seed)
	if p.Schema == models.SchemaRich {
		fmt.Fprintf(w, "EXTRA_FIELD_COUNT: %d EXTRA_FIELD_LEN: %d COMPLEX_COUNT: %d\n",
			p.ExtraFieldCount, p.ExtraFieldLen, p.ComplexCount)
	}
	fmt.Fprintln(w)
}

// WriteSkipped notes a backend that was not run because its library is unavailable.
func WriteSkipped(w io.Writer, name string) {
	fmt.Fprintf(w, "Skipping: %s (not available in this build)\n\n", name)
}

var phaseLabels = map[models.Phase]string{
	models.PhaseIndex:         "Indexing",
	models.PhaseSearch:        "Searching",
	models.PhaseSearchComplex: "Complex Searching",
}

// WriteReport writes one backend's results as text.
func WriteReport(w io.Writer, report *models.BackendReport) {
	fmt.Fprintf(w, "Benchmarking: %s\n", report.Backend)
	for _, p := range report.Phases {
		fmt.Fprintf(w, "%s takes %.1fs (%.1f/s)\n", phaseLabels[p.Phase], p.Elapsed.Seconds(), p.Throughput)
	}
	if report.IndexBytes > 0 {
		fmt.Fprintf(w, "Index size: %s\n", utils.FormatBytes(report.IndexBytes))
	}
	if report.Err != "" {
		fmt.Fprintf(w, "Failed after %s: %s\n", report.State, report.Err)
	}
	fmt.Fprintln(w)
}

// WriteSummary writes the whole run as indented JSON.
func WriteSummary(w io.Writer, summary *models.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

package bench

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperjump/searchbench/internal/models"
)

// Recorder holds Prometheus gauges for phase timings in a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	seconds    *prometheus.GaugeVec
	throughput *prometheus.GaugeVec
	hits       *prometheus.GaugeVec
	indexBytes *prometheus.GaugeVec
}

// NewRecorder creates and registers all benchmark gauges.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		seconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchbench_phase_seconds",
				Help: "Wall-clock seconds of the last run of a phase.",
			},
			[]string{"backend", "phase"},
		),
		throughput: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchbench_phase_ops_per_second",
				Help: "Operations per second of the last run of a phase.",
			},
			[]string{"backend", "phase"},
		),
		hits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchbench_phase_hits",
				Help: "Search hits whose stored fields were read during a phase.",
			},
			[]string{"backend", "phase"},
		),
		indexBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searchbench_index_bytes",
				Help: "On-disk size of the index after creation.",
			},
			[]string{"backend"},
		),
	}
	r.registry.MustRegister(r.seconds, r.throughput, r.hits, r.indexBytes)
	return r
}

// Observe records one phase result.
func (r *Recorder) Observe(backend string, p *models.PhaseResult) {
	phase := string(p.Phase)
	r.seconds.WithLabelValues(backend, phase).Set(p.Elapsed.Seconds())
	r.throughput.WithLabelValues(backend, phase).Set(p.Throughput)
	r.hits.WithLabelValues(backend, phase).Set(float64(p.Hits))
}

// ObserveIndexSize records the on-disk size of a backend's index.
func (r *Recorder) ObserveIndexSize(backend string, n int64) {
	r.indexBytes.WithLabelValues(backend).Set(float64(n))
}

// Gatherer exposes the private registry holding the phase gauges.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all gauges to path in Prometheus text format, for the
// node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Gatherer())
}

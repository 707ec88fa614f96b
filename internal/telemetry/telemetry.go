// Package telemetry exposes Prometheus metrics for scoring runs.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitepulse/sitepulse/pkg/actions"
)

const namespace = "sitepulse"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder records scoring metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	lastTotal     prometheus.Gauge
	pillarScore   *prometheus.GaugeVec
	actionsByLvl  *prometheus.CounterVec
	archiveErrors prometheus.Counter
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "runs_total",
			Help:      "Scoring runs by outcome.",
		}, []string{"outcome"}),
		runDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a scoring run, including persistence.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastTotal: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "last_total_score",
			Help:      "Total score of the most recent successful run.",
		}),
		pillarScore: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "last_pillar_score",
			Help:      "Pillar scores of the most recent successful run.",
		}, []string{"pillar"}),
		actionsByLvl: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "actions",
			Name:      "generated_total",
			Help:      "Actions generated by severity.",
		}, []string{"severity"}),
		archiveErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "errors_total",
			Help:      "Failed archive or event publish attempts.",
		}),
	}
}

// ObserveRun records a finished run. Scores are only recorded on success.
func (r *Recorder) ObserveRun(d time.Duration, total int, pillars map[string]int, err error) {
	r.runDuration.Observe(d.Seconds())
	if err != nil {
		r.runs.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	r.runs.WithLabelValues(OutcomeSuccess).Inc()
	r.lastTotal.Set(float64(total))
	for id, score := range pillars {
		r.pillarScore.WithLabelValues(id).Set(float64(score))
	}
}

// ObserveActions counts generated actions by severity.
func (r *Recorder) ObserveActions(list []actions.Action) {
	for _, a := range list {
		r.actionsByLvl.WithLabelValues(string(a.Severity)).Inc()
	}
}

// ObserveSideEffectError counts a failed archive write or event publish.
func (r *Recorder) ObserveSideEffectError() {
	r.archiveErrors.Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StrategySequential = "sequential"
	StrategyConcurrent = "concurrent"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder tracks fetch runs on its own registry so tests and multiple
// servers never collide on the global one.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinema",
			Name:      "fetch_duration_seconds",
			Help:      "Wall-clock time of a catalog fetch run.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 4, 5, 6, 7, 8, 10, 15},
		}, []string{"strategy", "outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "fetch_total",
			Help:      "Number of catalog fetch runs.",
		}, []string{"strategy", "outcome"}),
	}

	r.registry.MustRegister(
		r.duration,
		r.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveFetch records one run. The elapsed time of a failed run is the time
// the request took, since failed responses carry none.
func (r *Recorder) ObserveFetch(strategy string, elapsed time.Duration, failed bool) {
	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeError
	}
	r.duration.WithLabelValues(strategy, outcome).Observe(elapsed.Seconds())
	r.runs.WithLabelValues(strategy, outcome).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

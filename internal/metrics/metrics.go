// Package metrics exposes Prometheus instruments for source fetches.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samvad-hq/samvad-news-aggregator/pkg/sources"
)

const namespace = "samvad_news"

// Fetch outcomes recorded on the fetch counter.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport"
	OutcomeParse     = "parse"
	OutcomeOther     = "other"
)

// Recorder holds the fetch instruments. A nil *Recorder is a valid no-op.
type Recorder struct {
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec
	records  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the fetch instruments on a private registry together with
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Source fetch attempts by outcome.",
		}, []string{"source", "outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      "Records extracted per source.",
		}, []string{"source"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of source fetches in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"source"}),
	}

	reg.MustRegister(
		r.fetches,
		r.records,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveFetch records one finished fetch of sourceID.
func (r *Recorder) ObserveFetch(sourceID string, elapsed time.Duration, extracted int, err error) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(sourceID, Classify(err)).Inc()
	r.duration.WithLabelValues(sourceID).Observe(elapsed.Seconds())
	if err == nil {
		r.records.WithLabelValues(sourceID).Add(float64(extracted))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Classify maps a fetch error to its outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, sources.ErrTransport):
		return OutcomeTransport
	case errors.Is(err, sources.ErrParse):
		return OutcomeParse
	default:
		return OutcomeOther
	}
}

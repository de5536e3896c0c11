// Package metrics counts what a merge run did and exports the counters as a
// Prometheus textfile for the node exporter.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/clubmerge/pkg/errors"
)

const namespace = "clubmerge"

// Metrics holds the counters of one run on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	identities      *prometheus.CounterVec
	records         *prometheus.CounterVec
	childCollisions prometheus.Counter
	sharedItems     prometheus.Counter
	mergeDuration   prometheus.Histogram
	lastRun         prometheus.Gauge
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		identities: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identities_total",
			Help:      "Identities processed, broken down by result.",
		}, []string{"result"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Input records, broken down by result.",
		}, []string{"result"}),
		childCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_collisions_total",
			Help:      "Children recognized as the same child across records.",
		}),
		sharedItems: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_items_total",
			Help:      "List items merged by id across records.",
		}),
		mergeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time spent merging one identity.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished.",
		}),
	}
}

// Registry returns the registry holding the counters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Merged records one merged identity.
func (m *Metrics) Merged(records, childCollisions, sharedItems int, d time.Duration) {
	m.identities.WithLabelValues("merged").Inc()
	m.records.WithLabelValues("merged").Add(float64(records))
	m.childCollisions.Add(float64(childCollisions))
	m.sharedItems.Add(float64(sharedItems))
	m.mergeDuration.Observe(d.Seconds())
}

// Failed records one identity whose merge failed.
func (m *Metrics) Failed(records int) {
	m.identities.WithLabelValues("failed").Inc()
	m.records.WithLabelValues("failed").Add(float64(records))
}

// Rejected records input records rejected before merging.
func (m *Metrics) Rejected(n int) {
	m.records.WithLabelValues("rejected").Add(float64(n))
}

// WriteTextfile stamps the run time and writes the registry to path.
func (m *Metrics) WriteTextfile(path string, finished time.Time) error {
	m.lastRun.Set(float64(finished.Unix()))
	return errors.WrapIO("write", path, prometheus.WriteToTextfile(path, m.registry))
}

package task

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/rawtile"
)

// Metrics counts host activity. A nil *Metrics records nothing.
type Metrics struct {
	Tasks    *prometheus.CounterVec
	Tiles    prometheus.Counter
	Duration prometheus.Histogram
	Threads  prometheus.Histogram
}

// NewMetrics creates the host metrics and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rawtile",
			Name:      "tasks_total",
			Help:      "Area tasks performed, by result.",
		}, []string{"result"}),
		Tiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rawtile",
			Name:      "tiles_total",
			Help:      "Leaf tiles processed.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rawtile",
			Name:      "task_duration_seconds",
			Help:      "Wall time of area tasks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Threads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rawtile",
			Name:      "task_threads",
			Help:      "Threads used per area task.",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Tasks, m.Tiles, m.Duration, m.Threads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) tile() {
	if m != nil {
		m.Tiles.Inc()
	}
}

func (m *Metrics) observe(threads int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, rawtile.ErrAborted):
		result = "aborted"
	case err != nil:
		result = "error"
	}
	m.Tasks.WithLabelValues(result).Inc()
	m.Duration.Observe(elapsed.Seconds())
	m.Threads.Observe(float64(threads))
}

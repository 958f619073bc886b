package fetchq

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeMetrics collects fetch pipeline metrics. A nil *storeMetrics is
// valid and disables collection with zero overhead; callers opt in through
// WithMetrics.
type storeMetrics struct {
	queueDepth   prometheus.Gauge
	fetchesTotal *prometheus.CounterVec
	fetchSeconds *prometheus.HistogramVec
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &storeMetrics{
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "fetchq",
			Name:      "queue_depth",
			Help:      "Number of fetch requests waiting in the priority queue.",
		}),
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fetchq",
			Name:      "fetches_total",
			Help:      "Completed backing-store fetches by object kind and outcome.",
		}, []string{"kind", "outcome"}),
		fetchSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fetchq",
			Name:      "fetch_duration_seconds",
			Help:      "Backing-store fetch latency by object kind.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"kind"}),
	}
}

func (m *storeMetrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *storeMetrics) observeFetch(kind Kind, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case IsNotFound(err):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	m.fetchesTotal.WithLabelValues(kind.String(), outcome).Inc()
	m.fetchSeconds.WithLabelValues(kind.String()).Observe(d.Seconds())
}

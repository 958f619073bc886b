package fetchq

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultWorkers is the worker count used when WithWorkers is not given.
const DefaultWorkers = 4

// Options configures a Store.
type Options struct {
	Workers int
	Logger  *zap.Logger
	Metrics prometheus.Registerer
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Workers: DefaultWorkers,
		Logger:  zap.NewNop(),
	}
}

// WithWorkers sets the number of worker goroutines draining the queue.
// The count is fixed for the Store's lifetime and must be positive.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the logger used by the workers and the façade.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithMetrics registers fetch pipeline metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Metrics = reg }
}

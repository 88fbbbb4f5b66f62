package knn

type options struct {
	logger  *Logger
	metrics MetricsCollector
}

// Option configures a Classifier.
type Option func(*options)

// WithLogger sets the logger used by the classifier. A nil logger is ignored.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the collector notified after Train and Predict.
// A nil collector is ignored.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c != nil {
			o.metrics = c
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package vecseg

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures Segment construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// SearchOption configures a single Search call.
type SearchOption func(*searchOptions)

type searchOptions struct {
	nprobe int
}

// WithNProbe sets the number of inverted lists probed by IVF indexes.
func WithNProbe(nprobe int) SearchOption {
	return func(o *searchOptions) {
		o.nprobe = nprobe
	}
}

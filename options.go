package rowpack

import "log/slog"

// DefaultMaxRowHeight is the row height cap used until SetMaxRowHeight is called.
const DefaultMaxRowHeight = 600

type options struct {
	contentWidth     int
	maxRowHeight     int
	fixedHeight      bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Calculator at construction time.
//
// Options set the initial configuration without triggering resets; use the
// Set* methods to change it afterwards.
type Option func(*options)

// WithContentWidth sets the target row width in pixels.
func WithContentWidth(px int) Option {
	return func(o *options) {
		o.contentWidth = px
	}
}

// WithMaxRowHeight sets the row height cap in pixels.
// Values <= 0 keep DefaultMaxRowHeight.
func WithMaxRowHeight(px int) Option {
	return func(o *options) {
		o.maxRowHeight = px
	}
}

// WithFixedHeight enables fixed row height mode.
func WithFixedHeight(fixed bool) Option {
	return func(o *options) {
		o.fixedHeight = fixed
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rowpack.BasicMetricsCollector{}
//	calc := rowpack.New(src, rowpack.WithMetricsCollector(metrics))
//	// ... query calc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Extensions: %d, items: %d\n", stats.ExtendCount, stats.ExtendItems)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxRowHeight:     DefaultMaxRowHeight,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.maxRowHeight <= 0 {
		o.maxRowHeight = DefaultMaxRowHeight
	}
	if o.contentWidth < 0 {
		o.contentWidth = 0
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

package imagesource

type options struct {
	concurrency int
	fullRow     []int
}

// Option configures Load and Dir.
type Option func(*options)

// WithConcurrency limits how many files are decoded at once.
// Values <= 0 keep DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithFullRow marks the images at the given positions as full-row items.
func WithFullRow(positions ...int) Option {
	return func(o *options) {
		o.fullRow = append(o.fullRow, positions...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{concurrency: DefaultConcurrency}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = DefaultConcurrency
	}
	return o
}

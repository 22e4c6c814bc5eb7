package rowpack

// AspectRatioSource supplies the native width/height ratio of each item.
//
// It must be a pure function of index between resets: the calculator never
// asks twice for an index it has already resolved. A negative ratio marks a
// full-row item, which occupies a row of its own and is sized by the
// absolute value.
type AspectRatioSource interface {
	AspectRatioForIndex(index int) float64
}

// Bounded is implemented by sources that know how many items they hold.
//
// When the source passed to a Calculator is Bounded, extension stops at Len
// and the trailing row is finalized with the items available. Unbounded
// sources are queried past any requested position until the open row closes.
type Bounded interface {
	Len() int
}

// AspectRatioFunc adapts a function to an AspectRatioSource.
type AspectRatioFunc func(index int) float64

// AspectRatioForIndex implements AspectRatioSource.
func (f AspectRatioFunc) AspectRatioForIndex(index int) float64 {
	return f(index)
}

// Ratios is a fixed, Bounded AspectRatioSource.
type Ratios []float64

// AspectRatioForIndex implements AspectRatioSource.
func (r Ratios) AspectRatioForIndex(index int) float64 {
	return r[index]
}

// Len implements Bounded.
func (r Ratios) Len() int {
	return len(r)
}

// FullRow returns the sentinel ratio for a full-row item whose own aspect
// ratio is ratio.
func FullRow(ratio float64) float64 {
	if ratio < 0 {
		return ratio
	}
	return -ratio
}

package rowpack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when the calculator is queried before it is
	// fully configured. All configuration errors wrap it.
	ErrInvalidState = errors.New("invalid state")

	// ErrContentWidthNotSet is returned when a query runs before SetContentWidth.
	ErrContentWidthNotSet = fmt.Errorf("%w: content width not set", ErrInvalidState)

	// ErrNoRatioSource is returned when a query runs without an AspectRatioSource.
	ErrNoRatioSource = fmt.Errorf("%w: no ratio source", ErrInvalidState)
)

// RangeKind names the index space of an OutOfRangeError.
type RangeKind uint8

const (
	// RangePosition is the item position space.
	RangePosition RangeKind = iota
	// RangeRow is the row index space.
	RangeRow
)

func (k RangeKind) String() string {
	switch k {
	case RangePosition:
		return "position"
	case RangeRow:
		return "row"
	default:
		return "unknown"
	}
}

// OutOfRangeError indicates a query beyond the items of a Bounded source, or a
// negative index.
//
// Len is -1 when the source is unbounded.
type OutOfRangeError struct {
	Kind  RangeKind
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	if e.Len < 0 {
		return fmt.Sprintf("%s %d out of range", e.Kind, e.Index)
	}
	return fmt.Sprintf("%s %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

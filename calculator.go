package rowpack

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/rowpack/internal/arena"
)

const (
	// In fixed height mode an item may lose at most a third of its natural
	// width to slack; otherwise the last item moves to the next row.
	validItemSlackThreshold = 2.0 / 3.0

	// Items force-wrapped by a full-row item are capped to this fraction of
	// the max row height.
	forcedRowHeightFactor = 0.75
)

// Calculator packs items into justified rows and memoizes the result.
//
// All queries extend the memo tables lazily: the first query for a region
// computes whole rows up to (and sometimes past) the requested index, and
// later queries for the same region are pure reads. The tables are
// prefix-complete and never recomputed until Reset or a configuration change.
//
// A Calculator is not safe for concurrent use.
type Calculator struct {
	src          AspectRatioSource
	contentWidth int
	maxRowHeight int
	fixedHeight  bool

	sizes      arena.Table[Size]
	rows       arena.Table[int]
	firstInRow arena.Table[int]
	rowTops    arena.Table[int]

	// scratch for the row in progress
	ratios []float64
	slacks []int

	metrics MetricsCollector
	logger  *Logger
}

// New creates a Calculator reading aspect ratios from src.
//
// The content width must be set, either with WithContentWidth or
// SetContentWidth, before the first query.
func New(src AspectRatioSource, optFns ...Option) *Calculator {
	o := applyOptions(optFns)
	return &Calculator{
		src:          src,
		contentWidth: o.contentWidth,
		maxRowHeight: o.maxRowHeight,
		fixedHeight:  o.fixedHeight,
		metrics:      o.metricsCollector,
		logger:       o.logger,
	}
}

// ContentWidth returns the target row width, 0 if not set.
func (c *Calculator) ContentWidth() int { return c.contentWidth }

// MaxRowHeight returns the row height cap.
func (c *Calculator) MaxRowHeight() int { return c.maxRowHeight }

// FixedHeight reports whether fixed row height mode is enabled.
func (c *Calculator) FixedHeight() bool { return c.fixedHeight }

// SetContentWidth sets the target row width in pixels. Values <= 0 unset it.
// Changing the width resets all computed rows.
func (c *Calculator) SetContentWidth(px int) {
	if px < 0 {
		px = 0
	}
	if c.contentWidth == px {
		return
	}
	c.contentWidth = px
	c.reset("content width changed")
}

// SetMaxRowHeight sets the row height cap in pixels. Values <= 0 restore
// DefaultMaxRowHeight. Changing the cap resets all computed rows.
func (c *Calculator) SetMaxRowHeight(px int) {
	if px <= 0 {
		px = DefaultMaxRowHeight
	}
	if c.maxRowHeight == px {
		return
	}
	c.maxRowHeight = px
	c.reset("max row height changed")
}

// SetFixedHeight toggles fixed row height mode. Changing the mode resets all
// computed rows.
func (c *Calculator) SetFixedHeight(fixed bool) {
	if c.fixedHeight == fixed {
		return
	}
	c.fixedHeight = fixed
	c.reset("fixed height changed")
}

// SetSource replaces the aspect ratio source and resets all computed rows.
func (c *Calculator) SetSource(src AspectRatioSource) {
	c.src = src
	c.reset("source changed")
}

// Reset discards all computed rows. Call it when the underlying items change.
func (c *Calculator) Reset() {
	c.reset("explicit")
}

func (c *Calculator) reset(reason string) {
	discarded := c.sizes.Len()
	c.sizes.Reset()
	c.rows.Reset()
	c.firstInRow.Reset()
	c.rowTops.Reset()
	c.metrics.RecordReset()
	c.logger.LogReset(context.Background(), reason, discarded)
}

// Computed returns how many positions and rows are currently memoized.
func (c *Calculator) Computed() (positions, rows int) {
	return c.sizes.Len(), c.firstInRow.Len()
}

// SizeForPosition returns the computed size of the item at pos.
func (c *Calculator) SizeForPosition(pos int) (Size, error) {
	if err := c.ensurePosition(pos); err != nil {
		return Size{}, err
	}
	s, _ := c.sizes.Get(pos)
	return s, nil
}

// RowForPosition returns the row index containing pos.
func (c *Calculator) RowForPosition(pos int) (int, error) {
	if err := c.ensurePosition(pos); err != nil {
		return 0, err
	}
	r, _ := c.rows.Get(pos)
	return r, nil
}

// FirstPositionForRow returns the first item position of row.
//
// A row is only known once the row before it has closed, so extension runs
// position-wise one step past the computed prefix until row appears.
func (c *Calculator) FirstPositionForRow(row int) (int, error) {
	if row < 0 {
		return 0, &OutOfRangeError{Kind: RangeRow, Index: row, Len: -1}
	}
	if row < c.firstInRow.Len() {
		p, _ := c.firstInRow.Get(row)
		return p, nil
	}
	if err := c.check(); err != nil {
		return 0, err
	}
	for row >= c.firstInRow.Len() {
		if n, ok := c.bound(); ok && c.sizes.Len() >= n {
			return 0, &OutOfRangeError{Kind: RangeRow, Index: row, Len: c.firstInRow.Len()}
		}
		c.extendUpTo(c.sizes.Len() + 1)
	}
	p, _ := c.firstInRow.Get(row)
	return p, nil
}

func (c *Calculator) ensurePosition(pos int) error {
	if pos < 0 {
		n, _ := c.bound()
		return &OutOfRangeError{Kind: RangePosition, Index: pos, Len: n}
	}
	if pos < c.sizes.Len() {
		return nil
	}
	if err := c.check(); err != nil {
		return err
	}
	if n, ok := c.bound(); ok && pos >= n {
		return &OutOfRangeError{Kind: RangePosition, Index: pos, Len: n}
	}
	c.extendUpTo(pos)
	return nil
}

func (c *Calculator) check() error {
	if c.contentWidth <= 0 {
		return ErrContentWidthNotSet
	}
	if c.src == nil {
		return ErrNoRatioSource
	}
	return nil
}

// bound returns the item count of a Bounded source, or -1 and false.
func (c *Calculator) bound() (int, bool) {
	if b, ok := c.src.(Bounded); ok {
		return b.Len(), true
	}
	return -1, false
}

// extendUpTo computes rows until last is covered and no row is left open.
func (c *Calculator) extendUpTo(last int) {
	t0 := time.Now()
	from := c.sizes.Len()
	rowsBefore := c.firstInRow.Len()

	row := 0
	if r, ok := c.rows.Last(); ok {
		row = r + 1
	}
	n, bounded := c.bound()

	var (
		rowAspectSum float64
		rowWidth     int
		rowHeight    = math.MaxInt
		closed       bool
	)
	if c.fixedHeight {
		rowHeight = c.maxRowHeight
	}
	c.ratios = c.ratios[:0]

	for pos := from; pos <= last || !closed; pos++ {
		if bounded && pos >= n {
			if len(c.ratios) > 0 {
				c.finalizeTail(row, pos-len(c.ratios), rowWidth)
			}
			break
		}

		ratio := c.src.AspectRatioForIndex(pos)
		fullRow := ratio < 0
		if !fullRow {
			rowAspectSum += ratio
			c.ratios = append(c.ratios, ratio)
		}

		if c.fixedHeight {
			rowWidth = widthFor(rowHeight, rowAspectSum)
		} else {
			rowHeight = heightFor(c.contentWidth, rowAspectSum)
		}

		var rowFull bool
		if c.fixedHeight {
			rowFull = rowWidth > c.contentWidth
		} else {
			rowFull = rowHeight <= c.maxRowHeight
		}

		if !rowFull && !fullRow {
			closed = false
			continue
		}

		k := len(c.ratios)
		if fullRow {
			if k > 0 {
				h := rowHeight
				if !rowFull {
					h = int(math.Ceil(float64(c.maxRowHeight) * forcedRowHeightFactor))
				}
				c.commitRow(row, pos-k, rowWidth, h, false)
				row++
			}
			c.commitFullRow(row, pos, ratio)
			row++
			rowAspectSum = 0
			c.ratios = c.ratios[:0]
			closed = true
			continue
		}

		carried := c.ratios[k-1]
		dropped := c.commitRow(row, pos-k+1, rowWidth, rowHeight, true)
		row++
		c.ratios = c.ratios[:0]
		rowAspectSum = 0
		closed = true
		if dropped {
			// The dropped item opens the next row.
			rowAspectSum = carried
			c.ratios = append(c.ratios, carried)
			rowWidth = widthFor(rowHeight, rowAspectSum)
			closed = false
		}
	}

	items := c.sizes.Len() - from
	rows := c.firstInRow.Len() - rowsBefore
	took := time.Since(t0)
	c.metrics.RecordExtend(items, rows, took)
	c.logger.LogExtend(context.Background(), from, c.sizes.Len(), rows, took)
}

// commitRow turns the pending ratios into sizes for row, starting at
// position first. In fixed height mode the row is justified with slack and,
// when allowDrop is set and some item would shrink too much, the last item is
// left out once. It reports whether an item was left out.
func (c *Calculator) commitRow(row, first, rowWidth, rowHeight int, allowDrop bool) (dropped bool) {
	c.firstInRow.Append(first)

	ratios := c.ratios
	var slacks []int
	if c.fixedHeight {
		slacks = c.distributeRowSlack(rowWidth, ratios)
		if allowDrop && len(ratios) > 1 && !c.hasValidItemSlacks(slacks, ratios) {
			lastRatio := ratios[len(ratios)-1]
			rowWidth -= widthFor(c.maxRowHeight, lastRatio)
			ratios = ratios[:len(ratios)-1]
			slacks = c.distributeRowSlack(rowWidth, ratios)

			accepted := c.hasValidItemSlacks(slacks, ratios)
			c.metrics.RecordSlackCorrection(accepted)
			c.logger.LogSlackCorrection(context.Background(), row, first+len(ratios), accepted)
			dropped = true
		}
	}

	available := c.contentWidth
	for i, ratio := range ratios {
		w := widthFor(rowHeight, ratio)
		if slacks != nil {
			w -= slacks[i]
		}
		w = min(available, w)

		c.sizes.Append(Size{Width: w, Height: rowHeight})
		c.rows.Append(row)
		available -= w
	}
	return dropped
}

func (c *Calculator) commitFullRow(row, pos int, ratio float64) {
	c.firstInRow.Append(pos)
	c.sizes.Append(Size{Width: c.contentWidth, Height: heightFor(c.contentWidth, math.Abs(ratio))})
	c.rows.Append(row)
}

// finalizeTail closes the row left open when a Bounded source runs out.
// Variable height tails keep the max row height instead of stretching.
func (c *Calculator) finalizeTail(row, first, rowWidth int) {
	if c.fixedHeight {
		c.commitRow(row, first, rowWidth, c.maxRowHeight, false)
		return
	}
	c.commitRow(row, first, 0, c.maxRowHeight, false)
}

// distributeRowSlack spreads rowWidth-contentWidth over the items in
// proportion to their natural widths. Negative slack widens items.
func (c *Calculator) distributeRowSlack(rowWidth int, ratios []float64) []int {
	c.slacks = c.slacks[:0]
	rowSlack := float64(rowWidth - c.contentWidth)
	for _, ratio := range ratios {
		var slack int
		if rowWidth > 0 {
			itemWidth := float64(c.maxRowHeight) * ratio
			slack = int(math.Floor(rowSlack * (itemWidth / float64(rowWidth))))
		}
		c.slacks = append(c.slacks, slack)
	}
	return c.slacks
}

func (c *Calculator) hasValidItemSlacks(slacks []int, ratios []float64) bool {
	for i, slack := range slacks {
		itemWidth := int(ratios[i] * float64(c.maxRowHeight))
		if itemWidth <= 0 {
			continue
		}
		if float64(itemWidth-slack)/float64(itemWidth) <= validItemSlackThreshold {
			return false
		}
	}
	return true
}

func widthFor(height int, ratio float64) int {
	return ceilInt(float64(height) * ratio)
}

// heightFor returns math.MaxInt for an empty or degenerate row.
func heightFor(width int, ratio float64) int {
	if ratio <= 0 {
		return math.MaxInt
	}
	return ceilInt(float64(width) / ratio)
}

func ceilInt(v float64) int {
	v = math.Ceil(v)
	if v >= math.MaxInt || math.IsNaN(v) {
		return math.MaxInt
	}
	return int(v)
}

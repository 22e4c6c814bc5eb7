// Package rowpack computes justified grid layouts.
//
// Given an ordered sequence of items with known aspect ratios, a Calculator
// greedily packs items left to right into rows whose widths add up to a
// target content width, with the row height bounded by a maximum. It is the
// sizing core of a photo grid shown in a scrolling list.
//
// # Quick Start
//
//	calc := rowpack.New(rowpack.Ratios{1.5, 0.75, 1, 1.33, 2},
//	    rowpack.WithContentWidth(1080),
//	    rowpack.WithMaxRowHeight(400),
//	)
//	size, err := calc.SizeForPosition(3)
//	row, err := calc.RowForPosition(3)
//	first, err := calc.FirstPositionForRow(row)
//
// # Modes
//
// In variable height mode (the default) a row closes as soon as its height,
// ceil(contentWidth / sum of ratios), drops to the max row height. Item
// widths are rounded up and the last item absorbs the rounding so the row
// never exceeds the content width.
//
// In fixed height mode every row is max row height tall. A row closes once
// its natural width exceeds the content width; the excess (or deficit) is
// distributed as per-item slack. If any item would lose a third or more of
// its natural width, the last item moves to the next row, once.
//
// # Full-row items
//
// A negative aspect ratio marks a full-row item. It forces a row break and
// occupies a row of its own at the content width, sized by the absolute
// ratio. Items cut short by a full-row item are capped to three quarters of
// the max row height.
//
// # Incremental computation
//
// Queries extend memo tables on demand and always close the row in
// progress, so every returned size belongs to a fully packed row. Tables are
// append-only and prefix-complete; any configuration change clears them.
package rowpack

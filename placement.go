package rowpack

import (
	"image"
	"sort"
)

// IsRowStart reports whether pos is the leftmost item of its row.
func (c *Calculator) IsRowStart(pos int) (bool, error) {
	row, err := c.RowForPosition(pos)
	if err != nil {
		return false, err
	}
	first, err := c.FirstPositionForRow(row)
	if err != nil {
		return false, err
	}
	return first == pos, nil
}

// RowHeight returns the pixel height shared by the items of row.
func (c *Calculator) RowHeight(row int) (int, error) {
	first, err := c.FirstPositionForRow(row)
	if err != nil {
		return 0, err
	}
	s, err := c.SizeForPosition(first)
	if err != nil {
		return 0, err
	}
	return s.Height, nil
}

// RectForPosition returns the rectangle of pos in content coordinates, with
// rows stacked top to bottom and items placed left to right.
func (c *Calculator) RectForPosition(pos int) (image.Rectangle, error) {
	row, err := c.RowForPosition(pos)
	if err != nil {
		return image.Rectangle{}, err
	}
	first, err := c.FirstPositionForRow(row)
	if err != nil {
		return image.Rectangle{}, err
	}
	top, err := c.rowTop(row)
	if err != nil {
		return image.Rectangle{}, err
	}

	left := 0
	for _, s := range c.sizes.Slice(first, pos) {
		left += s.Width
	}
	s, _ := c.sizes.Get(pos)
	return image.Rect(left, top, left+s.Width, top+s.Height), nil
}

// RowAtOffset returns the row covering the vertical content offset y.
// Offsets above the content map to row 0.
func (c *Calculator) RowAtOffset(y int) (int, error) {
	if y < 0 {
		y = 0
	}
	for {
		n := c.rowTops.Len()
		if n > 0 {
			lastTop, _ := c.rowTops.Last()
			h, err := c.RowHeight(n - 1)
			if err != nil {
				return 0, err
			}
			if y < lastTop+h {
				break
			}
		}
		if _, err := c.rowTop(n); err != nil {
			return 0, err
		}
	}
	tops := c.rowTops.Slice(0, c.rowTops.Len())
	return sort.Search(len(tops), func(i int) bool { return tops[i] > y }) - 1, nil
}

// rowTop extends the row top table through row. Rows past the end of a
// Bounded source yield an OutOfRangeError.
func (c *Calculator) rowTop(row int) (int, error) {
	for c.rowTops.Len() <= row {
		r := c.rowTops.Len()
		if _, err := c.FirstPositionForRow(r); err != nil {
			return 0, err
		}
		top := 0
		if r > 0 {
			prev, _ := c.rowTops.Get(r - 1)
			h, err := c.RowHeight(r - 1)
			if err != nil {
				return 0, err
			}
			top = prev + h
		}
		c.rowTops.Append(top)
	}
	top, _ := c.rowTops.Get(row)
	return top, nil
}

package rowpack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rowpack/testutil"
)

func sizesOf(t *testing.T, c *Calculator, n int) []Size {
	t.Helper()
	out := make([]Size, n)
	for i := range out {
		s, err := c.SizeForPosition(i)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func rowsOf(t *testing.T, c *Calculator, n int) []int {
	t.Helper()
	out := make([]int, n)
	for i := range out {
		r, err := c.RowForPosition(i)
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func TestCalculator_Errors(t *testing.T) {
	t.Run("content width not set", func(t *testing.T) {
		c := New(Ratios{1})

		_, err := c.SizeForPosition(0)
		require.ErrorIs(t, err, ErrContentWidthNotSet)
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = c.RowForPosition(0)
		assert.ErrorIs(t, err, ErrContentWidthNotSet)

		_, err = c.FirstPositionForRow(0)
		assert.ErrorIs(t, err, ErrContentWidthNotSet)
	})

	t.Run("no ratio source", func(t *testing.T) {
		c := New(nil, WithContentWidth(1000))

		_, err := c.SizeForPosition(0)
		require.ErrorIs(t, err, ErrNoRatioSource)
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = c.FirstPositionForRow(0)
		assert.ErrorIs(t, err, ErrNoRatioSource)
	})

	t.Run("unset width", func(t *testing.T) {
		c := New(Ratios{1}, WithContentWidth(1000))
		c.SetContentWidth(0)
		_, err := c.SizeForPosition(0)
		assert.ErrorIs(t, err, ErrContentWidthNotSet)
	})

	t.Run("out of range", func(t *testing.T) {
		c := New(Ratios{1, 1, 1}, WithContentWidth(1000), WithMaxRowHeight(400))

		_, err := c.SizeForPosition(3)
		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, RangePosition, oor.Kind)
		assert.Equal(t, 3, oor.Index)
		assert.Equal(t, 3, oor.Len)

		_, err = c.SizeForPosition(-1)
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, -1, oor.Index)

		_, err = c.FirstPositionForRow(1)
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, RangeRow, oor.Kind)
		assert.Equal(t, 1, oor.Len)
		assert.Equal(t, "row 1 out of range [0, 1)", oor.Error())
	})
}

func TestCalculator_VariableHeight(t *testing.T) {
	t.Run("three squares below cap", func(t *testing.T) {
		c := New(Ratios{1, 1, 1}, WithContentWidth(1000), WithMaxRowHeight(400))

		assert.Equal(t, []Size{{334, 334}, {334, 334}, {332, 334}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 0, 0}, rowsOf(t, c, 3))
	})

	t.Run("two squares reach cap exactly", func(t *testing.T) {
		c := New(Ratios{1, 1, 1}, WithContentWidth(1000), WithMaxRowHeight(500))

		// ceil(1000/2) == 500 closes the row; the third square is a short tail.
		assert.Equal(t, []Size{{500, 500}, {500, 500}, {500, 500}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 0, 1}, rowsOf(t, c, 3))
	})

	t.Run("query closes the open row", func(t *testing.T) {
		c := New(AspectRatioFunc(func(int) float64 { return 1 }),
			WithContentWidth(1000), WithMaxRowHeight(400))

		_, err := c.SizeForPosition(0)
		require.NoError(t, err)

		positions, rows := c.Computed()
		assert.Equal(t, 3, positions)
		assert.Equal(t, 1, rows)

		_, err = c.SizeForPosition(4)
		require.NoError(t, err)
		positions, rows = c.Computed()
		assert.Equal(t, 6, positions)
		assert.Equal(t, 2, rows)
	})

	t.Run("mixed ratios", func(t *testing.T) {
		// 1.5+0.5 = 2 -> 500 > 400; +2 = 4 -> 250 closes.
		c := New(Ratios{1.5, 0.5, 2, 1, 3}, WithContentWidth(1000), WithMaxRowHeight(400))

		got := sizesOf(t, c, 3)
		assert.Equal(t, []Size{{375, 250}, {125, 250}, {500, 250}}, got)

		// Tail: 1+3 = 4 -> 250 closes as a regular row.
		assert.Equal(t, []Size{{250, 250}, {750, 250}}, sizesOf(t, c, 5)[3:])
		assert.Equal(t, []int{0, 0, 0, 1, 1}, rowsOf(t, c, 5))
	})
}

func TestCalculator_FixedHeight(t *testing.T) {
	t.Run("shrinks overflowing row", func(t *testing.T) {
		c := New(Ratios{4, 4, 4}, WithContentWidth(1000), WithMaxRowHeight(100), WithFixedHeight(true))

		// 1200 natural, slack floor(200*400/1200) = 66 each.
		assert.Equal(t, []Size{{334, 100}, {334, 100}, {332, 100}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 0, 0}, rowsOf(t, c, 3))
	})

	t.Run("narrow items terminate at end of input", func(t *testing.T) {
		c := New(Ratios{0.2, 0.2, 0.2, 0.2, 0.2},
			WithContentWidth(1000), WithMaxRowHeight(500), WithFixedHeight(true))

		got := sizesOf(t, c, 5)
		sum := 0
		for _, s := range got {
			assert.Equal(t, 500, s.Height)
			assert.InDelta(t, 200, s.Width, 1)
			sum += s.Width
		}
		assert.Equal(t, 1000, sum)
		assert.Equal(t, []int{0, 0, 0, 0, 0}, rowsOf(t, c, 5))

		positions, rows := c.Computed()
		assert.Equal(t, 5, positions)
		assert.Equal(t, 1, rows)
	})

	t.Run("drops last item once", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		c := New(Ratios{5, 5, 9, 1},
			WithContentWidth(1000), WithMaxRowHeight(100), WithFixedHeight(true),
			WithMetricsCollector(metrics))

		// 500+500+900 overflows by 900; the 500 items would lose 236px each.
		// The 900 item moves down and the shortened row fits exactly.
		got := sizesOf(t, c, 4)
		assert.Equal(t, []Size{{500, 100}, {500, 100}, {900, 100}, {100, 100}}, got)
		assert.Equal(t, []int{0, 0, 1, 1}, rowsOf(t, c, 4))

		first, err := c.FirstPositionForRow(1)
		require.NoError(t, err)
		assert.Equal(t, 2, first)

		stats := metrics.GetStats()
		assert.Equal(t, int64(1), stats.CorrectionCount)
		assert.Equal(t, int64(0), stats.CorrectionsRejected)
	})

	t.Run("dropped item alone is stretched", func(t *testing.T) {
		c := New(Ratios{5, 5, 9},
			WithContentWidth(1000), WithMaxRowHeight(100), WithFixedHeight(true))

		assert.Equal(t, []Size{{500, 100}, {500, 100}, {1000, 100}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 0, 1}, rowsOf(t, c, 3))
	})

	t.Run("correction is applied once even if still out of bounds", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		c := New(Ratios{1, 30, 1},
			WithContentWidth(1000), WithMaxRowHeight(100), WithFixedHeight(true),
			WithMetricsCollector(metrics))

		// Row 1 is [30, 1]; dropping the 1 still leaves the panorama at a third
		// of its natural width. The shortened row is kept as is.
		assert.Equal(t, []Size{{1000, 100}, {1000, 100}, {1000, 100}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 1, 2}, rowsOf(t, c, 3))

		stats := metrics.GetStats()
		assert.Equal(t, int64(2), stats.CorrectionCount)
		assert.Equal(t, int64(1), stats.CorrectionsRejected)
	})

	t.Run("single wide item is not dropped", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		c := New(Ratios{30, 1},
			WithContentWidth(1000), WithMaxRowHeight(100), WithFixedHeight(true),
			WithMetricsCollector(metrics))

		// The panorama overflows on its own and is shrunk to the content width.
		assert.Equal(t, []Size{{1000, 100}, {1000, 100}}, sizesOf(t, c, 2))
		assert.Equal(t, []int{0, 1}, rowsOf(t, c, 2))
		assert.Equal(t, int64(0), metrics.GetStats().CorrectionCount)
	})
}

func TestCalculator_FullRowItems(t *testing.T) {
	t.Run("forces break and own row", func(t *testing.T) {
		c := New(Ratios{1, 1, -2, 1, 1, 1}, WithContentWidth(1000), WithMaxRowHeight(400))

		s, err := c.SizeForPosition(2)
		require.NoError(t, err)
		assert.Equal(t, Size{1000, 500}, s)

		// Items cut short by the full-row item are capped at ceil(0.75*400).
		assert.Equal(t, []Size{{300, 300}, {300, 300}}, sizesOf(t, c, 2))
		assert.Equal(t, []int{0, 0, 1, 2, 2, 2}, rowsOf(t, c, 6))

		for row, want := range []int{0, 2, 3} {
			first, err := c.FirstPositionForRow(row)
			require.NoError(t, err)
			assert.Equal(t, want, first, "row %d", row)
		}
	})

	t.Run("at position zero", func(t *testing.T) {
		c := New(Ratios{-2, 1, 1, 1}, WithContentWidth(1000), WithMaxRowHeight(400))

		s, err := c.SizeForPosition(0)
		require.NoError(t, err)
		assert.Equal(t, Size{1000, 500}, s)
		assert.Equal(t, []int{0, 1, 1, 1}, rowsOf(t, c, 4))
	})

	t.Run("consecutive", func(t *testing.T) {
		c := New(Ratios{-1, -4, 2}, WithContentWidth(800), WithMaxRowHeight(400))

		assert.Equal(t, []Size{{800, 800}, {800, 200}, {800, 400}}, sizesOf(t, c, 3))
		assert.Equal(t, []int{0, 1, 2}, rowsOf(t, c, 3))
	})

	t.Run("fixed height", func(t *testing.T) {
		c := New(Ratios{2, -2, 2, 2, 2},
			WithContentWidth(1000), WithMaxRowHeight(200), WithFixedHeight(true))

		s, err := c.SizeForPosition(1)
		require.NoError(t, err)
		assert.Equal(t, Size{1000, 500}, s)

		rows := rowsOf(t, c, 5)
		assert.Equal(t, []int{0, 1}, rows[:2])
		assert.NotEqual(t, rows[1], rows[2])
	})

	t.Run("random sentinels", func(t *testing.T) {
		rng := testutil.NewRNG(3)
		ratios := rng.Ratios(400, 0.5, 2)
		marked := rng.MarkFullRows(ratios, 0.05)
		require.NotEmpty(t, marked)

		for _, fixed := range []bool{false, true} {
			c := New(Ratios(ratios), WithContentWidth(1200), WithMaxRowHeight(300), WithFixedHeight(fixed))
			for _, k := range marked {
				s, err := c.SizeForPosition(k)
				require.NoError(t, err)
				assert.Equal(t, 1200, s.Width)

				start, err := c.IsRowStart(k)
				require.NoError(t, err)
				assert.True(t, start)

				if k+1 < len(ratios) {
					next, err := c.IsRowStart(k + 1)
					require.NoError(t, err)
					assert.True(t, next, "item after full-row item %d starts a row", k)
				}
				if k == 0 {
					continue
				}
				rk, err := c.RowForPosition(k)
				require.NoError(t, err)
				rp, err := c.RowForPosition(k - 1)
				require.NoError(t, err)
				assert.NotEqual(t, rk, rp)
			}
		}
	})
}

func TestCalculator_FirstPositionForRow(t *testing.T) {
	ones := AspectRatioFunc(func(int) float64 { return 1 })

	c := New(ones, WithContentWidth(1000), WithMaxRowHeight(400))

	first, err := c.FirstPositionForRow(2)
	require.NoError(t, err)
	assert.Equal(t, 6, first)

	// One row of lookahead per step: rows 0, 1 and 2 are closed.
	positions, rows := c.Computed()
	assert.Equal(t, 9, positions)
	assert.Equal(t, 3, rows)

	first, err = c.FirstPositionForRow(0)
	require.NoError(t, err)
	assert.Equal(t, 0, first)
}

func TestCalculator_SourceQueriedOnce(t *testing.T) {
	rng := testutil.NewRNG(11)
	ratios := rng.Ratios(2000, 0.4, 2.5)
	rng.MarkFullRows(ratios, 0.02)

	for _, fixed := range []bool{false, true} {
		src := testutil.NewCallCounter(ratios)
		c := New(src, WithContentWidth(1440), WithMaxRowHeight(320), WithFixedHeight(fixed))

		for _, pos := range []int{10, 3, 250, 251, 100, 900} {
			_, err := c.SizeForPosition(pos)
			require.NoError(t, err)
		}
		for _, row := range []int{0, 5, 40, 2} {
			_, err := c.FirstPositionForRow(row)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, src.MaxCalls(), "fixed=%v", fixed)
	}
}

func TestCalculator_PrefixConsistency(t *testing.T) {
	rng := testutil.NewRNG(5)
	ratios := rng.Ratios(1500, 0.3, 3)
	rng.MarkFullRows(ratios, 0.03)

	for _, fixed := range []bool{false, true} {
		sequential := New(AspectRatioFunc(func(i int) float64 { return ratios[i] }),
			WithContentWidth(1080), WithMaxRowHeight(280), WithFixedHeight(fixed))
		want := sizesOf(t, sequential, 1000)
		wantRows := rowsOf(t, sequential, 1000)

		random := New(AspectRatioFunc(func(i int) float64 { return ratios[i] }),
			WithContentWidth(1080), WithMaxRowHeight(280), WithFixedHeight(fixed))
		queryRNG := testutil.NewRNG(9)
		for range 200 {
			switch queryRNG.Intn(3) {
			case 0:
				_, err := random.SizeForPosition(queryRNG.Intn(1000))
				require.NoError(t, err)
			case 1:
				_, err := random.RowForPosition(queryRNG.Intn(1000))
				require.NoError(t, err)
			default:
				_, err := random.FirstPositionForRow(queryRNG.Intn(50))
				require.NoError(t, err)
			}
		}

		assert.Equal(t, want, sizesOf(t, random, 1000), "fixed=%v", fixed)
		assert.Equal(t, wantRows, rowsOf(t, random, 1000), "fixed=%v", fixed)
	}
}

func TestCalculator_RowWidthBounds(t *testing.T) {
	rng := testutil.NewRNG(21)
	ratios := rng.Ratios(3000, 0.5, 2)
	src := AspectRatioFunc(func(i int) float64 { return ratios[i] })

	t.Run("variable", func(t *testing.T) {
		const cw = 1000
		c := New(src, WithContentWidth(cw), WithMaxRowHeight(300))
		checkRows(t, c, 2000, func(t *testing.T, row int, widths []int, height int) {
			sum := sumInts(widths)
			assert.LessOrEqual(t, sum, cw, "row %d", row)
			assert.Less(t, cw-sum, len(widths), "row %d", row)
			assert.LessOrEqual(t, height, 300, "row %d", row)
		})
	})

	t.Run("fixed", func(t *testing.T) {
		const cw = 1000
		c := New(src, WithContentWidth(cw), WithMaxRowHeight(200), WithFixedHeight(true))
		checkRows(t, c, 2000, func(t *testing.T, row int, widths []int, height int) {
			sum := sumInts(widths)
			assert.LessOrEqual(t, sum, cw, "row %d", row)
			assert.GreaterOrEqual(t, sum, cw-1, "row %d", row)
			assert.Equal(t, 200, height, "row %d", row)
		})
	})
}

func checkRows(t *testing.T, c *Calculator, n int, check func(t *testing.T, row int, widths []int, height int)) {
	t.Helper()
	var (
		row    = -1
		widths []int
		height int
	)
	for pos := 0; pos < n; pos++ {
		r, err := c.RowForPosition(pos)
		require.NoError(t, err)
		s, err := c.SizeForPosition(pos)
		require.NoError(t, err)
		if r != row {
			if row >= 0 {
				check(t, row, widths, height)
			}
			row, widths, height = r, widths[:0], s.Height
		}
		assert.Equal(t, height, s.Height)
		widths = append(widths, s.Width)
	}
}

func sumInts(v []int) int {
	sum := 0
	for _, x := range v {
		sum += x
	}
	return sum
}

func TestCalculator_Idempotent(t *testing.T) {
	c := New(Ratios{1.2, 0.8, 1.5, 0.66, 1, 2, 0.75}, WithContentWidth(900), WithMaxRowHeight(250))

	for pos := 0; pos < 7; pos++ {
		a, err := c.SizeForPosition(pos)
		require.NoError(t, err)
		b, err := c.SizeForPosition(pos)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		ra, err := c.RowForPosition(pos)
		require.NoError(t, err)
		rb, err := c.RowForPosition(pos)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestCalculator_Configuration(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := New(Ratios{1})
		assert.Equal(t, 0, c.ContentWidth())
		assert.Equal(t, DefaultMaxRowHeight, c.MaxRowHeight())
		assert.False(t, c.FixedHeight())

		c = New(Ratios{1}, WithMaxRowHeight(-3))
		assert.Equal(t, DefaultMaxRowHeight, c.MaxRowHeight())
	})

	t.Run("unchanged values keep tables", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		ones := AspectRatioFunc(func(int) float64 { return 1 })
		c := New(ones, WithContentWidth(1000), WithMaxRowHeight(400), WithMetricsCollector(metrics))

		_, err := c.SizeForPosition(10)
		require.NoError(t, err)
		before, _ := c.Computed()

		c.SetContentWidth(1000)
		c.SetMaxRowHeight(400)
		c.SetFixedHeight(false)

		after, _ := c.Computed()
		assert.Equal(t, before, after)
		assert.Equal(t, int64(0), metrics.GetStats().ResetCount)
	})

	t.Run("changes reset tables", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		ones := AspectRatioFunc(func(int) float64 { return 1 })
		c := New(ones, WithContentWidth(1000), WithMaxRowHeight(400), WithMetricsCollector(metrics))

		s, err := c.SizeForPosition(0)
		require.NoError(t, err)
		assert.Equal(t, Size{334, 334}, s)

		c.SetContentWidth(500)
		positions, rows := c.Computed()
		assert.Zero(t, positions)
		assert.Zero(t, rows)

		s, err = c.SizeForPosition(0)
		require.NoError(t, err)
		assert.Equal(t, Size{250, 250}, s)

		c.SetMaxRowHeight(300)
		c.SetFixedHeight(true)
		c.Reset()
		c.SetSource(Ratios{2})
		assert.Equal(t, int64(5), metrics.GetStats().ResetCount)

		s, err = c.SizeForPosition(0)
		require.NoError(t, err)
		assert.Equal(t, Size{500, 300}, s)
	})
}

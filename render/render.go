// Package render paints a computed grid into an image, as a preview of how a
// list view would lay out the items.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// DefaultSpacing is the gap between cells when no spacing is configured.
const DefaultSpacing = 8

var defaultPalette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948"}

// Layout is the part of a rowpack.Calculator the renderer reads.
type Layout interface {
	ContentWidth() int
	RowForPosition(pos int) (int, error)
	IsRowStart(pos int) (bool, error)
	RectForPosition(pos int) (image.Rectangle, error)
}

// ImageFunc returns the picture for pos. A nil image paints a placeholder.
type ImageFunc func(pos int) (image.Image, error)

// Cell returns the painted area of pos: its layout rectangle minus the
// spacing insets. Every cell loses spacing on its right and bottom edge,
// cells of the first row also on top and row starts also on the left, so
// gaps are equal between cells and along the edges.
func Cell(l Layout, pos, spacing int) (image.Rectangle, error) {
	r, err := l.RectForPosition(pos)
	if err != nil {
		return image.Rectangle{}, err
	}
	row, err := l.RowForPosition(pos)
	if err != nil {
		return image.Rectangle{}, err
	}
	start, err := l.IsRowStart(pos)
	if err != nil {
		return image.Rectangle{}, err
	}

	if row == 0 {
		r.Min.Y += spacing
	}
	if start {
		r.Min.X += spacing
	}
	r.Max.X -= spacing
	r.Max.Y -= spacing
	return r, nil
}

// Render paints the first n positions of l.
func Render(l Layout, n int, optFns ...Option) (image.Image, error) {
	opts := applyOptions(optFns)

	height := 0
	if n > 0 {
		last, err := l.RectForPosition(n - 1)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		height = last.Max.Y
	}

	dc := gg.NewContext(l.ContentWidth(), height)
	dc.SetColor(opts.background)
	dc.Clear()

	for pos := range n {
		cell, err := Cell(l, pos, opts.spacing)
		if err != nil {
			return nil, fmt.Errorf("render position %d: %w", pos, err)
		}
		if cell.Empty() {
			continue
		}

		var img image.Image
		if opts.images != nil {
			if img, err = opts.images(pos); err != nil {
				return nil, fmt.Errorf("render position %d: %w", pos, err)
			}
		}
		if img == nil {
			dc.SetHexColor(opts.palette[pos%len(opts.palette)])
			dc.DrawRectangle(float64(cell.Min.X), float64(cell.Min.Y), float64(cell.Dx()), float64(cell.Dy()))
			dc.Fill()
			continue
		}
		drawScaled(dc, img, cell)
	}

	return dc.Image(), nil
}

func drawScaled(dc *gg.Context, img image.Image, cell image.Rectangle) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	dc.Push()
	defer dc.Pop()

	dc.Translate(float64(cell.Min.X), float64(cell.Min.Y))
	dc.Scale(float64(cell.Dx())/float64(b.Dx()), float64(cell.Dy())/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}

// LoadImage decodes the image at path.
func LoadImage(path string) (image.Image, error) {
	return gg.LoadImage(path)
}

type options struct {
	spacing    int
	background color.Color
	palette    []string
	images     ImageFunc
}

// Option configures Render.
type Option func(*options)

// WithSpacing sets the gap between cells in pixels. Negative values are
// treated as zero.
func WithSpacing(px int) Option {
	return func(o *options) {
		o.spacing = max(px, 0)
	}
}

// WithBackground sets the color shown in the gaps.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithPalette sets the hex colors cycled through for placeholder cells.
func WithPalette(hex ...string) Option {
	return func(o *options) {
		o.palette = hex
	}
}

// WithImages paints the picture returned by fn into each cell, scaled to fit.
func WithImages(fn ImageFunc) Option {
	return func(o *options) {
		o.images = fn
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		spacing:    DefaultSpacing,
		background: color.White,
		palette:    defaultPalette,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if len(o.palette) == 0 {
		o.palette = defaultPalette
	}
	if o.background == nil {
		o.background = color.White
	}
	return o
}

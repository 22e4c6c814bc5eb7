package imagesource

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/RoaringBitmap/roaring/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of files decoded at once.
const DefaultConcurrency = 16

// ErrEmptyImage is returned for images with a zero dimension.
var ErrEmptyImage = errors.New("image has no pixels")

var extensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".webp": {},
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Entry describes one image.
type Entry struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// AspectRatio returns Width/Height.
func (e Entry) AspectRatio() float64 {
	if e.Height == 0 {
		return 1
	}
	return float64(e.Width) / float64(e.Height)
}

// Source serves aspect ratios for a fixed list of images. It implements
// rowpack.AspectRatioSource and rowpack.Bounded.
type Source struct {
	entries []Entry
	fullRow *roaring.Bitmap
}

// New creates a Source from known entries. Positions listed in fullRow are
// reported as full-row items.
func New(entries []Entry, fullRow ...int) *Source {
	s := &Source{
		entries: entries,
		fullRow: roaring.New(),
	}
	for _, i := range fullRow {
		if i >= 0 {
			s.fullRow.Add(uint32(i))
		}
	}
	return s
}

// AspectRatioForIndex returns the aspect ratio of the image at index,
// negated for full-row items. Indices past the end report a square.
func (s *Source) AspectRatioForIndex(index int) float64 {
	if index < 0 || index >= len(s.entries) {
		return 1
	}
	r := s.entries[index].AspectRatio()
	if s.fullRow.Contains(uint32(index)) {
		return -r
	}
	return r
}

// Len returns the number of images.
func (s *Source) Len() int {
	return len(s.entries)
}

// Entry returns the image at index.
func (s *Source) Entry(index int) Entry {
	return s.entries[index]
}

// Entries returns all images in position order.
func (s *Source) Entries() []Entry {
	return s.entries
}

// IsFullRow reports whether the image at index takes a row of its own.
func (s *Source) IsFullRow(index int) bool {
	return index >= 0 && s.fullRow.Contains(uint32(index))
}

// FullRowCount returns the number of full-row images.
func (s *Source) FullRowCount() int {
	return int(s.fullRow.GetCardinality())
}

// Load reads the dimensions of the images at paths, keeping their order.
func Load(ctx context.Context, paths []string, optFns ...Option) (*Source, error) {
	opts := applyOptions(optFns)

	entries := make([]Entry, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, h, err := decodeSize(path)
			if err != nil {
				return err
			}
			entries[i] = Entry{Path: path, Width: w, Height: h}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(entries, opts.fullRow...), nil
}

// Dir loads all supported images directly inside dir, sorted by file name.
func Dir(ctx context.Context, dir string, optFns ...Option) (*Source, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() || !IsImage(de.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, de.Name()))
	}
	slices.Sort(paths)

	return Load(ctx, paths, optFns...)
}

func decodeSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}
	return cfg.Width, cfg.Height, nil
}

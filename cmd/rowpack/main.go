package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fulldump/goconfig"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/hupe1980/rowpack"
	"github.com/hupe1980/rowpack/imagesource"
	"github.com/hupe1980/rowpack/internal/compress"
	"github.com/hupe1980/rowpack/render"
)

var VERSION = "dev"

var errNoInput = errors.New("either -ratios or -dir is required")

func main() {
	c := Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowConfig {
		_ = json.MarshalWrite(os.Stdout, c, jsontext.WithIndent("    "))
		fmt.Println()
	}

	logger, err := newLogger(c.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rowpack:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, c, os.Stdout, logger)
	stop()
	if err != nil {
		logger.Error("rowpack failed", "error", err)
		os.Exit(1)
	}
}

// Item is the placement of one position in the output document.
type Item struct {
	Position int    `json:"position"`
	Row      int    `json:"row"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FullRow  bool   `json:"full_row,omitzero"`
	Path     string `json:"path,omitempty"`
}

// Document is the layout written by the CLI.
type Document struct {
	ContentWidth int    `json:"content_width"`
	MaxRowHeight int    `json:"max_row_height"`
	FixedHeight  bool   `json:"fixed_height"`
	Rows         int    `json:"rows"`
	Height       int    `json:"height"`
	Items        []Item `json:"items"`
}

type source interface {
	rowpack.AspectRatioSource
	rowpack.Bounded
}

func run(ctx context.Context, c Configuration, stdout io.Writer, logger *rowpack.Logger) error {
	fullRow, err := parseInts(c.FullRow)
	if err != nil {
		return fmt.Errorf("full row positions: %w", err)
	}

	var (
		src    source
		images *imagesource.Source
	)
	switch {
	case c.Dir != "":
		images, err = imagesource.Dir(ctx, c.Dir,
			imagesource.WithConcurrency(c.Concurrency),
			imagesource.WithFullRow(fullRow...),
		)
		if err != nil {
			return err
		}
		src = images
	case c.Ratios != "":
		ratios, err := parseRatios(c.Ratios)
		if err != nil {
			return fmt.Errorf("ratios: %w", err)
		}
		for _, i := range fullRow {
			if i >= 0 && i < len(ratios) {
				ratios[i] = rowpack.FullRow(ratios[i])
			}
		}
		src = ratios
	default:
		return errNoInput
	}

	metrics := &rowpack.BasicMetricsCollector{}
	calc := rowpack.New(src,
		rowpack.WithContentWidth(c.Width),
		rowpack.WithMaxRowHeight(c.MaxRowHeight),
		rowpack.WithFixedHeight(c.Fixed),
		rowpack.WithMetricsCollector(metrics),
		rowpack.WithLogger(logger.WithContentWidth(c.Width)),
	)

	start := time.Now()
	doc, err := layout(calc, src)
	if err != nil {
		return err
	}
	if images != nil {
		for i := range doc.Items {
			doc.Items[i].Path = images.Entry(i).Path
		}
	}

	if err := writeDocument(c.Out, stdout, doc); err != nil {
		return err
	}

	if c.Png != "" {
		opts := []render.Option{render.WithSpacing(c.Spacing)}
		if c.Images && images != nil {
			opts = append(opts, render.WithImages(func(pos int) (image.Image, error) {
				return render.LoadImage(images.Entry(pos).Path)
			}))
		}
		img, err := render.Render(calc, src.Len(), opts...)
		if err != nil {
			return err
		}
		if err := render.SavePNG(c.Png, img); err != nil {
			return err
		}
	}

	stats := metrics.GetStats()
	logger.InfoContext(ctx, "layout computed",
		"items", len(doc.Items),
		"rows", doc.Rows,
		"height", doc.Height,
		"extensions", stats.ExtendCount,
		"corrections", stats.CorrectionCount,
		"took", time.Since(start),
	)
	return nil
}

func layout(calc *rowpack.Calculator, src source) (Document, error) {
	doc := Document{
		ContentWidth: calc.ContentWidth(),
		MaxRowHeight: calc.MaxRowHeight(),
		FixedHeight:  calc.FixedHeight(),
		Items:        make([]Item, 0, src.Len()),
	}
	for pos := range src.Len() {
		row, err := calc.RowForPosition(pos)
		if err != nil {
			return Document{}, err
		}
		rect, err := calc.RectForPosition(pos)
		if err != nil {
			return Document{}, err
		}
		doc.Items = append(doc.Items, Item{
			Position: pos,
			Row:      row,
			X:        rect.Min.X,
			Y:        rect.Min.Y,
			Width:    rect.Dx(),
			Height:   rect.Dy(),
			FullRow:  src.AspectRatioForIndex(pos) < 0,
		})
		doc.Rows = row + 1
		doc.Height = max(doc.Height, rect.Max.Y)
	}
	return doc, nil
}

func writeDocument(path string, stdout io.Writer, doc Document) (err error) {
	if path == "" {
		return json.MarshalWrite(stdout, doc, jsontext.WithIndent("  "))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := compress.NewWriter(f, compress.KindFromPath(path))
	if err != nil {
		return err
	}
	if err := json.MarshalWrite(w, doc, jsontext.WithIndent("  ")); err != nil {
		_ = w.Close()
		return fmt.Errorf("write layout: %w", err)
	}
	return w.Close()
}

func newLogger(level string) (*rowpack.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return rowpack.NewTextLogger(l), nil
}

func parseRatios(s string) (rowpack.Ratios, error) {
	fields := splitList(s)
	ratios := make(rowpack.Ratios, 0, len(fields))
	for _, f := range fields {
		r, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, fmt.Errorf("ratio %q must not be zero", f)
		}
		ratios = append(ratios, r)
	}
	return ratios, nil
}

func parseInts(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

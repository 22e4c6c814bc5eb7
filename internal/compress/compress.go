// Package compress wraps output streams with zstd or lz4 compression chosen by
// file suffix.
package compress

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind defines the compression algorithm used.
type Kind uint8

const (
	// None writes the stream unchanged.
	None Kind = iota
	// LZ4 uses the lz4 frame format (fast).
	LZ4
	// ZSTD uses zstd (better ratio).
	ZSTD
)

// ErrUnknownKind is returned for an unsupported Kind.
var ErrUnknownKind = errors.New("unknown compression kind")

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

// KindFromPath picks the compression from the file suffix: ".zst" selects
// zstd, ".lz4" selects lz4, anything else none.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return ZSTD
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// NewWriter wraps w. Close flushes the compressed stream but does not close w.
func NewWriter(w io.Writer, kind Kind) (io.WriteCloser, error) {
	switch kind {
	case None:
		return nopCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		// Level 3 balances compression ratio vs speed
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, ErrUnknownKind
	}
}

// NewReader wraps r to decompress a stream written by NewWriter.
func NewReader(r io.Reader, kind Kind) (io.ReadCloser, error) {
	switch kind {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case ZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, ErrUnknownKind
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

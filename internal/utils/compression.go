package utils

import (
	"bufio"
	"fmt"
	"io"

	"github.com/h2non/filetype/matchers"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is the compression format of a pacman database or package stream
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionXz
)

// headerSize is the number of leading bytes inspected for magic numbers
const headerSize = 262

// String returns the string representation of Compression
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionXz:
		return "xz"
	default:
		return "none"
	}
}

// DetectCompression determines the compression format from the leading bytes of a stream
func DetectCompression(header []byte) Compression {
	switch {
	case matchers.Archive[matchers.TypeZstd](header):
		return CompressionZstd
	case matchers.Archive[matchers.TypeXz](header):
		return CompressionXz
	case matchers.Archive[matchers.TypeGz](header):
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// NewDecompressingReader wraps r in a decompressor chosen by sniffing its magic bytes.
// Uncompressed streams are passed through. The returned closer releases decoder resources
// and does not close r.
func NewDecompressingReader(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(headerSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, err
	}

	switch DetectCompression(header) {
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	case CompressionXz:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return xr, func() {}, nil
	case CompressionGzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gr, func() { gr.Close() }, nil
	default:
		return br, func() {}, nil
	}
}

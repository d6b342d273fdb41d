package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// BrotliCodec compresses with Brotli at levels 0-11.
type BrotliCodec struct {
	level int
}

var _ Codec = (*BrotliCodec)(nil)

// NewBrotliCodec creates a new Brotli codec at the given level (0-11).
func NewBrotliCodec(level int) BrotliCodec {
	return BrotliCodec{level: level}
}

// Compress compresses the input data using Brotli.
func (c BrotliCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, c.level)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("brotli compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses Brotli data.
func (c BrotliCodec) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}

	return out, nil
}

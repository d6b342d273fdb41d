package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriterPools holds one writer pool per level (0-9); a zlib.Writer cannot
// change level after creation.
var zlibWriterPools [10]sync.Pool

func init() {
	for level := range zlibWriterPools {
		zlibWriterPools[level].New = func() any {
			w, err := zlib.NewWriterLevel(nil, level)
			if err != nil {
				panic(fmt.Sprintf("failed to create zlib writer for pool: %v", err))
			}

			return w
		}
	}
}

// ZlibCodec produces standard zlib (RFC 1950) streams. Level 0 stores
// without compression, 9 compresses hardest.
type ZlibCodec struct {
	level int
}

var _ Codec = (*ZlibCodec)(nil)

// NewZlibCodec creates a new zlib codec at the given level (0-9).
func NewZlibCodec(level int) ZlibCodec {
	return ZlibCodec{level: level}
}

// Compress compresses the input data into a zlib stream.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, _ := zlibWriterPools[c.level].Get().(*zlib.Writer)
	defer zlibWriterPools[c.level].Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a zlib stream.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}

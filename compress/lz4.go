package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains a hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4HCPools pools high-compression compressors per level (1-9); their
// chain tables are large.
var lz4HCPools [10]sync.Pool

func init() {
	for level := 1; level < len(lz4HCPools); level++ {
		lz4HCPools[level].New = func() any {
			return &lz4.CompressorHC{Level: lz4.CompressionLevel(1 << (7 + level))}
		}
	}
}

// lz4MaxExpansion loosely bounds the decompressed/compressed ratio of a valid block.
const lz4MaxExpansion = 1024

var errLZ4BadHeader = errors.New("lz4: invalid size header")

// LZ4Codec compresses with LZ4 blocks. Level 0 selects the fast compressor;
// levels 1-9 select the high-compression compressor at the matching depth.
//
// Each payload is a uvarint holding the decompressed size followed by one
// LZ4 block, so decompression allocates exactly once.
type LZ4Codec struct {
	level int
}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 codec at the given level (0-9).
func NewLZ4Codec(level int) LZ4Codec {
	return LZ4Codec{level: level}
}

// Compress compresses the input data using LZ4 block compression.
//
// Returns nil for empty input.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := binary.AppendUvarint(nil, uint64(len(data)))
	header := len(dst)
	dst = append(dst, make([]byte, lz4.CompressBlockBound(len(data)))...)

	var (
		n   int
		err error
	)
	if c.level == 0 {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		n, err = lc.CompressBlock(data, dst[header:])
		lz4CompressorPool.Put(lc)
	} else {
		p := &lz4HCPools[c.level]
		hc, _ := p.Get().(*lz4.CompressorHC)
		n, err = hc.CompressBlock(data, dst[header:])
		p.Put(hc)
	}
	if err != nil {
		return nil, err
	}

	return dst[:header+n], nil
}

// Decompress decompresses a payload produced by Compress.
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, header := binary.Uvarint(data)
	if header <= 0 || size == 0 || size > uint64(len(data))*lz4MaxExpansion {
		return nil, errLZ4BadHeader
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[header:], buf)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, fmt.Errorf("lz4: decoded %d bytes, header declared %d", n, len(buf))
	}

	return buf, nil
}

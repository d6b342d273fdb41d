package sz

import (
	"encoding/binary"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lossbench/lossbench/endian"
	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
	"github.com/lossbench/lossbench/internal/hash"
	"github.com/lossbench/lossbench/internal/pool"
)

// Stream layout:
//
//	magic "LBSZ" | version | flags | algo | count (uvarint)
//	lossless: section(zstd(float32 LE bytes))
//	lossy:    eb f64 | alpha f64 | beta f64 | quantbinCnt | blockSize |
//	          anchorStride (varint) | interpAlgo | segment length | segment count |
//	          section(segment)...
//	xxHash64 of everything above, little-endian
const (
	magic         = "LBSZ"
	streamVersion = 1
	flagLossless  = 1 << 0
	trailerSize   = 8

	// defaultSegmentLen is the number of values coded independently.
	defaultSegmentLen = 1 << 16
	// maxCount bounds the value count a stream may declare.
	maxCount = 1 << 30
)

// segmentLength rounds the default segment length to whole blocks.
func segmentLength(blockSize int) int {
	if blockSize >= defaultSegmentLen {
		return blockSize
	}

	return defaultSegmentLen / blockSize * blockSize
}

// Compress encodes data under cfg.
//
// cfg is the caller's working copy: the resolved absolute bound is written
// back into cfg.AbsErrorBound and cfg.ErrorBoundMode becomes EBAbs. A resolved
// bound of zero, or AlgoLossless, stores data losslessly.
//
// Returns an error matching errs.ErrUnsupportedAlgorithm for algorithms the
// engine does not implement.
func Compress(cfg *Config, data []float32) ([]byte, error) {
	switch {
	case cfg.Algo == format.AlgoBioMD, cfg.Algo == format.AlgoBioMDXtc, cfg.Algo >= format.AlgorithmCount:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedAlgorithm, cfg.Algo)
	case cfg.QuantbinCnt <= 0:
		return nil, fmt.Errorf("quantization bin count %d must be positive", cfg.QuantbinCnt)
	case cfg.BlockSize <= 0:
		return nil, fmt.Errorf("block size %d must be positive", cfg.BlockSize)
	case cfg.InterpAlgo >= format.InterpAlgoCount:
		return nil, fmt.Errorf("unknown interpolation %s", cfg.InterpAlgo)
	}

	if err := resolveErrorBound(cfg, data); err != nil {
		return nil, err
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	lossless := cfg.Algo == format.AlgoLossless || cfg.AbsErrorBound == 0
	var flags byte
	if lossless {
		flags |= flagLossless
	}

	buf.MustWrite([]byte(magic))
	buf.MustWrite([]byte{streamVersion, flags, byte(cfg.Algo)})
	buf.B = binary.AppendUvarint(buf.B, uint64(len(data)))

	if lossless {
		raw := endian.AppendFloat32s(endian.GetLittleEndianEngine(), nil, data)
		z, err := entropyCodec().Compress(raw)
		if err != nil {
			return nil, err
		}
		appendSection(buf, z)
	} else if err := compressLossy(buf, cfg, data); err != nil {
		return nil, err
	}

	buf.B = binary.LittleEndian.AppendUint64(buf.B, hash.Sum64(buf.B))

	return append([]byte(nil), buf.B...), nil
}

func compressLossy(buf *pool.ByteBuffer, cfg *Config, data []float32) error {
	le := endian.GetLittleEndianEngine()
	buf.B = le.AppendUint64(buf.B, math.Float64bits(cfg.AbsErrorBound))
	buf.B = le.AppendUint64(buf.B, math.Float64bits(cfg.InterpAlpha))
	buf.B = le.AppendUint64(buf.B, math.Float64bits(cfg.InterpBeta))
	buf.B = binary.AppendUvarint(buf.B, uint64(cfg.QuantbinCnt))
	buf.B = binary.AppendUvarint(buf.B, uint64(cfg.BlockSize))
	buf.B = binary.AppendVarint(buf.B, int64(cfg.InterpAnchorStride))
	buf.MustWrite([]byte{byte(cfg.InterpAlgo)})

	segLen := segmentLength(cfg.BlockSize)
	nseg := (len(data) + segLen - 1) / segLen
	buf.B = binary.AppendUvarint(buf.B, uint64(segLen))
	buf.B = binary.AppendUvarint(buf.B, uint64(nseg))

	p := &params{cfg: cfg, eb: cfg.AbsErrorBound, cubic: cfg.InterpAlgo == format.InterpCubic}
	segments := make([][]byte, nseg)

	err := forEachSegment(cfg.OpenMP, nseg, func(k int) error {
		start := k * segLen
		seg, err := encodeBest(p, data[start:min(start+segLen, len(data))])
		if err != nil {
			return fmt.Errorf("segment %d: %w", k, err)
		}
		segments[k] = seg

		return nil
	})
	if err != nil {
		return err
	}

	for _, seg := range segments {
		appendSection(buf, seg)
	}

	return nil
}

// forEachSegment runs fn for every segment index, concurrently when parallel
// is set.
func forEachSegment(parallel bool, nseg int, fn func(k int) error) error {
	if !parallel || nseg < 2 {
		for k := range nseg {
			if err := fn(k); err != nil {
				return err
			}
		}

		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range nseg {
		g.Go(func() error { return fn(k) })
	}

	return g.Wait()
}

// Decompress decodes a stream produced by Compress.
//
// The parameters recorded in the stream are written into cfg, as Compress
// left them. cfg.OpenMP selects concurrent segment decoding.
//
// Returns an error matching errs.ErrChecksumMismatch when the trailer does not
// match, or errs.ErrCorruptStream when the stream is malformed.
func Decompress(cfg *Config, stream []byte) ([]float32, error) {
	if len(stream) < len(magic)+3+1+trailerSize {
		return nil, corrupt("stream of %d bytes is too short", len(stream))
	}

	body := stream[:len(stream)-trailerSize]
	if want := binary.LittleEndian.Uint64(stream[len(body):]); hash.Sum64(body) != want {
		return nil, errs.ErrChecksumMismatch
	}

	c := &cursor{data: body}
	head := c.bytes(uint64(len(magic)) + 3)
	if c.err != nil {
		return nil, c.err
	}
	if string(head[:len(magic)]) != magic {
		return nil, corrupt("bad magic %q", head[:len(magic)])
	}
	if head[4] != streamVersion {
		return nil, corrupt("unsupported stream version %d", head[4])
	}
	flags, algo := head[5], format.Algorithm(head[6])
	count := c.uvarint()
	if c.err != nil {
		return nil, c.err
	}
	if count > maxCount {
		return nil, corrupt("value count %d too large", count)
	}

	cfg.Algo = algo
	cfg.ErrorBoundMode = format.EBAbs

	if flags&flagLossless != 0 {
		cfg.AbsErrorBound = 0

		return decompressLossless(c, int(count))
	}

	return decompressLossy(c, cfg, int(count))
}

func decompressLossless(c *cursor, count int) ([]float32, error) {
	z := c.section()
	if c.err != nil {
		return nil, c.err
	}
	if c.off != len(c.data) {
		return nil, corrupt("%d trailing bytes", len(c.data)-c.off)
	}

	raw, err := entropyCodec().Decompress(z)
	if err != nil {
		return nil, fmt.Errorf("%w: entropy stage: %w", errs.ErrCorruptStream, err)
	}
	if len(raw) != count*format.ElementSize {
		return nil, corrupt("lossless payload holds %d bytes, want %d", len(raw), count*format.ElementSize)
	}

	return endian.Float32s(endian.GetLittleEndianEngine(), raw)
}

func decompressLossy(c *cursor, cfg *Config, count int) ([]float32, error) {
	fixed := c.bytes(24)
	quantbinCnt := c.uvarint()
	blockSize := c.uvarint()
	stride, n := binary.Varint(c.data[min(c.off, len(c.data)):])
	if c.err == nil && n <= 0 {
		c.err = corrupt("bad anchor stride")
	}
	c.off += max(n, 0)
	interp := c.bytes(1)
	segLen := c.uvarint()
	nseg := c.uvarint()
	if c.err != nil {
		return nil, c.err
	}

	le := endian.GetLittleEndianEngine()
	eb := math.Float64frombits(le.Uint64(fixed[0:]))
	switch {
	case !(eb > 0) || math.IsInf(eb, 0):
		return nil, corrupt("bad error bound %g", eb)
	case quantbinCnt == 0 || quantbinCnt > math.MaxInt32:
		return nil, corrupt("bad quantization bin count %d", quantbinCnt)
	case blockSize == 0 || blockSize > maxCount:
		return nil, corrupt("bad block size %d", blockSize)
	case format.InterpAlgo(interp[0]) >= format.InterpAlgoCount:
		return nil, corrupt("bad interpolation %d", interp[0])
	case segLen == 0 || segLen > maxCount:
		return nil, corrupt("bad segment length %d", segLen)
	case nseg != (uint64(count)+segLen-1)/segLen:
		return nil, corrupt("%d segments cannot hold %d values", nseg, count)
	}

	cfg.AbsErrorBound = eb
	cfg.InterpAlpha = math.Float64frombits(le.Uint64(fixed[8:]))
	cfg.InterpBeta = math.Float64frombits(le.Uint64(fixed[16:]))
	cfg.QuantbinCnt = int(quantbinCnt)
	cfg.BlockSize = int(blockSize)
	cfg.InterpAnchorStride = int(stride)
	cfg.InterpAlgo = format.InterpAlgo(interp[0])

	segments := make([][]byte, nseg)
	for k := range segments {
		segments[k] = c.section()
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.off != len(c.data) {
		return nil, corrupt("%d trailing bytes", len(c.data)-c.off)
	}

	out := make([]float32, count)
	p := &params{cfg: cfg, eb: eb, cubic: cfg.InterpAlgo == format.InterpCubic}
	sl := int(segLen)

	err := forEachSegment(cfg.OpenMP, len(segments), func(k int) error {
		start := k * sl
		if err := decodeSegment(p, segments[k], out[start:min(start+sl, count)]); err != nil {
			return fmt.Errorf("segment %d: %w", k, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

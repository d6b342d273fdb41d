package sz

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/lossbench/lossbench/compress"
	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
	"github.com/lossbench/lossbench/internal/encoding"
	"github.com/lossbench/lossbench/internal/pool"
)

// family is the prediction scheme a segment was coded with.
type family uint8

const (
	familyBlockwise family = iota
	familyInterp
	familyNoPred

	familyCount
)

// params is what both sides of a segment need.
type params struct {
	cfg   *Config
	eb    float64
	cubic bool
}

// segmentWriter collects the streams of one segment.
type segmentWriter struct {
	fam       family
	n         int
	codes     []int32
	outliers  *roaring.Bitmap
	outVals   *encoding.Float32XOREncoder
	selectors []byte
	coeffs    []float32
}

func newSegmentWriter(fam family, n int) *segmentWriter {
	return &segmentWriter{
		fam:      fam,
		n:        n,
		codes:    make([]int32, 0, n),
		outliers: roaring.New(),
		outVals:  encoding.NewFloat32XOREncoder(),
	}
}

// put quantizes orig and returns its reconstruction.
func (w *segmentWriter) put(pos int, orig float32, pred float64, q quantizer) float32 {
	code, recon, ok := q.quantize(orig, pred)
	if !ok {
		w.outliers.Add(uint32(pos)) //nolint:gosec // G115: segment positions fit uint32
		w.outVals.Write(orig)

		return orig
	}
	w.codes = append(w.codes, code)

	return recon
}

// finish serializes the segment and runs it through the entropy stage.
//
// Layout before entropy coding, all lengths uvarint:
//
//	family | n | selectors | coeff count, coeff stream | codes | bitmap | outlier values
func (w *segmentWriter) finish() ([]byte, error) {
	defer w.outVals.Finish()

	buf := pool.GetSegmentBuffer()
	defer pool.PutSegmentBuffer(buf)

	buf.MustWrite([]byte{byte(w.fam)})
	buf.B = binary.AppendUvarint(buf.B, uint64(w.n))
	appendSection(buf, w.selectors)

	coeffEnc := encoding.NewFloat32XOREncoder()
	defer coeffEnc.Finish()
	coeffEnc.WriteSlice(w.coeffs)
	buf.B = binary.AppendUvarint(buf.B, uint64(len(w.coeffs)))
	appendSection(buf, coeffEnc.Bytes())

	appendSection(buf, encoding.AppendZigZag(nil, w.codes))

	w.outliers.RunOptimize()
	bm, err := w.outliers.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize outlier bitmap: %w", err)
	}
	appendSection(buf, bm)
	appendSection(buf, w.outVals.Bytes())

	return entropyCodec().Compress(buf.Bytes())
}

func appendSection(buf *pool.ByteBuffer, b []byte) {
	buf.B = binary.AppendUvarint(buf.B, uint64(len(b)))
	buf.MustWrite(b)
}

// entropyCodec is the final byte stage of every segment.
func entropyCodec() compress.Codec {
	codec, err := compress.GetCodec(format.CompressionZstd)
	if err != nil {
		panic(err)
	}

	return codec
}

// segmentReader replays the streams of one segment. Errors are sticky and
// checked once the segment is done.
type segmentReader struct {
	fam       family
	n         int
	codes     []int32
	ci        int
	outliers  *roaring.Bitmap
	outVals   []float32
	oi        int
	selectors []byte
	si        int
	coeffs    []float32
	ki        int
	err       error

	release func()
}

func corrupt(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrCorruptStream, fmt.Sprintf(msg, args...))
}

// cursor reads uvarint-prefixed sections.
type cursor struct {
	data []byte
	off  int
	err  error
}

func (c *cursor) uvarint() uint64 {
	if c.err != nil {
		return 0
	}

	v, n := binary.Uvarint(c.data[c.off:])
	if n <= 0 {
		c.err = corrupt("bad varint at offset %d", c.off)
		return 0
	}
	c.off += n

	return v
}

func (c *cursor) bytes(n uint64) []byte {
	if c.err != nil {
		return nil
	}

	if n > uint64(len(c.data)-c.off) {
		c.err = corrupt("section of %d bytes overruns buffer at offset %d", n, c.off)
		return nil
	}
	b := c.data[c.off : c.off+int(n)]
	c.off += int(n)

	return b
}

func (c *cursor) section() []byte {
	return c.bytes(c.uvarint())
}

// openSegment reverses finish. n is the element count the stream header
// promises for this segment.
func openSegment(data []byte, n int) (*segmentReader, error) {
	raw, err := entropyCodec().Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: entropy stage: %w", errs.ErrCorruptStream, err)
	}

	c := &cursor{data: raw}
	head := c.bytes(1)
	if c.err != nil {
		return nil, c.err
	}
	fam := family(head[0])
	if fam >= familyCount {
		return nil, corrupt("unknown segment family %d", fam)
	}
	if got := c.uvarint(); c.err == nil && got != uint64(n) {
		return nil, corrupt("segment holds %d values, header promises %d", got, n)
	}

	r := &segmentReader{fam: fam, n: n}
	r.selectors = c.section()

	coeffCount := c.uvarint()
	coeffBytes := c.section()
	codeBytes := c.section()
	bmBytes := c.section()
	outBytes := c.section()
	if c.err != nil {
		return nil, c.err
	}
	if c.off != len(raw) {
		return nil, corrupt("%d trailing bytes in segment", len(raw)-c.off)
	}
	if coeffCount > uint64(len(coeffBytes))*8 {
		return nil, corrupt("coefficient count %d exceeds stream", coeffCount)
	}

	if r.coeffs, err = encoding.NewFloat32XORDecoder().Decode(coeffBytes, int(coeffCount)); err != nil {
		return nil, err
	}

	r.outliers = roaring.New()
	if err := r.outliers.UnmarshalBinary(bmBytes); err != nil {
		return nil, fmt.Errorf("%w: outlier bitmap: %w", errs.ErrCorruptStream, err)
	}
	outCount := r.outliers.GetCardinality()
	if outCount > uint64(n) || (outCount > 0 && int(r.outliers.Maximum()) >= n) {
		return nil, corrupt("outlier bitmap exceeds segment of %d values", n)
	}

	if r.outVals, err = encoding.NewFloat32XORDecoder().Decode(outBytes, int(outCount)); err != nil {
		return nil, err
	}

	codes, release := pool.GetInt32Slice(n - int(outCount))
	r.release = release
	used, err := encoding.DecodeZigZag(codeBytes, codes)
	if err != nil {
		release()
		return nil, err
	}
	if used != len(codeBytes) {
		release()
		return nil, corrupt("%d trailing bytes in code stream", len(codeBytes)-used)
	}
	r.codes = codes

	return r, nil
}

// get returns the reconstructed value at pos.
func (r *segmentReader) get(pos int, pred float64, q quantizer) float32 {
	if r.outliers.Contains(uint32(pos)) { //nolint:gosec // G115: pos < n
		if r.oi >= len(r.outVals) {
			r.fail(corrupt("outlier values exhausted at position %d", pos))
			return 0
		}
		v := r.outVals[r.oi]
		r.oi++

		return v
	}

	if r.ci >= len(r.codes) {
		r.fail(corrupt("codes exhausted at position %d", pos))
		return 0
	}
	code := r.codes[r.ci]
	r.ci++

	return q.recover(pred, code)
}

// nextBlock returns the predictor for the next block.
func (r *segmentReader) nextBlock() blockChoice {
	if r.si >= len(r.selectors) {
		r.fail(corrupt("predictor selectors exhausted"))
		return blockChoice{kind: predLorenzo}
	}

	kind := predictorKind(r.selectors[r.si])
	r.si++
	if kind >= predictorKindCount {
		r.fail(corrupt("unknown predictor %d", kind))
		return blockChoice{kind: predLorenzo}
	}

	k := kind.coeffCount()
	if r.ki+k > len(r.coeffs) {
		r.fail(corrupt("regression coefficients exhausted"))
		return blockChoice{kind: predLorenzo}
	}
	choice := blockChoice{kind: kind, coeffs: r.coeffs[r.ki : r.ki+k]}
	r.ki += k

	return choice
}

func (r *segmentReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// close verifies that every stream was consumed and releases pooled memory.
func (r *segmentReader) close() error {
	if r.release != nil {
		r.release()
		r.release = nil
	}

	if r.err != nil {
		return r.err
	}
	if r.ci != len(r.codes) || r.oi != len(r.outVals) || r.si != len(r.selectors) || r.ki != len(r.coeffs) {
		return corrupt("segment streams not fully consumed")
	}

	return nil
}

package encoding

import (
	"fmt"
	"iter"
	"math"
	"math/bits"

	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/internal/pool"
)

// Float32XOREncoder compresses float32 values with Gorilla-style XOR coding.
//
// The first value is stored as 32 raw bits. Every later value is XORed with
// its predecessor:
//   - XOR == 0: a single 0 bit
//   - same leading/trailing window as the previous block: bits 10 + meaningful bits
//   - new window: bits 11 + 5 bits leading zeros + 5 bits (block size - 1) + meaningful bits
//
// The lossy engine uses it for unpredictable values, which tend to cluster in
// sign and exponent. Bit patterns, NaN payloads included, round-trip exactly.
type Float32XOREncoder struct {
	w             bitWriter
	prevValue     uint32
	count         int
	prevLeading   int
	prevTrailing  int
	prevBlockSize int
}

// NewFloat32XOREncoder returns an encoder backed by a pooled segment buffer.
// Call Finish once the encoded bytes have been copied out.
func NewFloat32XOREncoder() *Float32XOREncoder {
	return &Float32XOREncoder{w: bitWriter{buf: pool.GetSegmentBuffer()}}
}

// Write encodes one value.
func (e *Float32XOREncoder) Write(val float32) {
	if e.w.buf == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	valBits := math.Float32bits(val)
	e.count++

	if e.count == 1 {
		e.prevValue = valBits
		e.w.writeBits(uint64(valBits), 32)

		return
	}

	xor := valBits ^ e.prevValue
	e.prevValue = valBits

	if xor == 0 {
		e.w.writeBit(0)
		return
	}

	e.w.writeBit(1)

	leading := bits.LeadingZeros32(xor)
	trailing := bits.TrailingZeros32(xor)

	if e.prevBlockSize > 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		e.w.writeBit(0)
		e.w.writeBits(uint64(xor>>e.prevTrailing), e.prevBlockSize)

		return
	}

	blockSize := 32 - leading - trailing
	e.w.writeBit(1)
	e.w.writeBits(uint64(leading), 5)     //nolint:gosec // G115: leading is 0-31 for a non-zero xor
	e.w.writeBits(uint64(blockSize-1), 5) //nolint:gosec // G115: blockSize-1 is 0-31
	e.w.writeBits(uint64(xor>>trailing), blockSize)

	e.prevLeading = leading
	e.prevTrailing = trailing
	e.prevBlockSize = blockSize
}

// WriteSlice encodes values in order.
func (e *Float32XOREncoder) WriteSlice(values []float32) {
	for _, v := range values {
		e.Write(v)
	}
}

// Bytes flushes pending bits and returns the encoded stream.
//
// The returned slice references the internal buffer and is valid until Finish.
// No further values may be written after Bytes.
func (e *Float32XOREncoder) Bytes() []byte {
	if e.w.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	e.w.flush()

	return e.w.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *Float32XOREncoder) Len() int {
	return e.count
}

// Finish returns the buffer to the pool. The encoder is unusable afterwards.
func (e *Float32XOREncoder) Finish() {
	if e.w.buf == nil {
		return
	}

	pool.PutSegmentBuffer(e.w.buf)
	e.w.buf = nil
}

// Float32XORDecoder decodes streams produced by Float32XOREncoder. It is stateless.
type Float32XORDecoder struct{}

// NewFloat32XORDecoder returns a decoder.
func NewFloat32XORDecoder() Float32XORDecoder {
	return Float32XORDecoder{}
}

// All yields up to count decoded values. Malformed or truncated data ends the
// sequence early.
func (Float32XORDecoder) All(data []byte, count int) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		if len(data) == 0 || count <= 0 {
			return
		}

		br := newBitReader(data)

		first, ok := br.readBits(32)
		if !ok {
			return
		}
		prev := uint32(first) //nolint:gosec // G115: 32 bits read
		if !yield(math.Float32frombits(prev)) {
			return
		}

		trailing, blockSize := 0, 0
		for produced := 1; produced < count; produced++ {
			ctrl, ok := br.readBit()
			if !ok {
				return
			}

			if ctrl == 1 {
				reuse, ok := br.readBit()
				if !ok {
					return
				}

				if reuse == 1 {
					leading, ok1 := br.readBits(5)
					size, ok2 := br.readBits(5)
					if !ok1 || !ok2 {
						return
					}
					blockSize = int(size) + 1
					trailing = 32 - int(leading) - blockSize
					if trailing < 0 {
						return
					}
				} else if blockSize == 0 {
					return
				}

				meaningful, ok := br.readBits(blockSize)
				if !ok {
					return
				}
				prev ^= uint32(meaningful) << trailing //nolint:gosec // G115: at most 32 bits
			}

			if !yield(math.Float32frombits(prev)) {
				return
			}
		}
	}
}

// Decode decodes exactly count values into a new slice.
//
// Returns an error matching errs.ErrCorruptStream if the stream holds fewer values.
func (d Float32XORDecoder) Decode(data []byte, count int) ([]float32, error) {
	out := make([]float32, 0, count)
	for v := range d.All(data, count) {
		out = append(out, v)
	}

	if len(out) != count {
		return nil, fmt.Errorf("%w: xor stream holds %d of %d values", errs.ErrCorruptStream, len(out), count)
	}

	return out, nil
}

package encoding

import (
	"encoding/binary"

	"github.com/lossbench/lossbench/internal/pool"
)

// bitWriter accumulates MSB-first bits into a pooled byte buffer.
type bitWriter struct {
	buf      *pool.ByteBuffer
	bitBuf   uint64 // pending bits, right-aligned
	bitCount int    // number of valid bits in bitBuf
}

// writeBit writes a single bit.
func (w *bitWriter) writeBit(bit uint64) {
	w.bitBuf = (w.bitBuf << 1) | bit
	w.bitCount++

	if w.bitCount == 64 {
		w.flushWord()
	}
}

// writeBits writes the low numBits bits of value (numBits in [0,64]).
func (w *bitWriter) writeBits(value uint64, numBits int) {
	if numBits == 0 {
		return
	}

	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - w.bitCount
	if numBits <= available {
		w.bitBuf = (w.bitBuf << numBits) | value
		w.bitCount += numBits

		if w.bitCount == 64 {
			w.flushWord()
		}

		return
	}

	// Split across the word boundary.
	highBits := numBits - available
	w.bitBuf = (w.bitBuf << available) | (value >> highBits)
	w.bitCount = 64
	w.flushWord()

	w.bitBuf = value & ((1 << highBits) - 1)
	w.bitCount = highBits
}

func (w *bitWriter) flushWord() {
	w.buf.Grow(8)
	w.buf.B = binary.BigEndian.AppendUint64(w.buf.B, w.bitBuf)
	w.bitBuf = 0
	w.bitCount = 0
}

// flush writes pending bits, zero-padding the final byte.
func (w *bitWriter) flush() {
	if w.bitCount == 0 {
		return
	}

	aligned := w.bitBuf << (64 - w.bitCount)
	numBytes := (w.bitCount + 7) / 8
	w.buf.Grow(numBytes)
	for i := range numBytes {
		w.buf.B = append(w.buf.B, byte(aligned>>(56-8*i)))
	}

	w.bitBuf = 0
	w.bitCount = 0
}

// bitReader reads MSB-first bits from a byte slice.
type bitReader struct {
	data     []byte
	bytePos  int
	bitBuf   uint64 // left-aligned
	bitCount int
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (br *bitReader) readBit() (uint64, bool) {
	if br.bitCount == 0 && !br.fillBuffer() {
		return 0, false
	}

	bit := br.bitBuf >> 63
	br.bitBuf <<= 1
	br.bitCount--

	return bit, true
}

// readBits reads numBits bits (numBits in [0,64]) right-aligned.
func (br *bitReader) readBits(numBits int) (uint64, bool) {
	if numBits == 0 {
		return 0, true
	}

	if numBits <= br.bitCount {
		result := br.bitBuf >> (64 - numBits)
		br.bitBuf <<= numBits
		br.bitCount -= numBits

		return result, true
	}

	var result uint64
	for numBits > 0 {
		if br.bitCount == 0 && !br.fillBuffer() {
			return 0, false
		}

		n := min(numBits, br.bitCount)
		result = (result << n) | (br.bitBuf >> (64 - n))
		br.bitBuf <<= n
		br.bitCount -= n
		numBits -= n
	}

	return result, true
}

func (br *bitReader) fillBuffer() bool {
	remaining := len(br.data) - br.bytePos
	if remaining <= 0 {
		return false
	}

	if remaining >= 8 {
		br.bitBuf = binary.BigEndian.Uint64(br.data[br.bytePos:])
		br.bytePos += 8
		br.bitCount = 64

		return true
	}

	br.bitBuf = 0
	for i := range remaining {
		br.bitBuf |= uint64(br.data[br.bytePos+i]) << (56 - 8*i)
	}
	br.bytePos += remaining
	br.bitCount = remaining * 8

	return true
}

package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/lossbench/lossbench/errs"
)

// AppendZigZag appends every code as a zig-zag varint and returns the extended
// slice. Quantization codes cluster around zero, so most take a single byte.
func AppendZigZag(dst []byte, codes []int32) []byte {
	for _, c := range codes {
		zz := uint32(c<<1) ^ uint32(c>>31) //nolint:gosec // G115: zig-zag mapping
		if zz <= 0x7F {
			dst = append(dst, byte(zz))
			continue
		}
		dst = binary.AppendUvarint(dst, uint64(zz))
	}

	return dst
}

// DecodeZigZag fills dst with len(dst) codes read from data and returns the
// number of bytes consumed.
//
// Returns an error matching errs.ErrCorruptStream on truncated or oversized varints.
func DecodeZigZag(data []byte, dst []int32) (int, error) {
	offset := 0
	for i := range dst {
		if offset >= len(data) {
			return offset, fmt.Errorf("%w: code stream truncated at %d of %d", errs.ErrCorruptStream, i, len(dst))
		}

		var zz uint64
		if b := data[offset]; b < 0x80 {
			zz = uint64(b)
			offset++
		} else {
			v, n := binary.Uvarint(data[offset:])
			if n <= 0 || v > math32Max {
				return offset, fmt.Errorf("%w: bad varint at code %d", errs.ErrCorruptStream, i)
			}
			zz = v
			offset += n
		}

		u := uint32(zz)                    //nolint:gosec // G115: bounded above
		dst[i] = int32(u>>1) ^ -int32(u&1) //nolint:gosec // G115: zig-zag inverse
	}

	return offset, nil
}

const math32Max = 1<<32 - 1

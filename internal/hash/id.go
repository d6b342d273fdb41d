// Package hash provides the xxHash64 digests used for stream checksums and
// dataset fingerprints.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Float32s computes the xxHash64 of the little-endian IEEE 754 form of values.
// It equals Sum64 over the bytes a lossless backend would compress.
func Float32s(values []float32) uint64 {
	d := xxhash.New()

	var buf [256]byte
	n := 0
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[n:], math.Float32bits(v))
		n += 4
		if n == len(buf) {
			_, _ = d.Write(buf[:n])
			n = 0
		}
	}
	_, _ = d.Write(buf[:n])

	return d.Sum64()
}

package compress

import "github.com/klauspost/compress/s2"

// S2Codec compresses with S2. Level 0 uses the default encoder, 1 the
// "better" encoder and 2 the "best" encoder; all decode the same way.
type S2Codec struct {
	level int
}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 codec at the given level (0-2).
func NewS2Codec(level int) S2Codec {
	return S2Codec{level: level}
}

// Compress compresses the input data using S2 compression.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch c.level {
	case 1:
		return s2.EncodeBetter(nil, data), nil
	case 2:
		return s2.EncodeBest(nil, data), nil
	default:
		return s2.Encode(nil, data), nil
	}
}

// Decompress decompresses the input data using S2 decompression.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

package compress

import (
	"fmt"

	"github.com/lossbench/lossbench/format"
)

// Compressor compresses an opaque byte payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller (NoOp excepted)
	//   - Input slice is not modified
	//   - Internal encoders may be pooled and reused
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Thread Safety: all Decompressor implementations in this package are safe for
// concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the data is corrupted or was produced by a different
	// algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// LevelRange describes the compression levels a codec accepts.
type LevelRange struct {
	Min     int
	Max     int
	Default int
}

// Contains reports whether level lies in [Min, Max].
func (r LevelRange) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}

var levelRanges = map[format.CompressionType]LevelRange{
	format.CompressionNone:   {Min: 0, Max: 0, Default: 0},
	format.CompressionZlib:   {Min: 0, Max: 9, Default: 6},
	format.CompressionZstd:   {Min: 1, Max: 4, Default: 2},
	format.CompressionS2:     {Min: 0, Max: 2, Default: 0},
	format.CompressionLZ4:    {Min: 0, Max: 9, Default: 0},
	format.CompressionBrotli: {Min: 0, Max: 11, Default: 6},
}

// Levels returns the accepted level range for compressionType.
func Levels(compressionType format.CompressionType) (LevelRange, bool) {
	r, ok := levelRanges[compressionType]
	return r, ok
}

// CreateCodec creates a Codec for compressionType at the given level.
//
// Returns an error if the type is unknown or the level is outside Levels(compressionType).
func CreateCodec(compressionType format.CompressionType, level int) (Codec, error) {
	r, ok := levelRanges[compressionType]
	if !ok {
		return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
	}

	if !r.Contains(level) {
		return nil, fmt.Errorf("%s compression level %d out of range [%d, %d]", compressionType, level, r.Min, r.Max)
	}

	switch compressionType {
	case format.CompressionZlib:
		return NewZlibCodec(level), nil
	case format.CompressionZstd:
		return NewZstdCodec(level), nil
	case format.CompressionS2:
		return NewS2Codec(level), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(level), nil
	case format.CompressionBrotli:
		return NewBrotliCodec(level), nil
	default:
		return NewNoOpCodec(), nil
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCodec(),
	format.CompressionZlib:   NewZlibCodec(levelRanges[format.CompressionZlib].Default),
	format.CompressionZstd:   NewZstdCodec(levelRanges[format.CompressionZstd].Default),
	format.CompressionS2:     NewS2Codec(levelRanges[format.CompressionS2].Default),
	format.CompressionLZ4:    NewLZ4Codec(levelRanges[format.CompressionLZ4].Default),
	format.CompressionBrotli: NewBrotliCodec(levelRanges[format.CompressionBrotli].Default),
}

// GetCodec retrieves the built-in default-level Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

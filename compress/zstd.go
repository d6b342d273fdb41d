package compress

// ZstdCodec compresses with Zstandard.
//
// Levels 1-4 follow the klauspost/compress speed presets: 1 fastest, 2 default,
// 3 better compression, 4 best compression. The same codec backs the entropy
// stage of the error-bounded engine.
//
// Built with -tags gozstd (and cgo), the codec uses the reference C library
// through valyala/gozstd instead; both produce standard frames.
type ZstdCodec struct {
	level int
}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec at the given level (1-4).
//
// Example:
//
//	codec := NewZstdCodec(2)
//	compressed, err := codec.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCodec(level int) ZstdCodec {
	return ZstdCodec{level: level}
}

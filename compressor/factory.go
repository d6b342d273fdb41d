package compressor

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
)

type constructor func() (Compressor, error)

func lossless(name, description, module string, kind format.CompressionType) constructor {
	return func() (Compressor, error) {
		return NewLossless(name, description, module, kind)
	}
}

var registry = map[string]constructor{
	"zlib": lossless("zlib", "Lossless compressor using the zlib (deflate) algorithm",
		"github.com/klauspost/compress", format.CompressionZlib),
	"zstd": lossless("zstd", "Lossless compressor using Zstandard",
		"github.com/klauspost/compress", format.CompressionZstd),
	"s2": lossless("s2", "Lossless compressor using S2, a Snappy extension",
		"github.com/klauspost/compress", format.CompressionS2),
	"lz4": lossless("lz4", "Lossless compressor using LZ4 blocks",
		"github.com/pierrec/lz4/v4", format.CompressionLZ4),
	"brotli": lossless("brotli", "Lossless compressor using Brotli",
		"github.com/andybalholm/brotli", format.CompressionBrotli),
	"sz": func() (Compressor, error) { return NewSZ(), nil },
}

// New returns a fresh, default-configured backend registered under name.
// Lookup is exact and case-sensitive.
func New(name string) (Compressor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownCompressor, name)
	}

	return ctor()
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

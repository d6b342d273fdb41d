// Package compress provides the byte codecs behind lossbench's lossless
// backends and the entropy stage of the error-bounded engine.
//
// # Overview
//
// Every codec compresses an opaque byte payload at a fixed compression level:
//
//	codec, err := compress.CreateCodec(format.CompressionZlib, 6)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//	original, err := codec.Decompress(compressed)
//
// # Supported Algorithms
//
//	Type                      | Library                  | Levels | Default
//	--------------------------|--------------------------|--------|--------
//	format.CompressionNone    | (pass-through)           | 0      | 0
//	format.CompressionZlib    | klauspost/compress/zlib  | 0-9    | 6
//	format.CompressionZstd    | klauspost/compress/zstd  | 1-4    | 2
//	format.CompressionS2      | klauspost/compress/s2    | 0-2    | 0
//	format.CompressionLZ4     | pierrec/lz4/v4 (blocks)  | 0-9    | 0
//	format.CompressionBrotli  | andybalholm/brotli       | 0-11   | 6
//
// Levels(t) reports the range for a type; CreateCodec rejects levels outside it.
// GetCodec returns a shared default-level instance.
//
// Building with -tags gozstd (cgo required) swaps the zstd implementation for
// valyala/gozstd, the reference C library. Frames stay interchangeable.
//
// # Empty Input
//
// NoOp, S2, LZ4 and Zstd map empty input to a nil payload and a nil payload
// back to nil. Zlib and Brotli always emit a stream header, and reject a nil
// payload on decompression.
//
// # Memory Management
//
// Zstd encoders and decoders, zlib writers and fast LZ4 compressors are pooled
// per level. Returned slices are owned by the caller, except for NoOp which
// returns its input.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use.
package compress

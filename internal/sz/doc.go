// Package sz implements an error-bounded lossy compressor for float32 streams.
//
// The engine follows the prediction/quantization scheme of SZ-family
// compressors:
//
//  1. Resolve the configured error-bound mode into one absolute bound eb.
//  2. Split the stream into fixed-length segments that are coded independently
//     (concurrently when Config.OpenMP is set).
//  3. Inside a segment, predict every value from already reconstructed
//     neighbours, then quantize the prediction error into an integer code with
//     a linear quantizer of width 2*eb. Values whose reconstruction would
//     violate the bound, or whose code exceeds the quantizer radius, are stored
//     verbatim as outliers.
//  4. Serialize codes as zig-zag varints, outlier positions as a roaring
//     bitmap and outlier values with XOR coding, then run the segment through
//     zstd.
//  5. Append an xxHash64 trailer over the whole stream.
//
// Predictors: first and second order Lorenzo, per-block linear and quadratic
// regression with per-block selection, and multi-level linear or cubic
// interpolation between anchor points.
//
// Every reconstructed value r of an input value v satisfies |r - v| <= eb.
// Non-finite inputs are always stored as outliers and round-trip bit for bit.
package sz

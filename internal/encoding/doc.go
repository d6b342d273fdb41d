// Package encoding provides the bit-level and varint encoders used by the
// error-bounded engine to serialize its segments.
//
// # Implementation Overview
//
//   - Float32XOREncoder/Decoder: Gorilla-style XOR coding of float32 values,
//     used for values the predictor could not quantize within the bound.
//   - AppendZigZag/DecodeZigZag: zig-zag varint coding of signed quantization
//     codes, ahead of the entropy stage.
//
// Encoders borrow buffers from internal/pool and must be finished to return them.
// Decoders are stateless and safe for concurrent use.
package encoding

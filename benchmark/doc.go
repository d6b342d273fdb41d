// Package benchmark times compressor calls and derives compression and
// reconstruction-quality metrics from them.
//
// A benchmark cycle is strictly linear: compress once, decompress once, then
// compare the reconstruction with the original. TimedCompress and
// TimedDecompress bracket exactly one Compressor call with monotonic clock
// readings. ComputeMetrics turns the two results into a Result. Runner bundles
// the cycle and logs it.
//
// Nothing here is retried. A failure at any step ends the cycle and no
// partial Result is produced.
package benchmark

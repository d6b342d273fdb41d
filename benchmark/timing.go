package benchmark

import (
	"time"

	"github.com/lossbench/lossbench/compressor"
)

// CompressionResult is the outcome of one timed Compress call.
type CompressionResult struct {
	Data    compressor.CompressedData
	Elapsed time.Duration
}

// ElapsedMillis returns the elapsed time in fractional milliseconds.
func (r CompressionResult) ElapsedMillis() float64 {
	return millis(r.Elapsed)
}

// DecompressionResult is the outcome of one timed Decompress call.
type DecompressionResult struct {
	Data    []float32
	Elapsed time.Duration
}

// ElapsedMillis returns the elapsed time in fractional milliseconds.
func (r DecompressionResult) ElapsedMillis() float64 {
	return millis(r.Elapsed)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// TimedCompress calls c.Compress once and measures it. Errors are returned
// unchanged.
func TimedCompress(c compressor.Compressor, data []float32) (CompressionResult, error) {
	start := time.Now()
	cd, err := c.Compress(data)
	elapsed := time.Since(start)
	if err != nil {
		return CompressionResult{}, err
	}

	return CompressionResult{Data: cd, Elapsed: elapsed}, nil
}

// TimedDecompress calls c.Decompress once and measures it. Errors are
// returned unchanged.
func TimedDecompress(c compressor.Compressor, cd compressor.CompressedData) (DecompressionResult, error) {
	start := time.Now()
	values, err := c.Decompress(cd)
	elapsed := time.Since(start)
	if err != nil {
		return DecompressionResult{}, err
	}

	return DecompressionResult{Data: values, Elapsed: elapsed}, nil
}

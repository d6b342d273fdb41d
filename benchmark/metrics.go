package benchmark

import (
	"fmt"
	"math"

	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
)

const bytesPerMiB = 1024 * 1024

// Result holds the metrics of one benchmark cycle.
type Result struct {
	OriginalBytes   int
	CompressedBytes int

	CompressionRatio            float64
	CompressionThroughputMBps   float64
	DecompressionThroughputMBps float64

	AbsErrorMax float64
	AbsErrorAvg float64
	RelErrorMax float64
	RelErrorAvg float64
	MSE         float64
	// PSNR uses a fixed peak of 1.0 regardless of the data range.
	PSNR float64
}

// ComputeMetrics compares the original sequence with its reconstruction.
//
// Relative error is abs/|orig| when orig != 0 and exactly 0 otherwise. PSNR is
// +Inf when MSE is 0. A zero elapsed time gives +Inf throughput. Ratios whose
// numerator and denominator are both zero are reported as 0.
//
// Returns errs.ErrSizeMismatch if the lengths differ.
func ComputeMetrics(original []float32, comp CompressionResult, decomp DecompressionResult) (Result, error) {
	if len(original) != len(decomp.Data) {
		return Result{}, fmt.Errorf("%w: original has %d values, reconstruction has %d",
			errs.ErrSizeMismatch, len(original), len(decomp.Data))
	}

	originalBytes := len(original) * format.ElementSize
	compressedBytes := len(comp.Data.Bytes)

	res := Result{
		OriginalBytes:               originalBytes,
		CompressedBytes:             compressedBytes,
		CompressionRatio:            ratio(float64(originalBytes), float64(compressedBytes)),
		CompressionThroughputMBps:   throughput(originalBytes, comp.ElapsedMillis()),
		DecompressionThroughputMBps: throughput(originalBytes, decomp.ElapsedMillis()),
	}

	var absSum, relSum, sqSum float64
	for i, v := range original {
		orig := float64(v)
		absErr := math.Abs(orig - float64(decomp.Data[i]))

		relErr := 0.0
		if orig != 0 {
			relErr = absErr / math.Abs(orig)
		}

		res.AbsErrorMax = max(res.AbsErrorMax, absErr)
		res.RelErrorMax = max(res.RelErrorMax, relErr)
		absSum += absErr
		relSum += relErr
		sqSum += absErr * absErr
	}

	if n := float64(len(original)); n > 0 {
		res.AbsErrorAvg = absSum / n
		res.RelErrorAvg = relSum / n
		res.MSE = sqSum / n
	}

	res.PSNR = math.Inf(1)
	if res.MSE > 0 || math.IsNaN(res.MSE) {
		res.PSNR = 10 * math.Log10(1/res.MSE)
	}

	return res, nil
}

func ratio(num, den float64) float64 {
	if num == 0 && den == 0 {
		return 0
	}

	return num / den
}

func throughput(originalBytes int, elapsedMillis float64) float64 {
	return ratio(float64(originalBytes)/bytesPerMiB, elapsedMillis/1000)
}

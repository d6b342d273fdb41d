package benchmark

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lossbench/lossbench/compressor"
	"github.com/lossbench/lossbench/errs"
)

// stubCompressor returns canned results so failure paths can be exercised.
type stubCompressor struct {
	compressErr   error
	decompressErr error
	decoded       []float32
}

func (s *stubCompressor) Compress(data []float32) (compressor.CompressedData, error) {
	if s.compressErr != nil {
		return compressor.CompressedData{}, s.compressErr
	}

	return compressor.CompressedData{Bytes: []byte{1, 2, 3}, OriginalSize: len(data) * 4}, nil
}

func (s *stubCompressor) Decompress(compressor.CompressedData) ([]float32, error) {
	return s.decoded, s.decompressErr
}

func (s *stubCompressor) Configure(map[string]string) error { return nil }
func (s *stubCompressor) Config() map[string]string         { return nil }
func (s *stubCompressor) Name() string                      { return "stub" }
func (s *stubCompressor) Description() string               { return "stub" }
func (s *stubCompressor) Version() string                   { return "0" }
func (s *stubCompressor) Usage() string                     { return "" }

func TestComputeMetrics_KnownValues(t *testing.T) {
	original := []float32{1, 2, 0, 4}
	comp := CompressionResult{
		Data:    compressor.CompressedData{Bytes: make([]byte, 8), OriginalSize: 16},
		Elapsed: 2 * time.Millisecond,
	}
	decomp := DecompressionResult{Data: []float32{1.5, 2, 0.5, 4}, Elapsed: 500 * time.Microsecond}

	res, err := ComputeMetrics(original, comp, decomp)
	require.NoError(t, err)

	require.Equal(t, 16, res.OriginalBytes)
	require.Equal(t, 8, res.CompressedBytes)
	require.Equal(t, 2.0, res.CompressionRatio)
	require.InDelta(t, (16.0/(1024*1024))/0.002, res.CompressionThroughputMBps, 1e-12)
	require.InDelta(t, (16.0/(1024*1024))/0.0005, res.DecompressionThroughputMBps, 1e-12)
	require.Equal(t, 0.5, res.AbsErrorMax)
	require.Equal(t, 0.25, res.AbsErrorAvg)
	// The zero original contributes exactly 0 relative error.
	require.Equal(t, 0.5, res.RelErrorMax)
	require.Equal(t, 0.125, res.RelErrorAvg)
	require.Equal(t, 0.125, res.MSE)
	require.InDelta(t, 10*math.Log10(8), res.PSNR, 1e-12)
}

func TestComputeMetrics_ExactReconstruction(t *testing.T) {
	original := []float32{0, -1, 3.5}
	res, err := ComputeMetrics(original,
		CompressionResult{Data: compressor.CompressedData{Bytes: make([]byte, 4)}, Elapsed: time.Millisecond},
		DecompressionResult{Data: []float32{0, -1, 3.5}, Elapsed: time.Millisecond})
	require.NoError(t, err)

	require.Zero(t, res.MSE)
	require.True(t, math.IsInf(res.PSNR, 1))
	require.Zero(t, res.AbsErrorMax)
	require.Zero(t, res.RelErrorMax)
	require.Equal(t, 3.0, res.CompressionRatio)
}

func TestComputeMetrics_ZeroElapsed(t *testing.T) {
	res, err := ComputeMetrics([]float32{1},
		CompressionResult{Data: compressor.CompressedData{Bytes: []byte{1}}},
		DecompressionResult{Data: []float32{1}})
	require.NoError(t, err)
	require.True(t, math.IsInf(res.CompressionThroughputMBps, 1))
	require.True(t, math.IsInf(res.DecompressionThroughputMBps, 1))
}

func TestComputeMetrics_Empty(t *testing.T) {
	res, err := ComputeMetrics(nil, CompressionResult{}, DecompressionResult{})
	require.NoError(t, err)

	require.Zero(t, res.CompressionRatio)
	require.Zero(t, res.CompressionThroughputMBps)
	require.Zero(t, res.AbsErrorAvg)
	require.Zero(t, res.RelErrorAvg)
	require.Zero(t, res.MSE)
	require.True(t, math.IsInf(res.PSNR, 1))
}

func TestComputeMetrics_NaNPassesThrough(t *testing.T) {
	nan := float32(math.NaN())
	res, err := ComputeMetrics([]float32{nan, 1},
		CompressionResult{Data: compressor.CompressedData{Bytes: []byte{1}}, Elapsed: time.Millisecond},
		DecompressionResult{Data: []float32{nan, 1}, Elapsed: time.Millisecond})
	require.NoError(t, err)
	require.True(t, math.IsNaN(res.AbsErrorMax))
	require.True(t, math.IsNaN(res.MSE))
	require.True(t, math.IsNaN(res.PSNR))
}

func TestComputeMetrics_SizeMismatch(t *testing.T) {
	_, err := ComputeMetrics([]float32{1, 2, 3},
		CompressionResult{},
		DecompressionResult{Data: []float32{1, 2}})
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestDecompress_CorruptedOriginalSize(t *testing.T) {
	for _, name := range compressor.Names() {
		t.Run(name, func(t *testing.T) {
			c, err := compressor.New(name)
			require.NoError(t, err)

			comp, err := TimedCompress(c, []float32{1, 2, 3, 4, 5})
			require.NoError(t, err)

			for _, size := range []int{16, 24} {
				corrupted := comp.Data
				corrupted.OriginalSize = size
				_, err = TimedDecompress(c, corrupted)
				require.ErrorIs(t, err, errs.ErrSizeMismatch, "declared %d bytes", size)
				require.ErrorIs(t, err, errs.ErrDecodeFailure)
			}
		})
	}
}

func TestComputeMetrics_ShortReconstruction(t *testing.T) {
	c, err := compressor.New("zlib")
	require.NoError(t, err)

	original := []float32{1, 2, 3, 4, 5}
	comp, err := TimedCompress(c, original)
	require.NoError(t, err)

	short, err := TimedCompress(c, original[:4])
	require.NoError(t, err)
	decomp, err := TimedDecompress(c, short.Data)
	require.NoError(t, err)

	_, err = ComputeMetrics(original, comp, decomp)
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestTimed_ErrorsPropagateUnchanged(t *testing.T) {
	sentinel := errors.New("boom")

	_, err := TimedCompress(&stubCompressor{compressErr: sentinel}, []float32{1})
	require.Same(t, sentinel, err)

	_, err = TimedDecompress(&stubCompressor{decompressErr: sentinel}, compressor.CompressedData{})
	require.Same(t, sentinel, err)
}

func TestTimedCompress_MeasuresCall(t *testing.T) {
	c, err := compressor.New("zstd")
	require.NoError(t, err)

	data := make([]float32, 1<<16)
	comp, err := TimedCompress(c, data)
	require.NoError(t, err)
	require.Positive(t, comp.Elapsed)
	require.InDelta(t, float64(comp.Elapsed)/1e6, comp.ElapsedMillis(), 1e-9)
	require.Equal(t, len(data)*4, comp.Data.OriginalSize)
}

// A five-value zlib round trip through the whole pipeline.
func TestRunner_Run(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := NewRunner(WithLogger(logger), WithAttrs("column", "pt"))
	require.NoError(t, err)

	c, err := compressor.New("zlib")
	require.NoError(t, err)

	input := []float32{1, 2, 3, 4, 5}
	run, err := r.Run(context.Background(), c, input)
	require.NoError(t, err)

	require.Equal(t, input, run.Decompression.Data)
	require.Positive(t, run.Metrics.CompressionRatio)
	require.Equal(t, 20, run.Metrics.OriginalBytes)
	require.Equal(t, len(run.Compression.Data.Bytes), run.Metrics.CompressedBytes)
	require.True(t, math.IsInf(run.Metrics.PSNR, 1))

	logs := buf.String()
	require.Contains(t, logs, "benchmark starting")
	require.Contains(t, logs, "benchmark finished")
	require.Contains(t, logs, "compressor=zlib")
	require.Contains(t, logs, "column=pt")
}

func TestRunner_Failures(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)

	t.Run("encode", func(t *testing.T) {
		_, err := r.Run(context.Background(), &stubCompressor{compressErr: errs.ErrEncodeFailure}, []float32{1})
		require.ErrorIs(t, err, errs.ErrEncodeFailure)
	})

	t.Run("decode", func(t *testing.T) {
		_, err := r.Run(context.Background(), &stubCompressor{decompressErr: errs.ErrDecodeFailure}, []float32{1})
		require.ErrorIs(t, err, errs.ErrDecodeFailure)
	})

	t.Run("short reconstruction", func(t *testing.T) {
		_, err := r.Run(context.Background(), &stubCompressor{decoded: []float32{1}}, []float32{1, 2})
		require.ErrorIs(t, err, errs.ErrSizeMismatch)
	})

	t.Run("canceled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stub := &stubCompressor{compressErr: errors.New("must not be called")}
		_, err := r.Run(ctx, stub, []float32{1})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewRunner_NilLogger(t *testing.T) {
	_, err := NewRunner(WithLogger(nil))
	require.Error(t, err)
}

func BenchmarkComputeMetrics(b *testing.B) {
	n := 1 << 20
	original := make([]float32, n)
	recon := make([]float32, n)
	for i := range original {
		original[i] = float32(i)
		recon[i] = float32(i) + 0.001
	}
	comp := CompressionResult{Data: compressor.CompressedData{Bytes: make([]byte, n)}, Elapsed: time.Millisecond}
	decomp := DecompressionResult{Data: recon, Elapsed: time.Millisecond}

	b.SetBytes(int64(n * 4))
	for b.Loop() {
		_, _ = ComputeMetrics(original, comp, decomp)
	}
}

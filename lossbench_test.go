package lossbench

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lossbench/lossbench/errs"
)

func signal(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Sin(float64(i)/30)*20 + float64(i%7)*0.001)
	}

	return out
}

func TestNew(t *testing.T) {
	c, err := New("zlib:compressionLevel=1")
	require.NoError(t, err)
	require.Equal(t, "zlib", c.Name())
	require.Equal(t, "1", c.Config()["compressionLevel"])

	_, err = New("unknown-codec")
	require.ErrorIs(t, err, errs.ErrUnknownCompressor)

	_, err = New("zlib:compressionLevel=10")
	require.ErrorIs(t, err, errs.ErrInvalidConfiguration)

	_, err = New("zlib:compressionLevel")
	require.Error(t, err)
}

func TestEvaluate_EveryBackend(t *testing.T) {
	data := signal(20_000)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			run, err := Evaluate(context.Background(), name, data)
			require.NoError(t, err)
			require.Len(t, run.Decompression.Data, len(data))
			require.Positive(t, run.Metrics.CompressionRatio)
			require.Equal(t, len(data)*4, run.Metrics.OriginalBytes)

			if name == "sz" {
				require.LessOrEqual(t, run.Metrics.AbsErrorMax, 1e-3)
				require.Greater(t, run.Metrics.CompressionRatio, 2.0)
			} else {
				require.Zero(t, run.Metrics.AbsErrorMax)
				require.True(t, math.IsInf(run.Metrics.PSNR, 1))
			}
		})
	}
}

func TestEvaluate_PSNRMatchesMSE(t *testing.T) {
	run, err := Evaluate(context.Background(), "sz:absErrBound=0.05", signal(5000))
	require.NoError(t, err)

	m := run.Metrics
	require.Positive(t, m.MSE)
	require.InDelta(t, 10*math.Log10(1/m.MSE), m.PSNR, 1e-9)
	require.LessOrEqual(t, m.AbsErrorAvg, m.AbsErrorMax)
	require.LessOrEqual(t, m.RelErrorAvg, m.RelErrorMax)
}

func TestEvaluate_Concurrent(t *testing.T) {
	data := signal(4096)

	var wg sync.WaitGroup
	errCh := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spec := Names()[i%len(Names())]
			if _, err := Evaluate(context.Background(), spec, data); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}
}

package sz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lossbench/lossbench/format"
)

func TestQuantizer(t *testing.T) {
	q := newQuantizer(0.5, 16)
	require.Equal(t, 8.0, q.radius)

	code, recon, ok := q.quantize(3.2, 1.0)
	require.True(t, ok)
	require.Equal(t, int32(2), code)
	require.Equal(t, float32(3), recon)
	require.Equal(t, recon, q.recover(1.0, code))

	// Beyond the radius.
	_, recon, ok = q.quantize(100, 0)
	require.False(t, ok)
	require.Equal(t, float32(100), recon)

	// Non-finite values are never quantized.
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, ok = q.quantize(float32(v), 0)
		require.False(t, ok)
	}

	// A single bin only codes exact predictions.
	single := newQuantizer(0.5, 1)
	_, _, ok = single.quantize(0, 0)
	require.False(t, ok)
}

func TestQuantizer_RadiusIsCapped(t *testing.T) {
	q := newQuantizer(1, math.MaxInt)
	require.Equal(t, float64(maxRadius), q.radius)
}

func TestFitLinear(t *testing.T) {
	x := make([]float32, 10)
	for j := range x {
		x[j] = 3 + 0.5*float32(j)
	}

	c, ok := fitLinear(x)
	require.True(t, ok)
	require.InDelta(t, 3, c[0], 1e-5)
	require.InDelta(t, 0.5, c[1], 1e-6)

	c, ok = fitLinear([]float32{7})
	require.True(t, ok)
	require.Equal(t, [2]float32{7, 0}, c)

	_, ok = fitLinear(nil)
	require.False(t, ok)

	_, ok = fitLinear([]float32{1, float32(math.NaN())})
	require.False(t, ok)
}

func TestFitQuadratic(t *testing.T) {
	x := make([]float32, 16)
	for j := range x {
		fj := float32(j)
		x[j] = 1 - 2*fj + 0.25*fj*fj
	}

	c, ok := fitQuadratic(x)
	require.True(t, ok)
	require.InDelta(t, 1, c[0], 1e-4)
	require.InDelta(t, -2, c[1], 1e-4)
	require.InDelta(t, 0.25, c[2], 1e-5)

	_, ok = fitQuadratic([]float32{1, 2})
	require.False(t, ok)
}

func TestPredict(t *testing.T) {
	recon := []float32{1, 2, 4, 7}

	require.Equal(t, 0.0, predict(predLorenzo, recon, 0, 0, nil))
	require.Equal(t, 4.0, predict(predLorenzo, recon, 3, 0, nil))
	require.Equal(t, 1.0, predict(predLorenzo2, recon, 1, 0, nil))
	require.Equal(t, 6.0, predict(predLorenzo2, recon, 3, 0, nil))
	require.Equal(t, 5.0, predict(predRegression, recon, 3, 1, []float32{1, 2}))
	require.Equal(t, 9.0, predict(predRegression2, recon, 3, 1, []float32{1, 2, 1}))
}

func TestSelectPredictor(t *testing.T) {
	line := make([]float32, 64)
	for i := range line {
		line[i] = 10 + 3*float32(i)
	}

	cfg := DefaultConfig()
	choice := selectPredictor(&cfg, line, 0, len(line), 1e-3)
	require.Equal(t, predRegression, choice.kind)
	require.Len(t, choice.coeffs, 2)

	cfg.Regression = false
	choice = selectPredictor(&cfg, line, 0, len(line), 1e-3)
	require.Equal(t, predLorenzo, choice.kind)

	cfg.Lorenzo = false
	choice = selectPredictor(&cfg, line, 0, len(line), 1e-3)
	require.Equal(t, predLorenzo, choice.kind, "falls back to Lorenzo when nothing is enabled")
}

func TestAnchorStride(t *testing.T) {
	tests := []struct {
		configured, n, want int
	}{
		{64, 1000, 64},
		{50, 1000, 64},
		{0, 1000, 1024},
		{-1, 5, 8},
		{2000, 1000, 1024},
		{1, 1, 1},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, anchorStride(tt.configured, tt.n), "%+v", tt)
	}
}

func TestInterpolate_VisitsEveryPositionOnce(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 64, 65, 1000} {
		for _, stride := range []int{1, 2, 8, 64, nextPow2(n)} {
			recon := make([]float32, n)
			seen := make([]int, n)
			maxLevel := 0

			interpolate(recon, stride, true, func(i, level int, _ float64) float32 {
				seen[i]++
				maxLevel = max(maxLevel, level)
				return float32(i)
			})

			for i, c := range seen {
				require.Equal(t, 1, c, "n=%d stride=%d pos=%d", n, stride, i)
			}
			require.Equal(t, len(levelQuantizers(&Config{InterpAlpha: 1, InterpBeta: 1, QuantbinCnt: 2}, 1, stride))-1, maxLevel)
		}
	}
}

func TestInterpolate_ExactOnPolynomials(t *testing.T) {
	const n = 257
	recon := make([]float32, n)
	truth := func(i int) float64 { return 0.5*float64(i) - 3 }

	interpolate(recon, 64, true, func(i, _ int, pred float64) float32 {
		if i%64 != 0 {
			require.InDelta(t, truth(i), pred, 1e-3, "pos %d", i)
		}
		return float32(truth(i))
	})
}

func TestLevelQuantizers(t *testing.T) {
	cfg := Config{InterpAlpha: 2, InterpBeta: 3, QuantbinCnt: 1024}
	qs := levelQuantizers(&cfg, 1, 8)
	require.Len(t, qs, 5)
	require.Equal(t, 1.0, qs[1].eb)
	require.Equal(t, 0.5, qs[2].eb)
	require.InDelta(t, 1.0/3, qs[3].eb, 1e-15)
	require.InDelta(t, 1.0/3, qs[4].eb, 1e-15)

	cfg.InterpAlpha = 0.5
	for _, q := range levelQuantizers(&cfg, 1, 8)[1:] {
		require.Equal(t, 1.0, q.eb, "factors below one never widen the bound")
	}
}

func TestResolveErrorBound(t *testing.T) {
	data := []float32{-1, 3, float32(math.NaN()), float32(math.Inf(1))}
	require.Equal(t, 4.0, ValueRange(data))
	require.Zero(t, ValueRange(nil))
	require.Zero(t, ValueRange([]float32{float32(math.NaN())}))

	cfg := DefaultConfig()
	cfg.ErrorBoundMode = format.EBPSNR
	cfg.PSNRErrorBound = 20
	require.NoError(t, resolveErrorBound(&cfg, data))
	require.InDelta(t, math.Sqrt(3)*4*0.1, cfg.AbsErrorBound, 1e-12)
	require.Equal(t, format.EBAbs, cfg.ErrorBoundMode)

	cfg = DefaultConfig()
	cfg.ErrorBoundMode = format.EBAbs
	cfg.AbsErrorBound = -1
	require.Error(t, resolveErrorBound(&cfg, data))
}

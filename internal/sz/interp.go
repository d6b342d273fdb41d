package sz

import (
	"math"
	"math/bits"
)

// anchorStride returns the power-of-two distance between anchor points for a
// segment of n values. A non-positive or oversized stride leaves position 0
// as the only anchor.
func anchorStride(configured, n int) int {
	if configured <= 0 || configured >= n {
		return nextPow2(n)
	}

	return nextPow2(configured)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

// levelQuantizers returns one quantizer per interpolation level, indexed by
// level (1 is the finest; levels+1 holds the anchors). The bound shrinks by
// min(alpha^(level-1), beta) towards coarse levels and never exceeds eb.
func levelQuantizers(cfg *Config, eb float64, stride int) []quantizer {
	levels := bits.Len(uint(stride)) - 1
	qs := make([]quantizer, levels+2)
	for l := 1; l <= levels+1; l++ {
		factor := min(math.Pow(cfg.InterpAlpha, float64(l-1)), cfg.InterpBeta)
		if !(factor >= 1) {
			factor = 1
		}
		qs[l] = newQuantizer(eb/factor, cfg.QuantbinCnt)
	}

	return qs
}

// interpolate visits every position of recon in coding order: anchors first,
// predicted from the previous anchor, then each level from coarse to fine,
// predicted by interpolation between reconstructed neighbours. step returns
// the reconstructed value for position i.
func interpolate(recon []float32, stride int, cubic bool, step func(i, level int, pred float64) float32) {
	n := len(recon)
	levels := bits.Len(uint(stride)) - 1

	prev := 0.0
	for i := 0; i < n; i += stride {
		recon[i] = step(i, levels+1, prev)
		prev = float64(recon[i])
	}

	for s := stride / 2; s >= 1; s /= 2 {
		level := bits.Len(uint(s))
		for i := s; i < n; i += 2 * s {
			recon[i] = step(i, level, interpPredict(recon, i, s, cubic))
		}
	}
}

func interpPredict(r []float32, i, s int, cubic bool) float64 {
	n := len(r)
	if i+s >= n {
		return float64(r[i-s])
	}

	if cubic && i-3*s >= 0 && i+3*s < n {
		a, b, c, d := float64(r[i-3*s]), float64(r[i-s]), float64(r[i+s]), float64(r[i+3*s])

		return (float64(9*(b+c)) - (a + d)) / 16
	}

	return (float64(r[i-s]) + float64(r[i+s])) / 2
}

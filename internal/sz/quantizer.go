package sz

import "math"

// maxRadius keeps codes well inside int32.
const maxRadius = 1 << 30

// quantizer is a linear quantizer with bin width 2*eb.
type quantizer struct {
	eb     float64
	twoEB  float64
	radius float64
}

func newQuantizer(eb float64, quantbinCnt int) quantizer {
	radius := min(quantbinCnt/2, maxRadius)

	return quantizer{eb: eb, twoEB: 2 * eb, radius: float64(radius)}
}

// quantize returns the code for orig under pred and the value the decoder
// will reconstruct. ok is false when orig has to be stored verbatim.
func (q quantizer) quantize(orig float32, pred float64) (code int32, recon float32, ok bool) {
	c := math.Round((float64(orig) - pred) / q.twoEB)
	// Negated comparisons also reject NaN.
	if !(math.Abs(c) < q.radius) {
		return 0, orig, false
	}

	code = int32(c)
	recon = q.recover(pred, code)
	if !(math.Abs(float64(recon)-float64(orig)) <= q.eb) {
		return 0, orig, false
	}

	return code, recon, true
}

// recover maps a code back to a value. The explicit conversion prevents a
// fused multiply-add, so encoder and decoder round identically.
func (q quantizer) recover(pred float64, code int32) float32 {
	return float32(pred + float64(q.twoEB*float64(code)))
}

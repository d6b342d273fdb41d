package sz

import (
	"github.com/lossbench/lossbench/format"
	"github.com/lossbench/lossbench/internal/pool"
)

// encodeSegment codes one segment with the given family.
func encodeSegment(p *params, fam family, data []float32) ([]byte, error) {
	cfg := p.cfg
	n := len(data)
	recon, release := pool.GetFloat32Slice(n)
	defer release()

	w := newSegmentWriter(fam, n)

	switch fam {
	case familyBlockwise:
		q := newQuantizer(p.eb, cfg.QuantbinCnt)
		for start := 0; start < n; start += cfg.BlockSize {
			end := min(start+cfg.BlockSize, n)
			choice := selectPredictor(cfg, data, start, end, p.eb)
			w.selectors = append(w.selectors, byte(choice.kind))
			w.coeffs = append(w.coeffs, choice.coeffs...)

			for i := start; i < end; i++ {
				recon[i] = w.put(i, data[i], predict(choice.kind, recon, i, start, choice.coeffs), q)
			}
		}
	case familyInterp:
		stride := anchorStride(cfg.InterpAnchorStride, n)
		qs := levelQuantizers(cfg, p.eb, stride)
		interpolate(recon, stride, p.cubic, func(i, level int, pred float64) float32 {
			return w.put(i, data[i], pred, qs[level])
		})
	default:
		q := newQuantizer(p.eb, cfg.QuantbinCnt)
		for i, v := range data {
			recon[i] = w.put(i, v, 0, q)
		}
	}

	return w.finish()
}

// encodeBest codes one segment with the family the configuration asks for.
// The combined interpolation/Lorenzo algorithm keeps whichever output is smaller.
func encodeBest(p *params, data []float32) ([]byte, error) {
	switch p.cfg.Algo {
	case format.AlgoLorenzoReg:
		return encodeSegment(p, familyBlockwise, data)
	case format.AlgoInterp:
		return encodeSegment(p, familyInterp, data)
	case format.AlgoNoPred:
		return encodeSegment(p, familyNoPred, data)
	}

	interp, err := encodeSegment(p, familyInterp, data)
	if err != nil {
		return nil, err
	}
	blockwise, err := encodeSegment(p, familyBlockwise, data)
	if err != nil {
		return nil, err
	}

	if len(blockwise) < len(interp) {
		return blockwise, nil
	}

	return interp, nil
}

// decodeSegment reconstructs one segment into out.
func decodeSegment(p *params, data []byte, out []float32) error {
	r, err := openSegment(data, len(out))
	if err != nil {
		return err
	}

	cfg := p.cfg
	n := len(out)

	switch r.fam {
	case familyBlockwise:
		q := newQuantizer(p.eb, cfg.QuantbinCnt)
		for start := 0; start < n && r.err == nil; start += cfg.BlockSize {
			end := min(start+cfg.BlockSize, n)
			choice := r.nextBlock()

			for i := start; i < end; i++ {
				out[i] = r.get(i, predict(choice.kind, out, i, start, choice.coeffs), q)
			}
		}
	case familyInterp:
		stride := anchorStride(cfg.InterpAnchorStride, n)
		qs := levelQuantizers(cfg, p.eb, stride)
		interpolate(out, stride, p.cubic, func(i, level int, pred float64) float32 {
			return r.get(i, pred, qs[level])
		})
	default:
		q := newQuantizer(p.eb, cfg.QuantbinCnt)
		for i := range out {
			out[i] = r.get(i, 0, q)
		}
	}

	return r.close()
}

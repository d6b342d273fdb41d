package sz

import "math"

// predictorKind identifies the predictor chosen for one block.
type predictorKind uint8

const (
	predLorenzo predictorKind = iota
	predLorenzo2
	predRegression
	predRegression2

	predictorKindCount
)

// coeffCount is the number of regression coefficients stored per block.
func (k predictorKind) coeffCount() int {
	switch k {
	case predRegression:
		return 2
	case predRegression2:
		return 3
	default:
		return 0
	}
}

// predict returns the prediction for recon[i] in a block starting at
// blockStart. Products are converted explicitly so that no platform fuses
// them into a multiply-add.
func predict(kind predictorKind, recon []float32, i, blockStart int, coeffs []float32) float64 {
	switch kind {
	case predLorenzo:
		if i == 0 {
			return 0
		}

		return float64(recon[i-1])
	case predLorenzo2:
		switch i {
		case 0:
			return 0
		case 1:
			return float64(recon[0])
		}

		return float64(2*float64(recon[i-1])) - float64(recon[i-2])
	case predRegression:
		j := float64(i - blockStart)

		return float64(coeffs[0]) + float64(float64(coeffs[1])*j)
	case predRegression2:
		j := float64(i - blockStart)

		return float64(coeffs[0]) + float64(float64(coeffs[1])*j) + float64(float64(coeffs[2])*float64(j*j))
	default:
		return 0
	}
}

// fitLinear fits x[j] ~ a + b*j by least squares. ok is false when the fit is
// not representable in float32.
func fitLinear(x []float32) (coeffs [2]float32, ok bool) {
	m := len(x)
	if m == 0 {
		return coeffs, false
	}

	jm := float64(m-1) / 2
	xm := 0.0
	for _, v := range x {
		xm += float64(v)
	}
	xm /= float64(m)

	var num, den float64
	for j, v := range x {
		dj := float64(j) - jm
		num += dj * (float64(v) - xm)
		den += dj * dj
	}

	b := 0.0
	if den > 0 {
		b = num / den
	}
	a := xm - b*jm

	coeffs = [2]float32{float32(a), float32(b)}

	return coeffs, allFinite(coeffs[:])
}

// fitQuadratic fits x[j] ~ a + b*j + c*j^2 by least squares on centred
// abscissae. ok is false for fewer than three points, a singular system or a
// fit not representable in float32.
func fitQuadratic(x []float32) (coeffs [3]float32, ok bool) {
	m := len(x)
	if m < 3 {
		return coeffs, false
	}

	jm := float64(m-1) / 2
	var s2, s4, t0, t1, t2 float64
	for j, v := range x {
		t := float64(j) - jm
		tt := t * t
		f := float64(v)
		s2 += tt
		s4 += tt * tt
		t0 += f
		t1 += f * t
		t2 += f * tt
	}
	s0 := float64(m)

	// Odd moments vanish around the centre, so b decouples from a and c.
	det := s0*s4 - s2*s2
	if s2 == 0 || det == 0 {
		return coeffs, false
	}
	bc := t1 / s2
	ac := (t0*s4 - t2*s2) / det
	cc := (s0*t2 - s2*t0) / det

	// Shift back to j = t + jm.
	a := ac - bc*jm + cc*jm*jm
	b := bc - 2*cc*jm
	coeffs = [3]float32{float32(a), float32(b), float32(cc)}

	return coeffs, allFinite(coeffs[:])
}

func allFinite(v []float32) bool {
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}

	return true
}

// blockChoice is the outcome of predictor selection for one block.
type blockChoice struct {
	kind   predictorKind
	coeffs []float32
}

// selectPredictor picks the enabled predictor with the smallest estimated
// error over data[start:end]. Lorenzo estimates run on original values and
// carry a reconstruction-noise term proportional to eb. With nothing enabled
// the first-order Lorenzo predictor is used.
func selectPredictor(cfg *Config, data []float32, start, end int, eb float64) blockChoice {
	best := blockChoice{kind: predLorenzo}
	bestCost := math.Inf(1)
	found := false

	consider := func(choice blockChoice, cost float64) {
		if !found || cost < bestCost {
			best, bestCost, found = choice, cost, true
		}
	}

	m := float64(end - start)
	if cfg.Lorenzo {
		consider(blockChoice{kind: predLorenzo}, lorenzoCost(data, start, end, false)+0.5*eb*m)
	}
	if cfg.Lorenzo2 {
		consider(blockChoice{kind: predLorenzo2}, lorenzoCost(data, start, end, true)+eb*m)
	}
	if cfg.Regression {
		if c, ok := fitLinear(data[start:end]); ok {
			consider(blockChoice{kind: predRegression, coeffs: c[:]}, regressionCost(data, start, end, predRegression, c[:]))
		}
	}
	if cfg.Regression2 {
		if c, ok := fitQuadratic(data[start:end]); ok {
			consider(blockChoice{kind: predRegression2, coeffs: c[:]}, regressionCost(data, start, end, predRegression2, c[:]))
		}
	}

	return best
}

func lorenzoCost(data []float32, start, end int, second bool) float64 {
	kind := predLorenzo
	if second {
		kind = predLorenzo2
	}

	cost := 0.0
	for i := start; i < end; i++ {
		cost += math.Abs(float64(data[i]) - predict(kind, data, i, start, nil))
	}

	return nanToInf(cost)
}

func regressionCost(data []float32, start, end int, kind predictorKind, coeffs []float32) float64 {
	cost := 0.0
	for i := start; i < end; i++ {
		cost += math.Abs(float64(data[i]) - predict(kind, data, i, start, coeffs))
	}

	return nanToInf(cost)
}

func nanToInf(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(1)
	}

	return v
}

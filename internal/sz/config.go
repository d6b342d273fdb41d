package sz

import (
	"fmt"
	"math"

	"github.com/lossbench/lossbench/format"
)

// Config holds every engine parameter. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	Algo           format.Algorithm
	ErrorBoundMode format.ErrorBoundMode

	AbsErrorBound    float64
	RelErrorBound    float64
	PSNRErrorBound   float64
	L2NormErrorBound float64

	// OpenMP codes segments concurrently. The stream does not depend on it.
	OpenMP bool

	QuantbinCnt int
	BlockSize   int

	Lorenzo     bool
	Lorenzo2    bool
	Regression  bool
	Regression2 bool

	InterpAlgo format.InterpAlgo
	// InterpDirection selects the dimension order of interpolation. Streams
	// are one-dimensional, so every direction produces the same output.
	InterpDirection    uint8
	InterpAnchorStride int
	InterpAlpha        float64
	InterpBeta         float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Algo:               format.AlgoInterpLorenzo,
		ErrorBoundMode:     format.EBAbs,
		AbsErrorBound:      1e-3,
		RelErrorBound:      1e-3,
		PSNRErrorBound:     80,
		L2NormErrorBound:   1e-3,
		QuantbinCnt:        65536,
		BlockSize:          128,
		Lorenzo:            true,
		Regression:         true,
		InterpAlgo:         format.InterpCubic,
		InterpAnchorStride: 64,
		InterpAlpha:        1.75,
		InterpBeta:         4,
	}
}

// ValueRange returns max-min over the finite values of data, or 0 when there
// are none.
func ValueRange(data []float32) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		lo = min(lo, f)
		hi = max(hi, f)
	}

	if hi < lo {
		return 0
	}

	return hi - lo
}

// resolveErrorBound converts cfg's error-bound mode into an absolute bound for
// data and writes it back: AbsErrorBound holds the bound and ErrorBoundMode
// becomes EBAbs.
func resolveErrorBound(cfg *Config, data []float32) error {
	var eb float64

	switch cfg.ErrorBoundMode {
	case format.EBAbs:
		eb = cfg.AbsErrorBound
	case format.EBRel:
		eb = cfg.RelErrorBound * ValueRange(data)
	case format.EBPSNR:
		// Uniform quantization error has RMSE eb/sqrt(3).
		eb = math.Sqrt(3) * ValueRange(data) * math.Pow(10, -cfg.PSNRErrorBound/20)
	case format.EBL2Norm:
		if len(data) > 0 {
			eb = cfg.L2NormErrorBound * math.Sqrt(3/float64(len(data)))
		}
	case format.EBAbsAndRel:
		eb = min(cfg.AbsErrorBound, cfg.RelErrorBound*ValueRange(data))
	case format.EBAbsOrRel:
		eb = max(cfg.AbsErrorBound, cfg.RelErrorBound*ValueRange(data))
	default:
		return fmt.Errorf("unknown error bound mode %s", cfg.ErrorBoundMode)
	}

	if math.IsNaN(eb) || math.IsInf(eb, 0) || eb < 0 {
		return fmt.Errorf("resolved error bound %g is not a finite non-negative number", eb)
	}

	cfg.AbsErrorBound = eb
	cfg.ErrorBoundMode = format.EBAbs

	return nil
}

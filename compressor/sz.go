package compressor

import (
	"fmt"

	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
	"github.com/lossbench/lossbench/internal/sz"
)

const szModule = "github.com/lossbench/lossbench"

var szSchema = schema[sz.Config]{
	title: "sz compressor options",
	options: []option[sz.Config]{
		uint8Option("cmprAlgo", "compression algorithm (0 lorenzo+regression, 1 interp+lorenzo, 2 interp, 3 no prediction, 4 lossless, 5 biomd, 6 biomdxtc)",
			format.AlgorithmCount, func(c *sz.Config) *format.Algorithm { return &c.Algo }),
		uint8Option("errorBoundMode", "error bound mode (0 abs, 1 rel, 2 psnr, 3 l2norm, 4 abs and rel, 5 abs or rel)",
			format.ErrorBoundModeCount, func(c *sz.Config) *format.ErrorBoundMode { return &c.ErrorBoundMode }),
		floatOption("absErrBound", "absolute error bound", nonNegative,
			func(c *sz.Config) *float64 { return &c.AbsErrorBound }),
		floatOption("relErrBound", "error bound relative to the value range", nonNegative,
			func(c *sz.Config) *float64 { return &c.RelErrorBound }),
		floatOption("psnrErrBound", "target PSNR in dB", nonNegative,
			func(c *sz.Config) *float64 { return &c.PSNRErrorBound }),
		floatOption("l2normErrorBound", "target L2 norm of the error", nonNegative,
			func(c *sz.Config) *float64 { return &c.L2NormErrorBound }),
		boolOption("openMP", "code segments in parallel",
			func(c *sz.Config) *bool { return &c.OpenMP }),
		intOption("quantbinCnt", "maximum number of quantization bins", positive,
			func(c *sz.Config) *int { return &c.QuantbinCnt }),
		intOption("blockSize", "predictor block size", positive,
			func(c *sz.Config) *int { return &c.BlockSize }),
		boolOption("lorenzo", "use the first order Lorenzo predictor",
			func(c *sz.Config) *bool { return &c.Lorenzo }),
		boolOption("lorenzo2", "use the second order Lorenzo predictor",
			func(c *sz.Config) *bool { return &c.Lorenzo2 }),
		boolOption("regression", "use linear regression",
			func(c *sz.Config) *bool { return &c.Regression }),
		boolOption("regression2", "use quadratic regression",
			func(c *sz.Config) *bool { return &c.Regression2 }),
		uint8Option("interpAlgo", "interpolation kernel (0 linear, 1 cubic)",
			format.InterpAlgoCount, func(c *sz.Config) *format.InterpAlgo { return &c.InterpAlgo }),
		uint8Option("interpDirection", "interpolation direction",
			0, func(c *sz.Config) *uint8 { return &c.InterpDirection }),
		intOption("interpAnchorStride", "interpolation anchor stride", nil,
			func(c *sz.Config) *int { return &c.InterpAnchorStride }),
		floatOption("interpAlpha", "per-level error bound growth", nil,
			func(c *sz.Config) *float64 { return &c.InterpAlpha }),
		floatOption("interpBeta", "maximum error bound reduction", nil,
			func(c *sz.Config) *float64 { return &c.InterpBeta }),
	},
}

// SZ is the error-bounded lossy backend. Reconstructed values differ from
// the originals by at most the resolved absolute error bound; length is
// preserved exactly.
type SZ struct {
	cfg sz.Config
}

var _ Compressor = (*SZ)(nil)

// NewSZ creates a default-configured lossy backend.
func NewSZ() *SZ {
	return &SZ{cfg: sz.DefaultConfig()}
}

// Configure implements Compressor.
func (s *SZ) Configure(options map[string]string) error {
	cfg := sz.DefaultConfig()
	if err := szSchema.apply(&cfg, options); err != nil {
		return err
	}
	s.cfg = cfg

	return nil
}

// Settings returns a copy of the typed configuration.
func (s *SZ) Settings() sz.Config { return s.cfg }

// Config implements Compressor.
func (s *SZ) Config() map[string]string { return szSchema.config(&s.cfg) }

// Compress implements Compressor. The engine resolves the error bound into
// a call-local copy of the configuration.
func (s *SZ) Compress(data []float32) (CompressedData, error) {
	cfg := s.cfg

	out, err := sz.Compress(&cfg, data)
	if err != nil {
		return CompressedData{}, fmt.Errorf("%w: sz: %w", errs.ErrEncodeFailure, err)
	}

	return CompressedData{Bytes: out, OriginalSize: len(data) * format.ElementSize}, nil
}

// Decompress implements Compressor.
func (s *SZ) Decompress(cd CompressedData) ([]float32, error) {
	if err := checkOriginalSize(cd); err != nil {
		return nil, err
	}

	cfg := s.cfg

	values, err := sz.Decompress(&cfg, cd.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: sz: %w", errs.ErrDecodeFailure, err)
	}

	if err := checkDecodedLen("sz", cd, len(values)); err != nil {
		return nil, err
	}

	return values, nil
}

func (s *SZ) Name() string { return "sz" }
func (s *SZ) Description() string {
	return "Error-bounded lossy compression (SZ-style prediction and quantization)"
}
func (s *SZ) Version() string { return moduleVersion(szModule) }
func (s *SZ) Usage() string   { return szSchema.usage(sz.DefaultConfig()) }

package format

import "strconv"

// ElementSize is the size in bytes of one float32 element.
const ElementSize = 4

type (
	CompressionType uint8
	Algorithm       uint8
	ErrorBoundMode  uint8
	InterpAlgo      uint8
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionZlib   CompressionType = 0x5 // CompressionZlib represents zlib (deflate) compression.
	CompressionBrotli CompressionType = 0x6 // CompressionBrotli represents Brotli compression.
)

// Prediction algorithms understood by the error-bounded engine.
const (
	AlgoLorenzoReg    Algorithm = 0 // block-wise Lorenzo / regression selection
	AlgoInterpLorenzo Algorithm = 1 // best of interpolation and Lorenzo
	AlgoInterp        Algorithm = 2 // multi-level interpolation
	AlgoNoPred        Algorithm = 3 // quantize values directly
	AlgoLossless      Algorithm = 4 // no quantization at all
	AlgoBioMD         Algorithm = 5 // molecular dynamics, not implemented by this engine
	AlgoBioMDXtc      Algorithm = 6 // molecular dynamics XTC, not implemented by this engine

	AlgorithmCount = 7
)

// Error-bound interpretation modes.
const (
	EBAbs       ErrorBoundMode = 0 // absolute bound
	EBRel       ErrorBoundMode = 1 // bound relative to the value range
	EBPSNR      ErrorBoundMode = 2 // target PSNR in dB
	EBL2Norm    ErrorBoundMode = 3 // target L2 norm of the error vector
	EBAbsAndRel ErrorBoundMode = 4 // satisfy both absolute and relative
	EBAbsOrRel  ErrorBoundMode = 5 // satisfy either absolute or relative

	ErrorBoundModeCount = 6
)

// Interpolation kernels.
const (
	InterpLinear InterpAlgo = 0
	InterpCubic  InterpAlgo = 1

	InterpAlgoCount = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	case CompressionBrotli:
		return "Brotli"
	default:
		return "Unknown"
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgoLorenzoReg:
		return "LorenzoReg"
	case AlgoInterpLorenzo:
		return "InterpLorenzo"
	case AlgoInterp:
		return "Interp"
	case AlgoNoPred:
		return "NoPred"
	case AlgoLossless:
		return "Lossless"
	case AlgoBioMD:
		return "BioMD"
	case AlgoBioMDXtc:
		return "BioMDXtc"
	default:
		return "Algorithm(" + strconv.Itoa(int(a)) + ")"
	}
}

func (m ErrorBoundMode) String() string {
	switch m {
	case EBAbs:
		return "Abs"
	case EBRel:
		return "Rel"
	case EBPSNR:
		return "PSNR"
	case EBL2Norm:
		return "L2Norm"
	case EBAbsAndRel:
		return "AbsAndRel"
	case EBAbsOrRel:
		return "AbsOrRel"
	default:
		return "ErrorBoundMode(" + strconv.Itoa(int(m)) + ")"
	}
}

func (i InterpAlgo) String() string {
	switch i {
	case InterpLinear:
		return "Linear"
	case InterpCubic:
		return "Cubic"
	default:
		return "InterpAlgo(" + strconv.Itoa(int(i)) + ")"
	}
}

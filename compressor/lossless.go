package compressor

import (
	"fmt"
	"strconv"

	"github.com/lossbench/lossbench/compress"
	"github.com/lossbench/lossbench/endian"
	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
)

// LosslessConfig is the configuration of a Lossless backend.
type LosslessConfig struct {
	CompressionLevel int
}

// Lossless runs the little-endian bytes of a float32 sequence through a
// byte codec. Round trips are bit exact, NaN payloads included.
type Lossless struct {
	name        string
	description string
	module      string
	kind        format.CompressionType
	levels      compress.LevelRange
	schema      schema[LosslessConfig]

	cfg   LosslessConfig
	codec compress.Codec
}

var _ Compressor = (*Lossless)(nil)

// NewLossless creates a default-configured backend over the codec kind.
func NewLossless(name, description, module string, kind format.CompressionType) (*Lossless, error) {
	levels, ok := compress.Levels(kind)
	if !ok {
		return nil, fmt.Errorf("unsupported compression type: %s", kind)
	}

	l := &Lossless{
		name:        name,
		description: description,
		module:      module,
		kind:        kind,
		levels:      levels,
	}
	l.schema = schema[LosslessConfig]{
		title: name + " options",
		options: []option[LosslessConfig]{
			intOption("compressionLevel",
				fmt.Sprintf("%s compression level (%d-%d)", name, levels.Min, levels.Max),
				between(levels.Min, levels.Max),
				func(c *LosslessConfig) *int { return &c.CompressionLevel }),
		},
	}

	if err := l.Configure(nil); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Lossless) defaults() LosslessConfig {
	return LosslessConfig{CompressionLevel: l.levels.Default}
}

// Configure implements Compressor.
func (l *Lossless) Configure(options map[string]string) error {
	cfg := l.defaults()
	if err := l.schema.apply(&cfg, options); err != nil {
		return err
	}

	codec, err := compress.CreateCodec(l.kind, cfg.CompressionLevel)
	if err != nil {
		return &errs.ConfigError{
			Key:    "compressionLevel",
			Value:  strconv.Itoa(cfg.CompressionLevel),
			Reason: err.Error(),
		}
	}

	l.cfg = cfg
	l.codec = codec

	return nil
}

// Settings returns a copy of the typed configuration.
func (l *Lossless) Settings() LosslessConfig { return l.cfg }

// Config implements Compressor.
func (l *Lossless) Config() map[string]string { return l.schema.config(&l.cfg) }

// Compress implements Compressor.
func (l *Lossless) Compress(data []float32) (CompressedData, error) {
	raw := endian.AppendFloat32s(endian.GetLittleEndianEngine(), nil, data)

	out, err := l.codec.Compress(raw)
	if err != nil {
		return CompressedData{}, fmt.Errorf("%w: %s: %w", errs.ErrEncodeFailure, l.name, err)
	}

	return CompressedData{Bytes: out, OriginalSize: len(raw)}, nil
}

// Decompress implements Compressor.
func (l *Lossless) Decompress(cd CompressedData) ([]float32, error) {
	if err := checkOriginalSize(cd); err != nil {
		return nil, err
	}

	raw, err := l.codec.Decompress(cd.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrDecodeFailure, l.name, err)
	}

	if len(raw) != cd.OriginalSize {
		return nil, fmt.Errorf("%w: %w: %s: decoded %d bytes, want %d",
			errs.ErrDecodeFailure, errs.ErrSizeMismatch, l.name, len(raw), cd.OriginalSize)
	}

	values, err := endian.Float32s(endian.GetLittleEndianEngine(), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrDecodeFailure, l.name, err)
	}

	return values, nil
}

func (l *Lossless) Name() string        { return l.name }
func (l *Lossless) Description() string { return l.description }
func (l *Lossless) Version() string     { return moduleVersion(l.module) }
func (l *Lossless) Usage() string       { return l.schema.usage(l.defaults()) }

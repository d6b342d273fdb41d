package benchmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/lossbench/lossbench/compressor"
	"github.com/lossbench/lossbench/internal/options"
	"github.com/lossbench/lossbench/internal/telemetry"
)

// Logger is the logging surface the runner needs. *slog.Logger satisfies it.
type Logger = telemetry.Logger

// Run is the outcome of one complete benchmark cycle.
type Run struct {
	Compression   CompressionResult
	Decompression DecompressionResult
	Metrics       Result
}

// Runner executes benchmark cycles.
type Runner struct {
	logger Logger
	attrs  []any
}

// RunnerOption configures a Runner.
type RunnerOption = options.Option[*Runner]

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) RunnerOption {
	return options.New(func(r *Runner) error {
		if l == nil {
			return errors.New("benchmark: nil logger")
		}
		r.logger = l

		return nil
	})
}

// WithAttrs adds key/value pairs to every log line of the runner.
func WithAttrs(args ...any) RunnerOption {
	return options.NoError(func(r *Runner) {
		r.attrs = append(r.attrs, args...)
	})
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{logger: telemetry.Discard()}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Run compresses data with c, decompresses the result and computes metrics.
//
// ctx is checked once before the cycle starts; a started cycle always runs
// to completion or failure.
func (r *Runner) Run(ctx context.Context, c compressor.Compressor, data []float32) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	args := append([]any{"compressor", c.Name(), "values", len(data)}, r.attrs...)
	r.logger.DebugContext(ctx, "benchmark starting", args...)

	comp, err := TimedCompress(c, data)
	if err != nil {
		r.logger.ErrorContext(ctx, "compress failed", append(args, "error", err)...)
		return Run{}, fmt.Errorf("%s: compress: %w", c.Name(), err)
	}

	decomp, err := TimedDecompress(c, comp.Data)
	if err != nil {
		r.logger.ErrorContext(ctx, "decompress failed", append(args, "error", err)...)
		return Run{}, fmt.Errorf("%s: decompress: %w", c.Name(), err)
	}

	metrics, err := ComputeMetrics(data, comp, decomp)
	if err != nil {
		r.logger.ErrorContext(ctx, "metrics failed", append(args, "error", err)...)
		return Run{}, fmt.Errorf("%s: metrics: %w", c.Name(), err)
	}

	r.logger.InfoContext(ctx, "benchmark finished", append(args,
		"ratio", metrics.CompressionRatio,
		"compress_ms", comp.ElapsedMillis(),
		"decompress_ms", decomp.ElapsedMillis(),
		"abs_error_max", metrics.AbsErrorMax,
		"psnr", metrics.PSNR,
	)...)

	return Run{Compression: comp, Decompression: decomp, Metrics: metrics}, nil
}

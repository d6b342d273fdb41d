// Package lossbench benchmarks float32 compressors.
//
// A benchmark feeds one float32 sequence to a compression backend, decodes
// the result again and measures compression ratio, throughput and
// reconstruction error. Lossless backends must reproduce the input bit for
// bit. The error-bounded lossy backend keeps every value within the
// configured bound.
//
// # Core Features
//
//   - One Compressor contract for every backend
//   - Lossless codecs: zlib, zstd, s2, lz4, brotli
//   - An error-bounded lossy engine (name "sz") with absolute, relative,
//     PSNR and L2-norm bound modes
//   - Schema-validated string options, all violations reported at once
//   - Ratio, throughput, max/avg absolute and relative error, MSE and PSNR
//
// # Basic Usage
//
//	run, err := lossbench.Evaluate(ctx, "sz:absErrBound=1e-4", values)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(run.Metrics.CompressionRatio, run.Metrics.AbsErrorMax)
//
// # Package Structure
//
// This package wraps the compressor and benchmark packages for the most
// common use. For finer control use them directly:
//
//   - compressor: the contract, option schemas and the factory
//   - benchmark: timed calls, metrics and the Runner
//   - dataset: parquet input from local files or S3, parquet output
//   - report: JSONL records
//
// # Thread Safety
//
// Compressor instances are not safe for concurrent use. Evaluate creates a
// fresh instance per call and is safe to call from multiple goroutines.
package lossbench

import (
	"context"

	"github.com/lossbench/lossbench/benchmark"
	"github.com/lossbench/lossbench/compressor"
)

// New creates and configures the backend described by spec, which has the
// form "name[:key=value,...]".
//
// Returns an error matching errs.ErrUnknownCompressor for an unknown name and
// errs.ErrInvalidConfiguration for rejected options.
func New(spec string) (compressor.Compressor, error) {
	name, opts, err := compressor.ParseSpec(spec)
	if err != nil {
		return nil, err
	}

	c, err := compressor.New(name)
	if err != nil {
		return nil, err
	}

	if err := c.Configure(opts); err != nil {
		return nil, err
	}

	return c, nil
}

// Evaluate runs one benchmark cycle of the backend described by spec over
// data.
func Evaluate(ctx context.Context, spec string, data []float32, opts ...benchmark.RunnerOption) (benchmark.Run, error) {
	c, err := New(spec)
	if err != nil {
		return benchmark.Run{}, err
	}

	runner, err := benchmark.NewRunner(opts...)
	if err != nil {
		return benchmark.Run{}, err
	}

	return runner.Run(ctx, c, data)
}

// Names lists the registered backends.
func Names() []string {
	return compressor.Names()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lossbench/lossbench/benchmark"
	"github.com/lossbench/lossbench/compressor"
	"github.com/lossbench/lossbench/dataset"
	"github.com/lossbench/lossbench/report"
)

type runFlags struct {
	input      string
	columns    []string
	chunkSize  int
	compressor string
	results    string
	decomp     string
	s3         dataset.S3Config
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark a compressor on parquet columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd, g, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "Input parquet file (path or s3://bucket/key)")
	fl.StringSliceVar(&f.columns, "columns", nil, "Dotted column paths to benchmark (default: every float column)")
	fl.IntVar(&f.chunkSize, "chunk-size", 0, "Values per benchmark run (0: whole column)")
	fl.StringVarP(&f.compressor, "compressor", "c", "", "Compressor spec: name[:key=value,...]")
	fl.StringVar(&f.results, "results", "", "Append one JSON line per run to this file")
	fl.StringVar(&f.decomp, "decomp", "", "Write reconstructed values to this parquet file (path or s3://bucket/key)")
	fl.StringVar(&f.s3.Region, "s3-region", "", "S3 region")
	fl.StringVar(&f.s3.Endpoint, "s3-endpoint", "", "Custom S3 endpoint URL")
	fl.BoolVar(&f.s3.UsePathStyle, "s3-path-style", false, "Use path-style S3 addressing")
	fl.StringVar(&f.s3.AccessKeyID, "s3-access-key", "", "Static S3 access key ID")
	fl.StringVar(&f.s3.SecretAccessKey, "s3-secret-key", "", "Static S3 secret access key")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("compressor")

	return cmd
}

func runBenchmark(cmd *cobra.Command, g *globalFlags, f *runFlags) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd.ErrOrStderr(), g.verbose)

	if f.chunkSize < 0 {
		return fmt.Errorf("--chunk-size must not be negative, got %d", f.chunkSize)
	}

	name, opts, err := compressor.ParseSpec(f.compressor)
	if err != nil {
		return err
	}
	c, err := compressor.New(name)
	if err != nil {
		return err
	}
	if err := c.Configure(opts); err != nil {
		return err
	}

	store, err := dataset.NewStore(dataset.WithS3Config(f.s3), dataset.WithLogger(logger))
	if err != nil {
		return err
	}

	columns := f.columns
	if len(columns) == 0 {
		if columns, err = store.Columns(ctx, f.input); err != nil {
			return err
		}
		if len(columns) == 0 {
			return fmt.Errorf("%s has no float columns", f.input)
		}
	}

	var out *dataset.Writer
	if f.decomp != "" {
		if out, err = store.Create(ctx, f.decomp); err != nil {
			return err
		}
		defer func() { err = errors.Join(err, out.Close(ctx)) }()
	}

	cfg := report.Config{
		InputFile:         f.input,
		Columns:           columns,
		ChunkSize:         f.chunkSize,
		Compressor:        name,
		CompressorOptions: opts,
		ResultsFile:       f.results,
		DecompFile:        f.decomp,
	}

	logger.InfoContext(ctx, "benchmark configured",
		"input", f.input, "columns", columns, "compressor", name, "chunk_size", f.chunkSize)

	summary := newTable(cmd)
	summary.AppendHeader(table.Row{"Column", "Chunk", "Values", "Ratio", "Comp MB/s", "Decomp MB/s", "Abs err max", "PSNR"})

	for _, column := range columns {
		values, err := store.ReadColumn(ctx, f.input, column)
		if err != nil {
			return err
		}

		runner, err := benchmark.NewRunner(
			benchmark.WithLogger(logger),
			benchmark.WithAttrs("column", column),
		)
		if err != nil {
			return err
		}

		for i, chunk := range dataset.Chunks(values, f.chunkSize) {
			run, err := runner.Run(ctx, c, chunk)
			if err != nil {
				return fmt.Errorf("column %s chunk %d: %w", column, i, err)
			}

			if f.results != "" {
				rec := report.NewRecord(cfg, report.Stream{Column: column, Chunk: i, Values: chunk}, c.Config(), run)
				if err := report.AppendJSONL(f.results, rec); err != nil {
					return err
				}
			}

			if out != nil {
				if err := out.Write(column, i, run.Decompression.Data); err != nil {
					return err
				}
			}

			m := run.Metrics
			summary.AppendRow(table.Row{
				column, i, len(chunk),
				formatMetric(m.CompressionRatio),
				formatMetric(m.CompressionThroughputMBps),
				formatMetric(m.DecompressionThroughputMBps),
				formatMetric(m.AbsErrorMax),
				formatMetric(m.PSNR),
			})
		}
	}

	summary.Render()

	return nil
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

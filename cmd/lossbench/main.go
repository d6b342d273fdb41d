// Command lossbench benchmarks float32 compressors on parquet columns.
//
// Usage:
//
//	lossbench run --input events.parquet --columns pt.list.element --chunk-size 1048576 \
//	    --compressor sz:cmprAlgo=2,absErrBound=1e-4 --results results.jsonl
//	lossbench list
//	lossbench usage sz
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	verbose bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "lossbench",
		Short: "Benchmark float32 compressors",
		Long: `lossbench compresses float32 columns read from parquet files with a chosen
backend, decompresses them again and reports compression ratio, throughput
and reconstruction error for every column chunk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newRunCmd(&g),
		newListCmd(),
		newUsageCmd(),
	)

	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

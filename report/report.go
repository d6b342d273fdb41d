// Package report serializes benchmark runs as JSON lines.
//
// One Record is written per evaluated (column, chunk) stream. Metrics that are
// not finite, such as the PSNR of an exact reconstruction, are written as the
// strings "+Inf", "-Inf" and "NaN" so every line stays valid JSON.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/lossbench/lossbench/benchmark"
	"github.com/lossbench/lossbench/internal/hash"
	"github.com/lossbench/lossbench/internal/pool"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metric is a float64 that encodes non-finite values as JSON strings.
type Metric float64

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	v := float64(m)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	default:
		return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metric) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"NaN"`:
		*m = Metric(math.NaN())
		return nil
	case `"+Inf"`:
		*m = Metric(math.Inf(1))
		return nil
	case `"-Inf"`:
		*m = Metric(math.Inf(-1))
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("report: invalid metric %s", data)
	}
	*m = Metric(v)

	return nil
}

// Config echoes the run configuration.
type Config struct {
	InputFile         string            `json:"input_file"`
	Columns           []string          `json:"columns"`
	ChunkSize         int               `json:"chunk_size"`
	Compressor        string            `json:"compressor"`
	CompressorOptions map[string]string `json:"compressor_options"`
	ResultsFile       string            `json:"results_file"`
	DecompFile        string            `json:"decomp_file"`
}

// Results holds the sizes, timings and metrics of one run.
type Results struct {
	OriginalSizeBytes           int    `json:"original_size_bytes"`
	CompressedSizeBytes         int    `json:"compressed_size_bytes"`
	CompressionMillis           Metric `json:"compression_ms"`
	DecompressionMillis         Metric `json:"decompression_ms"`
	CompressionRatio            Metric `json:"compression_ratio"`
	CompressionThroughputMBps   Metric `json:"compression_throughput_mbps"`
	DecompressionThroughputMBps Metric `json:"decompression_throughput_mbps"`
	AbsErrorMax                 Metric `json:"abs_error_max"`
	AbsErrorAvg                 Metric `json:"abs_error_avg"`
	RelErrorMax                 Metric `json:"rel_error_max"`
	RelErrorAvg                 Metric `json:"rel_error_avg"`
	MSE                         Metric `json:"mse"`
	PSNR                        Metric `json:"psnr"`
}

// Record is one JSONL line.
type Record struct {
	Column string `json:"column"`
	Chunk  int    `json:"chunk"`
	// InputXXHash fingerprints the little-endian bytes of the input values.
	InputXXHash      string            `json:"input_xxhash"`
	CompressorConfig map[string]string `json:"compressor_config"`
	Config           Config            `json:"config"`
	Results          Results           `json:"results"`
}

// Stream identifies the input of one run.
type Stream struct {
	Column string
	Chunk  int
	Values []float32
}

// NewRecord builds the record of one run. compressorConfig is the backend's
// canonical configuration after Configure.
func NewRecord(cfg Config, stream Stream, compressorConfig map[string]string, run benchmark.Run) Record {
	m := run.Metrics

	return Record{
		Column:           stream.Column,
		Chunk:            stream.Chunk,
		InputXXHash:      fmt.Sprintf("%016x", hash.Float32s(stream.Values)),
		CompressorConfig: compressorConfig,
		Config:           cfg,
		Results: Results{
			OriginalSizeBytes:           m.OriginalBytes,
			CompressedSizeBytes:         m.CompressedBytes,
			CompressionMillis:           Metric(run.Compression.ElapsedMillis()),
			DecompressionMillis:         Metric(run.Decompression.ElapsedMillis()),
			CompressionRatio:            Metric(m.CompressionRatio),
			CompressionThroughputMBps:   Metric(m.CompressionThroughputMBps),
			DecompressionThroughputMBps: Metric(m.DecompressionThroughputMBps),
			AbsErrorMax:                 Metric(m.AbsErrorMax),
			AbsErrorAvg:                 Metric(m.AbsErrorAvg),
			RelErrorMax:                 Metric(m.RelErrorMax),
			RelErrorAvg:                 Metric(m.RelErrorAvg),
			MSE:                         Metric(m.MSE),
			PSNR:                        Metric(m.PSNR),
		},
	}
}

// WriteJSONL writes rec to w as one line.
func WriteJSONL(w io.Writer, rec Record) error {
	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	// Encode terminates the line, so each record reaches w in one write.
	if err := json.NewEncoder(buf).Encode(rec); err != nil {
		return fmt.Errorf("report: encode record: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("report: write record: %w", err)
	}

	return nil
}

// AppendJSONL appends rec to the file at path, creating it if needed.
func AppendJSONL(path string, rec Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s for append: %w", path, err)
	}

	if err := WriteJSONL(f, rec); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// ReadJSONL decodes every record in r.
func ReadJSONL(r io.Reader) ([]Record, error) {
	var out []Record

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("report: line %d: %w", line, err)
		}
		out = append(out, rec)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("report: read: %w", err)
	}

	return out, nil
}

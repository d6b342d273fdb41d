package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/parquet-go/parquet-go"

	"github.com/lossbench/lossbench/internal/options"
	"github.com/lossbench/lossbench/internal/telemetry"
)

var (
	// ErrNotFound is returned when a file, object or column does not exist.
	ErrNotFound = errors.New("dataset: not found")

	// ErrUnsupportedColumn is returned for columns that are not FLOAT or DOUBLE.
	ErrUnsupportedColumn = errors.New("dataset: unsupported column type")
)

// readBatch is the number of values fetched from a page per call.
const readBatch = 4096

// Store reads and writes parquet datasets on the local filesystem or S3.
type Store struct {
	s3cfg  S3Config
	logger telemetry.Logger

	mu     sync.Mutex
	client ObjectAPI
}

// StoreOption configures a Store.
type StoreOption = options.Option[*Store]

// WithS3Config sets the configuration used to create the S3 client on first
// use of an s3:// URI.
func WithS3Config(cfg S3Config) StoreOption {
	return options.NoError(func(s *Store) {
		s.s3cfg = cfg
	})
}

// WithS3Client sets the S3 client directly.
func WithS3Client(client ObjectAPI) StoreOption {
	return options.New(func(s *Store) error {
		if client == nil {
			return errors.New("dataset: nil S3 client")
		}
		s.client = client

		return nil
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l telemetry.Logger) StoreOption {
	return options.New(func(s *Store) error {
		if l == nil {
			return errors.New("dataset: nil logger")
		}
		s.logger = l

		return nil
	})
}

// NewStore creates a Store.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{logger: telemetry.Discard()}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) s3Client(ctx context.Context) (ObjectAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := NewS3Client(ctx, s.s3cfg)
		if err != nil {
			return nil, err
		}
		s.client = client
	}

	return s.client, nil
}

// open returns a random-access reader over the object or file at uri.
func (s *Store) open(ctx context.Context, uri string) (io.ReaderAt, int64, func(), error) {
	if isS3(uri) {
		client, err := s.s3Client(ctx)
		if err != nil {
			return nil, 0, nil, err
		}
		data, err := getObject(ctx, client, uri)
		if err != nil {
			return nil, 0, nil, err
		}

		return bytes.NewReader(data), int64(len(data)), func() {}, nil
	}

	f, err := os.Open(uri)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}

		return nil, 0, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, nil, err
	}

	return f, info.Size(), func() { _ = f.Close() }, nil
}

func (s *Store) openParquet(ctx context.Context, uri string) (*parquet.File, func(), error) {
	r, size, closeFn, err := s.open(ctx, uri)
	if err != nil {
		return nil, nil, err
	}

	file, err := parquet.OpenFile(r, size)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dataset: open parquet %s: %w", uri, err)
	}

	return file, closeFn, nil
}

// Columns lists the dotted paths of every FLOAT or DOUBLE leaf column of
// the parquet file at uri.
func (s *Store) Columns(ctx context.Context, uri string) ([]string, error) {
	file, closeFn, err := s.openParquet(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var out []string
	for _, path := range file.Schema().Columns() {
		leaf, ok := file.Schema().Lookup(path...)
		if ok && isFloatLeaf(leaf) {
			out = append(out, strings.Join(path, "."))
		}
	}

	return out, nil
}

// ReadColumn reads the FLOAT or DOUBLE leaf column at the dotted path column
// and flattens it into one float32 sequence. Repeated columns such as
// "pt.list.element" are flattened row by row. Null values are skipped and
// DOUBLE values are narrowed to float32.
func (s *Store) ReadColumn(ctx context.Context, uri, column string) ([]float32, error) {
	file, closeFn, err := s.openParquet(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	leaf, ok := file.Schema().Lookup(strings.Split(column, ".")...)
	if !ok {
		return nil, fmt.Errorf("%w: column %q in %s", ErrNotFound, column, uri)
	}
	if !isFloatLeaf(leaf) {
		return nil, fmt.Errorf("%w: column %q is %s", ErrUnsupportedColumn, column, leaf.Node.Type())
	}

	out := make([]float32, 0, file.NumRows())
	buf := make([]parquet.Value, readBatch)
	for _, rg := range file.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err = readChunk(rg.ColumnChunks()[leaf.ColumnIndex], buf, out)
		if err != nil {
			return nil, fmt.Errorf("dataset: read column %q in %s: %w", column, uri, err)
		}
	}

	s.logger.DebugContext(ctx, "column loaded", "uri", uri, "column", column, "values", len(out))

	return out, nil
}

func readChunk(chunk parquet.ColumnChunk, buf []parquet.Value, out []float32) ([]float32, error) {
	pages := chunk.Pages()
	defer func() { _ = pages.Close() }()

	for {
		page, err := pages.ReadPage()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}

		out, err = readPage(page.Values(), buf, out)
		if err != nil {
			return out, err
		}
	}
}

func readPage(values parquet.ValueReader, buf []parquet.Value, out []float32) ([]float32, error) {
	for {
		n, err := values.ReadValues(buf)
		for _, v := range buf[:n] {
			switch v.Kind() {
			case parquet.Float:
				out = append(out, v.Float())
			case parquet.Double:
				out = append(out, float32(v.Double()))
			}
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

func isFloatLeaf(leaf parquet.LeafColumn) bool {
	switch leaf.Node.Type().Kind() {
	case parquet.Float, parquet.Double:
		return true
	default:
		return false
	}
}

// Chunks splits data into consecutive slices of at most size values. A
// non-positive size, or data no longer than size, yields data as a single
// chunk, so empty input is still one (empty) chunk. The chunks share data's
// backing array.
func Chunks(data []float32, size int) [][]float32 {
	if size <= 0 || size >= len(data) {
		return [][]float32{data}
	}

	out := make([][]float32, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		out = append(out, data[start:end:end])
	}

	return out
}

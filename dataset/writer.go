package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Row is one reconstructed value in a decompressed-output file.
type Row struct {
	Column string  `parquet:"column,dict"`
	Chunk  int64   `parquet:"chunk"`
	Value  float32 `parquet:"value"`
}

// Writer writes reconstructed streams as snappy-compressed parquet rows.
// Output for an s3:// URI is buffered and uploaded by Close.
type Writer struct {
	store *Store
	uri   string

	file *os.File
	buf  *bytes.Buffer
	pw   *parquet.GenericWriter[Row]
	rows []Row
}

// Create opens a Writer for uri, truncating any local file.
func (s *Store) Create(ctx context.Context, uri string) (*Writer, error) {
	w := &Writer{store: s, uri: uri}

	var dst io.Writer
	if isS3(uri) {
		if _, _, err := splitS3(uri); err != nil {
			return nil, err
		}
		if _, err := s.s3Client(ctx); err != nil {
			return nil, err
		}
		w.buf = new(bytes.Buffer)
		dst = w.buf
	} else {
		f, err := os.Create(uri)
		if err != nil {
			return nil, fmt.Errorf("dataset: create %s: %w", uri, err)
		}
		w.file = f
		dst = f
	}

	w.pw = parquet.NewGenericWriter[Row](dst, parquet.Compression(&parquet.Snappy))

	return w, nil
}

// Write appends the values of one chunk of column.
func (w *Writer) Write(column string, chunk int, values []float32) error {
	w.rows = w.rows[:0]
	for _, v := range values {
		w.rows = append(w.rows, Row{Column: column, Chunk: int64(chunk), Value: v})
	}

	if _, err := w.pw.Write(w.rows); err != nil {
		return fmt.Errorf("dataset: write %s chunk %d: %w", column, chunk, err)
	}

	return nil
}

// Close flushes the parquet footer and, for S3 output, uploads the object.
func (w *Writer) Close(ctx context.Context) error {
	err := w.pw.Close()

	if w.file != nil {
		err = errors.Join(err, w.file.Close())
		return err
	}

	if err != nil {
		return err
	}

	client, err := w.store.s3Client(ctx)
	if err != nil {
		return err
	}
	if err := putObject(ctx, client, w.uri, w.buf.Bytes()); err != nil {
		return err
	}

	w.store.logger.DebugContext(ctx, "decompressed output uploaded", "uri", w.uri, "bytes", w.buf.Len())

	return nil
}

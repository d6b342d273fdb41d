package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
)

type event struct {
	Pt     []float32 `parquet:"pt,list"`
	Energy float64   `parquet:"energy"`
	Mass   *float32  `parquet:"mass,optional"`
	Name   string    `parquet:"name"`
}

func fixtureEvents() []event {
	m := float32(0.105)
	return []event{
		{Pt: []float32{1.5, 2.5}, Energy: 10.25, Mass: &m, Name: "a"},
		{Pt: nil, Energy: -3, Name: "b"},
		{Pt: []float32{float32(math.Inf(1)), 7}, Energy: 1e-3, Mass: &m, Name: "c"},
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.parquet")
	require.NoError(t, parquet.WriteFile(path, fixtureEvents()))

	return path
}

// memS3 is an in-memory ObjectAPI.
type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newMemS3() *memS3 {
	return &memS3{objects: make(map[string][]byte)}
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data

	return &s3.PutObjectOutput{}, nil
}

func TestReadColumn_Local(t *testing.T) {
	path := writeFixture(t)
	store, err := NewStore()
	require.NoError(t, err)
	ctx := context.Background()

	pt, err := store.ReadColumn(ctx, path, "pt.list.element")
	require.NoError(t, err)
	require.Equal(t, []float32{1.5, 2.5, float32(math.Inf(1)), 7}, pt)

	energy, err := store.ReadColumn(ctx, path, "energy")
	require.NoError(t, err)
	require.Equal(t, []float32{10.25, -3, float32(1e-3)}, energy)

	mass, err := store.ReadColumn(ctx, path, "mass")
	require.NoError(t, err)
	require.Equal(t, []float32{0.105, 0.105}, mass, "nulls are skipped")
}

func TestReadColumn_Errors(t *testing.T) {
	path := writeFixture(t)
	store, err := NewStore()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.ReadColumn(ctx, path, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.ReadColumn(ctx, path, "name")
	require.ErrorIs(t, err, ErrUnsupportedColumn)

	_, err = store.ReadColumn(ctx, filepath.Join(t.TempDir(), "nope.parquet"), "energy")
	require.ErrorIs(t, err, ErrNotFound)

	garbage := filepath.Join(t.TempDir(), "garbage.parquet")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not parquet"), 0o600))
	_, err = store.ReadColumn(ctx, garbage, "energy")
	require.Error(t, err)
}

func TestColumns(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)

	cols, err := store.Columns(context.Background(), writeFixture(t))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"pt.list.element", "energy", "mass"}, cols)
}

func TestReadColumn_S3(t *testing.T) {
	raw, err := os.ReadFile(writeFixture(t))
	require.NoError(t, err)

	mem := newMemS3()
	mem.objects["bucket/data/events.parquet"] = raw

	store, err := NewStore(WithS3Client(mem))
	require.NoError(t, err)
	ctx := context.Background()

	energy, err := store.ReadColumn(ctx, "s3://bucket/data/events.parquet", "energy")
	require.NoError(t, err)
	require.Len(t, energy, 3)

	_, err = store.ReadColumn(ctx, "s3://bucket/other.parquet", "energy")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.ReadColumn(ctx, "s3://bucket", "energy")
	require.ErrorContains(t, err, "invalid S3 URI")

	mem.getErr = errors.New("network down")
	_, err = store.ReadColumn(ctx, "s3://bucket/data/events.parquet", "energy")
	require.ErrorContains(t, err, "network down")
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestWriter_LocalRoundTrip(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "out.parquet")
	w, err := store.Create(ctx, path)
	require.NoError(t, err)
	require.NoError(t, w.Write("pt", 0, []float32{1, 2}))
	require.NoError(t, w.Write("pt", 1, []float32{3}))
	require.NoError(t, w.Write("energy", 0, []float32{float32(math.NaN())}))
	require.NoError(t, w.Close(ctx))

	rows, err := parquet.ReadFile[Row](path)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, Row{Column: "pt", Chunk: 0, Value: 1}, rows[0])
	require.Equal(t, Row{Column: "pt", Chunk: 1, Value: 3}, rows[2])
	require.Equal(t, "energy", rows[3].Column)
	require.True(t, math.IsNaN(float64(rows[3].Value)))

	values, err := store.ReadColumn(ctx, path, "value")
	require.NoError(t, err)
	require.Len(t, values, 4)
}

func TestWriter_S3Upload(t *testing.T) {
	mem := newMemS3()
	store, err := NewStore(WithS3Client(mem))
	require.NoError(t, err)
	ctx := context.Background()

	w, err := store.Create(ctx, "s3://bucket/out/decomp.parquet")
	require.NoError(t, err)
	require.NoError(t, w.Write("energy", 3, []float32{4.5, 5.5}))
	require.Empty(t, mem.objects, "nothing is uploaded before Close")
	require.NoError(t, w.Close(ctx))

	values, err := store.ReadColumn(ctx, "s3://bucket/out/decomp.parquet", "value")
	require.NoError(t, err)
	require.Equal(t, []float32{4.5, 5.5}, values)

	_, err = store.Create(ctx, "s3://bucket-only")
	require.Error(t, err)
}

func TestNewStore_InvalidOptions(t *testing.T) {
	_, err := NewStore(WithS3Client(nil), WithLogger(nil))
	require.Error(t, err)
}

func TestChunks(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		size int
		want [][]float32
	}{
		{"whole", 0, [][]float32{data}},
		{"negative", -1, [][]float32{data}},
		{"larger", 10, [][]float32{data}},
		{"exact", 5, [][]float32{data}},
		{"even", 1, [][]float32{{1}, {2}, {3}, {4}, {5}}},
		{"ragged", 2, [][]float32{{1, 2}, {3, 4}, {5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Chunks(data, tt.size))
		})
	}

	for _, size := range []int{0, 3} {
		empty := Chunks([]float32{}, size)
		require.Len(t, empty, 1)
		require.Empty(t, empty[0])
	}

	// Appending to a chunk must not overwrite its neighbour.
	chunks := Chunks(data, 2)
	_ = append(chunks[0], 99)
	require.Equal(t, float32(3), chunks[1][0])
}

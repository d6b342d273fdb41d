package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat32Slice(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Zero", 0},
		{"Small", 16},
		{"Large", 100_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cleanup := GetFloat32Slice(tt.size)
			defer cleanup()

			require.Len(t, s, tt.size)
			for i := range s {
				s[i] = float32(i)
			}
		})
	}
}

func TestGetFloat32Slice_Reuse(t *testing.T) {
	s, cleanup := GetFloat32Slice(1024)
	require.Len(t, s, 1024)
	cleanup()

	// A smaller request must still get the exact length.
	s2, cleanup2 := GetFloat32Slice(10)
	defer cleanup2()
	require.Len(t, s2, 10)
}

func TestGetInt32Slice(t *testing.T) {
	s, cleanup := GetInt32Slice(500)
	defer cleanup()

	require.Len(t, s, 500)
	s[499] = -7
	require.Equal(t, int32(-7), s[499])
}

func TestSlicePools_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for g := range 32 {
		wg.Add(1)
		go func(size int) {
			defer wg.Done()
			for range 200 {
				f, fc := GetFloat32Slice(size)
				q, qc := GetInt32Slice(size)
				if len(f) != size || len(q) != size {
					t.Errorf("unexpected lengths %d/%d for size %d", len(f), len(q), size)
				}
				qc()
				fc()
			}
		}(g * 10)
	}
	wg.Wait()
}

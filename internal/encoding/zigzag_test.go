package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lossbench/lossbench/errs"
)

func TestZigZag_RoundTrip(t *testing.T) {
	codes := []int32{0, -1, 1, -64, 63, 64, -65, 1000, -32768, 32767, math.MaxInt32, math.MinInt32}

	data := AppendZigZag(nil, codes)
	got := make([]int32, len(codes))
	n, err := DecodeZigZag(data, got)

	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, codes, got)
}

func TestZigZag_SmallCodesUseOneByte(t *testing.T) {
	codes := []int32{0, 1, -1, 63, -64}
	require.Len(t, AppendZigZag(nil, codes), len(codes))
}

func TestZigZag_AppendsToPrefix(t *testing.T) {
	data := AppendZigZag([]byte{0xFF}, []int32{5})
	require.Equal(t, []byte{0xFF, 10}, data)

	got := make([]int32, 1)
	n, err := DecodeZigZag(data[1:], got)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, int32(5), got[0])
}

func TestZigZag_Corrupt(t *testing.T) {
	got := make([]int32, 3)

	_, err := DecodeZigZag([]byte{2}, got)
	require.ErrorIs(t, err, errs.ErrCorruptStream)

	_, err = DecodeZigZag([]byte{0x80, 0x80}, got[:1])
	require.ErrorIs(t, err, errs.ErrCorruptStream)

	// 2^35 does not fit 32 bits.
	_, err = DecodeZigZag([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, got[:1])
	require.ErrorIs(t, err, errs.ErrCorruptStream)
}

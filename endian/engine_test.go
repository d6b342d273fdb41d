package endian

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result, "CheckEndianness() should return BigEndian")
		require.False(IsNativeLittleEndian())
	case 0x02:
		require.Equal(binary.LittleEndian, result, "CheckEndianness() should return LittleEndian")
		require.True(IsNativeLittleEndian())
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestGetEngines(t *testing.T) {
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
}

func TestFloat32s_RoundTrip(t *testing.T) {
	nanPayload := math.Float32frombits(0x7fc00001)
	values := []float32{
		0, float32(math.Copysign(0, -1)), 1.5, -2.25,
		math.MaxFloat32, math.SmallestNonzeroFloat32,
		float32(math.Inf(1)), float32(math.Inf(-1)), nanPayload,
	}

	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		raw := AppendFloat32s(engine, nil, values)
		require.Len(t, raw, len(values)*4)

		back, err := Float32s(engine, raw)
		require.NoError(t, err)
		require.Len(t, back, len(values))
		for i := range values {
			require.Equal(t, math.Float32bits(values[i]), math.Float32bits(back[i]), "index %d", i)
		}
	}
}

func TestAppendFloat32s_LittleEndianLayout(t *testing.T) {
	raw := AppendFloat32s(GetLittleEndianEngine(), []byte{0xAA}, []float32{1.0})
	// 1.0f == 0x3f800000
	require.Equal(t, []byte{0xAA, 0x00, 0x00, 0x80, 0x3f}, raw)
}

func TestFloat32s_Misaligned(t *testing.T) {
	_, err := Float32s(GetLittleEndianEngine(), []byte{1, 2, 3})
	require.Error(t, err)

	out, err := Float32s(GetLittleEndianEngine(), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

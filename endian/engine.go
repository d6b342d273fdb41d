// Package endian converts float32 sequences to and from their byte form.
//
// Every lossbench backend serializes float32 values in little-endian IEEE 754
// form, regardless of the host byte order, so that a compressed payload
// produced on one machine decodes identically on another.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	raw := endian.AppendFloat32s(engine, nil, values)
//	back, err := endian.Float32s(engine, raw)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// AppendFloat32s appends the IEEE 754 bits of every value to dst and returns
// the extended slice. NaN payloads and signed zeros are preserved bit for bit.
func AppendFloat32s(engine EndianEngine, dst []byte, values []float32) []byte {
	if cap(dst)-len(dst) < len(values)*4 {
		grown := make([]byte, len(dst), len(dst)+len(values)*4)
		copy(grown, dst)
		dst = grown
	}

	for _, v := range values {
		dst = engine.AppendUint32(dst, math.Float32bits(v))
	}

	return dst
}

// Float32s decodes data produced by AppendFloat32s.
//
// Returns an error if len(data) is not a multiple of 4.
func Float32s(engine EndianEngine, data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("float32 payload length %d is not a multiple of 4", len(data))
	}

	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(engine.Uint32(data[i*4:]))
	}

	return out, nil
}

package compress

import (
	"testing"

	"github.com/lossbench/lossbench/format"
)

func BenchmarkAllCodecs_Compress(b *testing.B) {
	data := floatPayload(16 * 1024)

	for _, ct := range allTypes {
		codec, _ := GetCodec(ct)
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	data := floatPayload(16 * 1024)

	for _, ct := range allTypes {
		codec, _ := GetCodec(ct)
		compressed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}

func BenchmarkZstd_Levels(b *testing.B) {
	data := floatPayload(16 * 1024)
	r, _ := Levels(format.CompressionZstd)

	for level := r.Min; level <= r.Max; level++ {
		codec := NewZstdCodec(level)
		b.Run(format.CompressionZstd.String()+"/"+string(rune('0'+level)), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
	}
}

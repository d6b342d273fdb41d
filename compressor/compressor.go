// Package compressor defines the capability contract every benchmarked
// backend implements, the option schema that validates backend
// configuration, and the factory that creates backends by name.
//
// # Basic Usage
//
//	c, err := compressor.New("zlib")
//	if err != nil {
//		return err
//	}
//	if err := c.Configure(map[string]string{"compressionLevel": "9"}); err != nil {
//		return err
//	}
//	cd, err := c.Compress(values)
//	...
//	back, err := c.Decompress(cd)
//
// # Errors
//
// Configure failures match errs.ErrInvalidConfiguration and carry one
// *errs.ConfigError per rejected key. Compress failures match
// errs.ErrEncodeFailure. Decompress failures match errs.ErrDecodeFailure,
// or errs.ErrMalformedInput when the declared size is not a whole number of
// float32 elements.
//
// # Thread Safety
//
// Instances are not safe for concurrent use. Create one instance per
// goroutine.
package compressor

import (
	"fmt"
	"runtime/debug"

	"github.com/lossbench/lossbench/errs"
	"github.com/lossbench/lossbench/format"
)

// CompressedData is an opaque compressed buffer plus the size in bytes of
// the float32 sequence it encodes.
type CompressedData struct {
	Bytes        []byte
	OriginalSize int
}

// Len returns the number of float32 elements the buffer decodes to.
func (cd CompressedData) Len() int {
	return cd.OriginalSize / format.ElementSize
}

// Compressor is the contract shared by every backend.
type Compressor interface {
	// Compress encodes data. Nil and empty input are both accepted.
	// The returned OriginalSize is len(data)*4.
	Compress(data []float32) (CompressedData, error)

	// Decompress reverses Compress. The result has exactly OriginalSize/4
	// elements.
	Decompress(data CompressedData) ([]float32, error)

	// Configure replaces the whole configuration: defaults first, then the
	// given keys. Unknown keys are ignored. On failure the previous
	// configuration stays in effect.
	Configure(options map[string]string) error

	// Config returns the canonical form of every option. Passing it back to
	// Configure reproduces the same configuration.
	Config() map[string]string

	Name() string
	Description() string
	Version() string
	Usage() string
}

// checkOriginalSize validates the declared size of cd.
func checkOriginalSize(cd CompressedData) error {
	if cd.OriginalSize < 0 || cd.OriginalSize%format.ElementSize != 0 {
		return fmt.Errorf("%w: original size %d is not a multiple of %d",
			errs.ErrMalformedInput, cd.OriginalSize, format.ElementSize)
	}

	return nil
}

// checkDecodedLen reports a backend that produced a different number of
// values than cd declares. The error matches both ErrDecodeFailure and
// ErrSizeMismatch.
func checkDecodedLen(name string, cd CompressedData, got int) error {
	if got != cd.Len() {
		return fmt.Errorf("%w: %w: %s: decoded %d values, want %d",
			errs.ErrDecodeFailure, errs.ErrSizeMismatch, name, got, cd.Len())
	}

	return nil
}

// moduleVersion reports the version of the named dependency as linked into
// the running binary.
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return path + " (unknown)"
	}

	if info.Main.Path == path {
		return path + " " + info.Main.Version
	}

	for _, dep := range info.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				dep = dep.Replace
			}

			return path + " " + dep.Version
		}
	}

	return path + " (unknown)"
}

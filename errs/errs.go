// Package errs defines the error kinds shared by lossbench packages.
//
// Every failure a benchmark run can produce matches one of the exported
// sentinels via errors.Is. A decode whose length disagrees with the declared
// size matches both ErrDecodeFailure and ErrSizeMismatch. Wrapping code adds
// context with fmt.Errorf("...: %w", err) and never replaces the sentinel.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCompressor is returned by the factory for a name it does not know.
	ErrUnknownCompressor = errors.New("unknown compressor")

	// ErrInvalidConfiguration is matched by every *ConfigError.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEncodeFailure wraps any error reported by a backend while compressing.
	ErrEncodeFailure = errors.New("encode failure")

	// ErrDecodeFailure wraps any error reported by a backend while decompressing.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrMalformedInput is returned when a declared original size is not
	// a whole number of elements.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSizeMismatch is returned when a reconstructed sequence does not have
	// the length of the original or of the declared original size.
	ErrSizeMismatch = errors.New("size mismatch")
)

// Engine-level errors. They surface to callers wrapped in ErrEncodeFailure
// or ErrDecodeFailure.
var (
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrCorruptStream        = errors.New("corrupt stream")
)

// ConfigError describes one rejected configuration option.
type ConfigError struct {
	Key    string // option key as supplied
	Value  string // raw value as supplied
	Reason string // what was wrong with it
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: option %s=%q: %s", ErrInvalidConfiguration, e.Key, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ConfigErrors extracts every *ConfigError contained in err. It walks both
// single-wrap chains and trees built with errors.Join.
func ConfigErrors(err error) []*ConfigError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ConfigError:
		return []*ConfigError{e}
	case interface{ Unwrap() []error }:
		var out []*ConfigError
		for _, inner := range e.Unwrap() {
			out = append(out, ConfigErrors(inner)...)
		}

		return out
	case interface{ Unwrap() error }:
		return ConfigErrors(e.Unwrap())
	default:
		return nil
	}
}

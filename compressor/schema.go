package compressor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/lossbench/lossbench/errs"
)

// option describes one configuration key of a backend whose typed settings
// live in T.
type option[T any] struct {
	key  string
	kind string
	help string
	// parse stores raw into cfg. A non-nil error is the rejection reason.
	parse  func(cfg *T, raw string) error
	format func(cfg *T) string
}

// schema is the ordered option table of one backend.
type schema[T any] struct {
	title   string
	options []option[T]
}

// apply parses every recognised key of opts into cfg. Unknown keys are
// ignored. All violations are reported together, sorted by key, as
// *errs.ConfigError values joined with errors.Join.
func (s schema[T]) apply(cfg *T, opts map[string]string) error {
	var violations []error
	for _, opt := range s.options {
		raw, ok := opts[opt.key]
		if !ok {
			continue
		}
		if err := opt.parse(cfg, raw); err != nil {
			violations = append(violations, &errs.ConfigError{Key: opt.key, Value: raw, Reason: err.Error()})
		}
	}

	slices.SortFunc(violations, func(a, b error) int {
		return strings.Compare(a.(*errs.ConfigError).Key, b.(*errs.ConfigError).Key)
	})

	return errors.Join(violations...)
}

// config renders every key of cfg in the canonical form accepted by apply.
func (s schema[T]) config(cfg *T) map[string]string {
	out := make(map[string]string, len(s.options))
	for _, opt := range s.options {
		out[opt.key] = opt.format(cfg)
	}

	return out
}

// usage renders the option table with the values found in defaults.
func (s schema[T]) usage(defaults T) string {
	width := 0
	for _, opt := range s.options {
		width = max(width, len(opt.key)+len(opt.kind)+3)
	}

	var b strings.Builder
	b.WriteString(s.title)
	b.WriteString(":\n")
	for _, opt := range s.options {
		lhs := opt.key + "=<" + opt.kind + ">"
		fmt.Fprintf(&b, "  %-*s  %s (default %s)\n", width, lhs, opt.help, opt.format(&defaults))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func parseBool(raw string) bool {
	return raw == "true" || raw == "1"
}

func boolOption[T any](key, help string, field func(*T) *bool) option[T] {
	return option[T]{
		key:  key,
		kind: "bool",
		help: help,
		parse: func(cfg *T, raw string) error {
			*field(cfg) = parseBool(raw)
			return nil
		},
		format: func(cfg *T) string { return strconv.FormatBool(*field(cfg)) },
	}
}

// uint8Option parses a selector. Values outside [0, limit) are rejected;
// a zero limit accepts the whole uint8 range.
func uint8Option[T any, U ~uint8](key, help string, limit int, field func(*T) *U) option[T] {
	return option[T]{
		key:  key,
		kind: "uint8",
		help: help,
		parse: func(cfg *T, raw string) error {
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil {
				return numError(err)
			}
			if limit > 0 && int(v) >= limit {
				return fmt.Errorf("must be in [0, %d]", limit-1)
			}
			*field(cfg) = U(v)

			return nil
		},
		format: func(cfg *T) string { return strconv.FormatUint(uint64(*field(cfg)), 10) },
	}
}

func intOption[T any](key, help string, check func(int) error, field func(*T) *int) option[T] {
	return option[T]{
		key:  key,
		kind: "int",
		help: help,
		parse: func(cfg *T, raw string) error {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return numError(err)
			}
			if check != nil {
				if err := check(v); err != nil {
					return err
				}
			}
			*field(cfg) = v

			return nil
		},
		format: func(cfg *T) string { return strconv.Itoa(*field(cfg)) },
	}
}

// floatOption parses a finite float64. Infinities and NaN are rejected.
func floatOption[T any](key, help string, check func(float64) error, field func(*T) *float64) option[T] {
	return option[T]{
		key:  key,
		kind: "double",
		help: help,
		parse: func(cfg *T, raw string) error {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return numError(err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New("must be finite")
			}
			if check != nil {
				if err := check(v); err != nil {
					return err
				}
			}
			*field(cfg) = v

			return nil
		},
		format: func(cfg *T) string { return strconv.FormatFloat(*field(cfg), 'g', -1, 64) },
	}
}

func numError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		switch {
		case errors.Is(numErr.Err, strconv.ErrRange):
			return errors.New("out of range")
		case errors.Is(numErr.Err, strconv.ErrSyntax):
			return errors.New("not a number")
		}
	}

	return err
}

func between(lo, hi int) func(int) error {
	return func(v int) error {
		if v < lo || v > hi {
			return fmt.Errorf("must be in [%d, %d]", lo, hi)
		}

		return nil
	}
}

func positive(v int) error {
	if v <= 0 {
		return errors.New("must be positive")
	}

	return nil
}

func nonNegative(v float64) error {
	if v < 0 {
		return errors.New("must be non-negative")
	}

	return nil
}

// Package options implements generic functional options for runners,
// data sources and writers.
package options

import "errors"

// Option configures a value of type T.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function to the Option interface.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option from a function that may reject its input.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies every option to target in order.
//
// A failing option does not stop the remaining ones; all failures are
// returned together via errors.Join so a caller sees every bad setting at once.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	var errs []error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

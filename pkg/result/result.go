// Package result provides a success-or-failure container used as the return
// type of every telemetry operation in this module.
//
// Instead of raising errors through panic or mixing sentinel returns with
// out-of-band state, validation, entity construction, the factory, and the
// store all return a Result. Failures are values: they carry the underlying
// error and can be chained without intermediate checks, short-circuiting on
// the first failure.
package result

import (
	"errors"
	"fmt"
)

// Unit is the success type for operations that produce no value, such as
// validation checks.
type Unit = struct{}

// Result holds either a success value of type T or a failure error.
// The zero value is a success holding T's zero value.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// OK returns a successful Result[Unit]. It is the conventional return value
// of validation functions that found nothing wrong.
func OK() Result[Unit] {
	return Result[Unit]{}
}

// Fail returns a failed Result carrying err. A nil err is replaced with a
// generic failure so that a failed Result always exposes a non-nil error.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unspecified failure")
	}
	return Result[T]{err: err}
}

// Failf returns a failed Result with a formatted error message.
// The format string supports %w wrapping, so the underlying error remains
// visible to errors.Is and errors.As.
func Failf[T any](format string, args ...any) Result[T] {
	return Result[T]{err: fmt.Errorf(format, args...)}
}

// IsOK reports whether the Result holds a success value.
func (r Result[T]) IsOK() bool {
	return r.err == nil
}

// IsFailure reports whether the Result holds a failure.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns the success value. Calling Value on a failed Result is a
// programmer error and panics; use IsOK or ValueOr when the outcome is not
// already known.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic(fmt.Sprintf("result: Value called on failed Result: %v", r.err))
	}
	return r.value
}

// ValueOr returns the success value, or fallback if the Result failed.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Err returns the failure error, or nil for a successful Result.
func (r Result[T]) Err() error {
	return r.err
}

// Then runs fn on the success value and returns its Result.
// If r already failed, the failure is propagated unchanged and fn is not
// called. This is the flatMap operation of railway-oriented chaining.
func Then[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return fn(r.value)
}

// Map runs fn on the success value and wraps its return in a successful
// Result. If r already failed, the failure is propagated unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Result[U]{value: fn(r.value)}
}

// FailFrom converts a failed Result of one type into a failed Result of
// another, preserving the original error. Calling it on a successful Result
// is a programmer error and panics.
func FailFrom[T, U any](r Result[T]) Result[U] {
	if r.err == nil {
		panic("result: FailFrom called on successful Result")
	}
	return Result[U]{err: r.err}
}

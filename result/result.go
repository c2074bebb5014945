// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package result provides a two variant outcome type and the closed set of
// network errors reported by the posts API client.
package result

// Result is the outcome of a single operation. Exactly one of
// its variants is populated and it is never modified after construction.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success returns a Result holding the given value.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Error returns a Result holding the given error.
func Error[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// IsSuccess reports whether r holds a value.
func (r Result[T, E]) IsSuccess() bool {
	return r.ok
}

// IsError reports whether r holds an error.
func (r Result[T, E]) IsError() bool {
	return !r.ok
}

// Value returns the success value and true, or the zero value
// and false if r is an Error.
func (r Result[T, E]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the error and true, or the zero value and false
// if r is a Success.
func (r Result[T, E]) Err() (E, bool) {
	if r.ok {
		var zero E
		return zero, false
	}
	return r.err, true
}

// OnSuccess calls f with the value if r is a Success. r is
// always returned unchanged so calls may be chained.
func (r Result[T, E]) OnSuccess(f func(T)) Result[T, E] {
	if r.ok {
		f(r.value)
	}
	return r
}

// OnError calls f with the error if r is an Error. r is
// always returned unchanged so calls may be chained.
func (r Result[T, E]) OnError(f func(E)) Result[T, E] {
	if !r.ok {
		f(r.err)
	}
	return r
}

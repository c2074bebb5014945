// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ptr provides helpers for working with references of values.
package ptr

// Ref returns a reference to a copy of t.
func Ref[T any](t T) *T {
	return &t
}

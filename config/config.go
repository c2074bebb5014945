// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads layered configuration sources into a typed struct.
//
// Sources are applied in order and later sources override earlier ones.
// Struct fields are matched using the `config` tag.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Source defines valid config sources as those who can
// apply their values to a viper instance.
type Source interface {
	Apply(*viper.Viper) error
}

// SourceFunc is a functional implementation of the Source interface.
type SourceFunc func(*viper.Viper) error

// Apply implements the Source interface.
func (f SourceFunc) Apply(v *viper.Viper) error {
	return f(v)
}

// Read applies every source and unmarshals the merged result into T.
func Read[T any](srcs ...Source) (T, error) {
	var cfg T

	v := viper.New()
	for _, src := range srcs {
		err := src.Apply(v)
		if err != nil {
			return cfg, ReadError{Cause: err}
		}
	}

	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "config"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return cfg, UnmarshalError{Cause: err}
	}
	return cfg, nil
}

// ReadError
type ReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ReadError) Error() string {
	return fmt.Sprintf("failed to read config source(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ReadError) Unwrap() error {
	return e.Cause
}

// UnmarshalError
type UnmarshalError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e UnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal read config source(s) into custom type: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e UnmarshalError) Unwrap() error {
	return e.Cause
}

// Defaults registers default values for the given keys. Keys use
// dot notation for nesting, e.g. "http.timeout".
func Defaults(m map[string]any) Source {
	return SourceFunc(func(v *viper.Viper) error {
		for k, val := range m {
			v.SetDefault(k, val)
		}
		return nil
	})
}

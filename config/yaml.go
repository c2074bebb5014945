// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
)

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// FromYaml returns a source which merges the YAML values
// parsed from the given io.Reader.
func FromYaml(r io.Reader) Source {
	return SourceFunc(func(v *viper.Viper) error {
		v.SetConfigType("yaml")
		err := v.MergeConfig(r)
		if err != nil {
			return InvalidYamlError{Cause: err}
		}
		return nil
	})
}

// FromYamlFile is like FromYaml but reads from the file at path.
// An empty path is skipped.
func FromYamlFile(path string) Source {
	return SourceFunc(func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		return FromYaml(f).Apply(v)
	})
}

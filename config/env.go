// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// FromEnv returns a Source which overrides any known key with the
// environment variable named PREFIX_KEY, where dots in the key are
// replaced by underscores, e.g. POSTBOARD_HTTP_TIMEOUT.
//
// Only keys introduced by an earlier source are looked up.
func FromEnv(prefix string) Source {
	return SourceFunc(func(v *viper.Viper) error {
		v.SetEnvPrefix(prefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		return nil
	})
}

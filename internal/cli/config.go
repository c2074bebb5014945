// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"time"

	"github.com/z5labs/postboard/config"
	"github.com/z5labs/postboard/pkg/otelconfig"
	"github.com/z5labs/postboard/postapi"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "POSTBOARD"

// Config
type Config struct {
	API struct {
		BaseURL string `config:"baseUrl"`
	} `config:"api"`

	HTTP struct {
		// Timeout is a transport deadline and is disabled by default.
		// When set, an expired deadline surfaces as UNKNOWN.
		Timeout time.Duration `config:"timeout"`
		Circuit struct {
			Enabled          bool          `config:"enabled"`
			TripAfter        uint32        `config:"tripAfter"`
			OpenTimeout      time.Duration `config:"openTimeout"`
			HalfOpenRequests uint32        `config:"halfOpenRequests"`
		} `config:"circuit"`
	} `config:"http"`

	Log struct {
		Level       zapcore.Level `config:"level"`
		Development bool          `config:"development"`
	} `config:"log"`

	OTel otelconfig.Config `config:"otel"`
}

var defaults = map[string]any{
	"api.baseUrl":                   postapi.DefaultBaseURL,
	"http.timeout":                  "0s",
	"http.circuit.enabled":          false,
	"http.circuit.tripAfter":        5,
	"http.circuit.openTimeout":      "60s",
	"http.circuit.halfOpenRequests": 1,
	"log.level":                     "warn",
	"log.development":               false,
	"otel.exporter":                 "none",
	"otel.serviceName":              "postboard",
	"otel.otlp.target":              "localhost:4317",
	"otel.gcp.projectId":            "",
}

func readConfig(path string) (Config, error) {
	return config.Read[Config](
		config.Defaults(defaults),
		config.FromYamlFile(path),
		config.FromEnv(EnvPrefix),
	)
}

func newLogger(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Log.Level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

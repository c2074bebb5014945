// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelconfig initializes the OpenTelemetry trace SDK for postboard.
package otelconfig

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config selects and configures the span exporter.
type Config struct {
	// Exporter is one of none, stdout, otlp or gcp.
	Exporter    string `config:"exporter"`
	ServiceName string `config:"serviceName"`
	OTLP        struct {
		Target string `config:"target"`
	} `config:"otlp"`
	GCP struct {
		ProjectID string `config:"projectId"`
	} `config:"gcp"`
}

// UnknownExporterError is returned by FromConfig for an unsupported exporter name.
type UnknownExporterError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown otel exporter: %q", e.Name)
}

// FromConfig maps cfg to the matching Initializer.
func FromConfig(cfg Config, out io.Writer) (Initializer, error) {
	switch cfg.Exporter {
	case "", "none":
		return Noop, nil
	case "stdout":
		return Local(ServiceName(cfg.ServiceName), Writer(out)), nil
	case "otlp":
		return OTLP(ServiceName(cfg.ServiceName), Target(cfg.OTLP.Target)), nil
	case "gcp":
		return GoogleCloud(ServiceName(cfg.ServiceName), GoogleCloudProjectID(cfg.GCP.ProjectID)), nil
	default:
		return nil, UnknownExporterError{Name: cfg.Exporter}
	}
}

// Common
type Common struct {
	ServiceName string
}

// CommonOption
type CommonOption interface {
	GoogleCloudOption
	LocalOption
	OTLPOption
}

type commonOptionFunc func(*Common)

func (f commonOptionFunc) ApplyGCP(cfg *GoogleCloudConfig) {
	f(&cfg.Common)
}

func (f commonOptionFunc) ApplyOTLP(cfg *OTLPConfig) {
	f(&cfg.Common)
}

func (f commonOptionFunc) ApplyLocal(cfg *LocalConfig) {
	f(&cfg.Common)
}

// ServiceName
func ServiceName(name string) CommonOption {
	return commonOptionFunc(func(c *Common) {
		c.ServiceName = name
	})
}

func (c Common) resource(ctx context.Context, opts ...resource.Option) (*resource.Resource, error) {
	opts = append(
		opts,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(c.ServiceName),
		),
	)
	return resource.New(ctx, opts...)
}

// Initializer builds a TracerProvider.
type Initializer interface {
	Init(context.Context) (trace.TracerProvider, error)
}

// Noop keeps the globally registered TracerProvider.
var Noop = noopInitializer{}

type noopInitializer struct{}

// Init implements the Initializer interface.
func (noopInitializer) Init(context.Context) (trace.TracerProvider, error) {
	return otel.GetTracerProvider(), nil
}

// LocalConfig
type LocalConfig struct {
	Common
	Out io.Writer
}

// LocalOption
type LocalOption interface {
	ApplyLocal(*LocalConfig)
}

type localOptionFunc func(*LocalConfig)

func (f localOptionFunc) ApplyLocal(cfg *LocalConfig) {
	f(cfg)
}

// Writer sets where spans are written to. Default is [os.Stdout].
func Writer(w io.Writer) LocalOption {
	return localOptionFunc(func(cfg *LocalConfig) {
		if w != nil {
			cfg.Out = w
		}
	})
}

// Local returns an Initializer which pretty prints spans.
func Local(opts ...LocalOption) Initializer {
	cfg := LocalConfig{
		Out: os.Stdout,
	}
	for _, opt := range opts {
		opt.ApplyLocal(&cfg)
	}
	return cfg
}

// Init implements the Initializer interface.
func (cfg LocalConfig) Init(ctx context.Context) (trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(cfg.Out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	res, err := cfg.Common.resource(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// Install initializes the TracerProvider, registers it globally and
// returns a func which flushes and shuts it down.
func Install(ctx context.Context, in Initializer) (func(context.Context) error, error) {
	nop := func(context.Context) error { return nil }
	if _, ok := in.(noopInitializer); ok {
		return nop, nil
	}

	tp, err := in.Init(ctx)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	sd, ok := tp.(shutdowner)
	if !ok {
		return nop, nil
	}
	return sd.Shutdown, nil
}

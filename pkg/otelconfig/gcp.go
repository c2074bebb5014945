// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelconfig

import (
	"context"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

// GoogleCloudConfig exports postboard spans to Cloud Trace.
type GoogleCloudConfig struct {
	Common

	// ProjectID is the Cloud Trace project. If empty, it is
	// resolved from the default credentials.
	ProjectID string

	clientOptions []option.ClientOption
	detectors     []resource.Detector
}

// GoogleCloudOption configures the Cloud Trace Initializer.
type GoogleCloudOption interface {
	ApplyGCP(*GoogleCloudConfig)
}

type gcpOptionFunc func(*GoogleCloudConfig)

func (f gcpOptionFunc) ApplyGCP(cfg *GoogleCloudConfig) {
	f(cfg)
}

// GoogleCloudProjectID sets the Cloud Trace project.
func GoogleCloudProjectID(id string) GoogleCloudOption {
	return gcpOptionFunc(func(gcc *GoogleCloudConfig) {
		gcc.ProjectID = id
	})
}

// GoogleCloudClientOptions appends options for the underlying
// Cloud Trace API client, e.g. credentials or an endpoint.
func GoogleCloudClientOptions(opts ...option.ClientOption) GoogleCloudOption {
	return gcpOptionFunc(func(gcc *GoogleCloudConfig) {
		gcc.clientOptions = append(gcc.clientOptions, opts...)
	})
}

// GoogleCloudDetectors replaces the resource detectors, which
// default to the GCP platform detector.
func GoogleCloudDetectors(ds ...resource.Detector) GoogleCloudOption {
	return gcpOptionFunc(func(gcc *GoogleCloudConfig) {
		gcc.detectors = ds
	})
}

// GoogleCloud returns an Initializer for exporting traces directly to Cloud Trace.
func GoogleCloud(opts ...GoogleCloudOption) Initializer {
	gc := GoogleCloudConfig{
		clientOptions: []option.ClientOption{option.WithTelemetryDisabled()},
		detectors:     []resource.Detector{gcp.NewDetector()},
	}
	for _, opt := range opts {
		opt.ApplyGCP(&gc)
	}
	return gc
}

func (cfg GoogleCloudConfig) exporterOptions() []texporter.Option {
	opts := []texporter.Option{
		texporter.WithTraceClientOptions(cfg.clientOptions),
	}
	if cfg.ProjectID != "" {
		opts = append(opts, texporter.WithProjectID(cfg.ProjectID))
	}
	return opts
}

func (cfg GoogleCloudConfig) resource(ctx context.Context) (*resource.Resource, error) {
	opts := []resource.Option{
		resource.WithAttributes(semconv.CloudProviderGCP),
	}
	if cfg.ProjectID != "" {
		opts = append(opts, resource.WithAttributes(semconv.CloudAccountID(cfg.ProjectID)))
	}
	if len(cfg.detectors) > 0 {
		opts = append(opts, resource.WithDetectors(cfg.detectors...))
	}
	return cfg.Common.resource(ctx, opts...)
}

// Init implements the Initializer interface.
func (cfg GoogleCloudConfig) Init(ctx context.Context) (trace.TracerProvider, error) {
	res, err := cfg.resource(ctx)
	if err != nil {
		return nil, err
	}

	exporter, err := texporter.New(cfg.exporterOptions()...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package telemetry installs the global tracer provider used by envelope scopes.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AccelByte/extend-bracket-queue/pkg/config"
)

const serviceNameKey = attribute.Key("service.name")

// NewTracerProvider builds a tracer provider from the config and installs it
// globally together with the multi-header b3 propagator. Spans are exported to zipkin only
// when ZipkinEndpoint is set.
func NewTracerProvider(cfg *config.Config, serviceName string) (*sdktrace.TracerProvider, error) {
	options := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(serviceNameKey.String(serviceName))),
	}

	if cfg.ZipkinEndpoint != "" {
		exporter, err := zipkin.New(cfg.ZipkinEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(options...)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)))

	return provider, nil
}

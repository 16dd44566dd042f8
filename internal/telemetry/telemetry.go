// Package telemetry provides opt-in OpenTelemetry tracing for chat
// sessions.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "parley"

// Config holds the configuration for telemetry.
type Config struct {
	Enabled      bool
	OTLPEndpoint string
	Version      string
}

// Provider manages the tracing pipeline.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider sets up an OTLP/HTTP trace exporter when telemetry is
// enabled. When disabled it returns an inert provider whose tracer records
// nothing.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		log.Printf("Telemetry disabled")
		return &Provider{}, nil
	}

	var opts []otlptracehttp.Option
	if cfg.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint), otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	log.Printf("Telemetry enabled, exporting traces to %q", cfg.OTLPEndpoint)

	return &Provider{tp: tp}, nil
}

// Tracer returns the tracer sessions should use. With telemetry disabled
// this is the global no-op tracer.
func (p *Provider) Tracer() trace.Tracer {
	if p.tp == nil {
		return otel.Tracer(serviceName)
	}
	return p.tp.Tracer(serviceName)
}

// Shutdown flushes and stops the tracing pipeline.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// NewSessionID generates a new session UUID.
func NewSessionID() string {
	return uuid.New().String()
}

// NewTurnID generates a new turn UUID.
func NewTurnID() string {
	return uuid.New().String()
}

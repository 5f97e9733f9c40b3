package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// createExporter creates an OTLP trace exporter based on configuration.
// Only the HTTP/protobuf transport is wired: the partitioner simulates its
// SPMD ranks as goroutines in one process, so there is no separate RPC
// transport in this binary for an exporter to share a connection with.
func createExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	return createHTTPExporter(ctx, cfg)
}

// createHTTPExporter creates an HTTP-based OTLP exporter.
func createHTTPExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	opts := []otlptracehttp.Option{}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if strings.HasPrefix(endpoint, "https://") {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		} else if strings.HasPrefix(endpoint, "http://") {
			endpoint = strings.TrimPrefix(endpoint, "http://")
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}

	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}

	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}

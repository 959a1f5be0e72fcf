// Package telemetry sets up trace export over OTLP/HTTP.
package telemetry

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/apricodi/builder/internal/config"
)

const tracesPath = "/v1/traces"

// Init installs a global tracer provider that batches spans to the
// configured collector. With no endpoint configured it installs nothing and
// returns a no-op shutdown. The returned function flushes pending spans.
func Init(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		log.Println("[Telemetry] No OTLP endpoint configured, tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	endpoint, err := tracesURL(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)

	log.Printf("[Telemetry] Exporting traces to %s as %s", endpoint, cfg.ServiceName)
	return tp.Shutdown, nil
}

// tracesURL accepts a collector base URL or a full traces URL and returns
// the traces URL.
func tracesURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse telemetry endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("telemetry endpoint %q must be an http(s) URL", endpoint)
	}
	if strings.TrimSuffix(u.Path, "/") == "" {
		u.Path = tracesPath
	}
	return u.String(), nil
}

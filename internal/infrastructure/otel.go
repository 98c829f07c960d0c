package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/cecomcrede1/enturmacao/internal/config"
	"github.com/cecomcrede1/enturmacao/pkg/contracts"
)

// TracerName identifies spans produced by this module
const TracerName = "github.com/cecomcrede1/enturmacao"

// TracingProviders holds the tracer provider installed for a run
type TracingProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
	Logger         *slog.Logger
}

// InitializeTracing installs a global tracer provider according to cfg.
// With the "none" exporter the global no-op provider is left in place.
// Spans exported to stdout are written to w (os.Stderr when nil).
func InitializeTracing(cfg config.TelemetryConfig, w io.Writer, logger *slog.Logger) (*TracingProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers := &TracingProviders{Logger: logger}

	var exporter sdktrace.SpanExporter
	switch cfg.TraceExporter {
	case "", "none":
		providers.Tracer = otel.Tracer(TracerName)
		return providers, nil
	case "stdout":
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(w),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceID),
		semconv.ServiceVersion(contracts.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(TracerName, trace.WithInstrumentationVersion(contracts.Version))

	otel.SetTracerProvider(tp)

	logger.Debug("Tracing initialized", slog.String("exporter", cfg.TraceExporter))

	return providers, nil
}

// Shutdown flushes pending spans
func (p *TracingProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.TracerProvider == nil {
		return nil
	}
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	return nil
}

// StartSpan starts a span on the global tracer
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Package tracing wires OpenTelemetry spans around MCP tool calls and the
// api.php requests they make.
package tracing

import (
	"context"
	"os"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "mediawiki-mcp-server"

// Span attribute keys.
const (
	AttrToolName     = attribute.Key("mcp.tool.name")
	AttrToolCategory = attribute.Key("mcp.tool.category")
	AttrToolCallID   = attribute.Key("mcp.tool.call_id")
	AttrToolReadOnly = attribute.Key("mcp.tool.readonly")
	AttrToolSuccess  = attribute.Key("mcp.tool.success")
	AttrToolDuration = attribute.Key("mcp.tool.duration_seconds")
	AttrWikiURL      = attribute.Key("mediawiki.url")
	AttrWikiAction   = attribute.Key("mediawiki.api.action")
	AttrWikiTitle    = attribute.Key("mediawiki.page.title")
	AttrHTTPMethod   = attribute.Key("http.request.method")
)

// Config holds tracing settings. Tracing is off unless OTEL_ENABLED is true
// or an OTLP endpoint is configured.
type Config struct {
	ServiceName    string
	ServiceVersion string
	WikiURL        string
	Environment    string  `env:"OTEL_ENVIRONMENT,default=development"`
	Enabled        bool    `env:"OTEL_ENABLED,default=false"`
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SampleRate     float64 `env:"OTEL_SAMPLE_RATE,default=1.0"`
}

// DefaultConfig reads tracing settings from the environment.
func DefaultConfig() Config {
	cfg := Config{
		ServiceName:    TracerName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		SampleRate:     1.0,
	}
	_ = envdecode.Decode(&cfg)
	if cfg.OTLPEndpoint != "" {
		cfg.Enabled = true
	}
	return cfg
}

// Setup installs a global tracer provider and returns its shutdown function.
// Without an OTLP endpoint spans are printed to stderr; stdout carries the
// MCP stream.
func Setup(ctx context.Context, config Config) (func(context.Context) error, error) {
	if !config.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResource(config)
	if err != nil {
		return nil, err
	}

	exporter, err := newExporter(ctx, config)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// newResource describes this server and the wiki it fronts. The attributes
// carry no schema URL so they merge with the SDK default resource whatever
// semconv version the SDK was built against.
func newResource(config Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironmentName(config.Environment),
	}
	if config.WikiURL != "" {
		attrs = append(attrs, AttrWikiURL.String(config.WikiURL))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

func newExporter(ctx context.Context, config Config) (sdktrace.SpanExporter, error) {
	if config.OTLPEndpoint != "" {
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(config.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	}
	return stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Tracer returns the server's tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts a span on the server's tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartToolSpan starts the server span for one MCP tool call.
func StartToolSpan(ctx context.Context, tool, category, callID string, readOnly bool) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		AttrToolName.String(tool),
		AttrToolCategory.String(category),
		AttrToolReadOnly.Bool(readOnly),
	}
	if callID != "" {
		attrs = append(attrs, AttrToolCallID.String(callID))
	}
	return StartSpan(ctx, "mcp.tool."+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...))
}

// EndToolCall records the outcome of a tool call. A failed call carries its
// failure message as the span status description.
func EndToolCall(span trace.Span, durationSeconds float64, ok bool, failure string) {
	span.SetAttributes(
		AttrToolDuration.Float64(durationSeconds),
		AttrToolSuccess.Bool(ok),
	)
	if ok {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetStatus(codes.Error, failure)
}

// StartAPISpan starts the client span for one api.php request. title is
// omitted when empty.
func StartAPISpan(ctx context.Context, action, method, title string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		AttrWikiAction.String(action),
		AttrHTTPMethod.String(method),
	}
	if title != "" {
		attrs = append(attrs, AttrWikiTitle.String(title))
	}
	return StartSpan(ctx, "mediawiki.api."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
}

// EndAPICall records err on the span, or marks it successful.
func EndAPICall(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_ENVIRONMENT", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_SAMPLE_RATE", "")

	cfg := DefaultConfig()

	if cfg.ServiceName != "mediawiki-mcp-server" {
		t.Errorf("Expected ServiceName 'mediawiki-mcp-server', got %q", cfg.ServiceName)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected Environment 'development', got %q", cfg.Environment)
	}
	if cfg.Enabled {
		t.Error("Expected Enabled to be false by default")
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("Expected OTLPEndpoint to be empty, got %q", cfg.OTLPEndpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("Expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultConfig_WithEnvVars(t *testing.T) {
	t.Setenv("OTEL_ENVIRONMENT", "production")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")

	cfg := DefaultConfig()

	if cfg.Environment != "production" {
		t.Errorf("Expected Environment 'production', got %q", cfg.Environment)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
	if cfg.OTLPEndpoint != "localhost:4318" {
		t.Errorf("Expected OTLPEndpoint 'localhost:4318', got %q", cfg.OTLPEndpoint)
	}
	if cfg.SampleRate != 0.25 {
		t.Errorf("Expected SampleRate 0.25, got %f", cfg.SampleRate)
	}
}

func TestDefaultConfig_EnabledByEndpoint(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Expected Enabled to be true when OTLP endpoint is set")
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown returned error: %v", err)
	}
}

func TestSetup_EnabledWithStdout(t *testing.T) {
	cfg := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		Enabled:        true,
		SampleRate:     1.0,
	}

	shutdown, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if Tracer() == nil {
		t.Error("Expected tracer to be non-nil")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		wantDesc string
	}{
		{"always sample", 1.0, sdktrace.AlwaysSample().Description()},
		{"above 1.0", 1.5, sdktrace.AlwaysSample().Description()},
		{"never sample", 0.0, sdktrace.NeverSample().Description()},
		{"below 0.0", -0.5, sdktrace.NeverSample().Description()},
		{"ratio sample", 0.5, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampler(tt.rate).Description(); got != tt.wantDesc {
				t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.wantDesc)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(Config{
		ServiceName:    "mediawiki-mcp-server",
		ServiceVersion: "2.0.0",
		Environment:    "test",
		WikiURL:        "https://wiki.example.org",
	})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}

	got := make(map[attribute.Key]string)
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}
	want := map[attribute.Key]string{
		"service.name":                "mediawiki-mcp-server",
		"service.version":             "2.0.0",
		"deployment.environment.name": "test",
		AttrWikiURL:                   "https://wiki.example.org",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("resource %s = %q, want %q", k, got[k], v)
		}
	}
	if _, ok := got["telemetry.sdk.name"]; !ok {
		t.Error("expected SDK default attributes to be merged in")
	}
}

func TestNewResource_NoWikiURL(t *testing.T) {
	res, err := newResource(Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}
	if _, ok := res.Set().Value(AttrWikiURL); ok {
		t.Error("mediawiki.url should be omitted when empty")
	}
}

func TestStartSpan(t *testing.T) {
	newCtx, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	if span == nil {
		t.Fatal("Expected span to be non-nil")
	}
	if !trace.SpanFromContext(newCtx).SpanContext().Equal(span.SpanContext()) {
		t.Error("Expected returned context to carry the span")
	}
}

// withRecorder installs a tracer provider that keeps ended spans in memory.
func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartToolSpan(context.Background(), "mediawiki_delete_page", "write", "call-1", false)
	EndToolCall(span, 0.25, false, "Failed to delete page")
	span.End()

	_, span = StartToolSpan(context.Background(), "mediawiki_search_pages", "search", "", true)
	EndToolCall(span, 0.1, true, "")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(ended))
	}

	failed := ended[0]
	if failed.Name() != "mcp.tool.mediawiki_delete_page" {
		t.Errorf("Name = %q", failed.Name())
	}
	if failed.SpanKind() != trace.SpanKindServer {
		t.Errorf("SpanKind = %v, want server", failed.SpanKind())
	}
	if failed.Status().Code != codes.Error || failed.Status().Description != "Failed to delete page" {
		t.Errorf("Status = %+v", failed.Status())
	}
	attrs := attrMap(failed)
	if attrs[AttrToolCallID].AsString() != "call-1" || attrs[AttrToolReadOnly].AsBool() {
		t.Errorf("unexpected attributes: %v", attrs)
	}
	if attrs[AttrToolDuration].AsFloat64() != 0.25 {
		t.Errorf("duration = %v", attrs[AttrToolDuration])
	}

	ok := ended[1]
	if ok.Status().Code != codes.Ok {
		t.Errorf("Status = %+v, want ok", ok.Status())
	}
	if _, present := attrMap(ok)[AttrToolCallID]; present {
		t.Error("empty call ID should not be recorded")
	}
}

func TestAPISpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartAPISpan(context.Background(), "edit", "POST", "Main Page")
	EndAPICall(span, errors.New("wiki returned HTTP 500"))
	span.End()

	_, span = StartAPISpan(context.Background(), "query", "GET", "")
	EndAPICall(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(ended))
	}

	edit := ended[0]
	if edit.Name() != "mediawiki.api.edit" || edit.SpanKind() != trace.SpanKindClient {
		t.Errorf("Name = %q, SpanKind = %v", edit.Name(), edit.SpanKind())
	}
	attrs := attrMap(edit)
	if attrs[AttrWikiTitle].AsString() != "Main Page" || attrs[AttrHTTPMethod].AsString() != "POST" {
		t.Errorf("unexpected attributes: %v", attrs)
	}
	if edit.Status().Code != codes.Error || len(edit.Events()) == 0 {
		t.Error("error should set status and record an exception event")
	}

	query := ended[1]
	if query.Status().Code != codes.Ok {
		t.Errorf("Status = %+v, want ok", query.Status())
	}
	if _, present := attrMap(query)[AttrWikiTitle]; present {
		t.Error("empty title should not be recorded")
	}
}

func TestTracerName(t *testing.T) {
	if TracerName != "mediawiki-mcp-server" {
		t.Errorf("Expected TracerName 'mediawiki-mcp-server', got %q", TracerName)
	}
}

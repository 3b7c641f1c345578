package tracing

import (
	"context"
	"sync"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// captureExporter records everything the provider flushes so tests can
// inspect the exported spans and their resource attributes.
type captureExporter struct {
	endpoint string

	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (e *captureExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *captureExporter) Shutdown(context.Context) error { return nil }

func TestInitTracerDisabledStillYieldsUsableTracer(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "false")

	tp, tracer, err := InitTracer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil || tracer == nil {
		t.Fatal("disabled tracing must still hand out a provider and tracer")
	}

	// Spans must be creatable even though nothing exports them.
	_, span := tracer.Start(context.Background(), "analyze-asset")
	span.End()

	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestInitTracerExportsSpansWithServiceIdentity(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	orig := newTraceExporter
	defer func() { newTraceExporter = orig }()

	exp := &captureExporter{}
	newTraceExporter = func(_ context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		exp.endpoint = endpoint
		return exp, nil
	}

	tp, tracer, err := InitTracer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.endpoint != "collector:4317" {
		t.Fatalf("expected configured endpoint to reach the exporter, got %q", exp.endpoint)
	}

	_, span := tracer.Start(context.Background(), "analyze-asset")
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if len(exp.spans) != 1 {
		t.Fatalf("expected the ended span to be flushed on shutdown, got %d spans", len(exp.spans))
	}
	if got := exp.spans[0].Name(); got != "analyze-asset" {
		t.Fatalf("unexpected span name %q", got)
	}

	serviceName := ""
	for _, kv := range exp.spans[0].Resource().Attributes() {
		if kv.Key == semconv.ServiceNameKey {
			serviceName = kv.Value.AsString()
		}
	}
	if serviceName != "coinsift" {
		t.Fatalf("expected service name coinsift on the span resource, got %q", serviceName)
	}
}

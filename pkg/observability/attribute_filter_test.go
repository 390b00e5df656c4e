package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
)

func recordSpan(t *testing.T, attrs ...attribute.KeyValue) map[string]any {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "fix.file")
	span.SetAttributes(attrs...)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	m := make(map[string]any, len(spans[0].Attributes))
	for _, a := range spans[0].Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}

func TestAttributeFilter_AllowsKnownKeys(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t,
		attribute.String("file.path", "src/a.ts"),
		attribute.StringSlice("pass.names", []string{"catch-binding"}),
		attribute.String("run.id", "r1"),
		attribute.Bool("error", true),
	)

	assert.Equal(t, "src/a.ts", attrs["file.path"])
	assert.Equal(t, "r1", attrs["run.id"])
	assert.Contains(t, attrs, "pass.names")
	assert.Equal(t, true, attrs["error"])
}

func TestAttributeFilter_DropsSourceText(t *testing.T) {
	t.Parallel()

	attrs := recordSpan(t,
		attribute.String("file.content", "const secret = 1;"),
		attribute.String("mcp.content", "const secret = 1;"),
		attribute.String("user.email", "dev@example.com"),
		attribute.String("tsfix.mode", "cli"),
	)

	assert.NotContains(t, attrs, "file.content")
	assert.NotContains(t, attrs, "mcp.content")
	assert.NotContains(t, attrs, "user.email")
	assert.Equal(t, "cli", attrs["tsfix.mode"])
}

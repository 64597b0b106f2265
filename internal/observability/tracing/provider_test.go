package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLogExporter_WritesFinishedSpans(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "notify.send")
	span.SetAttributes(attribute.String("notify.channel", "bark_deviceKey"))
	EndSpan(span, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "span finished", entry["msg"])
	assert.Equal(t, "notify.send", entry["span"])
	assert.Equal(t, "Error", entry["status"])
	assert.NotEmpty(t, entry["trace_id"])
	attrs, ok := entry["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bark_deviceKey", attrs["notify.channel"])
}

func TestLogExporter_SilentAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewLogExporter(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "quiet")
	span.End()

	assert.Empty(t, buf.String())
}

// flush drains the batcher of the installed provider. Shutting down would
// also reset the in-memory exporter.
func flush(t *testing.T) {
	t.Helper()
	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok)
	require.NoError(t, tp.ForceFlush(context.Background()))
}

func TestInitProvider_InstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	exporter := tracetest.NewInMemoryExporter()
	shutdown := InitProvider("msgsend-test", exporter, 1)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "sampled")
	EndSpan(span, nil)
	flush(t)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "sampled", spans[0].Name)

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "msgsend-test", service)
}

func TestInitProvider_ZeroRatioDropsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	exporter := tracetest.NewInMemoryExporter()
	shutdown := InitProvider("msgsend-test", exporter, -3)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "dropped")
	EndSpan(span, nil)
	flush(t)

	assert.Empty(t, exporter.GetSpans())
}

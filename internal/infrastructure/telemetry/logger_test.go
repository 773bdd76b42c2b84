package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerInjectsRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, &config.OTLPConfig{ServiceName: "products-catalog", Environment: "test"})

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/products/{id}")
	ctx = WithCorrelationID(ctx, "abc-123")
	logger.InfoContext(ctx, "hello")
	span.End()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}

	if entry["http.route"] != "/products/{id}" || entry["correlation_id"] != "abc-123" {
		t.Fatalf("request attributes missing: %v", entry)
	}
	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace id missing: %v", entry)
	}
	if entry["service.name"] != "products-catalog" {
		t.Fatalf("service name missing: %v", entry)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, ParseLevel("warn"), &config.OTLPConfig{})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record should be filtered at warn level: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

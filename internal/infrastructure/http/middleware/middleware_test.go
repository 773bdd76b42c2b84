package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestCorrelationIDKeepsValidHeader(t *testing.T) {
	id := uuid.NewString()
	var seen string
	h := CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = telemetry.CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(CorrelationIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != id || rec.Header().Get(CorrelationIDHeader) != id {
		t.Fatalf("expected correlation id %s to be propagated, got ctx=%s header=%s", id, seen, rec.Header().Get(CorrelationIDHeader))
	}
}

func TestCorrelationIDReplacesGarbage(t *testing.T) {
	h := CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(CorrelationIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if _, err := uuid.Parse(rec.Header().Get(CorrelationIDHeader)); err != nil {
		t.Fatalf("expected a generated uuid, got %q", rec.Header().Get(CorrelationIDHeader))
	}
}

func TestStructuredLoggerUsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(StructuredLogger(logger))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))

	out := buf.String()
	if !strings.Contains(out, `"http.route":"/products/{id}"`) || !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("unexpected log record: %s", out)
	}
}

func TestActiveRequestsReturnsToZero(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	r := chi.NewRouter()
	r.Use(ActiveRequestsMiddleware(meter))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/silent", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/silent", nil))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				if dp.Value != 0 {
					t.Fatalf("active requests not balanced: %v", dp)
				}
			}
		}
	}
}

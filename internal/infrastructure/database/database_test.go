package database

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector(&config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}

	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL} {
		d, err := Dialector(&config.DatabaseConfig{Driver: driver, DSN: "dsn"})
		if err != nil || d == nil {
			t.Fatalf("Dialector(%s): %v", driver, err)
		}
	}
}

func TestOpenFailsWhenDatabaseUnreachable(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Open(ctx, &config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		DSN:          "host=127.0.0.1 port=1 user=catalog dbname=catalog sslmode=disable connect_timeout=1",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}, noop.NewTracerProvider(), logger)

	if err == nil {
		t.Fatal("expected Open to fail against a closed port")
	}
	if db != nil {
		t.Fatal("a failed Open must not hand out a handle")
	}
	if strings.Contains(buf.String(), "Connected to the database") {
		t.Fatalf("unexpected connected log: %s", buf.String())
	}
}

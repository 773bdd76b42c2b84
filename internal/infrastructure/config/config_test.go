package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.HTTPAddr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.HTTPAddr())
	}
	if cfg.Database.Driver != DriverMemory || cfg.OTLP.ServiceName != "products-catalog" || cfg.GRPC.Port != "9090" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_DSN", "host=db user=catalog dbname=catalog sslmode=disable")
	t.Setenv("DB_SLOW_QUERY_THRESHOLD", "1s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9999" || cfg.OTLP.Enabled {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.SlowQueryThreshold != time.Second {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "server:\n  port: \"7070\"\ndatabase:\n  driver: mysql\n  dsn: \"catalog:secret@tcp(db:3306)/catalog?parseTime=true\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "7070" || cfg.Database.Driver != DriverMySQL {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected an error when DSN is missing")
	}
}

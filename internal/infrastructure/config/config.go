package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	OTLP     OTLPConfig     `mapstructure:"otlp"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type GRPCConfig struct {
	Port string `mapstructure:"port"`
}

type OTLPConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Driver             string        `mapstructure:"driver"`
	DSN                string        `mapstructure:"dsn"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"server.host":                   "SERVER_HOST",
	"server.port":                   "SERVER_PORT",
	"server.shutdown_timeout":       "SHUTDOWN_TIMEOUT",
	"grpc.port":                     "GRPC_PORT",
	"otlp.enabled":                  "OTEL_ENABLED",
	"otlp.endpoint":                 "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otlp.service_name":             "OTEL_SERVICE_NAME",
	"otlp.environment":              "OTEL_ENVIRONMENT",
	"database.driver":               "DB_DRIVER",
	"database.dsn":                  "DB_DSN",
	"database.max_open_conns":       "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":       "DB_MAX_IDLE_CONNS",
	"database.conn_max_lifetime":    "DB_CONN_MAX_LIFETIME",
	"database.auto_migrate":         "DB_AUTO_MIGRATE",
	"database.slow_query_threshold": "DB_SLOW_QUERY_THRESHOLD",
	"log.level":                     "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("grpc.port", "9090")
	v.SetDefault("otlp.enabled", true)
	v.SetDefault("otlp.endpoint", "localhost:4317")
	v.SetDefault("otlp.service_name", "products-catalog")
	v.SetDefault("otlp.environment", "development")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.slow_query_threshold", 200*time.Millisecond)
	v.SetDefault("log.level", "debug")
}

// LoadConfig loads configuration from defaults, an optional file named by
// CONFIG_FILE and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres, DriverMySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("database driver %q requires DB_DSN", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// HTTPAddr is the listen address of the HTTP server
func (c *ServerConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Package config loads application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix prefixes every environment override. A double underscore
// separates nesting levels so key names may contain single underscores,
// e.g. INCIDENT_COMMAND_SERVER__METRICS_PORT sets server.metrics_port.
const envPrefix = "INCIDENT_COMMAND_"

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config is the application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	CORS    CORSConfig    `koanf:"cors"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend  string         `koanf:"backend"`
	Dir      string         `koanf:"dir"`
	Database DatabaseConfig `koanf:"database"`
}

// DatabaseConfig contains postgres settings, used when the postgres
// backend is selected.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectAttempts int           `koanf:"connect_attempts"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MigrationsURL   string        `koanf:"migrations_url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenDuration  time.Duration `koanf:"token_duration"`
	AdminEmail     string        `koanf:"admin_email"`
	AdminPassword  string        `koanf:"admin_password"`
	LoginRateLimit float64       `koanf:"login_rate_limit"`
	LoginBurst     int           `koanf:"login_burst"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     "data",
			Database: DatabaseConfig{
				MaxOpenConns:    10,
				ConnMaxLifetime: 30 * time.Minute,
				ConnectAttempts: 5,
				ConnectTimeout:  30 * time.Second,
				MigrationsURL:   "file://migrations",
			},
		},
		Auth: AuthConfig{
			TokenDuration:  12 * time.Hour,
			LoginRateLimit: 5,
			LoginBurst:     10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads configuration from the given YAML file (skipped when the
// path is empty or missing) and applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.Database.URL == "" {
			return fmt.Errorf("storage.database.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	StorageKey     string `env:"STORAGE_KEY" envDefault:"crm_mock_db_v3"`
	SnapshotDir    string `env:"SNAPSHOT_DIR" envDefault:"data"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/crm.db"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`

	LatencyEnabled bool          `env:"LATENCY_ENABLED" envDefault:"true"`
	LatencyMin     time.Duration `env:"LATENCY_MIN" envDefault:"100ms"`
	LatencyMax     time.Duration `env:"LATENCY_MAX" envDefault:"400ms"`

	ImportRateLimit  int           `env:"IMPORT_RATE_LIMIT" envDefault:"10"`
	ImportRateWindow time.Duration `env:"IMPORT_RATE_WINDOW" envDefault:"1m"`

	// Only enable behind a proxy that overwrites X-Forwarded-For.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	AMQPURL string `env:"AMQP_URL"`

	Mail MailConfig
}

type MailConfig struct {
	Host string `env:"MAIL_HOST"`
	Port int    `env:"MAIL_PORT" envDefault:"587"`
	User string `env:"MAIL_USER"`
	Pass string `env:"MAIL_PASS"`
	From string `env:"MAIL_FROM" envDefault:"no-reply@crm.local"`
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.StorageKey == "" {
		errs = append(errs, errors.New("STORAGE_KEY must not be empty"))
	}
	if c.LatencyMin < 0 || c.LatencyMin > c.LatencyMax {
		errs = append(errs, fmt.Errorf("LATENCY_MIN %s must be between 0 and LATENCY_MAX %s", c.LatencyMin, c.LatencyMax))
	}
	if c.ImportRateLimit <= 0 || c.ImportRateWindow <= 0 {
		errs = append(errs, errors.New("IMPORT_RATE_LIMIT and IMPORT_RATE_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

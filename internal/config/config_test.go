package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "crm_mock_db_v3", cfg.StorageKey)
	assert.True(t, cfg.LatencyEnabled)
	assert.Equal(t, 100*time.Millisecond, cfg.LatencyMin)
	assert.Equal(t, 400*time.Millisecond, cfg.LatencyMax)
	assert.Equal(t, 10, cfg.ImportRateLimit)
	assert.Equal(t, time.Minute, cfg.ImportRateWindow)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/crm.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LATENCY_ENABLED", "false")
	t.Setenv("MAIL_HOST", "smtp.example.com")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/crm.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.LatencyEnabled)
	assert.True(t, cfg.Mail.Enabled())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{StorageBackend: BackendFile, StorageKey: "k", LatencyMin: time.Millisecond, LatencyMax: 2 * time.Millisecond, ImportRateLimit: 5, ImportRateWindow: time.Minute}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.StorageBackend = "mongo" }, "unknown STORAGE_BACKEND"},
		{"postgres without dsn", func(c *Config) { c.StorageBackend = BackendPostgres }, "DATABASE_URL"},
		{"redis without url", func(c *Config) { c.StorageBackend = BackendRedis }, "REDIS_URL"},
		{"redis with url", func(c *Config) { c.StorageBackend = BackendRedis; c.RedisURL = "redis://localhost:6379/0" }, ""},
		{"empty key", func(c *Config) { c.StorageKey = "" }, "STORAGE_KEY"},
		{"inverted latency", func(c *Config) { c.LatencyMin = time.Second }, "LATENCY_MIN"},
		{"zero import limit", func(c *Config) { c.ImportRateLimit = 0 }, "IMPORT_RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}

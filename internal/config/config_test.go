package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Completion.MaxTokens)
	assert.Equal(t, 0.5, cfg.Completion.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 2, cfg.Completion.MaxRetries)
	assert.Equal(t, "stream:product_records", cfg.Redis.Stream)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.EnrichmentEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "sk-test")
	t.Setenv("COMPLETION_MODEL", "gpt-4o")
	t.Setenv("COMPLETION_TEMPERATURE", "0.2")
	t.Setenv("SCRAPER_RATE_LIMIT_MIN", "1s")
	t.Setenv("BROWSER_HEADLESS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.EnrichmentEnabled())
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
	assert.Equal(t, 0.2, cfg.Completion.Temperature)
	assert.Equal(t, time.Second, cfg.Scraper.RateLimitMin)
	assert.False(t, cfg.Browser.Headless)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rate limit inverted", func(c *Config) {
			c.Scraper.RateLimitMin = 20 * time.Second
			c.Scraper.RateLimitMax = 5 * time.Second
		}},
		{"zero max tokens", func(c *Config) { c.Completion.MaxTokens = 0 }},
		{"temperature out of range", func(c *Config) { c.Completion.Temperature = 3.0 }},
		{"concurrent limit zero", func(c *Config) { c.Scraper.ConcurrentLimit = 0 }},
		{"queue size zero", func(c *Config) { c.Queue.MaxSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConnString(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "app",
		Password: "secret", DBName: "products", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=products sslmode=require",
		d.ConnString())
}

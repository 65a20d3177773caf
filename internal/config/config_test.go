package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/dashcore/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/dashcore")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, "channel", cfg.PublisherStrategy)
	assert.Equal(t, 1000, cfg.PublisherCapacity)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "dashcore.events", cfg.AMQPExchange)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/dashcore")
	t.Setenv("PUBLISHER_STRATEGY", "Parallel")
	t.Setenv("PUBLISHER_CAPACITY", "16")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("WEBHOOK_URL", "http://hooks.local/events")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "parallel", cfg.PublisherStrategy)
	assert.Equal(t, 16, cfg.PublisherCapacity)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "http://hooks.local/events", cfg.WebhookURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/dashcore")
	t.Setenv("PUBLISHER_STRATEGY", "priority")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oneof")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, 15*time.Minute, cfg.InsightCacheTTL)
	assert.Equal(t, "0 4 * * *", cfg.SweepSchedule)
	assert.Equal(t, 24, cfg.SweepHoursAhead)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/monkmode")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INSIGHT_CACHE_TTL", "5m")
	t.Setenv("SWEEP_HOURS_AHEAD", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://localhost:5432/monkmode", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.InsightCacheTTL)
	assert.Equal(t, 12, cfg.SweepHoursAhead)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("INSIGHT_CACHE_TTL", "not-a-duration")
	t.Setenv("SWEEP_HOURS_AHEAD", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.InsightCacheTTL)
	assert.Equal(t, 24, cfg.SweepHoursAhead)
}

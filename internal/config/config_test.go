package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T, env string) {
	t.Setenv("APP_ENV", env)
	t.Setenv("APP_PORT", "8001")
	t.Setenv("DB_USER", "fleet")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "fleetease")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t, "dev")
	cfg := Load()

	require.Equal(t, "8001", cfg.Port)
	require.Equal(t, "argon2id", cfg.HashAlgo)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	require.True(t, cfg.SeedEnabled)
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 10*time.Second, cfg.IdentityProviderTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t, "prod")
	t.Setenv("SESSION_TTL_DAYS", "0")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_MIGRATE", "off")
	t.Setenv("IDENTITY_PROVIDER_TIMEOUT", "not-a-duration")
	cfg := Load()

	require.False(t, cfg.SeedEnabled, "seeding is off outside dev")
	require.False(t, cfg.MigrateOnStart)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 10*time.Second, cfg.IdentityProviderTimeout)

	t.Setenv("SEED_ENABLED", "true")
	require.True(t, Load().SeedEnabled)
}

func TestRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 10*time.Second, cfg.TTL)

	t.Setenv("RATE_LIMIT_BURST", "40")
	require.Equal(t, 40, LoadRateLimitConfig().Capacity)
}

func TestQueueAndCacheConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")
	q := LoadQueueConfig()
	require.False(t, q.Enabled)
	require.Equal(t, "amqp://u:p@mq:5672/", q.URL)
	require.Equal(t, "notification.events", q.Notifications)

	t.Setenv("CACHE_METHODS", "get, head")
	c := LoadCacheConfig()
	require.True(t, c.Methods["GET"])
	require.True(t, c.Methods["HEAD"])
	require.False(t, c.Methods["POST"])
	require.Equal(t, "fleetease:cache", c.Prefix)
	require.Equal(t, 60*time.Second, c.TTLFor("/api/vehicles"))
	require.Equal(t, 10*time.Second, c.TTLFor("/api/campaigns"))

	t.Setenv("CACHE_CAMPAIGNS_TTL", "3s")
	require.Equal(t, 3*time.Second, LoadCacheConfig().TTLFor("/api/campaigns"))
}

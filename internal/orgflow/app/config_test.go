package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/orgflow/pkg/httpx"
)

// Not parallel: t.Setenv.
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 10000, cfg.Port)
	require.Equal(t, "orgflow.db", cfg.DatabaseFile)
	require.Equal(t, "orgflow_v1", cfg.ChartKey)
	require.Equal(t, "admin", cfg.ChartPrivilegedRole)
	require.Equal(t, BackendSQLite, cfg.SnapshotBackend)
	require.Equal(t, 2*time.Hour, cfg.JWTTTL)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.False(t, cfg.AllowAdminSignup)
	require.Equal(t, httpx.DefaultLimits(), cfg.Limits.OrDefault())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("SNAPSHOT_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("ALLOW_ADMIN_SIGNUP", "true")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "3")
	t.Setenv("RATELIMIT_STRICT_WINDOW", "1m")
	t.Setenv("RATELIMIT_STRICT_BURST", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.JWTTTL)
	require.True(t, cfg.AllowAdminSignup)
	require.Equal(t, "redis://cache:6379", cfg.RedisURL())
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}, cfg.Limits.Strict)
}

func TestLoadConfigRejectsMissingSecretOutsideDev(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Env:                 "dev",
		Port:                10000,
		JWTTTL:              time.Hour,
		ChartKey:            "orgflow_v1",
		ChartPrivilegedRole: "admin",
		SnapshotBackend:     BackendSQLite,
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"ttl", func(c *Config) { c.JWTTTL = 0 }},
		{"chart key", func(c *Config) { c.ChartKey = " " }},
		{"backend", func(c *Config) { c.SnapshotBackend = "etcd" }},
		{"redis addr", func(c *Config) {
			c.SnapshotBackend = BackendRedis
			c.RedisAddr = ""
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

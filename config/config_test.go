package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StoreBadger, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.Redis.RankingTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RANKING_CACHE_TTL", "90s")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.RankingTTL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestFromEnv_PostgresFromParts(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "school")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://school:pw@db:5432/school?sslmode=disable", cfg.Database.URL)
}

func TestValidate_CollectsErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "70000")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "JWT_SECRET is required in production")
	assert.Contains(t, err.Error(), "HTTP_PORT must be 1-65535")
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `STORE_DRIVER "sqlite"`)
}

package config_test

import (
	"testing"

	"handmadehub/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "handmadehub.db", cfg.SQLitePath)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://hub:hub@db:5432/hub")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := config.Load()

	assert.Equal(t, ":9999", cfg.AppPort)
	assert.Equal(t, "postgres://hub:hub@db:5432/hub", cfg.DatabaseURL)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.True(t, cfg.IsProduction())
}

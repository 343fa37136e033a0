package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "LOG_FILE", "DB_DRIVER", "DB_PATH", "DB_DSN", "DB_DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tasks.db", cfg.Database.Path)
	assert.Empty(t, cfg.Database.DSN)
	assert.False(t, cfg.Database.Debug)
	assert.Empty(t, cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=localhost dbname=tasks")
	t.Setenv("DB_DEBUG", "true")

	cfg := Load()

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=tasks", cfg.Database.DSN)
	assert.True(t, cfg.Database.Debug)
}

func TestGetEnvAsBool_Invalid(t *testing.T) {
	t.Setenv("DB_DEBUG", "sometimes")
	assert.True(t, getEnvAsBool("DB_DEBUG", true))
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env      string
	Log      LogConfig
	Database DatabaseConfig
}

type LogConfig struct {
	Level string
	File  string
}

type DatabaseConfig struct {
	// Driver is one of sqlite, postgres or mysql.
	Driver string
	// Path is the SQLite store file.
	Path string
	// DSN is used by the postgres and mysql drivers.
	DSN   string
	Debug bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory, when present, is loaded first without overriding
// variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env: getEnv("APP_ENV", EnvLocal),
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", ""),
			File:  getEnv("LOG_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			Path:   getEnv("DB_PATH", "tasks.db"),
			DSN:    getEnv("DB_DSN", ""),
			Debug:  getEnvAsBool("DB_DEBUG", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

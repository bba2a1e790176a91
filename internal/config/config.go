// Package config loads process configuration from the environment, reading an
// optional .env file first.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration.
type Config struct {
	HTTPAddr      string
	Storage       Storage
	Latency       time.Duration
	LogoutLatency time.Duration
	Passthrough   Passthrough
	Seed          bool
	LogLevel      string
	LogFormat     string
	ChatAgentName string
}

// Storage selects and parameterises the durable key-value driver.
type Storage struct {
	Driver      string
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	Redis       Redis
	S3          S3
}

// Redis configures the redis driver.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// S3 configures the S3 / MinIO driver.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Passthrough configures the dispatcher's network fallback.
type Passthrough struct {
	BaseURL string
	Timeout time.Duration
	On401   string
}

// Load builds Config from the environment with defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr: getEnv("PRIMENEST_HTTP_ADDR", ":8080"),
		Storage: Storage{
			Driver:      getEnv("PRIMENEST_STORAGE_DRIVER", "fs"),
			FSRoot:      getEnv("PRIMENEST_FS_ROOT", "./primenest-data"),
			SQLitePath:  getEnv("PRIMENEST_SQLITE_PATH", "primenest.db"),
			PostgresDSN: getEnv("PRIMENEST_POSTGRES_DSN", "postgres://localhost/primenest?sslmode=disable"),
			Redis: Redis{
				Addr:     getEnv("PRIMENEST_REDIS_ADDR", "localhost:6379"),
				Password: os.Getenv("PRIMENEST_REDIS_PASSWORD"),
				DB:       getEnvInt("PRIMENEST_REDIS_DB", 0),
				Prefix:   os.Getenv("PRIMENEST_REDIS_PREFIX"),
			},
			S3: S3{
				Bucket:    os.Getenv("PRIMENEST_S3_BUCKET"),
				Region:    getEnv("PRIMENEST_S3_REGION", "us-east-1"),
				Endpoint:  os.Getenv("PRIMENEST_S3_ENDPOINT"),
				PathStyle: strings.EqualFold(os.Getenv("PRIMENEST_S3_PATH_STYLE"), "true"),
			},
		},
		Latency:       getEnvDuration("PRIMENEST_LATENCY", 100*time.Millisecond),
		LogoutLatency: getEnvDuration("PRIMENEST_LOGOUT_LATENCY", 50*time.Millisecond),
		Passthrough: Passthrough{
			BaseURL: os.Getenv("PRIMENEST_PASSTHROUGH_BASE_URL"),
			Timeout: getEnvDuration("PRIMENEST_PASSTHROUGH_TIMEOUT", 10*time.Second),
			On401:   getEnv("PRIMENEST_ON_401", "throw"),
		},
		Seed:          getEnvBool("PRIMENEST_SEED", true),
		LogLevel:      getEnv("PRIMENEST_LOG_LEVEL", "info"),
		LogFormat:     getEnv("PRIMENEST_LOG_FORMAT", "text"),
		ChatAgentName: getEnv("PRIMENEST_CHAT_AGENT", "Jane Doe"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

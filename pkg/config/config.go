// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Public base URL of the widget service (embed snippets, problem types).
	BasePublicURL string

	// Widget access token signing + lifetime.
	TokenSecret string
	TokenTTL    time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	// Dev seeding for the app directory.
	AppSeedJSON string
	AppSeedFile string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:           env("EMBEDCHAT_ENV", "dev"),
		HTTPAddr:      env("EMBEDCHAT_HTTP_ADDR", ":8080"),
		BasePublicURL: env("BASE_PUBLIC_URL", "http://localhost:8080"),
		TokenSecret:   env("WIDGET_TOKEN_SECRET", ""),
		TokenTTL:      envDur("WIDGET_TOKEN_TTL_SEC", 300) * time.Second,
		RedisURL:      env("REDIS_URL", ""),
		DatabaseURL:   env("DATABASE_URL", ""),
		AppSeedJSON:   env("APP_SEED_JSON", ""),
		AppSeedFile:   env("APP_SEED_FILE", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory app directory for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}

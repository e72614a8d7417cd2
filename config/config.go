package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment setting the service reads. Handlers and
// adapters get the values they need from here instead of looking up the
// environment themselves.
type Config struct {
	DatabaseURL  string
	JWTSecret    string
	GeminiAPIKey string
	Port         string
	UploadDir    string
	LogLevel     string
}

// Load reads .env (when present) and the process environment.
// DATABASE_URL and JWT_SECRET are required; GEMINI_API_KEY is required for
// the captioning path and its absence is reported by the caption adapter.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Port:         getEnv("PORT", "3000"),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

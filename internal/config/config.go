// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// AppConfig holds process-level configuration. Channel configuration (SMTP
// credentials, WhatsApp API keys) is data, stored per organization in
// Postgres, and is deliberately not part of this struct.
type AppConfig struct {
	Addr        string
	DatabaseURL string
	Env         string
	LogLevel    string
}

// Load reads the environment, optionally seeded from a .env file.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	return AppConfig{
		Addr:        getEnv("ADDR", ":8080"),
		DatabaseURL: databaseURL(),
		Env:         getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// databaseURL prefers DATABASE_URL and otherwise composes a DSN from the
// individual DB_* variables.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "jciconnect"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

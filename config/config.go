package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIURL string `validate:"required,url"`

	PostgresHost     string `validate:"required"`
	PostgresPort     string `validate:"required,numeric"`
	PostgresUser     string `validate:"required"`
	PostgresPassword string
	PostgresDB       string `validate:"required"`
	PostgresSSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`

	MaxConcurrency      int     `validate:"min=1,max=32"`
	RateLimitMs         int     `validate:"min=0"`
	MaxRetries          int     `validate:"min=1"`
	RequestTimeoutSec   int     `validate:"min=1"`
	ScrapeIntervalHours float64 `validate:"gt=0"`

	CSVOutputPath string `validate:"required"`
	ChromeBin     string
	SessionPath   string `validate:"required"`
	LogLevel      string `validate:"oneof=trace debug info warn warning error fatal panic"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		APIURL: getEnv("HOUSING_API_URL", "http://localhost:8000"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "housing"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "housing123"),
		PostgresDB:       getEnv("POSTGRES_DB", "housing_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:      getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:         getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:          getEnvInt("MAX_RETRIES", 3),
		RequestTimeoutSec:   getEnvInt("REQUEST_TIMEOUT_SEC", 120),
		ScrapeIntervalHours: getEnvFloat("SCRAPE_INTERVAL_HOURS", 12),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		SessionPath:   getEnv("SESSION_PATH", "./.housing/session.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the loaded values against their constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// RequestTimeout is the per-request deadline for the scrape API.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ScrapeInterval is the pause between scheduled scrape runs.
func (c *Config) ScrapeInterval() time.Duration {
	return time.Duration(c.ScrapeIntervalHours * float64(time.Hour))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

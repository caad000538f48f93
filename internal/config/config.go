// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	Env            string
	ServerPort     string
	DB             db.Config
	Migrate        bool // apply embedded migrations on startup
	AllowedOrigins []string
	RequestTimeout time.Duration
	Events         events.Config
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	migrate, err := strconv.ParseBool(getEnv("DB_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	driver := getEnv("DB_DRIVER", db.DriverSQLite)
	switch driver {
	case db.DriverSQLite, db.DriverPostgres, db.DriverPgx:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want %s, %s or %s", driver, db.DriverSQLite, db.DriverPostgres, db.DriverPgx)
	}

	return &AppConfig{
		Env:        getEnv("APP_ENV", "dev"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			Driver:   driver,
			Path:     getEnv("DB_PATH", "backend.db"), // SQLite file in the working directory
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),         // Default user for local development
			Password: getEnv("DB_PASSWORD", "password"), // Default password for local development
			DBName:   getEnv("DB_NAME", "backenddb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Migrate:        migrate,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout: timeout,
		Events: events.Config{
			Broker:        getEnv("EVENTS_BROKER", events.BrokerNone),
			NATSURL:       getEnv("NATS_URL", "nats://127.0.0.1:4222"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "backend"),
			KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			KafkaTopic:    getEnv("KAFKA_TOPIC", "backend.events"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omer1kenan/backend/internal/events"
	"github.com/omer1kenan/backend/pkg/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "DB_DRIVER", "DB_PATH", "DB_PORT", "DB_MIGRATE",
		"REQUEST_TIMEOUT", "CORS_ALLOWED_ORIGINS", "EVENTS_BROKER", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "backend.db", cfg.DB.Path)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, events.BrokerNone, cfg.Events.Broker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("EVENTS_BROKER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, db.DriverPgx, cfg.DB.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.False(t, cfg.Migrate)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "kafka", cfg.Events.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"DB_PORT", "abc", "invalid DB_PORT"},
		{"DB_MIGRATE", "maybe", "invalid DB_MIGRATE"},
		{"REQUEST_TIMEOUT", "soon", "invalid REQUEST_TIMEOUT"},
		{"DB_DRIVER", "oracle", "invalid DB_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

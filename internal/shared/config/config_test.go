package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3*time.Second, cfg.Booking.LockTimeout)
	assert.Equal(t, 3, cfg.Booking.ConfirmMaxAttempts)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Contains(t, cfg.Database.DSN, "dbname=seatline_db")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_LOCK_TIMEOUT", "750ms")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATE_LIMIT_BOOKING_REQUESTS", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, 750*time.Millisecond, cfg.Booking.LockTimeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30, cfg.RateLimit.BookingRequests)
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"seatline/internal/shared/constants"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Kafka booking events
	Kafka KafkaConfig

	// Seat ledger transactions and checkout
	Booking BookingConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	SeatMapTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds the booking event producer configuration
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	BookingTopic string
	RetryMax     int
	Timeout      time.Duration
}

// BookingConfig bounds every seat ledger transaction. A transaction that
// cannot get its row locks within LockTimeout fails as Unavailable instead
// of hanging.
type BookingConfig struct {
	TxTimeout           time.Duration
	LockTimeout         time.Duration
	StatementTimeout    time.Duration
	ConfirmMaxAttempts  int
	ConfirmRetryBackoff time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "seatline_db"),
			User:            getEnv("DB_USER", "seatline_user"),
			Password:        getEnv("DB_PASSWORD", "seatline_password"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Redis configuration
		Redis: RedisConfig{
			Enabled:    getBoolEnv("REDIS_ENABLED", true),
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getIntEnv("REDIS_DB", 0),
			SeatMapTTL: getDurationEnv("REDIS_SEAT_MAP_TTL", constants.TTL_SEAT_MAP),
		},

		// JWT configuration
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 120),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 30),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 300),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Kafka configuration
		Kafka: KafkaConfig{
			Enabled:      getBoolEnv("KAFKA_ENABLED", false),
			Brokers:      getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			BookingTopic: getEnv("KAFKA_BOOKING_TOPIC", "booking-events"),
			RetryMax:     getIntEnv("KAFKA_RETRY_MAX", 3),
			Timeout:      getDurationEnv("KAFKA_TIMEOUT", 10*time.Second),
		},

		// Booking transactions
		Booking: BookingConfig{
			TxTimeout:           getDurationEnv("BOOKING_TX_TIMEOUT", 10*time.Second),
			LockTimeout:         getDurationEnv("BOOKING_LOCK_TIMEOUT", 3*time.Second),
			StatementTimeout:    getDurationEnv("BOOKING_STATEMENT_TIMEOUT", 5*time.Second),
			ConfirmMaxAttempts:  getIntEnv("CHECKOUT_CONFIRM_MAX_ATTEMPTS", 3),
			ConfirmRetryBackoff: getDurationEnv("CHECKOUT_CONFIRM_RETRY_BACKOFF", 200*time.Millisecond),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"court_booking_backend/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Auth backends selectable through AUTH_BACKEND.
const (
	AuthBackendDatabase = "database"
	AuthBackendMock     = "mock"
)

// Config holds every runtime setting, read from the environment.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	DBHost         string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort         string        `envconfig:"DB_PORT" default:"5432"`
	DBUser         string        `envconfig:"DB_USER" default:"court_booking"`
	DBPassword     string        `envconfig:"DB_PASSWORD" default:"court_booking"`
	DBName         string        `envconfig:"DB_NAME" default:"court_booking"`
	DBSSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	DBConnLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	DBAutoMigrate  bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	JWTSecret    string `envconfig:"JWT_SECRET"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"1440"`
	AuthBackend  string `envconfig:"AUTH_BACKEND" default:"database"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Embedded so its keys are read without a prefix.
	RateLimit

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"court_booking.events"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"true"`
}

// RateLimit configures the Redis token bucket.
type RateLimit struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"30"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"2s"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the environment.
func Load() (Config, error) {
	envFile := utils.Getenv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	c.AuthBackend = strings.ToLower(strings.TrimSpace(c.AuthBackend))
	switch c.AuthBackend {
	case AuthBackendDatabase, AuthBackendMock:
	default:
		return fmt.Errorf("unknown AUTH_BACKEND %q", c.AuthBackend)
	}

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = "dev-only-court-booking-secret"
	}
	if c.JWTExpireMin <= 0 {
		return fmt.Errorf("JWT_EXPIRE_MIN must be positive, got %d", c.JWTExpireMin)
	}

	if c.RateLimit.Capacity < 1 {
		c.RateLimit.Capacity = 1
	}
	if c.RateLimit.RefillTokens < 1 {
		c.RateLimit.RefillTokens = 1
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Second
	}
	return nil
}

// IsDevelopment reports whether APP_ENV is a local/dev environment.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local", "test":
		return true
	}
	return false
}

// DSN returns DATABASE_URL when set, otherwise a key/value lib/pq connection string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// JWTExpiration converts JWT_EXPIRE_MIN to a duration.
func (c Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpireMin) * time.Minute
}

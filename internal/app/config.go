package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/aulasoft/institution/pkg/jwtx"
)

type Config struct {
	JWTSecret     string        // Required: HS256 symmetric signing secret (min 32 bytes)
	Issuer        string        // Issuer claim for tokens (default: institution-api)
	Audience      string        // Audience claim for tokens (default: institution-client)
	TokenLifetime time.Duration // Access token lifetime; bare integers are hours (default: 1h)

	DatabaseFile string // Path to SQLite database file (default: ./institution.db)
	PepperFile   string // Path to password hashing pepper file (default: ./pepper)

	AdminEmail    string // Seeded admin account email
	AdminPassword string // Seeded admin account password

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token pruning interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "institution-api"),
		Audience:      getEnvOrDefault("AUTH_AUDIENCE", "institution-client"),
		TokenLifetime: getEnvDurationOrDefault("AUTH_TOKEN_LIFETIME", jwtx.DefaultAccessTokenTTL, time.Hour),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "institution.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", "admin@educational.com"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "Admin123!"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second, time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour, time.Minute),
	}
}

// Validate fails fast on configuration the service cannot run with. A
// missing or short signing secret must stop startup, never degrade to a
// generated one.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if len(c.JWTSecret) < jwtx.MinSecretLength {
		return errors.New("AUTH_JWT_SECRET must be at least 32 bytes")
	}
	if c.TokenLifetime <= 0 {
		return errors.New("AUTH_TOKEN_LIFETIME must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue, bareUnit time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are scaled by the variable's natural unit, so
	// AUTH_TOKEN_LIFETIME=2 reads as two hours.
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * bareUnit
	}

	return defaultValue
}

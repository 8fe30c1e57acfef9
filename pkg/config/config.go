package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rentalconnect/rentalconnect/internal/featureflags"
	"github.com/rentalconnect/rentalconnect/pkg/database"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	BookmarkStorePostgres = "postgres"
	BookmarkStoreRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	TokenTTL           time.Duration
	BcryptCost         int
	StoreDriver        string
	BookmarkStore      string
	RedisURL           string
	BookmarkSweep      time.Duration
	Database           database.Config
	CORSAllowedOrigins []string
	AuthRateLimit      int
	OwnerCacheTTL      time.Duration
	PermissiveMessages bool
	OTLPEndpoint       string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvAsInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvAsDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cost, err := getEnvAsInt("BCRYPT_COST", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvAsInt("AUTH_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvAsDuration("OWNER_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	sweep, err := getEnvAsDuration("BOOKMARK_SWEEP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	dbCfg, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		ServerPort:    port,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "rentalconnect"),
		TokenTTL:      ttl,
		BcryptCost:    cost,
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		BookmarkStore: strings.ToLower(getEnv("BOOKMARK_STORE", BookmarkStorePostgres)),
		RedisURL:      os.Getenv("REDIS_URL"),
		BookmarkSweep: sweep,
		Database:      dbCfg,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		AuthRateLimit:      rateLimit,
		OwnerCacheTTL:      cacheTTL,
		PermissiveMessages: featureflags.PermissiveMessages.Enabled(),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.BookmarkStore {
	case BookmarkStorePostgres:
	case BookmarkStoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when BOOKMARK_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid BOOKMARK_STORE %q", c.BookmarkStore)
	}
	if c.BookmarkSweep < 0 {
		return errors.New("BOOKMARK_SWEEP_INTERVAL must not be negative")
	}
	if c.AuthRateLimit < 0 {
		return errors.New("AUTH_RATE_LIMIT must not be negative")
	}
	return nil
}

func loadDatabase() (database.Config, error) {
	port, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return database.Config{}, err
	}
	maxOpen, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return database.Config{}, err
	}
	maxIdle, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return database.Config{}, err
	}
	lifetime, err := getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return database.Config{}, err
	}
	return database.Config{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnv("DB_USER", "rentalconnect"),
		Password:        getEnv("DB_PASSWORD", "dev"),
		Database:        getEnv("DB_NAME", "rentalconnect"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

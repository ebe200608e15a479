package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store drivers understood by the database package
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// StoreDriver selects the food store backend
	StoreDriver string

	// Postgres configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SQLite configuration
	SQLitePath string

	// Mongo configuration
	MongoURI      string
	MongoDatabase string

	// Redis configuration. Caching and rate limiting are off when neither
	// RedisURL nor RedisHost is set.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Write rate limiting; zero disables it
	RateLimitWrites int
	RateLimitWindow time.Duration
}

// RedisEnabled reports whether a redis connection is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		if err := loadDotEnv(envFile()); err != nil {
			return nil, fmt.Errorf("failed to load environment file: %w", err)
		}
	}

	l := &loader{secrets: env == Production || os.Getenv("SECRETS_DIR") != ""}
	cfg := &Config{
		ServerPort:  l.get("SERVER_PORT", "8080"),
		ServerHost:  l.get("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: splitList(l.get("CORS_ORIGINS", "")),
		LogLevel:    l.get("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(l.get("STORE_DRIVER", StorePostgres)),

		DBHost:     l.get("DB_HOST", "localhost"),
		DBPort:     l.get("DB_PORT", "5432"),
		DBUser:     l.get("DB_USER", "postgres"),
		DBPassword: l.get("DB_PASSWORD", ""),
		DBName:     l.get("DB_NAME", "food"),
		DBSSLMode:  l.get("DB_SSL_MODE", "disable"),

		SQLitePath: l.get("SQLITE_PATH", "food.db"),

		MongoURI:      l.get("MONGO_URI", ""),
		MongoDatabase: l.get("MONGO_DATABASE", "food"),

		RedisURL:      l.get("REDIS_URL", ""),
		RedisHost:     l.get("REDIS_HOST", ""),
		RedisPort:     l.get("REDIS_PORT", "6379"),
		RedisPassword: l.get("REDIS_PASSWORD", ""),
		RedisDB:       l.getInt("REDIS_DB", 0),
		CacheTTL:      l.getDuration("CACHE_TTL", 5*time.Minute),

		RateLimitWrites: l.getInt("RATE_LIMIT_WRITES", 0),
		RateLimitWindow: l.getDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	if len(l.errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration: %w", l.errs)
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func envFile() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// loader resolves one setting at a time: a Docker secret when secrets are
// enabled, then the environment, then the fallback. Parse failures are collected.
type loader struct {
	secrets bool
	errs    ValidationErrors
}

func (l *loader) get(key, fallback string) string {
	if l.secrets {
		if v := readSecret(strings.ToLower(key)); v != "" {
			return v
		}
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (l *loader) getInt(key string, fallback int) int {
	raw := l.get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		l.errs = append(l.errs, ValidationError{Field: key, Message: "must be an integer"})
		return fallback
	}
	return v
}

func (l *loader) getDuration(key string, fallback time.Duration) time.Duration {
	raw := l.get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		l.errs = append(l.errs, ValidationError{Field: key, Message: "must be a duration such as 30s or 5m"})
		return fallback
	}
	return v
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
